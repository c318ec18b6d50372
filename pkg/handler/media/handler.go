/*
 * @Description: 媒体资源相关的 HTTP 处理器
 * @Author: 安知鱼
 * @Date: 2025-09-04 10:30:27
 * @LastEditTime: 2026-02-22 14:05:18
 * @LastEditors: 安知鱼
 */
package media

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/response"
	media_service "github.com/anzhiyu-c/aurora-app/pkg/service/media"
)

// MediaHandler 持有媒体相关的业务服务。
type MediaHandler struct {
	mediaSvc media_service.IMediaService
}

// NewMediaHandler 是 MediaHandler 的构造函数。
func NewMediaHandler(mediaSvc media_service.IMediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// Upload 处理媒体上传请求 (POST /api/media/upload)
// @Summary      上传媒体文件
// @Description  接收 multipart 文件，执行校验、优化与持久化，返回公开的媒体元数据
// @Tags         媒体管理
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "图片文件"
// @Success      200  {object}  response.Response  "上传成功"
// @Failure      400  {object}  response.Response  "校验失败"
// @Failure      422  {object}  response.Response  "图片无法解码"
// @Router       /media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "请求中缺少文件: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无法打开上传的文件: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "读取上传文件失败: "+err.Error())
		return
	}

	input := &media_service.UploadInput{
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Data:         data,
	}

	asset, err := h.mediaSvc.Ingest(c.Request.Context(), input)
	if err != nil {
		var validationErr *constant.ValidationError
		if errors.As(err, &validationErr) {
			response.FailWithData(c, http.StatusBadRequest, validationErr.Rules, "上传校验失败")
		} else if errors.Is(err, constant.ErrDecode) {
			response.Fail(c, http.StatusUnprocessableEntity, "上传失败: "+err.Error())
		} else {
			response.Fail(c, http.StatusInternalServerError, "上传失败: "+err.Error())
		}
		return
	}
	response.Success(c, model.NewMediaAssetResponse(asset), "上传成功")
}

// List 处理媒体列表查询 (GET /api/media)
func (h *MediaHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.mediaSvc.List(c.Request.Context(), &model.ListMediaOptions{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "查询媒体列表失败: "+err.Error())
		return
	}
	response.Success(c, result, "查询成功")
}

// Get 处理单条媒体查询 (GET /api/media/:id)
func (h *MediaHandler) Get(c *gin.Context) {
	asset, err := h.mediaSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, err.Error())
		} else {
			response.Fail(c, http.StatusInternalServerError, "查询媒体记录失败: "+err.Error())
		}
		return
	}
	response.Success(c, model.NewMediaAssetResponse(asset), "查询成功")
}

// UpdateAlt 处理媒体描述更新 (PUT /api/media/:id/alt)
func (h *MediaHandler) UpdateAlt(c *gin.Context) {
	var req model.UpdateMediaAltRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	asset, err := h.mediaSvc.UpdateAlt(c.Request.Context(), c.Param("id"), req.Alt)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, err.Error())
		} else {
			response.Fail(c, http.StatusInternalServerError, "更新媒体描述失败: "+err.Error())
		}
		return
	}
	response.Success(c, model.NewMediaAssetResponse(asset), "更新成功")
}

// Delete 处理媒体删除 (DELETE /api/media/:id)
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.mediaSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, err.Error())
		} else {
			response.Fail(c, http.StatusInternalServerError, "删除媒体记录失败: "+err.Error())
		}
		return
	}
	response.Success(c, nil, "删除成功")
}

// Serve 流式输出媒体载荷 (GET /api/media/:id/serve)
// 内联资源直接解码输出；对象存储资源重定向到外部地址。
func (h *MediaHandler) Serve(c *gin.Context) {
	thumbnail := c.Query("thumb") == "1"

	result, err := h.mediaSvc.Serve(c.Request.Context(), c.Param("id"), thumbnail)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, err.Error())
		} else {
			response.Fail(c, http.StatusInternalServerError, "读取媒体载荷失败: "+err.Error())
		}
		return
	}

	if result.RedirectURL != "" {
		c.Redirect(http.StatusFound, result.RedirectURL)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, result.MimeType, result.Data)
}
