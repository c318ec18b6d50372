/*
 * @Description: 内容正文存取相关的 HTTP 处理器
 * @Author: 安知鱼
 * @Date: 2025-09-04 11:02:44
 * @LastEditTime: 2026-02-22 14:22:30
 * @LastEditors: 安知鱼
 */
package content

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/response"
	content_service "github.com/anzhiyu-c/aurora-app/pkg/service/content"
)

// Handler 持有内容存储服务。
type Handler struct {
	contentSvc content_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(contentSvc content_service.Service) *Handler {
	return &Handler{contentSvc: contentSvc}
}

// parseContentType 解析路径中的条目类型。
func parseContentType(c *gin.Context) (constant.ContentType, bool) {
	contentType := constant.ContentType(c.Param("type"))
	if !contentType.IsValid() {
		response.Fail(c, http.StatusBadRequest, "无效的内容条目类型: "+c.Param("type"))
		return "", false
	}
	return contentType, true
}

// Save 处理正文保存请求 (PUT /api/content/:type/:id)
// @Summary      保存内容正文
// @Description  校验后把正文写入条目当前选定的存储后端；校验失败返回全部违反的规则
// @Tags         内容存储
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response  "保存成功（可能携带软警告）"
// @Failure      400  {object}  response.Response  "校验失败"
// @Failure      404  {object}  response.Response  "条目不存在"
// @Failure      503  {object}  response.Response  "存储后端不可用"
// @Router       /content/{type}/{id} [put]
func (h *Handler) Save(c *gin.Context) {
	contentType, ok := parseContentType(c)
	if !ok {
		return
	}

	var req model.SaveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.contentSvc.Save(c.Request.Context(), c.Param("id"), contentType, req.Body)
	if err != nil {
		var validationErr *constant.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.FailWithData(c, http.StatusBadRequest, validationErr.Rules, "内容校验失败")
		case errors.Is(err, constant.ErrNotFound):
			response.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, constant.ErrBackendUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, err.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, "保存失败: "+err.Error())
		}
		return
	}

	response.Success(c, &model.ContentItemResponse{
		ID:       c.Param("id"),
		Type:     string(contentType),
		Warnings: result.Warnings,
	}, "保存成功")
}

// Get 处理正文读取请求 (GET /api/content/:type/:id)
// 成功时直接返回原始正文文本。
func (h *Handler) Get(c *gin.Context) {
	contentType, ok := parseContentType(c)
	if !ok {
		return
	}

	body, err := h.contentSvc.Get(c.Request.Context(), c.Param("id"), contentType)
	if err != nil {
		switch {
		case errors.Is(err, constant.ErrNotFound):
			response.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, constant.ErrStorageTypeMismatch), errors.Is(err, constant.ErrEmptyContent):
			// 内部一致性问题，与"不存在"严格区分
			response.Fail(c, http.StatusInternalServerError, "内部存储状态异常: "+err.Error())
		case errors.Is(err, constant.ErrBackendUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, err.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, "读取失败: "+err.Error())
		}
		return
	}
	c.String(http.StatusOK, body)
}
