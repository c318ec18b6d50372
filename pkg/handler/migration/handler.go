/*
 * @Description: 存储迁移相关的管理端 HTTP 处理器
 * @Author: 安知鱼
 * @Date: 2025-09-04 11:30:18
 * @LastEditTime: 2026-02-22 14:40:52
 * @LastEditors: 安知鱼
 */
package migration

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/aurora-app/pkg/constant"
	"github.com/anzhiyu-c/aurora-app/pkg/domain/model"
	"github.com/anzhiyu-c/aurora-app/pkg/response"
	migration_service "github.com/anzhiyu-c/aurora-app/pkg/service/migration"
)

// Handler 持有迁移协调器。
type Handler struct {
	coordinator *migration_service.Coordinator
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(coordinator *migration_service.Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// Migrate 处理单条目迁移请求 (POST /api/admin/migration)
// @Summary      迁移单个条目的正文存储
// @Description  把条目正文从当前后端迁往目标后端；目标写入失败时条目保持原状，可安全重试
// @Tags         存储迁移
// @Accept       json
// @Produce      json
// @Param        body  body  model.MigrateRequest  true  "迁移请求"
// @Success      200  {object}  response.Response  "迁移成功"
// @Failure      404  {object}  response.Response  "条目不存在"
// @Failure      409  {object}  response.Response  "条目当前的存储类型与请求不符"
// @Failure      503  {object}  response.Response  "目标后端不可用"
// @Router       /admin/migration [post]
func (h *Handler) Migrate(c *gin.Context) {
	var req model.MigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	if !req.Type.IsValid() || !req.To.IsValid() {
		response.Fail(c, http.StatusBadRequest, "无效的条目类型或目标存储类型")
		return
	}

	// 指定了 from 时按断言迁移；否则源后端取条目此刻的存储指向
	var err error
	if req.From != "" {
		err = h.coordinator.Migrate(c.Request.Context(), req.ID, req.Type, req.From, req.To)
	} else {
		it := model.MigrateItem{ID: req.ID, Type: req.Type}
		err = h.coordinator.MigrateToTarget(c.Request.Context(), it, req.To)
	}
	if err != nil {
		switch {
		case errors.Is(err, constant.ErrBadRequest):
			response.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, constant.ErrNotFound):
			response.Fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, constant.ErrStorageTypeMismatch):
			response.Fail(c, http.StatusConflict, err.Error())
		case errors.Is(err, constant.ErrBackendUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, err.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, "迁移失败: "+err.Error())
		}
		return
	}
	response.Success(c, nil, "迁移成功")
}

// BatchMigrate 处理批量迁移请求 (POST /api/admin/migration/batch)
// 返回 {success, failed[]} 聚合结果；批内单条失败不会中断整批。
func (h *Handler) BatchMigrate(c *gin.Context) {
	var req model.BatchMigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	if !req.To.IsValid() {
		response.Fail(c, http.StatusBadRequest, "无效的目标存储类型: "+string(req.To))
		return
	}

	result, err := h.coordinator.BatchMigrate(c.Request.Context(), req.Items, req.To, req.BatchSize)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	response.Success(c, result, "批量迁移完成")
}
