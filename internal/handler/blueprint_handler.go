package handler

import (
	"github.com/bitfantasy/nimo-sign/internal/service"
	"github.com/gin-gonic/gin"
)

// BlueprintHandler 合同模板处理器
type BlueprintHandler struct {
	svc       *service.BlueprintService
	dashboard *service.DashboardService
}

// NewBlueprintHandler 创建合同模板处理器
func NewBlueprintHandler(svc *service.BlueprintService, dashboard *service.DashboardService) *BlueprintHandler {
	return &BlueprintHandler{svc: svc, dashboard: dashboard}
}

// List 获取模板列表
func (h *BlueprintHandler) List(c *gin.Context) {
	blueprints, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, blueprints)
}

// Get 获取模板详情
func (h *BlueprintHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Blueprint ID is required")
		return
	}

	blueprint, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, blueprint)
}

// Create 创建模板
func (h *BlueprintHandler) Create(c *gin.Context) {
	var req service.CreateBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	blueprint, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	h.dashboard.InvalidateOverview(c.Request.Context())
	Created(c, blueprint)
}

// Update 更新模板
func (h *BlueprintHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Blueprint ID is required")
		return
	}

	var req service.UpdateBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	blueprint, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, blueprint)
}

// Delete 删除模板
func (h *BlueprintHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Blueprint ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}

	h.dashboard.InvalidateOverview(c.Request.Context())
	Success(c, nil)
}
