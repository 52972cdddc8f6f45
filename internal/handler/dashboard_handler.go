package handler

import (
	"github.com/bitfantasy/nimo-sign/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 看板处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

// NewDashboardHandler 创建看板处理器
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Overview 获取看板总览
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.svc.GetOverview(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, overview)
}
