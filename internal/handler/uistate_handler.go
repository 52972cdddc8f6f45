package handler

import (
	"github.com/bitfantasy/nimo-sign/internal/viewstate"
	"github.com/gin-gonic/gin"
)

// UIStateHandler 导航状态处理器
type UIStateHandler struct {
	nav *viewstate.State
}

// NewUIStateHandler 创建导航状态处理器
func NewUIStateHandler(nav *viewstate.State) *UIStateHandler {
	return &UIStateHandler{nav: nav}
}

// NavigateRequest 导航请求。blueprint_id 仅对 blueprint-edit 有意义，
// contract_id 仅对 contract-view 有意义
type NavigateRequest struct {
	View        string `json:"view" binding:"required"`
	BlueprintID string `json:"blueprint_id"`
	ContractID  string `json:"contract_id"`
}

// Get 获取当前导航状态
func (h *UIStateHandler) Get(c *gin.Context) {
	Success(c, h.nav.Snapshot())
}

// Navigate 切换视图
func (h *UIStateHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	switch {
	case req.View == viewstate.ViewBlueprintEdit && req.BlueprintID != "":
		h.nav.SelectBlueprint(req.BlueprintID)
	case req.View == viewstate.ViewContractView && req.ContractID != "":
		h.nav.SelectContract(req.ContractID)
	default:
		if err := h.nav.Navigate(req.View); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	Success(c, h.nav.Snapshot())
}
