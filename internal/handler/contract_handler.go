package handler

import (
	"github.com/bitfantasy/nimo-sign/internal/service"
	"github.com/gin-gonic/gin"
)

// ContractHandler 合同处理器
type ContractHandler struct {
	svc       *service.ContractService
	dashboard *service.DashboardService
}

// NewContractHandler 创建合同处理器
func NewContractHandler(svc *service.ContractService, dashboard *service.DashboardService) *ContractHandler {
	return &ContractHandler{svc: svc, dashboard: dashboard}
}

// List 获取合同列表，filter 为状态分组 (all/active/pending/signed)
func (h *ContractHandler) List(c *gin.Context) {
	filter := c.DefaultQuery("filter", "all")

	contracts, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, contracts)
}

// Get 获取合同详情
func (h *ContractHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Contract ID is required")
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, detail)
}

// Create 创建合同
func (h *ContractHandler) Create(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contract, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	h.dashboard.InvalidateOverview(c.Request.Context())
	Created(c, contract)
}

// UpdateValues 更新合同字段值
func (h *ContractHandler) UpdateValues(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Contract ID is required")
		return
	}

	var req service.UpdateValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.svc.UpdateFieldValues(c.Request.Context(), id, &req); err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, nil)
}

// UpdateStatus 合同状态流转
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Contract ID is required")
		return
	}

	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contract, err := h.svc.Transition(c.Request.Context(), id, req.Status)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	h.dashboard.InvalidateOverview(c.Request.Context())
	Success(c, contract)
}

// Export 导出合同台账 GET /contracts/export
func (h *ContractHandler) Export(c *gin.Context) {
	f, filename, err := h.svc.Export(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
