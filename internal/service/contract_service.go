package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"github.com/bitfantasy/nimo-sign/internal/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ContractService 合同服务
type ContractService struct {
	contractRepo  *repository.ContractRepository
	blueprintRepo *repository.BlueprintRepository
}

// NewContractService 创建合同服务
func NewContractService(contractRepo *repository.ContractRepository, blueprintRepo *repository.BlueprintRepository) *ContractService {
	return &ContractService{
		contractRepo:  contractRepo,
		blueprintRepo: blueprintRepo,
	}
}

// CreateContractRequest 创建合同请求
type CreateContractRequest struct {
	Name        string            `json:"name" binding:"required"`
	BlueprintID string            `json:"blueprint_id" binding:"required"`
	Values      map[string]string `json:"values"`
}

// UpdateValuesRequest 更新合同字段值请求
type UpdateValuesRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// TransitionRequest 状态流转请求
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// ContractDetail 合同详情：合同、模板、有序字段和字段值映射
type ContractDetail struct {
	Contract     *entity.Contract        `json:"contract"`
	Blueprint    *entity.Blueprint       `json:"blueprint"`
	Fields       []entity.BlueprintField `json:"fields"`
	Values       map[string]string       `json:"values"`
	Editable     bool                    `json:"editable"`
	NextStatuses []string                `json:"next_statuses"`
}

// List 获取合同列表。filter 为状态分组名 (all/active/pending/signed)，
// 空串等同 all；模板已删除的合同被内连接过滤掉
func (s *ContractService) List(ctx context.Context, filter string) ([]entity.Contract, error) {
	var statuses []string
	if filter != "" && filter != "all" {
		statuses = entity.StatusGroup(filter)
		if statuses == nil {
			return nil, fmt.Errorf("%w: unknown status filter %q", ErrInvalidInput, filter)
		}
	}

	contracts, err := s.contractRepo.List(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

// Get 获取合同详情
func (s *ContractService) Get(ctx context.Context, id string) (*ContractDetail, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find contract: %w", err)
	}

	values := make(map[string]string, len(contract.FieldValues))
	for _, v := range contract.FieldValues {
		values[v.BlueprintFieldID] = v.Value
	}

	detail := &ContractDetail{
		Contract:     contract,
		Blueprint:    contract.Blueprint,
		Values:       values,
		Editable:     contract.Editable(),
		NextStatuses: entity.NextStatuses(contract.Status),
	}
	if contract.Blueprint != nil {
		detail.Fields = contract.Blueprint.Fields
	}
	return detail, nil
}

// Create 创建合同。初始状态 created；每个模板字段写入一行字段值，
// 未提供的值取类型默认值（复选框 "false"，其余空串）
func (s *ContractService) Create(ctx context.Context, req *CreateContractRequest) (*entity.Contract, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: contract name is empty", ErrInvalidInput)
	}

	blueprint, err := s.blueprintRepo.FindByID(ctx, req.BlueprintID)
	if err != nil {
		return nil, fmt.Errorf("find blueprint: %w", err)
	}

	fieldIDs := make(map[string]bool, len(blueprint.Fields))
	for _, f := range blueprint.Fields {
		fieldIDs[f.ID] = true
	}
	for fieldID := range req.Values {
		if !fieldIDs[fieldID] {
			return nil, fmt.Errorf("%w: value for unknown field %q", ErrInvalidInput, fieldID)
		}
	}

	now := time.Now()
	contract := &entity.Contract{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		BlueprintID: blueprint.ID,
		Status:      entity.ContractStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	values := make([]entity.ContractFieldValue, 0, len(blueprint.Fields))
	for _, f := range blueprint.Fields {
		value, ok := req.Values[f.ID]
		if !ok {
			value = entity.DefaultFieldValue(f.FieldType)
		}
		values = append(values, entity.ContractFieldValue{
			ID:               uuid.New().String()[:32],
			ContractID:       contract.ID,
			BlueprintFieldID: f.ID,
			Value:            value,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	if err := s.contractRepo.CreateWithValues(ctx, contract, values); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}

	contract.Blueprint = blueprint
	contract.FieldValues = values
	return contract, nil
}

// UpdateFieldValues 更新合同字段值。locked/revoked 状态下拒绝，不触碰任何行
func (s *ContractService) UpdateFieldValues(ctx context.Context, id string, req *UpdateValuesRequest) error {
	if len(req.Values) == 0 {
		return fmt.Errorf("%w: no values provided", ErrInvalidInput)
	}

	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find contract: %w", err)
	}

	if !contract.Editable() {
		return fmt.Errorf("%w: contract status is %s", ErrNotEditable, contract.Status)
	}

	valueFieldIDs := make(map[string]bool, len(contract.FieldValues))
	for _, v := range contract.FieldValues {
		valueFieldIDs[v.BlueprintFieldID] = true
	}
	for fieldID := range req.Values {
		if !valueFieldIDs[fieldID] {
			return fmt.Errorf("%w: value for unknown field %q", ErrInvalidInput, fieldID)
		}
	}

	if err := s.contractRepo.UpdateFieldValues(ctx, id, req.Values); err != nil {
		return fmt.Errorf("update field values: %w", err)
	}
	return nil
}

// Transition 合同状态流转。只允许流转表中的单步流转，
// 成功时仅更新 status 和 updated_at
func (s *ContractService) Transition(ctx context.Context, id string, requested string) (*entity.Contract, error) {
	if !entity.IsValidStatus(requested) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, requested)
	}

	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find contract: %w", err)
	}

	if !entity.CanTransition(contract.Status, requested) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, contract.Status, requested)
	}

	if err := s.contractRepo.UpdateStatus(ctx, id, requested); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	return s.contractRepo.FindByID(ctx, id)
}

// contractExportHeaders 合同导出表头
var contractExportHeaders = []string{"Contract Name", "Blueprint", "Status", "Created At", "Updated At"}

// Export 导出合同台账为Excel
func (s *ContractService) Export(ctx context.Context) (*excelize.File, string, error) {
	contracts, err := s.contractRepo.List(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("list contracts: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Contracts"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range contractExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for i, contract := range contracts {
		row := i + 2
		blueprintName := ""
		if contract.Blueprint != nil {
			blueprintName = contract.Blueprint.Name
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), contract.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), blueprintName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entity.StatusLabel(contract.Status))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), contract.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), contract.UpdatedAt.Format("2006-01-02 15:04"))
	}

	filename := fmt.Sprintf("contracts-%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
