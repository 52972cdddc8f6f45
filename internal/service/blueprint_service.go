package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"github.com/bitfantasy/nimo-sign/internal/repository"
	"github.com/google/uuid"
)

// BlueprintService 合同模板服务
type BlueprintService struct {
	repo *repository.BlueprintRepository
}

// NewBlueprintService 创建合同模板服务
func NewBlueprintService(repo *repository.BlueprintRepository) *BlueprintService {
	return &BlueprintService{repo: repo}
}

// FieldInput 模板字段输入。编辑时带ID表示保留原字段，不带ID表示新增
type FieldInput struct {
	ID        string `json:"id"`
	FieldType string `json:"field_type" binding:"required"`
	Label     string `json:"label" binding:"required"`
	PositionX int    `json:"position_x"`
	PositionY int    `json:"position_y"`
}

// CreateBlueprintRequest 创建模板请求
type CreateBlueprintRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Fields      []FieldInput `json:"fields"`
}

// UpdateBlueprintRequest 更新模板请求
type UpdateBlueprintRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Fields      []FieldInput `json:"fields"`
}

// validateFields 校验字段输入：标签非空，类型合法
func validateFields(fields []FieldInput) error {
	for i, f := range fields {
		if strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("%w: field %d label is empty", ErrInvalidInput, i)
		}
		if !entity.IsValidFieldType(f.FieldType) {
			return fmt.Errorf("%w: field %d has unknown type %q", ErrInvalidInput, i, f.FieldType)
		}
	}
	return nil
}

// List 获取模板列表
func (s *BlueprintService) List(ctx context.Context) ([]entity.Blueprint, error) {
	blueprints, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	return blueprints, nil
}

// Get 获取模板详情，字段按 position_y 升序
func (s *BlueprintService) Get(ctx context.Context, id string) (*entity.Blueprint, error) {
	blueprint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find blueprint: %w", err)
	}
	return blueprint, nil
}

// Create 创建模板及其字段
func (s *BlueprintService) Create(ctx context.Context, req *CreateBlueprintRequest) (*entity.Blueprint, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: blueprint name is empty", ErrInvalidInput)
	}
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	now := time.Now()
	blueprint := &entity.Blueprint{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	fields := make([]entity.BlueprintField, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, entity.BlueprintField{
			ID:          uuid.New().String()[:32],
			BlueprintID: blueprint.ID,
			FieldType:   f.FieldType,
			Label:       f.Label,
			PositionX:   f.PositionX,
			PositionY:   f.PositionY,
			CreatedAt:   now,
		})
	}

	if err := s.repo.Create(ctx, blueprint, fields); err != nil {
		return nil, fmt.Errorf("create blueprint: %w", err)
	}

	blueprint.Fields = fields
	return blueprint, nil
}

// Update 更新模板。字段按差异处理：带已有ID的原地更新，
// 新字段插入，缺失的字段删除并清理其合同字段值，保留字段的合同值不受影响
func (s *BlueprintService) Update(ctx context.Context, id string, req *UpdateBlueprintRequest) (*entity.Blueprint, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: blueprint name is empty", ErrInvalidInput)
	}
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find blueprint: %w", err)
	}

	existingIDs := make(map[string]bool, len(existing.Fields))
	for _, f := range existing.Fields {
		existingIDs[f.ID] = true
	}

	now := time.Now()
	var updates, inserts []entity.BlueprintField
	keep := make(map[string]bool, len(req.Fields))
	for _, f := range req.Fields {
		if f.ID != "" && existingIDs[f.ID] {
			keep[f.ID] = true
			updates = append(updates, entity.BlueprintField{
				ID:          f.ID,
				BlueprintID: id,
				FieldType:   f.FieldType,
				Label:       f.Label,
				PositionX:   f.PositionX,
				PositionY:   f.PositionY,
			})
		} else {
			inserts = append(inserts, entity.BlueprintField{
				ID:          uuid.New().String()[:32],
				BlueprintID: id,
				FieldType:   f.FieldType,
				Label:       f.Label,
				PositionX:   f.PositionX,
				PositionY:   f.PositionY,
				CreatedAt:   now,
			})
		}
	}

	var deleteIDs []string
	for _, f := range existing.Fields {
		if !keep[f.ID] {
			deleteIDs = append(deleteIDs, f.ID)
		}
	}

	blueprint := &entity.Blueprint{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.UpdateWithFields(ctx, blueprint, updates, inserts, deleteIDs); err != nil {
		return nil, fmt.Errorf("update blueprint: %w", err)
	}

	return s.repo.FindByID(ctx, id)
}

// Delete 删除模板，级联删除字段及其合同字段值；引用它的合同保留，
// 列表接口通过内连接过滤掉这些合同
func (s *BlueprintService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blueprint: %w", err)
	}
	return nil
}
