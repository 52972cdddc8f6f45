package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"gorm.io/gorm"
)

// BlueprintRepository 合同模板仓储
type BlueprintRepository struct {
	db *gorm.DB
}

// NewBlueprintRepository 创建合同模板仓储
func NewBlueprintRepository(db *gorm.DB) *BlueprintRepository {
	return &BlueprintRepository{db: db}
}

// List 获取模板列表，按创建时间倒序
func (r *BlueprintRepository) List(ctx context.Context) ([]entity.Blueprint, error) {
	var blueprints []entity.Blueprint
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&blueprints).Error
	if err != nil {
		return nil, err
	}
	return blueprints, nil
}

// FindByID 根据ID查找模板，字段按 position_y 升序
func (r *BlueprintRepository) FindByID(ctx context.Context, id string) (*entity.Blueprint, error) {
	var blueprint entity.Blueprint
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position_y ASC")
		}).
		Where("id = ?", id).
		First(&blueprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &blueprint, nil
}

// ListFields 获取模板字段，按 position_y 升序
func (r *BlueprintRepository) ListFields(ctx context.Context, blueprintID string) ([]entity.BlueprintField, error) {
	var fields []entity.BlueprintField
	err := r.db.WithContext(ctx).
		Where("blueprint_id = ?", blueprintID).
		Order("position_y ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Create 创建模板及其字段，单事务写入
func (r *BlueprintRepository) Create(ctx context.Context, blueprint *entity.Blueprint, fields []entity.BlueprintField) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blueprint).Error; err != nil {
			return err
		}
		for i := range fields {
			if err := tx.Create(&fields[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateWithFields 更新模板并按差异维护字段：
// updates 原地更新保留字段ID，inserts 新增，deleteIDs 删除并级联清理对应的合同字段值
func (r *BlueprintRepository) UpdateWithFields(ctx context.Context, blueprint *entity.Blueprint, updates, inserts []entity.BlueprintField, deleteIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&entity.Blueprint{}).
			Where("id = ?", blueprint.ID).
			Updates(map[string]interface{}{
				"name":        blueprint.Name,
				"description": blueprint.Description,
				"updated_at":  now,
			}).Error; err != nil {
			return err
		}

		for i := range updates {
			f := &updates[i]
			if err := tx.Model(&entity.BlueprintField{}).
				Where("id = ? AND blueprint_id = ?", f.ID, blueprint.ID).
				Updates(map[string]interface{}{
					"field_type": f.FieldType,
					"label":      f.Label,
					"position_x": f.PositionX,
					"position_y": f.PositionY,
				}).Error; err != nil {
				return err
			}
		}

		for i := range inserts {
			if err := tx.Create(&inserts[i]).Error; err != nil {
				return err
			}
		}

		if len(deleteIDs) > 0 {
			if err := tx.Where("blueprint_field_id IN ?", deleteIDs).
				Delete(&entity.ContractFieldValue{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ? AND blueprint_id = ?", deleteIDs, blueprint.ID).
				Delete(&entity.BlueprintField{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete 删除模板，级联删除其字段和这些字段的合同字段值；合同本身保留
func (r *BlueprintRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fieldIDs []string
		if err := tx.Model(&entity.BlueprintField{}).
			Where("blueprint_id = ?", id).
			Pluck("id", &fieldIDs).Error; err != nil {
			return err
		}

		if len(fieldIDs) > 0 {
			if err := tx.Where("blueprint_field_id IN ?", fieldIDs).
				Delete(&entity.ContractFieldValue{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("blueprint_id = ?", id).
			Delete(&entity.BlueprintField{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&entity.Blueprint{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
