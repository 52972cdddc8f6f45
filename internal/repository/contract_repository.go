package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"gorm.io/gorm"
)

// ContractRepository 合同仓储
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository 创建合同仓储
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// List 获取合同列表，按创建时间倒序。
// 内连接 blueprints：模板已被删除的合同直接从结果中过滤掉。
// statuses 非空时按状态集合过滤。
func (r *ContractRepository) List(ctx context.Context, statuses []string) ([]entity.Contract, error) {
	var contracts []entity.Contract
	query := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Joins("JOIN blueprints ON blueprints.id = contracts.blueprint_id")

	if len(statuses) > 0 {
		query = query.Where("contracts.status IN ?", statuses)
	}

	err := query.
		Preload("Blueprint").
		Order("contracts.created_at DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// ListRecent 获取最近创建的合同，同样应用内连接过滤
func (r *ContractRepository) ListRecent(ctx context.Context, limit int) ([]entity.Contract, error) {
	var contracts []entity.Contract
	err := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Joins("JOIN blueprints ON blueprints.id = contracts.blueprint_id").
		Preload("Blueprint").
		Order("contracts.created_at DESC").
		Limit(limit).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// FindByID 根据ID查找合同，带模板、模板字段（按 position_y 升序）和字段值
func (r *ContractRepository) FindByID(ctx context.Context, id string) (*entity.Contract, error) {
	var contract entity.Contract
	err := r.db.WithContext(ctx).
		Preload("Blueprint").
		Preload("Blueprint.Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position_y ASC")
		}).
		Preload("FieldValues").
		Where("id = ?", id).
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// CreateWithValues 创建合同及其初始字段值，单事务写入
func (r *ContractRepository) CreateWithValues(ctx context.Context, contract *entity.Contract, values []entity.ContractFieldValue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}
		for i := range values {
			if err := tx.Create(&values[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateFieldValues 批量更新合同字段值，单事务写入
func (r *ContractRepository) UpdateFieldValues(ctx context.Context, contractID string, values map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for fieldID, value := range values {
			result := tx.Model(&entity.ContractFieldValue{}).
				Where("contract_id = ? AND blueprint_field_id = ?", contractID, fieldID).
				Updates(map[string]interface{}{
					"value":      value,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

// UpdateStatus 更新合同状态，只触碰 status 和 updated_at
func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus 按状态统计合同数量，同样应用内连接过滤
func (r *ContractRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Select("contracts.status AS status, COUNT(*) AS count").
		Joins("JOIN blueprints ON blueprints.id = contracts.blueprint_id").
		Group("contracts.status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountBlueprints 统计模板数量
func (r *ContractRepository) CountBlueprints(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Blueprint{}).Count(&count).Error
	return count, err
}
