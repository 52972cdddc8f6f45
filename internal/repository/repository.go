package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓储集合
type Repositories struct {
	Blueprint *BlueprintRepository
	Contract  *ContractRepository
}

// NewRepositories 创建仓储集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Blueprint: NewBlueprintRepository(db),
		Contract:  NewContractRepository(db),
	}
}
