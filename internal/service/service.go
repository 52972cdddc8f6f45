package service

import (
	"errors"

	"github.com/bitfantasy/nimo-sign/internal/config"
	"github.com/bitfantasy/nimo-sign/internal/repository"
	"github.com/redis/go-redis/v9"
)

// 服务层错误，处理器据此映射HTTP状态码
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotEditable       = errors.New("contract is not editable")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Services 服务集合
type Services struct {
	Blueprint *BlueprintService
	Contract  *ContractService
	Dashboard *DashboardService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	return &Services{
		Blueprint: NewBlueprintService(repos.Blueprint),
		Contract:  NewContractService(repos.Contract, repos.Blueprint),
		Dashboard: NewDashboardService(repos.Contract, rdb),
	}
}
