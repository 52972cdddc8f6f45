package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"github.com/bitfantasy/nimo-sign/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	overviewCacheKey = "nimo-sign:dashboard:overview"
	overviewCacheTTL = 30 * time.Second
	recentLimit      = 5
)

// DashboardService 看板服务
type DashboardService struct {
	contractRepo *repository.ContractRepository
	rdb          *redis.Client
}

// NewDashboardService 创建看板服务
func NewDashboardService(contractRepo *repository.ContractRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{contractRepo: contractRepo, rdb: rdb}
}

// Overview 看板总览
type Overview struct {
	TotalContracts  int64             `json:"total_contracts"`
	TotalBlueprints int64             `json:"total_blueprints"`
	StatusCounts    map[string]int64  `json:"status_counts"`
	GroupCounts     map[string]int64  `json:"group_counts"`
	Recent          []entity.Contract `json:"recent"`
}

// GetOverview 获取看板总览。结果在redis中短暂缓存，缓存不可用时直接查库
func (s *DashboardService) GetOverview(ctx context.Context) (*Overview, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, overviewCacheKey).Bytes(); err == nil {
			var overview Overview
			if err := json.Unmarshal(cached, &overview); err == nil {
				return &overview, nil
			}
		}
	}

	statusCounts, err := s.contractRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contracts: %w", err)
	}

	blueprintCount, err := s.contractRepo.CountBlueprints(ctx)
	if err != nil {
		return nil, fmt.Errorf("count blueprints: %w", err)
	}

	recent, err := s.contractRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent contracts: %w", err)
	}

	overview := &Overview{
		StatusCounts:    statusCounts,
		TotalBlueprints: blueprintCount,
		Recent:          recent,
		GroupCounts:     make(map[string]int64, 4),
	}
	for _, count := range statusCounts {
		overview.TotalContracts += count
	}

	// 与看板筛选项相同的状态分组
	groups := map[string][]string{
		"all":     entity.StatusGroupAll,
		"active":  entity.StatusGroupActive,
		"pending": entity.StatusGroupPending,
		"signed":  entity.StatusGroupSigned,
	}
	for name, statuses := range groups {
		var total int64
		for _, status := range statuses {
			total += statusCounts[status]
		}
		overview.GroupCounts[name] = total
	}

	if s.rdb != nil {
		if data, err := json.Marshal(overview); err == nil {
			s.rdb.Set(ctx, overviewCacheKey, data, overviewCacheTTL)
		}
	}

	return overview, nil
}

// InvalidateOverview 清除看板缓存，合同或模板写操作后调用
func (s *DashboardService) InvalidateOverview(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, overviewCacheKey)
	}
}
