package entity

import (
	"time"
)

// Contract 合同实例
type Contract struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	BlueprintID string    `json:"blueprint_id" gorm:"size:32;not null;index"`
	Status      string    `json:"status" gorm:"size:16;not null;default:created"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Blueprint   *Blueprint           `json:"blueprint,omitempty" gorm:"foreignKey:BlueprintID"`
	FieldValues []ContractFieldValue `json:"field_values,omitempty" gorm:"foreignKey:ContractID"`
}

func (Contract) TableName() string {
	return "contracts"
}

// ContractFieldValue 合同字段值，每个 (合同, 模板字段) 对应一行
type ContractFieldValue struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	ContractID       string    `json:"contract_id" gorm:"size:32;not null;index"`
	BlueprintFieldID string    `json:"blueprint_field_id" gorm:"size:32;not null;index"`
	Value            string    `json:"value" gorm:"type:text;not null;default:''"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ContractFieldValue) TableName() string {
	return "contract_field_values"
}

// 合同状态常量
const (
	ContractStatusCreated  = "created"
	ContractStatusApproved = "approved"
	ContractStatusSent     = "sent"
	ContractStatusSigned   = "signed"
	ContractStatusLocked   = "locked"
	ContractStatusRevoked  = "revoked"
)

// statusFlow 合同状态流转表：当前状态 -> 允许的目标状态
// locked 和 revoked 为终态，不允许任何流转
var statusFlow = map[string][]string{
	ContractStatusCreated:  {ContractStatusApproved, ContractStatusRevoked},
	ContractStatusApproved: {ContractStatusSent, ContractStatusRevoked},
	ContractStatusSent:     {ContractStatusSigned, ContractStatusRevoked},
	ContractStatusSigned:   {ContractStatusLocked},
	ContractStatusLocked:   {},
	ContractStatusRevoked:  {},
}

// statusLabels 合同状态展示名
var statusLabels = map[string]string{
	ContractStatusCreated:  "Created",
	ContractStatusApproved: "Approved",
	ContractStatusSent:     "Sent",
	ContractStatusSigned:   "Signed",
	ContractStatusLocked:   "Locked",
	ContractStatusRevoked:  "Revoked",
}

// IsValidStatus 判断状态值是否合法
func IsValidStatus(status string) bool {
	_, ok := statusFlow[status]
	return ok
}

// CanTransition 判断状态能否从 from 单步流转到 to
// 纯函数，不做任何持久化，由调用方负责落库
func CanTransition(from, to string) bool {
	for _, next := range statusFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses 返回 from 状态允许流转到的目标状态列表，终态返回空切片
func NextStatuses(from string) []string {
	next := statusFlow[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsTerminalStatus 判断是否为终态
func IsTerminalStatus(status string) bool {
	return IsValidStatus(status) && len(statusFlow[status]) == 0
}

// StatusLabel 返回状态展示名，未知状态原样返回
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Editable 合同字段值是否可编辑：locked 和 revoked 状态下禁止编辑
func (c *Contract) Editable() bool {
	return c.Status != ContractStatusLocked && c.Status != ContractStatusRevoked
}

// 合同状态分组，与看板的筛选项一致
var (
	StatusGroupAll     = []string{ContractStatusCreated, ContractStatusApproved, ContractStatusSent, ContractStatusSigned, ContractStatusLocked, ContractStatusRevoked}
	StatusGroupActive  = []string{ContractStatusCreated, ContractStatusApproved}
	StatusGroupPending = []string{ContractStatusSent}
	StatusGroupSigned  = []string{ContractStatusSigned, ContractStatusLocked}
)

// StatusGroup 返回分组名对应的状态集合，未知分组返回 nil
func StatusGroup(name string) []string {
	switch name {
	case "all":
		return StatusGroupAll
	case "active":
		return StatusGroupActive
	case "pending":
		return StatusGroupPending
	case "signed":
		return StatusGroupSigned
	default:
		return nil
	}
}
