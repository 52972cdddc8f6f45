package entity

import (
	"time"
)

// Blueprint 合同模板
type Blueprint struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Fields []BlueprintField `json:"fields,omitempty" gorm:"foreignKey:BlueprintID"`
}

func (Blueprint) TableName() string {
	return "blueprints"
}

// BlueprintField 模板字段
type BlueprintField struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	BlueprintID string    `json:"blueprint_id" gorm:"size:32;not null;index"`
	FieldType   string    `json:"field_type" gorm:"size:16;not null"`
	Label       string    `json:"label" gorm:"size:256;not null"`
	PositionX   int       `json:"position_x" gorm:"not null;default:0"`
	PositionY   int       `json:"position_y" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
}

func (BlueprintField) TableName() string {
	return "blueprint_fields"
}

// 字段类型常量
const (
	FieldTypeText      = "text"
	FieldTypeDate      = "date"
	FieldTypeSignature = "signature"
	FieldTypeCheckbox  = "checkbox"
)

// validFieldTypes 合法字段类型集合
var validFieldTypes = map[string]bool{
	FieldTypeText:      true,
	FieldTypeDate:      true,
	FieldTypeSignature: true,
	FieldTypeCheckbox:  true,
}

// IsValidFieldType 判断字段类型是否合法
func IsValidFieldType(t string) bool {
	return validFieldTypes[t]
}

// DefaultFieldValue 返回字段类型的默认值，复选框为 "false"，其余为空字符串
func DefaultFieldValue(fieldType string) string {
	if fieldType == FieldTypeCheckbox {
		return "false"
	}
	return ""
}
