package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish 菜品模型，属于且仅属于一个子菜单
// 价格按提交的原始值存储，仅在响应序列化时做两位小数处理
type Dish struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SubMenuID   uint            `json:"submenu_id" gorm:"column:submenu_id;index;not null"`
	Title       string          `json:"title" gorm:"size:100;not null;index"`
	Description string          `json:"description" gorm:"size:255"`
	Price       decimal.Decimal `json:"price" gorm:"type:double;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName 设置表名
func (Dish) TableName() string {
	return "dishes"
}
