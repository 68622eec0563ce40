package models

import (
	"time"
)

// SubMenu 子菜单模型，属于且仅属于一个菜单
type SubMenu struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MenuID      uint      `json:"menu_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:100;not null;index"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Dishes      []Dish    `json:"-" gorm:"foreignKey:SubMenuID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (SubMenu) TableName() string {
	return "submenus"
}
