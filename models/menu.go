package models

import (
	"time"
)

// Menu 菜单模型（顶级分组）
type Menu struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null;index"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SubMenus    []SubMenu `json:"-" gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Menu) TableName() string {
	return "menus"
}
