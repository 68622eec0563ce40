package store

import (
	"context"
	"errors"

	"menu/models"

	"github.com/shopspring/decimal"
)

// 数据访问层错误类型，由 API 层映射为 404/409
var (
	ErrMenuNotFound    = errors.New("menu not found")
	ErrSubMenuNotFound = errors.New("submenu not found")
	ErrDishNotFound    = errors.New("dish not found")
	ErrTitleConflict   = errors.New("title already exists in this scope")
)

// MenuWithCounts 菜单及其派生统计量
type MenuWithCounts struct {
	models.Menu
	SubMenusCount int64
	DishesCount   int64
}

// SubMenuWithCounts 子菜单及其菜品数量
type SubMenuWithCounts struct {
	models.SubMenu
	DishesCount int64
}

// ExportRow 导出用的扁平化行，一行对应一个菜品
type ExportRow struct {
	MenuID          uint
	MenuTitle       string
	SubMenuID       uint
	SubMenuTitle    string
	DishID          uint
	DishTitle       string
	DishDescription string
	DishPrice       decimal.Decimal
}

// Store 三级层次结构的数据访问抽象
// 同一套处理器既可运行在阻塞的 gorm/MySQL 会话上（GormStore），
// 也可运行在 pgx 连接池上（PgxStore），启动时按配置选择
type Store interface {
	CreateMenu(ctx context.Context, title, description string) (*models.Menu, error)
	ListMenus(ctx context.Context, skip, limit int) ([]MenuWithCounts, error)
	GetMenu(ctx context.Context, id uint) (*MenuWithCounts, error)
	UpdateMenu(ctx context.Context, id uint, title, description string) (*models.Menu, error)
	DeleteMenu(ctx context.Context, id uint) error

	CreateSubMenu(ctx context.Context, menuID uint, title, description string) (*models.SubMenu, error)
	ListSubMenus(ctx context.Context, menuID uint, skip, limit int) ([]SubMenuWithCounts, error)
	GetSubMenu(ctx context.Context, menuID, id uint) (*SubMenuWithCounts, error)
	UpdateSubMenu(ctx context.Context, menuID, id uint, title, description string) (*models.SubMenu, error)
	DeleteSubMenu(ctx context.Context, menuID, id uint) error

	CreateDish(ctx context.Context, menuID, subMenuID uint, title, description string, price decimal.Decimal) (*models.Dish, error)
	ListDishes(ctx context.Context, subMenuID uint, skip, limit int) ([]models.Dish, error)
	GetDish(ctx context.Context, subMenuID, id uint) (*models.Dish, error)
	UpdateDish(ctx context.Context, subMenuID, id uint, title, description string, price decimal.Decimal) (*models.Dish, error)
	DeleteDish(ctx context.Context, subMenuID, id uint) error

	ExportRows(ctx context.Context) ([]ExportRow, error)
	Close() error
}
