package store

import (
	"context"
	"errors"

	"menu/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore 基于 gorm/MySQL 的阻塞式实现
// 每次请求从连接池取出一个会话，请求结束归还（由 database/sql 池保证）
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 实现
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateMenu(ctx context.Context, title, description string) (*models.Menu, error) {
	m := models.Menu{Title: title, Description: description}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) ListMenus(ctx context.Context, skip, limit int) ([]MenuWithCounts, error) {
	var menus []models.Menu
	if err := s.db.WithContext(ctx).Order("id ASC").Offset(skip).Limit(limit).Find(&menus).Error; err != nil {
		return nil, err
	}
	result := make([]MenuWithCounts, 0, len(menus))
	for _, m := range menus {
		counts, err := s.menuCounts(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		counts.Menu = m
		result = append(result, *counts)
	}
	return result, nil
}

func (s *GormStore) GetMenu(ctx context.Context, id uint) (*MenuWithCounts, error) {
	var m models.Menu
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	counts, err := s.menuCounts(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	counts.Menu = m
	return counts, nil
}

// menuCounts 统计菜单的子菜单数量和（跨子菜单汇总的）菜品数量
func (s *GormStore) menuCounts(ctx context.Context, menuID uint) (*MenuWithCounts, error) {
	var out MenuWithCounts
	if err := s.db.WithContext(ctx).Model(&models.SubMenu{}).
		Where("menu_id = ?", menuID).
		Count(&out.SubMenusCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Dish{}).
		Joins("JOIN submenus ON submenus.id = dishes.submenu_id").
		Where("submenus.menu_id = ?", menuID).
		Count(&out.DishesCount).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) UpdateMenu(ctx context.Context, id uint, title, description string) (*models.Menu, error) {
	var m models.Menu
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	updates := map[string]interface{}{"title": title, "description": description}
	if err := s.db.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
		return nil, err
	}
	m.Title = title
	m.Description = description
	return &m, nil
}

func (s *GormStore) DeleteMenu(ctx context.Context, id uint) error {
	var m models.Menu
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuNotFound
		}
		return err
	}
	// 子菜单与菜品由外键级联删除
	return s.db.WithContext(ctx).Delete(&m).Error
}

func (s *GormStore) CreateSubMenu(ctx context.Context, menuID uint, title, description string) (*models.SubMenu, error) {
	var m models.Menu
	if err := s.db.WithContext(ctx).First(&m, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	// 同一菜单下标题唯一
	var existing models.SubMenu
	err := s.db.WithContext(ctx).Where("menu_id = ? AND title = ?", menuID, title).First(&existing).Error
	if err == nil {
		return nil, ErrTitleConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	sm := models.SubMenu{MenuID: menuID, Title: title, Description: description}
	if err := s.db.WithContext(ctx).Create(&sm).Error; err != nil {
		return nil, err
	}
	return &sm, nil
}

func (s *GormStore) ListSubMenus(ctx context.Context, menuID uint, skip, limit int) ([]SubMenuWithCounts, error) {
	var submenus []models.SubMenu
	if err := s.db.WithContext(ctx).Where("menu_id = ?", menuID).
		Order("id ASC").Offset(skip).Limit(limit).Find(&submenus).Error; err != nil {
		return nil, err
	}
	result := make([]SubMenuWithCounts, 0, len(submenus))
	for _, sm := range submenus {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Dish{}).
			Where("submenu_id = ?", sm.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, SubMenuWithCounts{SubMenu: sm, DishesCount: count})
	}
	return result, nil
}

func (s *GormStore) GetSubMenu(ctx context.Context, menuID, id uint) (*SubMenuWithCounts, error) {
	var sm models.SubMenu
	err := s.db.WithContext(ctx).Where("menu_id = ? AND id = ?", menuID, id).First(&sm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubMenuNotFound
		}
		return nil, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Dish{}).
		Where("submenu_id = ?", sm.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	return &SubMenuWithCounts{SubMenu: sm, DishesCount: count}, nil
}

func (s *GormStore) UpdateSubMenu(ctx context.Context, menuID, id uint, title, description string) (*models.SubMenu, error) {
	var sm models.SubMenu
	err := s.db.WithContext(ctx).Where("menu_id = ? AND id = ?", menuID, id).First(&sm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubMenuNotFound
		}
		return nil, err
	}
	updates := map[string]interface{}{"title": title, "description": description}
	if err := s.db.WithContext(ctx).Model(&sm).Updates(updates).Error; err != nil {
		return nil, err
	}
	sm.Title = title
	sm.Description = description
	return &sm, nil
}

func (s *GormStore) DeleteSubMenu(ctx context.Context, menuID, id uint) error {
	var sm models.SubMenu
	err := s.db.WithContext(ctx).Where("menu_id = ? AND id = ?", menuID, id).First(&sm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubMenuNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&sm).Error
}

func (s *GormStore) CreateDish(ctx context.Context, menuID, subMenuID uint, title, description string, price decimal.Decimal) (*models.Dish, error) {
	var sm models.SubMenu
	err := s.db.WithContext(ctx).Where("menu_id = ? AND id = ?", menuID, subMenuID).First(&sm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubMenuNotFound
		}
		return nil, err
	}
	// 同一子菜单下标题唯一
	var existing models.Dish
	err = s.db.WithContext(ctx).Where("submenu_id = ? AND title = ?", subMenuID, title).First(&existing).Error
	if err == nil {
		return nil, ErrTitleConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	d := models.Dish{SubMenuID: subMenuID, Title: title, Description: description, Price: price}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *GormStore) ListDishes(ctx context.Context, subMenuID uint, skip, limit int) ([]models.Dish, error) {
	var dishes []models.Dish
	if err := s.db.WithContext(ctx).Where("submenu_id = ?", subMenuID).
		Order("id ASC").Offset(skip).Limit(limit).Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

func (s *GormStore) GetDish(ctx context.Context, subMenuID, id uint) (*models.Dish, error) {
	var d models.Dish
	err := s.db.WithContext(ctx).Where("submenu_id = ? AND id = ?", subMenuID, id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *GormStore) UpdateDish(ctx context.Context, subMenuID, id uint, title, description string, price decimal.Decimal) (*models.Dish, error) {
	var d models.Dish
	err := s.db.WithContext(ctx).Where("submenu_id = ? AND id = ?", subMenuID, id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	updates := map[string]interface{}{"title": title, "description": description, "price": price}
	if err := s.db.WithContext(ctx).Model(&d).Updates(updates).Error; err != nil {
		return nil, err
	}
	d.Title = title
	d.Description = description
	// 更新路径回显提交的原始价格，不做两位小数处理
	d.Price = price
	return &d, nil
}

func (s *GormStore) DeleteDish(ctx context.Context, subMenuID, id uint) error {
	var d models.Dish
	err := s.db.WithContext(ctx).Where("submenu_id = ? AND id = ?", subMenuID, id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDishNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&d).Error
}

func (s *GormStore) ExportRows(ctx context.Context) ([]ExportRow, error) {
	var menus []models.Menu
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&menus).Error; err != nil {
		return nil, err
	}
	var submenus []models.SubMenu
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&submenus).Error; err != nil {
		return nil, err
	}
	var dishes []models.Dish
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&dishes).Error; err != nil {
		return nil, err
	}
	return buildExportRows(menus, submenus, dishes), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// buildExportRows 把三张表的有序结果组装为扁平化导出行
// 没有菜品的子菜单、没有子菜单的菜单也各占一行
func buildExportRows(menus []models.Menu, submenus []models.SubMenu, dishes []models.Dish) []ExportRow {
	subsByMenu := make(map[uint][]models.SubMenu)
	for _, sm := range submenus {
		subsByMenu[sm.MenuID] = append(subsByMenu[sm.MenuID], sm)
	}
	dishesBySub := make(map[uint][]models.Dish)
	for _, d := range dishes {
		dishesBySub[d.SubMenuID] = append(dishesBySub[d.SubMenuID], d)
	}

	var rows []ExportRow
	for _, m := range menus {
		subs := subsByMenu[m.ID]
		if len(subs) == 0 {
			rows = append(rows, ExportRow{MenuID: m.ID, MenuTitle: m.Title})
			continue
		}
		for _, sm := range subs {
			ds := dishesBySub[sm.ID]
			if len(ds) == 0 {
				rows = append(rows, ExportRow{
					MenuID: m.ID, MenuTitle: m.Title,
					SubMenuID: sm.ID, SubMenuTitle: sm.Title,
				})
				continue
			}
			for _, d := range ds {
				rows = append(rows, ExportRow{
					MenuID: m.ID, MenuTitle: m.Title,
					SubMenuID: sm.ID, SubMenuTitle: sm.Title,
					DishID: d.ID, DishTitle: d.Title,
					DishDescription: d.Description,
					DishPrice:       d.Price,
				})
			}
		}
	}
	return rows
}
