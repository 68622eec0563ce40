package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"menu/config"
	"menu/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// 把建表语句嵌入二进制，启动时直接应用，不依赖工作目录
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// pgxPool 抽象出实现用到的连接池方法，测试中用模拟池替换
type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PgxStore 基于 pgx 连接池的 Postgres 实现
// 每次调用从池中取连接，调用结束归还，行为与 gorm 实现一致
type PgxStore struct {
	pool pgxPool
}

// NewPgxStore 创建 Postgres 连接池并应用嵌入的迁移
func NewPgxStore(ctx context.Context, cfg *config.Config) (*PgxStore, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("创建连接池失败: %w", err)
	}
	s := &PgxStore{pool: pool}
	if err := s.applyMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PgxStore) applyMigrations(ctx context.Context) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("列出迁移文件失败: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("读取迁移 %s 失败: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("应用迁移 %s 失败: %w", name, err)
		}
	}
	return nil
}

func (s *PgxStore) CreateMenu(ctx context.Context, title, description string) (*models.Menu, error) {
	m := models.Menu{Title: title, Description: description}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO menus (title, description)
		VALUES ($1, $2)
		RETURNING id`,
		title, description,
	).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PgxStore) ListMenus(ctx context.Context, skip, limit int) ([]MenuWithCounts, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.title, m.description,
		       (SELECT COUNT(*) FROM submenus sm WHERE sm.menu_id = m.id),
		       (SELECT COUNT(*) FROM dishes d
		          JOIN submenus sm ON sm.id = d.submenu_id
		         WHERE sm.menu_id = m.id)
		FROM menus m
		ORDER BY m.id
		OFFSET $1 LIMIT $2`,
		skip, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]MenuWithCounts, 0)
	for rows.Next() {
		var mc MenuWithCounts
		if err := rows.Scan(&mc.ID, &mc.Title, &mc.Description, &mc.SubMenusCount, &mc.DishesCount); err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, rows.Err()
}

func (s *PgxStore) GetMenu(ctx context.Context, id uint) (*MenuWithCounts, error) {
	var mc MenuWithCounts
	err := s.pool.QueryRow(ctx, `
		SELECT m.id, m.title, m.description,
		       (SELECT COUNT(*) FROM submenus sm WHERE sm.menu_id = m.id),
		       (SELECT COUNT(*) FROM dishes d
		          JOIN submenus sm ON sm.id = d.submenu_id
		         WHERE sm.menu_id = m.id)
		FROM menus m
		WHERE m.id = $1`,
		id,
	).Scan(&mc.ID, &mc.Title, &mc.Description, &mc.SubMenusCount, &mc.DishesCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return &mc, nil
}

func (s *PgxStore) UpdateMenu(ctx context.Context, id uint, title, description string) (*models.Menu, error) {
	m := models.Menu{ID: id, Title: title, Description: description}
	tag, err := s.pool.Exec(ctx, `
		UPDATE menus SET title = $1, description = $2, updated_at = now()
		WHERE id = $3`,
		title, description, id,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrMenuNotFound
	}
	return &m, nil
}

func (s *PgxStore) DeleteMenu(ctx context.Context, id uint) error {
	// 子菜单与菜品由外键级联删除
	tag, err := s.pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuNotFound
	}
	return nil
}

func (s *PgxStore) CreateSubMenu(ctx context.Context, menuID uint, title, description string) (*models.SubMenu, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM menus WHERE id = $1)`, menuID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrMenuNotFound
	}
	// 同一菜单下标题唯一
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submenus WHERE menu_id = $1 AND title = $2)`,
		menuID, title,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTitleConflict
	}
	sm := models.SubMenu{MenuID: menuID, Title: title, Description: description}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO submenus (menu_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		menuID, title, description,
	).Scan(&sm.ID)
	if err != nil {
		return nil, err
	}
	return &sm, nil
}

func (s *PgxStore) ListSubMenus(ctx context.Context, menuID uint, skip, limit int) ([]SubMenuWithCounts, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sm.id, sm.menu_id, sm.title, sm.description,
		       (SELECT COUNT(*) FROM dishes d WHERE d.submenu_id = sm.id)
		FROM submenus sm
		WHERE sm.menu_id = $1
		ORDER BY sm.id
		OFFSET $2 LIMIT $3`,
		menuID, skip, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]SubMenuWithCounts, 0)
	for rows.Next() {
		var sc SubMenuWithCounts
		if err := rows.Scan(&sc.ID, &sc.MenuID, &sc.Title, &sc.Description, &sc.DishesCount); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (s *PgxStore) GetSubMenu(ctx context.Context, menuID, id uint) (*SubMenuWithCounts, error) {
	var sc SubMenuWithCounts
	err := s.pool.QueryRow(ctx, `
		SELECT sm.id, sm.menu_id, sm.title, sm.description,
		       (SELECT COUNT(*) FROM dishes d WHERE d.submenu_id = sm.id)
		FROM submenus sm
		WHERE sm.menu_id = $1 AND sm.id = $2`,
		menuID, id,
	).Scan(&sc.ID, &sc.MenuID, &sc.Title, &sc.Description, &sc.DishesCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubMenuNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func (s *PgxStore) UpdateSubMenu(ctx context.Context, menuID, id uint, title, description string) (*models.SubMenu, error) {
	sm := models.SubMenu{ID: id, MenuID: menuID, Title: title, Description: description}
	tag, err := s.pool.Exec(ctx, `
		UPDATE submenus SET title = $1, description = $2, updated_at = now()
		WHERE menu_id = $3 AND id = $4`,
		title, description, menuID, id,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrSubMenuNotFound
	}
	return &sm, nil
}

func (s *PgxStore) DeleteSubMenu(ctx context.Context, menuID, id uint) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM submenus WHERE menu_id = $1 AND id = $2`, menuID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubMenuNotFound
	}
	return nil
}

func (s *PgxStore) CreateDish(ctx context.Context, menuID, subMenuID uint, title, description string, price decimal.Decimal) (*models.Dish, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submenus WHERE menu_id = $1 AND id = $2)`,
		menuID, subMenuID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSubMenuNotFound
	}
	// 同一子菜单下标题唯一
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM dishes WHERE submenu_id = $1 AND title = $2)`,
		subMenuID, title,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTitleConflict
	}
	d := models.Dish{SubMenuID: subMenuID, Title: title, Description: description, Price: price}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO dishes (submenu_id, title, description, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		subMenuID, title, description, price.InexactFloat64(),
	).Scan(&d.ID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PgxStore) ListDishes(ctx context.Context, subMenuID uint, skip, limit int) ([]models.Dish, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, submenu_id, title, description, price
		FROM dishes
		WHERE submenu_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`,
		subMenuID, skip, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := make([]models.Dish, 0)
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

func (s *PgxStore) GetDish(ctx context.Context, subMenuID, id uint) (*models.Dish, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, submenu_id, title, description, price
		FROM dishes
		WHERE submenu_id = $1 AND id = $2`,
		subMenuID, id,
	)
	d, err := scanDish(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *PgxStore) UpdateDish(ctx context.Context, subMenuID, id uint, title, description string, price decimal.Decimal) (*models.Dish, error) {
	d := models.Dish{ID: id, SubMenuID: subMenuID, Title: title, Description: description, Price: price}
	tag, err := s.pool.Exec(ctx, `
		UPDATE dishes SET title = $1, description = $2, price = $3, updated_at = now()
		WHERE submenu_id = $4 AND id = $5`,
		title, description, price.InexactFloat64(), subMenuID, id,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrDishNotFound
	}
	return &d, nil
}

func (s *PgxStore) DeleteDish(ctx context.Context, subMenuID, id uint) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM dishes WHERE submenu_id = $1 AND id = $2`, subMenuID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDishNotFound
	}
	return nil
}

func (s *PgxStore) ExportRows(ctx context.Context) ([]ExportRow, error) {
	var menus []models.Menu
	rows, err := s.pool.Query(ctx, `SELECT id, title, description FROM menus ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.ID, &m.Title, &m.Description); err != nil {
			rows.Close()
			return nil, err
		}
		menus = append(menus, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var submenus []models.SubMenu
	rows, err = s.pool.Query(ctx, `SELECT id, menu_id, title, description FROM submenus ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var sm models.SubMenu
		if err := rows.Scan(&sm.ID, &sm.MenuID, &sm.Title, &sm.Description); err != nil {
			rows.Close()
			return nil, err
		}
		submenus = append(submenus, sm)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var dishes []models.Dish
	rows, err = s.pool.Query(ctx, `SELECT id, submenu_id, title, description, price FROM dishes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		dishes = append(dishes, *d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildExportRows(menus, submenus, dishes), nil
}

func (s *PgxStore) Close() error {
	s.pool.Close()
	return nil
}

// scanDish 从 (id, submenu_id, title, description, price) 行构造菜品
// 价格列为 double precision，读出后转为 decimal 保持与 gorm 实现一致的序列化行为
func scanDish(row pgx.Row) (*models.Dish, error) {
	var d models.Dish
	var price float64
	if err := row.Scan(&d.ID, &d.SubMenuID, &d.Title, &d.Description, &price); err != nil {
		return nil, err
	}
	d.Price = decimal.NewFromFloat(price)
	return &d, nil
}
