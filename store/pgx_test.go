package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockPgx 用模拟连接池构造 PgxStore
func setupMockPgx(t *testing.T) (pgxmock.PgxPoolIface, *PgxStore) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &PgxStore{pool: mock}
}

func TestPgxStore_CreateMenu(t *testing.T) {
	mock, st := setupMockPgx(t)

	mock.ExpectQuery("INSERT INTO menus").
		WithArgs("Breakfast", "morning dishes").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uint(3)))

	m, err := st.CreateMenu(context.Background(), "Breakfast", "morning dishes")
	require.NoError(t, err)
	assert.Equal(t, uint(3), m.ID)
	assert.Equal(t, "Breakfast", m.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStore_GetMenu_NotFound(t *testing.T) {
	mock, st := setupMockPgx(t)

	mock.ExpectQuery("SELECT m.id, m.title").
		WithArgs(uint(7)).
		WillReturnError(pgx.ErrNoRows)

	_, err := st.GetMenu(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMenuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStore_UpdateMenu_NotFound(t *testing.T) {
	mock, st := setupMockPgx(t)

	// 未命中任何行时返回 404 错误而不是静默成功
	mock.ExpectExec("UPDATE menus SET").
		WithArgs("Brunch", "late morning", uint(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := st.UpdateMenu(context.Background(), 5, "Brunch", "late morning")
	assert.ErrorIs(t, err, ErrMenuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStore_DeleteMenu_NotFound(t *testing.T) {
	mock, st := setupMockPgx(t)

	mock.ExpectExec("DELETE FROM menus").
		WithArgs(uint(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := st.DeleteMenu(context.Background(), 99)
	assert.ErrorIs(t, err, ErrMenuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStore_UpdateSubMenu_NotFound(t *testing.T) {
	mock, st := setupMockPgx(t)

	mock.ExpectExec("UPDATE submenus SET").
		WithArgs("Drinks", "", uint(1), uint(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := st.UpdateSubMenu(context.Background(), 1, 99, "Drinks", "")
	assert.ErrorIs(t, err, ErrSubMenuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStore_DeleteDish_NotFound(t *testing.T) {
	mock, st := setupMockPgx(t)

	mock.ExpectExec("DELETE FROM dishes").
		WithArgs(uint(2), uint(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := st.DeleteDish(context.Background(), 2, 99)
	assert.ErrorIs(t, err, ErrDishNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStore_CreateSubMenu_MenuNotFound(t *testing.T) {
	mock, st := setupMockPgx(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint(9)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := st.CreateSubMenu(context.Background(), 9, "Drinks", "")
	assert.ErrorIs(t, err, ErrMenuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationsDeclareCascade(t *testing.T) {
	// 删除菜单/子菜单时依赖外键级联清理下级数据，建表语句必须声明
	sqlBytes, err := migrationsFS.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)

	ddl := string(sqlBytes)
	assert.Contains(t, ddl, "REFERENCES menus(id) ON DELETE CASCADE")
	assert.Contains(t, ddl, "REFERENCES submenus(id) ON DELETE CASCADE")
}
