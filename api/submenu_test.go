package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func subMenuRows(rows ...[]driverValue) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id", "menu_id", "title", "description", "created_at", "updated_at"})
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func TestSubMenuHandler_Create(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `menus`").WithArgs(1).
		WillReturnRows(menuRows([]driverValue{1, "Breakfast", "morning menu", now, now}))
	// 同一菜单下无同名子菜单
	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1, "Drinks").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `submenus`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/api/v1/menus/:menu_id/submenus", NewSubMenuHandler(st).Create)

	body := `{"title":"Drinks","description":"hot and cold"}`
	req := httptest.NewRequest("POST", "/api/v1/menus/1/submenus", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp SubMenuResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "7", resp.ID)
	assert.Equal(t, "Drinks", resp.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_Create_MenuNotFound(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `menus`").WithArgs(99).
		WillReturnError(gorm.ErrRecordNotFound)

	router := gin.New()
	router.POST("/api/v1/menus/:menu_id/submenus", NewSubMenuHandler(st).Create)

	body := `{"title":"Drinks","description":""}`
	req := httptest.NewRequest("POST", "/api/v1/menus/99/submenus", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "menu not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_Create_TitleConflictSameMenu(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `menus`").WithArgs(1).
		WillReturnRows(menuRows([]driverValue{1, "Breakfast", "morning menu", now, now}))
	// 同一菜单下已有同名子菜单
	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1, "Drinks").
		WillReturnRows(subMenuRows([]driverValue{3, 1, "Drinks", "", now, now}))

	router := gin.New()
	router.POST("/api/v1/menus/:menu_id/submenus", NewSubMenuHandler(st).Create)

	body := `{"title":"Drinks","description":""}`
	req := httptest.NewRequest("POST", "/api/v1/menus/1/submenus", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	assert.Contains(t, w.Body.String(), "submenu title already exists for this menu")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_Get_WithDishesCount(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1, 2).
		WillReturnRows(subMenuRows([]driverValue{2, 1, "Drinks", "hot and cold", now, now}))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dishes`").WithArgs(2).
		WillReturnRows(countRows(5))

	router := gin.New()
	router.GET("/api/v1/menus/:menu_id/submenus/:submenu_id", NewSubMenuHandler(st).Get)

	req := httptest.NewRequest("GET", "/api/v1/menus/1/submenus/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp SubMenuDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, int64(5), resp.DishesCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_Get_NotFound(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1, 99).
		WillReturnError(gorm.ErrRecordNotFound)

	router := gin.New()
	router.GET("/api/v1/menus/:menu_id/submenus/:submenu_id", NewSubMenuHandler(st).Get)

	req := httptest.NewRequest("GET", "/api/v1/menus/1/submenus/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "submenu not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_List(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1).
		WillReturnRows(subMenuRows(
			[]driverValue{2, 1, "Drinks", "", now, now},
			[]driverValue{3, 1, "Desserts", "", now, now},
		))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dishes`").WithArgs(2).
		WillReturnRows(countRows(3))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dishes`").WithArgs(3).
		WillReturnRows(countRows(0))

	router := gin.New()
	router.GET("/api/v1/menus/:menu_id/submenus", NewSubMenuHandler(st).List)

	req := httptest.NewRequest("GET", "/api/v1/menus/1/submenus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp []SubMenuDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(3), resp[0].DishesCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_Update_NotFound(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1, 99).
		WillReturnError(gorm.ErrRecordNotFound)

	router := gin.New()
	router.PATCH("/api/v1/menus/:menu_id/submenus/:submenu_id", NewSubMenuHandler(st).Update)

	body := `{"title":"Drinks","description":""}`
	req := httptest.NewRequest("PATCH", "/api/v1/menus/1/submenus/99", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "submenu not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubMenuHandler_Delete(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `submenus`").WithArgs(1, 2).
		WillReturnRows(subMenuRows([]driverValue{2, 1, "Drinks", "", now, now}))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `submenus`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.DELETE("/api/v1/menus/:menu_id/submenus/:submenu_id", NewSubMenuHandler(st).Delete)

	req := httptest.NewRequest("DELETE", "/api/v1/menus/1/submenus/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
