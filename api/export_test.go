package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `menus`").
		WillReturnRows(menuRows([]driverValue{1, "Breakfast", "morning menu", now, now}))
	mock.ExpectQuery("SELECT .* FROM `submenus`").
		WillReturnRows(subMenuRows([]driverValue{2, 1, "Drinks", "", now, now}))
	mock.ExpectQuery("SELECT .* FROM `dishes`").
		WillReturnRows(dishRows([]driverValue{11, 2, "Green Tea", "with jasmine", 19.999, now, now}))

	router := gin.New()
	router.GET("/api/v1/export/csv", NewExportHandler(st).ExportCSV)

	req := httptest.NewRequest("GET", "/api/v1/export/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	body := w.Body.String()
	assert.Contains(t, body, "菜单ID")
	assert.Contains(t, body, "Breakfast")
	assert.Contains(t, body, "Green Tea")
	// 导出价格按两位小数输出
	assert.Contains(t, body, "20.00")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportJSON(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `menus`").
		WillReturnRows(menuRows(
			[]driverValue{1, "Breakfast", "morning menu", now, now},
			[]driverValue{2, "Dinner", "evening menu", now, now},
		))
	// 第二个菜单没有子菜单，仍应占一行
	mock.ExpectQuery("SELECT .* FROM `submenus`").
		WillReturnRows(subMenuRows([]driverValue{3, 1, "Drinks", "", now, now}))
	mock.ExpectQuery("SELECT .* FROM `dishes`").
		WillReturnRows(dishRows([]driverValue{11, 3, "Green Tea", "", 12, now, now}))

	router := gin.New()
	router.GET("/api/v1/export/json", NewExportHandler(st).ExportJSON)

	req := httptest.NewRequest("GET", "/api/v1/export/json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "1", resp[0]["menu_id"])
	assert.Equal(t, "Green Tea", resp[0]["dish_title"])
	assert.Equal(t, "12.00", resp[0]["dish_price"])
	assert.Equal(t, "2", resp[1]["menu_id"])
	_, hasSubMenu := resp[1]["submenu_id"]
	assert.False(t, hasSubMenu)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, st, cleanup := setupMockStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `menus`").
		WillReturnRows(menuRows([]driverValue{1, "Breakfast", "morning menu", now, now}))
	mock.ExpectQuery("SELECT .* FROM `submenus`").
		WillReturnRows(subMenuRows())
	mock.ExpectQuery("SELECT .* FROM `dishes`").
		WillReturnRows(dishRows())

	router := gin.New()
	router.GET("/api/v1/export/excel", NewExportHandler(st).ExportExcel)

	req := httptest.NewRequest("GET", "/api/v1/export/excel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "menus_")
	assert.NotZero(t, w.Body.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}
