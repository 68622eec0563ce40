package api

import (
	"errors"
	"net/http"
	"strconv"

	"menu/store"

	"github.com/gin-gonic/gin"
)

// MenuResponse 菜单基本响应，id 按字符串输出
type MenuResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MenuDetailResponse 带派生统计量的菜单响应
type MenuDetailResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SubMenusCount int64  `json:"submenus_count"`
	DishesCount   int64  `json:"dishes_count"`
}

// SubMenuResponse 子菜单基本响应
type SubMenuResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SubMenuDetailResponse 带菜品数量的子菜单响应
type SubMenuDetailResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DishesCount int64  `json:"dishes_count"`
}

// DishResponse 菜品响应，价格按字符串输出
type DishResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": message})
}

// Conflict 409 错误响应（同级标题冲突）
func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{"detail": message})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": message})
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"detail": message})
}

// StoreError 把数据访问层错误映射为 HTTP 响应
func StoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrMenuNotFound):
		NotFound(c, "menu not found")
	case errors.Is(err, store.ErrSubMenuNotFound):
		NotFound(c, "submenu not found")
	case errors.Is(err, store.ErrDishNotFound):
		NotFound(c, "dish not found")
	default:
		InternalError(c, SafeErrorMessage(err, "internal server error"))
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// parseID 解析路径中的数字 ID，非法时返回 400
func parseID(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id64), true
}

// parsePagination 解析 skip/limit 查询参数，非法值回退默认
func parsePagination(c *gin.Context) (skip, limit int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	return skip, limit
}
