package api

import (
	"errors"
	"net/http"

	"menu/models"
	"menu/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DishHandler 菜品管理
type DishHandler struct {
	store store.Store
}

func NewDishHandler(st store.Store) *DishHandler {
	return &DishHandler{store: st}
}

type DishCreateRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

type DishUpdateRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// dishResponse 组装菜品响应
// 创建/查询路径价格按两位小数输出；更新路径按原始值回显（见 dishRawResponse）
func dishResponse(d *models.Dish) DishResponse {
	return DishResponse{
		ID:          formatID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
	}
}

func dishRawResponse(d *models.Dish) DishResponse {
	return DishResponse{
		ID:          formatID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price.String(),
	}
}

// Create 创建菜品
// @Summary 创建菜品
// @Description 在指定子菜单下创建菜品，同一子菜单下标题必须唯一，价格按两位小数回显
// @Tags 菜品
// @Accept json
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Param request body DishCreateRequest true "菜品信息"
// @Success 201 {object} DishResponse "创建成功"
// @Failure 404 {object} map[string]interface{} "子菜单不存在"
// @Failure 409 {object} map[string]interface{} "标题冲突"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes [post]
func (h *DishHandler) Create(c *gin.Context) {
	menuID, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	subMenuID, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	var req DishCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	d, err := h.store.CreateDish(c.Request.Context(), menuID, subMenuID, req.Title, req.Description, req.Price)
	if err != nil {
		if errors.Is(err, store.ErrTitleConflict) {
			Conflict(c, "dish title already exists for this submenu")
			return
		}
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dishResponse(d))
}

// List 菜品列表
// @Summary 获取菜品列表
// @Description 分页获取指定子菜单下的菜品，价格按两位小数输出
// @Tags 菜品
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "返回条数上限" default(10)
// @Success 200 {array} DishResponse "菜品列表"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes [get]
func (h *DishHandler) List(c *gin.Context) {
	// menu_id 仅出现在路径里，过滤只按 submenu_id 进行
	subMenuID, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	skip, limit := parsePagination(c)
	dishes, err := h.store.ListDishes(c.Request.Context(), subMenuID, skip, limit)
	if err != nil {
		StoreError(c, err)
		return
	}
	resp := make([]DishResponse, 0, len(dishes))
	for i := range dishes {
		resp = append(resp, dishResponse(&dishes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get 菜品详情
// @Summary 获取单个菜品
// @Description 获取菜品详情，价格按两位小数输出
// @Tags 菜品
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Param dish_id path int true "菜品ID"
// @Success 200 {object} DishResponse "菜品详情"
// @Failure 404 {object} map[string]interface{} "菜品不存在"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id} [get]
func (h *DishHandler) Get(c *gin.Context) {
	subMenuID, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	id, ok := parseID(c, "dish_id")
	if !ok {
		return
	}
	d, err := h.store.GetDish(c.Request.Context(), subMenuID, id)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dishResponse(d))
}

// Update 更新菜品
// @Summary 更新菜品
// @Description 覆盖菜品的标题、描述和价格，价格按提交的原始值回显
// @Tags 菜品
// @Accept json
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Param dish_id path int true "菜品ID"
// @Param request body DishUpdateRequest true "更新内容"
// @Success 200 {object} DishResponse "更新成功"
// @Failure 404 {object} map[string]interface{} "菜品不存在"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id} [patch]
func (h *DishHandler) Update(c *gin.Context) {
	subMenuID, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	id, ok := parseID(c, "dish_id")
	if !ok {
		return
	}
	var req DishUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	d, err := h.store.UpdateDish(c.Request.Context(), subMenuID, id, req.Title, req.Description, req.Price)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dishRawResponse(d))
}

// Delete 删除菜品
// @Summary 删除菜品
// @Description 删除指定菜品
// @Tags 菜品
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Param dish_id path int true "菜品ID"
// @Success 200 {object} map[string]interface{} "删除成功"
// @Failure 404 {object} map[string]interface{} "菜品不存在"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id} [delete]
func (h *DishHandler) Delete(c *gin.Context) {
	subMenuID, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	id, ok := parseID(c, "dish_id")
	if !ok {
		return
	}
	if err := h.store.DeleteDish(c.Request.Context(), subMenuID, id); err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
