package api

import (
	"net/http"

	"menu/store"

	"github.com/gin-gonic/gin"
)

// MenuHandler 菜单管理
type MenuHandler struct {
	store store.Store
}

func NewMenuHandler(st store.Store) *MenuHandler {
	return &MenuHandler{store: st}
}

type MenuCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=255"`
}

type MenuUpdateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=255"`
}

// Create 创建菜单
// @Summary 创建菜单
// @Description 创建顶级菜单，标题不做唯一性检查
// @Tags 菜单
// @Accept json
// @Produce json
// @Param request body MenuCreateRequest true "菜单信息"
// @Success 201 {object} MenuResponse "创建成功"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Router /api/v1/menus/ [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req MenuCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	m, err := h.store.CreateMenu(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MenuResponse{
		ID:          formatID(m.ID),
		Title:       m.Title,
		Description: m.Description,
	})
}

// List 菜单列表
// @Summary 获取菜单列表
// @Description 分页获取菜单，每条附带子菜单数量和菜品数量
// @Tags 菜单
// @Produce json
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "返回条数上限" default(10)
// @Success 200 {array} MenuDetailResponse "菜单列表"
// @Router /api/v1/menus/ [get]
func (h *MenuHandler) List(c *gin.Context) {
	skip, limit := parsePagination(c)
	menus, err := h.store.ListMenus(c.Request.Context(), skip, limit)
	if err != nil {
		StoreError(c, err)
		return
	}
	resp := make([]MenuDetailResponse, 0, len(menus))
	for _, m := range menus {
		resp = append(resp, MenuDetailResponse{
			ID:            formatID(m.ID),
			Title:         m.Title,
			Description:   m.Description,
			SubMenusCount: m.SubMenusCount,
			DishesCount:   m.DishesCount,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Get 菜单详情
// @Summary 获取单个菜单
// @Description 获取菜单及其子菜单数量和菜品数量
// @Tags 菜单
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Success 200 {object} MenuDetailResponse "菜单详情"
// @Failure 404 {object} map[string]interface{} "菜单不存在"
// @Router /api/v1/menus/{menu_id} [get]
func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	m, err := h.store.GetMenu(c.Request.Context(), id)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MenuDetailResponse{
		ID:            formatID(m.ID),
		Title:         m.Title,
		Description:   m.Description,
		SubMenusCount: m.SubMenusCount,
		DishesCount:   m.DishesCount,
	})
}

// Update 更新菜单
// @Summary 更新菜单
// @Description 覆盖菜单的标题和描述
// @Tags 菜单
// @Accept json
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param request body MenuUpdateRequest true "更新内容"
// @Success 200 {object} MenuResponse "更新成功"
// @Failure 404 {object} map[string]interface{} "菜单不存在"
// @Router /api/v1/menus/{menu_id} [patch]
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	var req MenuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	m, err := h.store.UpdateMenu(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MenuResponse{
		ID:          formatID(m.ID),
		Title:       m.Title,
		Description: m.Description,
	})
}

// Delete 删除菜单
// @Summary 删除菜单
// @Description 删除菜单，子菜单和菜品随外键级联删除
// @Tags 菜单
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Success 200 {object} map[string]interface{} "删除成功"
// @Failure 404 {object} map[string]interface{} "菜单不存在"
// @Router /api/v1/menus/{menu_id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	if err := h.store.DeleteMenu(c.Request.Context(), id); err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
