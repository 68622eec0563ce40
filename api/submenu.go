package api

import (
	"errors"
	"net/http"

	"menu/store"

	"github.com/gin-gonic/gin"
)

// SubMenuHandler 子菜单管理
type SubMenuHandler struct {
	store store.Store
}

func NewSubMenuHandler(st store.Store) *SubMenuHandler {
	return &SubMenuHandler{store: st}
}

type SubMenuCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=255"`
}

type SubMenuUpdateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=255"`
}

// Create 创建子菜单
// @Summary 创建子菜单
// @Description 在指定菜单下创建子菜单，同一菜单下标题必须唯一
// @Tags 子菜单
// @Accept json
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param request body SubMenuCreateRequest true "子菜单信息"
// @Success 201 {object} SubMenuResponse "创建成功"
// @Failure 404 {object} map[string]interface{} "菜单不存在"
// @Failure 409 {object} map[string]interface{} "标题冲突"
// @Router /api/v1/menus/{menu_id}/submenus [post]
func (h *SubMenuHandler) Create(c *gin.Context) {
	menuID, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	var req SubMenuCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sm, err := h.store.CreateSubMenu(c.Request.Context(), menuID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrTitleConflict) {
			Conflict(c, "submenu title already exists for this menu")
			return
		}
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SubMenuResponse{
		ID:          formatID(sm.ID),
		Title:       sm.Title,
		Description: sm.Description,
	})
}

// List 子菜单列表
// @Summary 获取子菜单列表
// @Description 分页获取指定菜单下的子菜单，每条附带菜品数量
// @Tags 子菜单
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "返回条数上限" default(10)
// @Success 200 {array} SubMenuDetailResponse "子菜单列表"
// @Router /api/v1/menus/{menu_id}/submenus [get]
func (h *SubMenuHandler) List(c *gin.Context) {
	menuID, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	skip, limit := parsePagination(c)
	submenus, err := h.store.ListSubMenus(c.Request.Context(), menuID, skip, limit)
	if err != nil {
		StoreError(c, err)
		return
	}
	resp := make([]SubMenuDetailResponse, 0, len(submenus))
	for _, sm := range submenus {
		resp = append(resp, SubMenuDetailResponse{
			ID:          formatID(sm.ID),
			Title:       sm.Title,
			Description: sm.Description,
			DishesCount: sm.DishesCount,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Get 子菜单详情
// @Summary 获取单个子菜单
// @Description 获取子菜单及其菜品数量，menu_id 与 submenu_id 必须同时匹配
// @Tags 子菜单
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Success 200 {object} SubMenuDetailResponse "子菜单详情"
// @Failure 404 {object} map[string]interface{} "子菜单不存在"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id} [get]
func (h *SubMenuHandler) Get(c *gin.Context) {
	menuID, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	id, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	sm, err := h.store.GetSubMenu(c.Request.Context(), menuID, id)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubMenuDetailResponse{
		ID:          formatID(sm.ID),
		Title:       sm.Title,
		Description: sm.Description,
		DishesCount: sm.DishesCount,
	})
}

// Update 更新子菜单
// @Summary 更新子菜单
// @Description 覆盖子菜单的标题和描述
// @Tags 子菜单
// @Accept json
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Param request body SubMenuUpdateRequest true "更新内容"
// @Success 200 {object} SubMenuResponse "更新成功"
// @Failure 404 {object} map[string]interface{} "子菜单不存在"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id} [patch]
func (h *SubMenuHandler) Update(c *gin.Context) {
	menuID, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	id, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	var req SubMenuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	sm, err := h.store.UpdateSubMenu(c.Request.Context(), menuID, id, req.Title, req.Description)
	if err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubMenuResponse{
		ID:          formatID(sm.ID),
		Title:       sm.Title,
		Description: sm.Description,
	})
}

// Delete 删除子菜单
// @Summary 删除子菜单
// @Description 删除子菜单，菜品随外键级联删除
// @Tags 子菜单
// @Produce json
// @Param menu_id path int true "菜单ID"
// @Param submenu_id path int true "子菜单ID"
// @Success 200 {object} map[string]interface{} "删除成功"
// @Failure 404 {object} map[string]interface{} "子菜单不存在"
// @Router /api/v1/menus/{menu_id}/submenus/{submenu_id} [delete]
func (h *SubMenuHandler) Delete(c *gin.Context) {
	menuID, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	id, ok := parseID(c, "submenu_id")
	if !ok {
		return
	}
	if err := h.store.DeleteSubMenu(c.Request.Context(), menuID, id); err != nil {
		StoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
