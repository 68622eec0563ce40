package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"menu/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	store store.Store
}

// NewExportHandler 创建导出处理器
func NewExportHandler(st store.Store) *ExportHandler {
	return &ExportHandler{store: st}
}

// exportCell 零值 ID 输出空串，保证没有菜品的子菜单、没有子菜单的菜单导出为空列
func exportCell(id uint, value string) (string, string) {
	if id == 0 {
		return "", ""
	}
	return formatID(id), value
}

func (h *ExportHandler) rows(c *gin.Context) ([]store.ExportRow, bool) {
	rows, err := h.store.ExportRows(c.Request.Context())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "导出失败"))
		return nil, false
	}
	return rows, true
}

// ExportCSV 导出菜单层次为 CSV
// @Summary 导出菜单为 CSV
// @Description 导出完整的菜单/子菜单/菜品层次为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Success 200 {file} file "CSV 文件"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}

	// 生成 CSV
	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	// 写入表头
	headers := []string{"菜单ID", "菜单", "子菜单ID", "子菜单", "菜品ID", "菜品", "描述", "价格"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	// 写入数据
	for _, row := range rows {
		menuID, menuTitle := exportCell(row.MenuID, row.MenuTitle)
		subMenuID, subMenuTitle := exportCell(row.SubMenuID, row.SubMenuTitle)
		dishID, dishTitle := exportCell(row.DishID, row.DishTitle)
		price := ""
		if row.DishID != 0 {
			price = row.DishPrice.StringFixed(2)
		}
		record := []string{
			menuID, menuTitle,
			subMenuID, subMenuTitle,
			dishID, dishTitle,
			row.DishDescription, price,
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	// 设置响应头
	filename := fmt.Sprintf("menus_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// exportJSONRow JSON 导出行
type exportJSONRow struct {
	MenuID          string `json:"menu_id"`
	MenuTitle       string `json:"menu_title"`
	SubMenuID       string `json:"submenu_id,omitempty"`
	SubMenuTitle    string `json:"submenu_title,omitempty"`
	DishID          string `json:"dish_id,omitempty"`
	DishTitle       string `json:"dish_title,omitempty"`
	DishDescription string `json:"dish_description,omitempty"`
	DishPrice       string `json:"dish_price,omitempty"`
}

// ExportJSON 导出菜单层次为 JSON
// @Summary 导出菜单为 JSON
// @Description 导出完整的菜单/子菜单/菜品层次为 JSON
// @Tags 导出
// @Produce json
// @Success 200 {array} exportJSONRow "导出成功"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}
	resp := make([]exportJSONRow, 0, len(rows))
	for _, row := range rows {
		item := exportJSONRow{
			MenuID:    formatID(row.MenuID),
			MenuTitle: row.MenuTitle,
		}
		if row.SubMenuID != 0 {
			item.SubMenuID = formatID(row.SubMenuID)
			item.SubMenuTitle = row.SubMenuTitle
		}
		if row.DishID != 0 {
			item.DishID = formatID(row.DishID)
			item.DishTitle = row.DishTitle
			item.DishDescription = row.DishDescription
			item.DishPrice = row.DishPrice.StringFixed(2)
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}

// ExportExcel 导出菜单层次为 Excel
// @Summary 导出菜单为 Excel
// @Description 导出完整的菜单/子菜单/菜品层次为 Excel 文件
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Excel 文件"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	rows, ok := h.rows(c)
	if !ok {
		return
	}

	// 创建 Excel 文件
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "菜单"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"菜单ID", "菜单", "子菜单ID", "子菜单", "菜品ID", "菜品", "描述", "价格"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, hd)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for r, row := range rows {
		menuID, menuTitle := exportCell(row.MenuID, row.MenuTitle)
		subMenuID, subMenuTitle := exportCell(row.SubMenuID, row.SubMenuTitle)
		dishID, dishTitle := exportCell(row.DishID, row.DishTitle)
		price := ""
		if row.DishID != 0 {
			price = row.DishPrice.StringFixed(2)
		}
		values := []string{
			menuID, menuTitle,
			subMenuID, subMenuTitle,
			dishID, dishTitle,
			row.DishDescription, price,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	// 调整列宽
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "D", "D", 20)
	f.SetColWidth(sheetName, "F", "G", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("menus_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
