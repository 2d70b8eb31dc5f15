package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

var productExportHeaders = []string{
	"Name", "SKU", "Slug", "Category", "Subcategory", "Price", "Compare Price",
	"Stock Quantity", "Min Stock", "Active", "Featured", "Digital",
}

// ExportHandler streams the product catalog as a downloadable file.
type ExportHandler struct {
	products *catalog.ProductService
}

func NewExportHandler(products *catalog.ProductService) *ExportHandler {
	return &ExportHandler{products: products}
}

// ExportProducts downloads the full product list as CSV or XLSX
// GET /api/v1/products/export?format=xlsx
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	query := models.ProductListQuery{
		IsActive:    parseBoolQuery(c, "isActive"),
		Category:    parseObjectIDQuery(c, "category"),
		Subcategory: parseObjectIDQuery(c, "subcategory"),
	}
	products, _, err := h.products.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		h.writeXLSX(c, products)
	default:
		h.writeCSV(c, products)
	}
}

func productExportRow(p models.Product) []string {
	categoryName := ""
	if p.CategoryRef != nil {
		categoryName = p.CategoryRef.Name
	}
	subcategoryName := ""
	if p.SubcategoryRef != nil {
		subcategoryName = p.SubcategoryRef.Name
	}
	return []string{
		p.Name,
		p.SKU,
		p.Slug,
		categoryName,
		subcategoryName,
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.FormatFloat(p.ComparePrice, 'f', 2, 64),
		strconv.Itoa(p.Stock.Quantity),
		strconv.Itoa(p.Stock.MinStock),
		strconv.FormatBool(p.IsActive),
		strconv.FormatBool(p.IsFeatured),
		strconv.FormatBool(p.IsDigital),
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, products []models.Product) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(productExportHeaders)
	for _, p := range products {
		writer.Write(productExportRow(p))
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, products []models.Product) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	for i, header := range productExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx, p := range products {
		row := productExportRow(p)
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=products_export_%d_items.xlsx", len(products)))

	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
