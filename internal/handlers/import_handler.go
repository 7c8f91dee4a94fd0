package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
	"commerce-admin-service/internal/services"
)

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
}

// ImportHandler imports products from CSV or Excel uploads.
type ImportHandler struct {
	repo   repository.ProductRepository
	logger *logrus.Entry
}

func NewImportHandler(repo repository.ProductRepository, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		repo:   repo,
		logger: logger.WithField("component", "import_handler"),
	}
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: []ImportTemplateColumn{
			{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Wireless Mouse"},
			{Name: "sku", Description: "Stock keeping unit (auto-generated if empty)", Required: false, Type: "string", Example: "WIRELESS-MOUSE-A1B2"},
			{Name: "stock", Description: "Units in stock", Required: false, Type: "number", Example: "25"},
			{Name: "costPrice", Description: "Unit cost price", Required: false, Type: "number", Example: "4.50"},
			{Name: "sellPrice", Description: "Unit sell price", Required: true, Type: "number", Example: "12.99"},
			{Name: "categoryId", Description: "Category UUID", Required: false, Type: "uuid", Example: "550e8400-e29b-41d4-a716-446655440000"},
			{Name: "imageUrl", Description: "Product image URL", Required: false, Type: "string", Example: "https://example.com/mouse.jpg"},
			{Name: "isActive", Description: "Whether product is active (true/false)", Required: false, Type: "boolean", Example: "true"},
		},
		SampleData: []map[string]string{
			{
				"name":       "Wireless Mouse",
				"sku":        "WIRELESS-MOUSE-A1B2",
				"stock":      "25",
				"costPrice":  "4.50",
				"sellPrice":  "12.99",
				"categoryId": "",
				"imageUrl":   "",
				"isActive":   "true",
			},
			{
				"name":       "USB-C Cable",
				"sku":        "",
				"stock":      "100",
				"costPrice":  "0.80",
				"sellPrice":  "5.99",
				"categoryId": "",
				"imageUrl":   "",
				"isActive":   "true",
			},
		},
	}
}

// GetImportTemplate returns the import template definition or file
// @Summary Download the product import template
// @Tags products
// @Produce json
// @Param format query string false "json, csv or xlsx" default(json)
// @Success 200 {object} object{success=bool,template=ImportTemplate}
// @Router /api/v1/products/import/template [get]
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := ProductImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)

	for _, sample := range template.SampleData {
		row := make([]string, len(template.Columns))
		for i, col := range template.Columns {
			row[i] = sample[col.Name]
		}
		writer.Write(row)
	}
}

func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for rowIdx, sample := range template.SampleData {
		for colIdx, col := range template.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, sample[col.Name])
		}
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")
	f.SetCellValue("Instructions", "A3", "Column Definitions:")

	for i, col := range template.Columns {
		row := i + 4
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 20)
	f.SetColWidth("Instructions", "B", "B", 40)
	f.SetColWidth("Instructions", "C", "C", 15)
	f.SetColWidth("Instructions", "D", "D", 15)
	f.SetColWidth("Instructions", "E", "E", 40)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")

	f.Write(c.Writer)
}

// ImportProducts imports products from a CSV or Excel file
// @Summary Import products from file
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param skipDuplicates formData string false "Skip rows with existing SKUs" default(false)
// @Param validateOnly formData string false "Validate without creating" default(false)
// @Success 200 {object} ImportResult
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/products/import [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	skipDuplicates := c.DefaultPostForm("skipDuplicates", "false") == "true"
	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	filename := strings.ToLower(header.Filename)
	var format ImportFormat
	if strings.HasSuffix(filename, ".csv") {
		format = ImportFormatCSV
	} else if strings.HasSuffix(filename, ".xlsx") {
		format = ImportFormatXLSX
	} else {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	var rows []map[string]string
	var parseErr error

	if format == ImportFormatCSV {
		rows, parseErr = h.parseCSV(file)
	} else {
		rows, parseErr = h.parseXLSX(file)
	}

	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_FILE",
				Message: "The file contains no data rows",
			},
		})
		return
	}

	result := h.processImportRows(c, rows, skipDuplicates, validateOnly)

	h.logger.WithFields(logrus.Fields{
		"total":   result.TotalRows,
		"created": result.SuccessCount,
		"failed":  result.FailedCount,
	}).Info("Product import processed")

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1)
		rows = append(rows, row)
		lineNum++
	}

	return rows, nil
}

func (h *ImportHandler) parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := excelRows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2)
		rows = append(rows, row)
	}

	return rows, nil
}

func (h *ImportHandler) processImportRows(c *gin.Context, rows []map[string]string, skipDuplicates, validateOnly bool) *ImportResult {
	result := &ImportResult{
		TotalRows:  len(rows),
		Errors:     make([]ImportRowError, 0),
		CreatedIDs: make([]string, 0),
	}

	products := make([]*models.Product, 0, len(rows))
	template := ProductImportTemplate()
	requiredCols := make(map[string]bool)
	for _, col := range template.Columns {
		if col.Required {
			requiredCols[strings.ToLower(col.Name)] = true
		}
	}

	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		for colName := range requiredCols {
			if row[colName] == "" {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  colName,
					Code:    "REQUIRED_FIELD",
					Message: fmt.Sprintf("Required field '%s' is empty", colName),
				})
			}
		}

		hasErrors := false
		for _, e := range result.Errors {
			if e.Row == rowNum {
				hasErrors = true
				break
			}
		}
		if hasErrors {
			continue
		}

		product := &models.Product{
			ID:       uuid.New(),
			Name:     row["name"],
			IsActive: true,
		}

		if row["sku"] != "" {
			product.SKU = row["sku"]
		} else {
			product.SKU = services.GenerateSKU(row["name"])
		}

		if row["stock"] != "" {
			if stock, err := strconv.Atoi(row["stock"]); err == nil {
				product.Stock = stock
			} else {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  "stock",
					Code:    "INVALID_NUMBER",
					Message: fmt.Sprintf("'%s' is not a valid stock count", row["stock"]),
				})
				continue
			}
		}

		if row["costprice"] != "" {
			if price, err := strconv.ParseFloat(row["costprice"], 64); err == nil {
				product.CostPrice = price
			} else {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  "costPrice",
					Code:    "INVALID_NUMBER",
					Message: fmt.Sprintf("'%s' is not a valid price", row["costprice"]),
				})
				continue
			}
		}

		if row["sellprice"] != "" {
			if price, err := strconv.ParseFloat(row["sellprice"], 64); err == nil {
				product.SellPrice = price
			} else {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  "sellPrice",
					Code:    "INVALID_NUMBER",
					Message: fmt.Sprintf("'%s' is not a valid price", row["sellprice"]),
				})
				continue
			}
		}

		if row["categoryid"] != "" {
			categoryID, err := uuid.Parse(row["categoryid"])
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  "categoryId",
					Code:    "INVALID_UUID",
					Message: fmt.Sprintf("'%s' is not a valid category id", row["categoryid"]),
				})
				continue
			}
			product.CategoryID = &categoryID
		}

		if row["imageurl"] != "" {
			product.ImageURL = stringPtr(row["imageurl"])
		}

		if row["isactive"] != "" {
			product.IsActive = strings.ToLower(row["isactive"]) == "true"
		}

		products = append(products, product)
	}

	if validateOnly {
		result.Success = len(result.Errors) == 0
		result.SuccessCount = len(products)
		result.FailedCount = result.TotalRows - len(products)
		return result
	}

	if len(products) == 0 {
		result.Success = false
		result.FailedCount = result.TotalRows
		return result
	}

	bulkResult, err := h.repo.BulkCreate(c.Request.Context(), products, skipDuplicates)
	if err != nil && (bulkResult == nil || bulkResult.Success == 0) {
		result.Success = false
		result.Errors = append(result.Errors, ImportRowError{
			Row:     0,
			Code:    "BULK_CREATE_FAILED",
			Message: err.Error(),
		})
		result.FailedCount = result.TotalRows
		return result
	}

	for _, p := range bulkResult.Created {
		result.CreatedIDs = append(result.CreatedIDs, p.ID.String())
	}

	for _, bulkErr := range bulkResult.Errors {
		rowNum := 0
		if bulkErr.Index < len(rows) {
			rowNum, _ = strconv.Atoi(rows[bulkErr.Index]["_row"])
		}
		result.Errors = append(result.Errors, ImportRowError{
			Row:     rowNum,
			Code:    bulkErr.Code,
			Message: bulkErr.Message,
		})
	}

	result.Success = bulkResult.Success > 0 || bulkResult.Skipped > 0
	result.SuccessCount = bulkResult.Success
	result.FailedCount = bulkResult.Failed + (result.TotalRows - len(products))
	result.SkippedCount = bulkResult.Skipped

	return result
}

func stringPtr(s string) *string {
	return &s
}
