package models

// SalesEntry is the per-product sales total derived from order lines.
// Keyed by resolved product name; never persisted.
type SalesEntry struct {
	ProductName string  `json:"productName"`
	TotalSold   float64 `json:"totalSold"`
	Revenue     float64 `json:"revenue"`
}

// AnalyticsResponse is the combined analytics payload.
type AnalyticsResponse struct {
	Success        bool         `json:"success"`
	Period         string       `json:"period"`
	Revenue        float64      `json:"revenue"`
	COGS           float64      `json:"cogs"`
	GrossProfit    float64      `json:"grossProfit"`
	TotalUnitsSold float64      `json:"totalUnitsSold"`
	Sales          []SalesEntry `json:"sales"`
	Stock          []StockEntry `json:"stock"`
}

// SalesReportResponse wraps the sales sub-report.
type SalesReportResponse struct {
	Success bool         `json:"success"`
	Sales   []SalesEntry `json:"sales"`
}

// StockReportResponse wraps the stock sub-report.
type StockReportResponse struct {
	Success bool         `json:"success"`
	Stock   []StockEntry `json:"stock"`
}

// ProductReportResponse wraps the product economics sub-report.
type ProductReportResponse struct {
	Success  bool               `json:"success"`
	Products []ProductEconomics `json:"products"`
}

// InventoryReportResponse wraps the inventory valuation sub-report.
type InventoryReportResponse struct {
	Success        bool    `json:"success"`
	TotalUnits     int64   `json:"totalUnits"`
	TotalCostValue float64 `json:"totalCostValue"`
	TotalSellValue float64 `json:"totalSellValue"`
	LowStockCount  int64   `json:"lowStockCount"`
}
