package services

import (
	"encoding/json"
	"time"

	"commerce-admin-service/internal/models"
)

// LineItem is the normalized shape of one order line. Order payloads
// arrive as loose JSON whose producers disagree on field names, so
// every field here is resolved through an explicit alias chain by
// NormalizeItem before any aggregation happens.
type LineItem struct {
	ProductName string
	ProductID   string
	Quantity    float64
	Price       float64
	CostPerUnit float64
}

// SalesMetrics is the aggregate output of ComputeMetrics.
type SalesMetrics struct {
	Revenue        float64             `json:"revenue"`
	COGS           float64             `json:"cogs"`
	GrossProfit    float64             `json:"grossProfit"`
	TotalUnitsSold float64             `json:"totalUnitsSold"`
	Sales          []models.SalesEntry `json:"sales"`
}

// ProductIndex maps both product id and product name to the product
// row, so an order line can be matched by either reference.
type ProductIndex map[string]*models.Product

// BuildProductIndex indexes products by id string and by name. Name
// entries never shadow id entries because uuids and names do not
// collide in practice.
func BuildProductIndex(products []models.Product) ProductIndex {
	index := make(ProductIndex, len(products)*2)
	for i := range products {
		p := &products[i]
		index[p.ID.String()] = p
		if p.Name != "" {
			index[p.Name] = p
		}
	}
	return index
}

// Ordered alias tables for loose order-item fields. First key present
// wins; for numerics, first non-zero value wins.
var (
	nameAliases     = []string{"productName", "name", "product_name"}
	idAliases       = []string{"product_id", "productId", "id"}
	quantityAliases = []string{"quantity", "qty"}
	priceAliases    = []string{"price", "unitPrice", "unit_price", "sell_price"}
	costAliases     = []string{"costPerUnit", "cost_price", "costPrice"}
)

func pickString(raw map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err == nil && s != "" {
			return s
		}
		// Numeric product ids occur in older payloads.
		var n json.Number
		if err := json.Unmarshal(val, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func pickNumber(raw map[string]json.RawMessage, keys []string) float64 {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(val, &f); err == nil && f != 0 {
			return f
		}
		// Some producers quote their numbers.
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			var quoted float64
			if err := json.Unmarshal([]byte(s), &quoted); err == nil && quoted != 0 {
				return quoted
			}
		}
	}
	return 0
}

// NormalizeItem resolves a raw order line into a LineItem. Malformed
// fields coerce to zero values rather than erroring.
func NormalizeItem(raw map[string]json.RawMessage) LineItem {
	return LineItem{
		ProductName: pickString(raw, nameAliases),
		ProductID:   pickString(raw, idAliases),
		Quantity:    pickNumber(raw, quantityAliases),
		Price:       pickNumber(raw, priceAliases),
		CostPerUnit: pickNumber(raw, costAliases),
	}
}

// decodeItems unmarshals an order's items column into raw line maps.
// A nil or unparseable column yields no items.
func decodeItems(order *models.Order) []map[string]json.RawMessage {
	if len(order.Items) == 0 {
		return nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(order.Items, &items); err != nil {
		return nil
	}
	return items
}

// ComputeMetrics folds orders into revenue, COGS, gross profit and
// per-product sales totals. When a line carries no explicit unit cost
// the product index supplies cost_price, matched by product id then
// by resolved name, defaulting to 0. Lines whose product cannot be
// named at all accumulate under "Unknown".
func ComputeMetrics(orders []models.Order, index ProductIndex) *SalesMetrics {
	metrics := &SalesMetrics{Sales: []models.SalesEntry{}}
	byName := make(map[string]int)

	for i := range orders {
		for _, raw := range decodeItems(&orders[i]) {
			item := NormalizeItem(raw)

			name := item.ProductName
			cost := item.CostPerUnit
			var matched *models.Product
			if p, ok := index[item.ProductID]; ok && item.ProductID != "" {
				matched = p
			} else if p, ok := index[name]; ok && name != "" {
				matched = p
			}
			if cost == 0 && matched != nil {
				cost = matched.CostPrice
			}
			if name == "" && matched != nil {
				name = matched.Name
			}
			if name == "" {
				name = "Unknown"
			}

			lineRevenue := item.Quantity * item.Price
			metrics.Revenue += lineRevenue
			metrics.COGS += item.Quantity * cost
			metrics.TotalUnitsSold += item.Quantity

			if idx, ok := byName[name]; ok {
				metrics.Sales[idx].TotalSold += item.Quantity
				metrics.Sales[idx].Revenue += lineRevenue
			} else {
				byName[name] = len(metrics.Sales)
				metrics.Sales = append(metrics.Sales, models.SalesEntry{
					ProductName: name,
					TotalSold:   item.Quantity,
					Revenue:     lineRevenue,
				})
			}
		}
	}

	metrics.GrossProfit = metrics.Revenue - metrics.COGS
	return metrics
}

// MonthWindow returns the UTC calendar-month window [start, end)
// containing now shifted by offsetMonths. Offset 0 is the current
// month, -1 the previous month.
func MonthWindow(now time.Time, offsetMonths int) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, offsetMonths, 0)
	end := start.AddDate(0, 1, 0)
	return start, end
}
