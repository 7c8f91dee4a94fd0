package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

const lowStockThreshold = 5

// Clock supplies the current time so month windows are testable.
type Clock func() time.Time

// AnalyticsService computes sales and inventory reports from orders
// and the product catalog.
type AnalyticsService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	now         Clock
	logger      *logrus.Entry
}

func NewAnalyticsService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, now Clock, logger *logrus.Logger) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         now,
		logger:      logger.WithField("component", "analytics_service"),
	}
}

// Overview computes the combined analytics payload for a period.
// Period is "current_month" or "previous_month"; anything else is a
// validation error.
func (s *AnalyticsService) Overview(ctx context.Context, period string) (*models.AnalyticsResponse, error) {
	var offset int
	switch period {
	case "", "current_month":
		period = "current_month"
		offset = 0
	case "previous_month":
		offset = -1
	default:
		return nil, apierrors.Validation(fmt.Sprintf("unknown period %q", period))
	}

	start, end := MonthWindow(s.now(), offset)
	orders, err := s.orderRepo.ListInWindow(ctx, start, end)
	if err != nil {
		return nil, apierrors.Upstream("failed to load orders", err)
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to load products", err)
	}

	metrics := ComputeMetrics(orders, BuildProductIndex(products))

	stock := make([]models.StockEntry, 0, len(products))
	for _, p := range products {
		stock = append(stock, models.StockEntry{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			SKU:         p.SKU,
			Stock:       p.Stock,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"period": period,
		"orders": len(orders),
	}).Info("Computed analytics overview")

	return &models.AnalyticsResponse{
		Success:        true,
		Period:         period,
		Revenue:        metrics.Revenue,
		COGS:           metrics.COGS,
		GrossProfit:    metrics.GrossProfit,
		TotalUnitsSold: metrics.TotalUnitsSold,
		Sales:          metrics.Sales,
		Stock:          stock,
	}, nil
}

// SalesReport aggregates per-product sales across all orders.
func (s *AnalyticsService) SalesReport(ctx context.Context) (*models.SalesReportResponse, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to load orders", err)
	}
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to load products", err)
	}

	metrics := ComputeMetrics(orders, BuildProductIndex(products))
	return &models.SalesReportResponse{Success: true, Sales: metrics.Sales}, nil
}

// StockReport lists current stock levels.
func (s *AnalyticsService) StockReport(ctx context.Context) (*models.StockReportResponse, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to load products", err)
	}

	stock := make([]models.StockEntry, 0, len(products))
	for _, p := range products {
		stock = append(stock, models.StockEntry{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			SKU:         p.SKU,
			Stock:       p.Stock,
		})
	}
	return &models.StockReportResponse{Success: true, Stock: stock}, nil
}

// ProductReport lists per-product economics with computed margin.
func (s *AnalyticsService) ProductReport(ctx context.Context) (*models.ProductReportResponse, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to load products", err)
	}

	out := make([]models.ProductEconomics, 0, len(products))
	for _, p := range products {
		out = append(out, models.ProductEconomics{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			CostPrice:   p.CostPrice,
			SellPrice:   p.SellPrice,
			Margin:      p.SellPrice - p.CostPrice,
			Stock:       p.Stock,
		})
	}
	return &models.ProductReportResponse{Success: true, Products: out}, nil
}

// InventoryReport totals stock valuation at cost and sell prices.
func (s *AnalyticsService) InventoryReport(ctx context.Context) (*models.InventoryReportResponse, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to load products", err)
	}

	report := &models.InventoryReportResponse{Success: true}
	for _, p := range products {
		units := int64(p.Stock)
		report.TotalUnits += units
		report.TotalCostValue += float64(p.Stock) * p.CostPrice
		report.TotalSellValue += float64(p.Stock) * p.SellPrice
		if p.Stock < lowStockThreshold {
			report.LowStockCount++
		}
	}
	return report, nil
}

// BuildReceipt normalizes an order's items into receipt lines.
func (s *AnalyticsService) BuildReceipt(ctx context.Context, orderID string) (*models.Receipt, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apierrors.Validation("invalid order id")
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("order not found")
		}
		return nil, apierrors.Upstream("failed to load order", err)
	}

	receipt := &models.Receipt{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Lines:       []models.ReceiptLine{},
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}

	for _, raw := range decodeItems(order) {
		item := NormalizeItem(raw)
		name := item.ProductName
		if name == "" {
			name = "Unknown"
		}
		line := models.ReceiptLine{
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			LineTotal:   item.Quantity * item.Price,
		}
		receipt.Subtotal += line.LineTotal
		receipt.Lines = append(receipt.Lines, line)
	}

	return receipt, nil
}
