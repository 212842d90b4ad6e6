package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ServiceRanking struct {
	Description   string `json:"description"`
	TotalQuantity int64  `json:"total_quantity"`
	TotalValue    string `json:"total_value"`
}

type DashboardResponse struct {
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
	WorkOrdersByStatus []StatusCount    `json:"work_orders_by_status"`
	OpenWorkOrders     int64            `json:"open_work_orders"`
	TotalInvoiced      string           `json:"total_invoiced"`
	TotalCollected     string           `json:"total_collected"`
	TopServices        []ServiceRanking `json:"top_services"`
}

type RevenueDataPoint struct {
	Period       string `json:"period"`
	InvoiceCount int    `json:"invoice_count"`
	Services     string `json:"services"`
	Labor        string `json:"labor"`
	Parts        string `json:"parts"`
	TaxCollected string `json:"tax_collected"`
	Discounts    string `json:"discounts"`
	TotalRevenue string `json:"total_revenue"`
}

type RevenueFilter struct {
	GroupBy   string // week, month, quarter, year
	StartDate time.Time
	EndDate   time.Time
}

// --- Interface ---

type StatisticsService interface {
	GetDashboard(ctx context.Context, startDate, endDate time.Time) (DashboardResponse, error)
	GetRevenueStatistics(ctx context.Context, filter RevenueFilter) ([]RevenueDataPoint, error)
}

type statisticsService struct {
	db          *gorm.DB
	invoiceRepo repository.InvoiceRepository
}

func NewStatisticsService(db *gorm.DB, invoiceRepo repository.InvoiceRepository) StatisticsService {
	return &statisticsService{db: db, invoiceRepo: invoiceRepo}
}

// --- Implementation ---

// GetDashboard aggregates work orders opened in [startDate, endDate].
func (s *statisticsService) GetDashboard(ctx context.Context, startDate, endDate time.Time) (DashboardResponse, error) {
	if endDate.Before(startDate) {
		return DashboardResponse{}, apperror.Validation("end_date must not be before start_date")
	}
	response := DashboardResponse{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}
	db := s.db.WithContext(ctx)

	var counts []StatusCount
	if err := db.Model(&model.WorkOrder{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("status").
		Order("status").
		Scan(&counts).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count work orders: %w", err)
	}
	response.WorkOrdersByStatus = counts
	for _, c := range counts {
		if c.Status != model.StatusCompleted && c.Status != model.StatusCancelled {
			response.OpenWorkOrders += c.Count
		}
	}

	var invoiced struct {
		Value decimal.Decimal
	}
	if err := db.Model(&model.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0) as value").
		Where("issued_at >= ? AND issued_at <= ? AND status <> ?", startDate, endDate, model.InvoiceCancelled).
		Scan(&invoiced).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to sum invoices: %w", err)
	}
	response.TotalInvoiced = money(invoiced.Value)

	var collected struct {
		Value decimal.Decimal
	}
	if err := db.Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("paid_at >= ? AND paid_at <= ?", startDate, endDate).
		Scan(&collected).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to sum payments: %w", err)
	}
	response.TotalCollected = money(collected.Value)

	var top []struct {
		Description   string
		TotalQuantity int64
		TotalValue    decimal.Decimal
	}
	if err := db.Model(&model.WorkOrderService{}).
		Select("description, SUM(quantity) as total_quantity, SUM(subtotal) as total_value").
		Where("customer_approved = ? AND status <> ?", true, model.LineStatusCancelled).
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("description").
		Order("total_quantity DESC").
		Limit(5).
		Scan(&top).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to rank services: %w", err)
	}
	response.TopServices = make([]ServiceRanking, 0, len(top))
	for _, t := range top {
		response.TopServices = append(response.TopServices, ServiceRanking{
			Description:   t.Description,
			TotalQuantity: t.TotalQuantity,
			TotalValue:    money(t.TotalValue),
		})
	}

	return response, nil
}

// GetRevenueStatistics buckets non-cancelled invoices by issue date.
func (s *statisticsService) GetRevenueStatistics(ctx context.Context, filter RevenueFilter) ([]RevenueDataPoint, error) {
	if !filter.EndDate.After(filter.StartDate) {
		return nil, apperror.Validation("end_date must be after start_date")
	}
	invoices, err := s.invoiceRepo.ListIssuedBetween(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue statistics: %w", err)
	}
	return bucketRevenue(invoices, filter.GroupBy), nil
}

// periodKey labels t with the start of its bucket. Unknown groupings fall
// back to month.
func periodKey(t time.Time, groupBy string) string {
	t = t.UTC()
	switch groupBy {
	case "week":
		offset := (int(t.Weekday()) + 6) % 7 // weeks start on Monday
		return t.AddDate(0, 0, -offset).Format("2006-01-02")
	case "quarter":
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case "year":
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}

type revenueBucket struct {
	count                                    int
	services, labor, parts, tax, disc, total decimal.Decimal
}

func bucketRevenue(invoices []model.Invoice, groupBy string) []RevenueDataPoint {
	buckets := map[string]*revenueBucket{}
	for _, inv := range invoices {
		if inv.Status == model.InvoiceCancelled {
			continue
		}
		key := periodKey(inv.IssuedAt, groupBy)
		b, ok := buckets[key]
		if !ok {
			b = &revenueBucket{}
			buckets[key] = b
		}
		b.count++
		b.services = b.services.Add(inv.SubtotalServices)
		b.labor = b.labor.Add(inv.SubtotalLabor)
		b.parts = b.parts.Add(inv.SubtotalParts)
		b.tax = b.tax.Add(inv.TaxAmount)
		b.disc = b.disc.Add(inv.DiscountAmount)
		b.total = b.total.Add(inv.TotalAmount)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]RevenueDataPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		result = append(result, RevenueDataPoint{
			Period:       k,
			InvoiceCount: b.count,
			Services:     money(b.services),
			Labor:        money(b.labor),
			Parts:        money(b.parts),
			TaxCollected: money(b.tax),
			Discounts:    money(b.disc),
			TotalRevenue: money(b.total),
		})
	}
	return result
}
