package service

import (
	"context"
	"time"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/currency"
	"github.com/dorada-store/internal/repository"

	"github.com/shopspring/decimal"
)

const dashboardTrendDays = 7

// DashboardStats is the admin overview.
type DashboardStats struct {
	Products          ProductStats         `json:"products"`
	Orders            OrderStats           `json:"orders"`
	Revenue           MoneyValue           `json:"revenue"`
	OpenValue         MoneyValue           `json:"open_value"`
	AverageOrderValue MoneyValue           `json:"average_order_value"`
	Trend             []DashboardTrendDay  `json:"trend"`
	TopProducts       []DashboardTopSeller `json:"top_products"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

type ProductStats struct {
	Total      int64 `json:"total"`
	OutOfStock int64 `json:"out_of_stock"`
	LowStock   int64 `json:"low_stock"`
	Units      int64 `json:"units"`
}

type OrderStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// MoneyValue is an IQD amount with its display form.
type MoneyValue struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

type DashboardTrendDay struct {
	Day    string     `json:"day"`
	Orders int64      `json:"orders"`
	Amount MoneyValue `json:"amount"`
}

type DashboardTopSeller struct {
	ProductID uint       `json:"product_id"`
	NameAr    string     `json:"name_ar"`
	Quantity  int64      `json:"quantity"`
	Amount    MoneyValue `json:"amount"`
}

// DashboardService aggregates catalog and order figures.
type DashboardService struct {
	store        repository.Store
	lowThreshold int
	now          func() time.Time
}

func NewDashboardService(store repository.Store, lowThreshold int) *DashboardService {
	return &DashboardService{store: store, lowThreshold: lowThreshold, now: time.Now}
}

// Stats computes the overview. Revenue counts delivered orders; open value
// counts orders still being fulfilled.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stock, err := s.store.Products().StockSummary(s.lowThreshold)
	if err != nil {
		return nil, storageError("stock summary", err)
	}
	now := s.now()
	since := now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -(dashboardTrendDays - 1))
	summary, err := s.store.Orders().Summary(since)
	if err != nil {
		return nil, storageError("order summary", err)
	}
	heldStatuses := []string{constants.OrderStatusProcessing, constants.OrderStatusShipped, constants.OrderStatusDelivered}
	top, err := s.store.Orders().TopProducts(heldStatuses, 5)
	if err != nil {
		return nil, storageError("top products", err)
	}

	byStatus := make(map[string]int64, len(constants.OrderStatuses))
	for _, status := range constants.OrderStatuses {
		byStatus[status] = summary.Counts[status]
	}

	revenue := summary.Amounts[constants.OrderStatusDelivered]
	open := summary.Amounts[constants.OrderStatusProcessing] + summary.Amounts[constants.OrderStatusShipped]

	// average over every order that was not cancelled
	counted := summary.Total - summary.Counts[constants.OrderStatusCancelled]
	var gross int64
	for status, amount := range summary.Amounts {
		if status != constants.OrderStatusCancelled {
			gross += amount
		}
	}
	average := decimal.Zero
	if counted > 0 {
		average = decimal.NewFromInt(gross).Div(decimal.NewFromInt(counted)).Round(0)
	}

	stats := &DashboardStats{
		Products: ProductStats{
			Total:      stock.Products,
			OutOfStock: stock.OutOfStock,
			LowStock:   stock.LowStock,
			Units:      stock.Units,
		},
		Orders:            OrderStats{Total: summary.Total, ByStatus: byStatus},
		Revenue:           money(revenue),
		OpenValue:         money(open),
		AverageOrderValue: MoneyValue{Amount: average.IntPart(), Formatted: currency.FormatDecimal(average)},
		Trend:             make([]DashboardTrendDay, 0, len(summary.LastDays)),
		TopProducts:       make([]DashboardTopSeller, 0, len(top)),
		GeneratedAt:       now,
	}
	for _, day := range summary.LastDays {
		stats.Trend = append(stats.Trend, DashboardTrendDay{Day: day.Day, Orders: day.Orders, Amount: money(day.Amount)})
	}
	for _, row := range top {
		stats.TopProducts = append(stats.TopProducts, DashboardTopSeller{
			ProductID: row.ProductID,
			NameAr:    row.NameAr,
			Quantity:  row.Quantity,
			Amount:    money(row.Amount),
		})
	}
	return stats, nil
}

func money(amount int64) MoneyValue {
	return MoneyValue{Amount: amount, Formatted: currency.Format(amount)}
}
