package repository

import (
	"time"

	"github.com/dorada-store/internal/models"
)

// StockSummary counts products and units; low stock is 0 < quantity <= threshold.
func (r *GormProductRepository) StockSummary(lowThreshold int) (StockSummary, error) {
	var row struct {
		Products   int64
		OutOfStock int64
		LowStock   int64
		Units      int64
	}
	err := r.db.Model(&models.Product{}).
		Select(`COUNT(*) AS products,
			COALESCE(SUM(CASE WHEN quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN quantity > 0 AND quantity <= ? THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(quantity), 0) AS units`, lowThreshold).
		Scan(&row).Error
	if err != nil {
		return StockSummary{}, err
	}
	return StockSummary(row), nil
}

// Summary counts orders and sums totals per status, plus a daily trend
// starting at since.
func (r *GormOrderRepository) Summary(since time.Time) (OrderSummary, error) {
	summary := OrderSummary{Counts: map[string]int64{}, Amounts: map[string]int64{}}

	var rows []struct {
		Status string
		Orders int64
		Amount int64
	}
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS amount").
		Group("status").
		Scan(&rows).Error; err != nil {
		return summary, err
	}
	for _, row := range rows {
		summary.Counts[row.Status] = row.Orders
		summary.Amounts[row.Status] = row.Amount
		summary.Total += row.Orders
	}

	day := dayExpr(r.db, "created_at")
	var trend []DayOrderCount
	if err := r.db.Model(&models.Order{}).
		Select(day+" AS day, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS amount").
		Where("created_at >= ?", since).
		Group(day).
		Order("day ASC").
		Scan(&trend).Error; err != nil {
		return summary, err
	}
	summary.LastDays = trend
	return summary, nil
}

// TopProducts ranks snapshot lines of orders in the given statuses.
func (r *GormOrderRepository) TopProducts(statuses []string, limit int) ([]ProductRanking, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []ProductRanking
	err := r.db.Table("order_items AS oi").
		Select("oi.product_id AS product_id, MAX(oi.name_ar) AS name_ar, SUM(oi.quantity) AS quantity, SUM(oi.price * oi.quantity) AS amount").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status IN ?", statuses).
		Group("oi.product_id").
		Order("quantity DESC, product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
