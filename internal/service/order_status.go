package service

import (
	"sort"
	"strings"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/models"
)

// Statuses whose orders have taken their units out of stock.
var stockHeldStatuses = map[string]struct{}{
	constants.OrderStatusProcessing: {},
	constants.OrderStatusShipped:    {},
	constants.OrderStatusDelivered:  {},
}

// NormalizeOrderStatus lower-cases and validates a status.
func NormalizeOrderStatus(raw string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(raw))
	_, ok := constants.OrderStatusLabelsAr[status]
	return status, ok
}

// HoldsStock reports whether an order in status has decremented stock.
// pending and cancelled hold nothing.
func HoldsStock(status string) bool {
	_, ok := stockHeldStatuses[status]
	return ok
}

// StatusLabelAr returns the Arabic label stored with the status.
func StatusLabelAr(status string) string {
	if label, ok := constants.OrderStatusLabelsAr[status]; ok {
		return label
	}
	return status
}

// stockLine is one product's total quantity within an order.
type stockLine struct {
	ProductID uint
	Name      string
	Quantity  int
}

// orderStockLines merges the order's items per product, ordered by product
// id so concurrent transitions touch rows in the same order.
func orderStockLines(items []models.OrderItem) []stockLine {
	index := make(map[uint]int, len(items))
	lines := make([]stockLine, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, stockLine{ProductID: item.ProductID, Name: item.NameAr, Quantity: item.Quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}
