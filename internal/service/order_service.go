package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/events"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/metrics"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	nanoid "github.com/jaevor/go-nanoid"
)

const orderNoAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CustomerInfo is the delivery contact captured at checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

// OrderLine requests quantity units of one product.
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput checkout payload
type CreateOrderInput struct {
	Customer CustomerInfo `json:"customer"`
	Items    []OrderLine  `json:"items"`
}

// OrderQuery admin order listing filter
type OrderQuery struct {
	Status   string
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// OrderService owns checkout and the stock effects of status changes.
type OrderService struct {
	store     repository.Store
	catalog   *CatalogService
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       config.OrderConfig
	nextID    func() string
	now       func() time.Time
}

// NewOrderService creates the order service. publisher may be nil.
func NewOrderService(store repository.Store, catalog *CatalogService, publisher events.Publisher, m *metrics.Metrics, cfg config.OrderConfig) (*OrderService, error) {
	nextID, err := nanoid.CustomASCII(orderNoAlphabet, 6)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if cfg.MaxFieldLength <= 0 {
		cfg.MaxFieldLength = constants.MaxCustomerFieldLength
	}
	return &OrderService{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		nextID:    nextID,
		now:       time.Now,
	}, nil
}

// ShippingFee is the flat delivery charge added to every order.
func (s *OrderService) ShippingFee() int64 {
	return s.cfg.ShippingFee
}

// CreateOrder validates the customer and cart, checks live stock and stores
// a pending order. Stock is not decremented until the order is promoted.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	customer, err := s.validateCustomer(input.Customer)
	if err != nil {
		return nil, err
	}
	lines, err := s.mergeLines(input.Items)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		ids := make([]uint, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		products, err := tx.Products().ListByIDs(ids)
		if err != nil {
			return storageError("load order products", err)
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		now := s.now()
		items := make([]models.OrderItem, 0, len(lines))
		var subtotal int64
		for _, line := range lines {
			product, ok := byID[line.ProductID]
			if !ok {
				return ErrProductNotFound
			}
			if line.Quantity > product.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.NameAr,
					Requested:   line.Quantity,
					Available:   product.Quantity,
				}
			}
			item := models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				NameAr:    product.NameAr,
				Price:     product.Price,
				Quantity:  line.Quantity,
				Image:     product.CoverImage(),
				SKU:       product.SKU,
				CreatedAt: now,
			}
			subtotal += item.LineTotal()
			items = append(items, item)
		}

		order = &models.Order{
			CustomerName:    customer.Name,
			CustomerPhone:   customer.Phone,
			CustomerAddress: customer.Address,
			CustomerCity:    customer.City,
			Notes:           customer.Notes,
			Subtotal:        subtotal,
			ShippingFee:     s.cfg.ShippingFee,
			Total:           subtotal + s.cfg.ShippingFee,
			Currency:        constants.CurrencyIQD,
			Status:          constants.OrderStatusPending,
			StatusAr:        StatusLabelAr(constants.OrderStatusPending),
			CreatedAt:       now,
			UpdatedAt:       now,
			Items:           items,
		}
		for attempt := 0; ; attempt++ {
			order.OrderNo = s.generateOrderNo(now)
			err := tx.Orders().Create(order)
			if err == nil {
				return nil
			}
			if !errors.Is(err, repository.ErrDuplicate) || attempt >= 2 {
				return storageError("create order", err)
			}
		}
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.StockRejected("checkout")
		}
		return nil, err
	}

	s.metrics.OrderCreated()
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"items", len(order.Items),
		"total", order.Total,
	)
	s.publish(ctx, events.OrderCreated(order))
	return order, nil
}

// SetOrderStatus moves an order to status. Entering a stock-holding status
// from a free one decrements every line; leaving it restores them. All
// stock writes and the status write commit together or not at all.
func (s *OrderService) SetOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	status, ok := NormalizeOrderStatus(status)
	if !ok {
		return nil, ErrInvalidOrderStatus
	}

	var (
		order    *models.Order
		previous string
		restock  bool
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Orders().GetByID(id)
		if err != nil {
			return storageError("get order", err)
		}
		if current == nil {
			return ErrOrderNotFound
		}
		previous = current.Status
		if previous == status {
			order = current
			return nil
		}

		switch wasHeld, willHold := HoldsStock(previous), HoldsStock(status); {
		case !wasHeld && willHold:
			for _, line := range orderStockLines(current.Items) {
				if _, err := adjustStock(tx, line.ProductID, -line.Quantity); err != nil {
					return err
				}
			}
			restock = true
		case wasHeld && !willHold:
			for _, line := range orderStockLines(current.Items) {
				_, err := adjustStock(tx, line.ProductID, line.Quantity)
				if errors.Is(err, ErrProductNotFound) {
					logger.Warnw("order_restock_product_missing",
						"order_id", current.ID,
						"product_id", line.ProductID,
						"quantity", line.Quantity,
					)
					continue
				}
				if err != nil {
					return err
				}
			}
			restock = true
		}

		if err := tx.Orders().UpdateStatus(id, previous, status, StatusLabelAr(status), s.now()); err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				return ErrOrderStatusConflict
			case errors.Is(err, repository.ErrNotFound):
				return ErrOrderNotFound
			}
			return storageError("update order status", err)
		}
		order, err = tx.Orders().GetByID(id)
		if err != nil {
			return storageError("reload order", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.StatusTransition(previous, status, "rejected")
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.StockRejected("promote")
		}
		logger.Warnw("order_status_rejected", "order_id", id, "from", previous, "to", status, "error", err)
		return nil, err
	}
	if previous == status {
		return order, nil
	}

	s.metrics.StatusTransition(previous, status, "ok")
	if restock && s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}
	logger.Infow("order_status_changed", "order_id", id, "order_no", order.OrderNo, "from", previous, "to", status)
	s.publish(ctx, events.OrderStatusChanged(order, previous))
	return order, nil
}

// GetOrder loads an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(id)
	if err != nil {
		return nil, storageError("get order", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders is the admin order listing, newest first.
func (s *OrderService) ListOrders(ctx context.Context, query OrderQuery) ([]models.Order, int64, error) {
	status := strings.TrimSpace(query.Status)
	if status != "" {
		normalized, ok := NormalizeOrderStatus(status)
		if !ok {
			return nil, 0, ErrInvalidOrderStatus
		}
		status = normalized
	}
	orders, total, err := s.store.Orders().List(repository.OrderListFilter{
		Page:        query.Page,
		PageSize:    query.PageSize,
		Status:      status,
		Search:      strings.TrimSpace(query.Search),
		CreatedFrom: query.From,
		CreatedTo:   query.To,
	})
	if err != nil {
		return nil, 0, storageError("list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, total, nil
}

// TrackOrder lets a customer look up their order. An unknown number and a
// phone mismatch are indistinguishable.
func (s *OrderService) TrackOrder(ctx context.Context, orderNo, phone string) (*models.Order, error) {
	orderNo = strings.ToUpper(strings.TrimSpace(orderNo))
	normalized, ok := NormalizePhone(phone, s.cfg.PhonePolicy)
	if orderNo == "" || !ok {
		return nil, ErrOrderNotFound
	}
	order, err := s.store.Orders().GetByOrderNo(orderNo)
	if err != nil {
		return nil, storageError("get order by number", err)
	}
	if order == nil || order.CustomerPhone != normalized {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// RecordTelegramMessage stores the id of the notification message.
func (s *OrderService) RecordTelegramMessage(ctx context.Context, id uint, messageID int64) error {
	if err := s.store.Orders().SetTelegramMessageID(id, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return storageError("set telegram message id", err)
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.Warnw("order_event_publish_failed", "event", event.Type, "order_no", event.OrderNo, "error", err)
	}
}

func (s *OrderService) generateOrderNo(now time.Time) string {
	return constants.OrderNoPrefix + now.UTC().Format("20060102150405") + s.nextID()
}

func (s *OrderService) validateCustomer(in CustomerInfo) (CustomerInfo, error) {
	limit := s.cfg.MaxFieldLength
	out := CustomerInfo{
		Name:    sanitizeText(in.Name, limit),
		Address: sanitizeText(in.Address, limit),
		City:    sanitizeText(in.City, limit),
		Notes:   sanitizeText(in.Notes, limit),
	}
	if out.Name == "" {
		return out, invalid("name", "error.customer_name_required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return out, invalid("phone", "error.customer_phone_required")
	}
	phone, ok := NormalizePhone(in.Phone, s.cfg.PhonePolicy)
	if !ok {
		key := "error.customer_phone_invalid"
		if s.cfg.PhonePolicy == constants.PhonePolicyGeneric {
			key = "error.customer_phone_invalid_generic"
		}
		return out, invalid("phone", key)
	}
	out.Phone = phone
	if out.Address == "" {
		return out, invalid("address", "error.customer_address_required")
	}
	if out.City == "" {
		return out, invalid("city", "error.customer_city_required")
	}
	return out, nil
}

// mergeLines folds duplicate product lines, keeping first-seen order.
func (s *OrderService) mergeLines(items []OrderLine) ([]OrderLine, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	index := make(map[uint]int, len(items))
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 {
			return nil, invalid("product_id", "error.bad_request")
		}
		if item.Quantity <= 0 {
			return nil, invalid("quantity", "error.quantity_invalid")
		}
		if i, ok := index[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, item)
	}
	if s.cfg.MaxItems > 0 && len(lines) > s.cfg.MaxItems {
		return nil, ErrTooManyItems
	}
	return lines, nil
}
