package service

import (
	"context"
	"errors"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"
)

// CartView is the cart plus delivery charge.
type CartView struct {
	Cart
	ShippingFee int64 `json:"shipping_fee"`
	Total       int64 `json:"total"`
}

// CartService persists one cart per device and validates it against live stock.
type CartService struct {
	devices localstore.Store
	catalog *CatalogService
	orders  *OrderService
}

func NewCartService(devices localstore.Store, catalog *CatalogService, orders *OrderService) *CartService {
	return &CartService{devices: devices, catalog: catalog, orders: orders}
}

// Get returns the device cart refreshed with live prices and stock.
func (s *CartService) Get(ctx context.Context, deviceID string) (*CartView, error) {
	cart, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

// AddItem adds qty units of productID.
func (s *CartService) AddItem(ctx context.Context, deviceID string, productID uint, qty int) (*CartView, error) {
	return s.mutate(ctx, deviceID, func(cart *Cart) error {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		return cart.Add(*product, qty)
	})
}

// UpdateItem sets the quantity of productID; qty <= 0 removes it.
func (s *CartService) UpdateItem(ctx context.Context, deviceID string, productID uint, qty int) (*CartView, error) {
	return s.mutate(ctx, deviceID, func(cart *Cart) error {
		if qty <= 0 {
			cart.Remove(productID)
			return nil
		}
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		return cart.UpdateQuantity(*product, qty)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, deviceID string, productID uint) (*CartView, error) {
	return s.mutate(ctx, deviceID, func(cart *Cart) error {
		cart.Remove(productID)
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, deviceID string) error {
	if err := s.devices.Delete(ctx, deviceID, constants.DeviceKeyCart); err != nil {
		return deviceError("clear cart", err)
	}
	return nil
}

// Checkout places an order for the device cart and empties it on success.
func (s *CartService) Checkout(ctx context.Context, deviceID string, customer CustomerInfo) (*models.Order, error) {
	cart, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.CreateOrder(ctx, CreateOrderInput{Customer: customer, Items: cart.OrderLines()})
	if err != nil {
		return nil, err
	}
	if err := s.Clear(ctx, deviceID); err != nil {
		logger.Warnw("cart_clear_after_checkout_failed", "order_no", order.OrderNo, "error", err)
	}
	return order, nil
}

func (s *CartService) mutate(ctx context.Context, deviceID string, fn func(cart *Cart) error) (*CartView, error) {
	cart, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.devices.Set(ctx, deviceID, constants.DeviceKeyCart, cart); err != nil {
		return nil, deviceError("save cart", err)
	}
	return s.view(cart), nil
}

func (s *CartService) load(ctx context.Context, deviceID string) (*Cart, error) {
	cart := &Cart{}
	if _, err := s.devices.Get(ctx, deviceID, constants.DeviceKeyCart, cart); err != nil {
		return nil, deviceError("load cart", err)
	}
	if len(cart.Lines) == 0 {
		cart.Clear()
		return cart, nil
	}
	live, err := s.catalog.ListByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	cart.Refresh(live)
	return cart, nil
}

func (s *CartService) view(cart *Cart) *CartView {
	view := &CartView{Cart: *cart}
	if len(cart.Lines) > 0 {
		view.ShippingFee = s.orders.ShippingFee()
	}
	view.Total = view.Subtotal + view.ShippingFee
	return view
}

func deviceError(op string, err error) error {
	if errors.Is(err, localstore.ErrInvalidDevice) {
		return ErrInvalidDevice
	}
	return storageError(op, err)
}
