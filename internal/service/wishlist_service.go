package service

import (
	"context"
	"time"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/models"
)

type wishlistEntry struct {
	ProductID uint      `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// WishlistItem is a saved product with its live details.
type WishlistItem struct {
	Product models.Product `json:"product"`
	AddedAt time.Time      `json:"added_at"`
}

// WishlistService keeps a saved-products list per device.
type WishlistService struct {
	devices localstore.Store
	catalog *CatalogService
}

func NewWishlistService(devices localstore.Store, catalog *CatalogService) *WishlistService {
	return &WishlistService{devices: devices, catalog: catalog}
}

// List returns saved products, most recent first. Deleted products are skipped.
func (s *WishlistService) List(ctx context.Context, deviceID string) ([]WishlistItem, error) {
	entries, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ProductID)
	}
	live, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]WishlistItem, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		product, ok := live[entries[i].ProductID]
		if !ok {
			continue
		}
		items = append(items, WishlistItem{Product: product, AddedAt: entries[i].AddedAt})
	}
	return items, nil
}

// Add saves productID; saving it twice fails with ErrWishlistDuplicate.
func (s *WishlistService) Add(ctx context.Context, deviceID string, productID uint) error {
	entries, err := s.load(ctx, deviceID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return ErrWishlistDuplicate
		}
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	entries = append(entries, wishlistEntry{ProductID: productID, AddedAt: time.Now()})
	return s.save(ctx, deviceID, entries)
}

func (s *WishlistService) Remove(ctx context.Context, deviceID string, productID uint) error {
	entries, err := s.load(ctx, deviceID)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	return s.save(ctx, deviceID, kept)
}

func (s *WishlistService) Contains(ctx context.Context, deviceID string, productID uint) (bool, error) {
	entries, err := s.load(ctx, deviceID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *WishlistService) Clear(ctx context.Context, deviceID string) error {
	if err := s.devices.Delete(ctx, deviceID, constants.DeviceKeyWishlist); err != nil {
		return deviceError("clear wishlist", err)
	}
	return nil
}

func (s *WishlistService) load(ctx context.Context, deviceID string) ([]wishlistEntry, error) {
	var entries []wishlistEntry
	if _, err := s.devices.Get(ctx, deviceID, constants.DeviceKeyWishlist, &entries); err != nil {
		return nil, deviceError("load wishlist", err)
	}
	return entries, nil
}

func (s *WishlistService) save(ctx context.Context, deviceID string, entries []wishlistEntry) error {
	if err := s.devices.Set(ctx, deviceID, constants.DeviceKeyWishlist, entries); err != nil {
		return deviceError("save wishlist", err)
	}
	return nil
}
