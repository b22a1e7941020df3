package service

import (
	"context"
	"time"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/models"
)

type viewedEntry struct {
	ProductID uint      `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// RecentlyViewedItem is a viewed product with its live details.
type RecentlyViewedItem struct {
	Product  models.Product `json:"product"`
	ViewedAt time.Time      `json:"viewed_at"`
}

// RecentlyViewedService keeps the last products opened on a device, newest
// first, without repeats and capped at RecentlyViewedMax.
type RecentlyViewedService struct {
	devices localstore.Store
	catalog *CatalogService
	max     int
	now     func() time.Time
}

func NewRecentlyViewedService(devices localstore.Store, catalog *CatalogService) *RecentlyViewedService {
	return &RecentlyViewedService{
		devices: devices,
		catalog: catalog,
		max:     constants.RecentlyViewedMax,
		now:     time.Now,
	}
}

// Record moves productID to the front of the device's list.
func (s *RecentlyViewedService) Record(ctx context.Context, deviceID string, productID uint) error {
	if productID == 0 {
		return nil
	}
	entries, err := s.load(ctx, deviceID)
	if err != nil {
		return err
	}
	next := make([]viewedEntry, 0, len(entries)+1)
	next = append(next, viewedEntry{ProductID: productID, ViewedAt: s.now()})
	for _, entry := range entries {
		if entry.ProductID == productID {
			continue
		}
		if len(next) == s.max {
			break
		}
		next = append(next, entry)
	}
	return s.save(ctx, deviceID, next)
}

// List returns up to limit viewed products, newest first, leaving out
// exclude (the product on screen). Deleted products are skipped.
// limit <= 0 returns the whole list.
func (s *RecentlyViewedService) List(ctx context.Context, deviceID string, exclude uint, limit int) ([]RecentlyViewedItem, error) {
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
	items := make([]RecentlyViewedItem, 0, len(entries))
	for _, entry := range entries {
		if entry.ProductID == exclude {
			continue
		}
		product, ok := live[entry.ProductID]
		if !ok {
			continue
		}
		items = append(items, RecentlyViewedItem{Product: product, ViewedAt: entry.ViewedAt})
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *RecentlyViewedService) Clear(ctx context.Context, deviceID string) error {
	if err := s.devices.Delete(ctx, deviceID, constants.DeviceKeyRecentlyViewed); err != nil {
		return deviceError("clear recently viewed", err)
	}
	return nil
}

func (s *RecentlyViewedService) load(ctx context.Context, deviceID string) ([]viewedEntry, error) {
	var entries []viewedEntry
	if _, err := s.devices.Get(ctx, deviceID, constants.DeviceKeyRecentlyViewed, &entries); err != nil {
		return nil, deviceError("load recently viewed", err)
	}
	return entries, nil
}

func (s *RecentlyViewedService) save(ctx context.Context, deviceID string, entries []viewedEntry) error {
	if err := s.devices.Set(ctx, deviceID, constants.DeviceKeyRecentlyViewed, entries); err != nil {
		return deviceError("save recently viewed", err)
	}
	return nil
}
