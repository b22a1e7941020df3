package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/metrics"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"golang.org/x/sync/singleflight"
)

// ProductInput carries create and partial update fields. Nil means absent.
type ProductInput struct {
	CategoryID         *uint                   `json:"category_id"`
	Name               *string                 `json:"name"`
	NameAr             *string                 `json:"name_ar"`
	Description        *string                 `json:"description"`
	DescriptionAr      *string                 `json:"description_ar"`
	Price              *int64                  `json:"price"`
	OriginalPrice      *int64                  `json:"original_price"`
	ClearOriginalPrice bool                    `json:"clear_original_price"`
	Images             *[]string               `json:"images"`
	Quantity           *int                    `json:"quantity"`
	ExpectedQuantity   *int                    `json:"expected_quantity"`
	Featured           *bool                   `json:"featured"`
	SKU                *string                 `json:"sku"`
	Features           *models.ProductFeatures `json:"features"`
	Weight             *string                 `json:"weight"`
	Material           *string                 `json:"material"`
	Size               *string                 `json:"size"`
	Color              *string                 `json:"color"`
	Warranty           *string                 `json:"warranty"`
}

// ProductQuery filters catalog reads. CategoryRef is an id or a category name.
type ProductQuery struct {
	CategoryRef string
	Featured    *bool
	Search      string
	StockStatus string
	Page        int
	PageSize    int
}

// ProductPage is one cached listing result.
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// CatalogService owns products and their stock.
type CatalogService struct {
	store        repository.Store
	cache        *cache.CatalogCache
	metrics      *metrics.Metrics
	group        singleflight.Group
	lowThreshold int
}

// NewCatalogService creates the catalog service. cache and m may be nil.
func NewCatalogService(store repository.Store, catalogCache *cache.CatalogCache, m *metrics.Metrics, cfg config.CatalogConfig) *CatalogService {
	return &CatalogService{
		store:        store,
		cache:        catalogCache,
		metrics:      m,
		lowThreshold: cfg.LowStockThreshold,
	}
}

// GetProducts lists the whole catalog, newest first.
func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	page, err := s.ListProducts(ctx, ProductQuery{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetFeaturedProducts lists products flagged for the home page.
func (s *CatalogService) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	featured := true
	page, err := s.ListProducts(ctx, ProductQuery{Featured: &featured})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetProductsByCategory accepts a category id or a name in either language.
// An unknown name yields an empty list.
func (s *CatalogService) GetProductsByCategory(ctx context.Context, ref string) ([]models.Product, error) {
	if strings.TrimSpace(ref) == "" {
		return []models.Product{}, nil
	}
	page, err := s.ListProducts(ctx, ProductQuery{CategoryRef: ref})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// ListProducts is the cached catalog query behind every listing.
func (s *CatalogService) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	key := query.cacheKey()
	var page ProductPage
	gen, hit, err := s.cache.Get(ctx, key, &page)
	if err != nil {
		logger.Debugw("catalog_cache_get_failed", "key", key, "error", err)
	} else if hit {
		s.metrics.CatalogCache(true)
		return &page, nil
	}
	s.metrics.CatalogCache(false)

	// Callers that saw a newer generation must not join a load started
	// before the invalidation.
	flightKey := fmt.Sprintf("%d|%s", gen, key)
	value, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		loaded, err := s.loadProducts(query)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, gen, loaded); err != nil {
			logger.Debugw("catalog_cache_set_failed", "key", key, "error", err)
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*ProductPage), nil
}

func (s *CatalogService) loadProducts(query ProductQuery) (*ProductPage, error) {
	filter := repository.ProductListFilter{
		Page:              query.Page,
		PageSize:          query.PageSize,
		Featured:          query.Featured,
		Search:            strings.TrimSpace(query.Search),
		StockStatus:       query.StockStatus,
		LowStockThreshold: s.lowThreshold,
	}
	if ref := strings.TrimSpace(query.CategoryRef); ref != "" {
		categoryID, err := s.resolveCategory(ref)
		if err != nil {
			return nil, err
		}
		if categoryID == 0 {
			return &ProductPage{Items: []models.Product{}}, nil
		}
		filter.CategoryID = categoryID
	}
	items, total, err := s.store.Products().List(filter)
	if err != nil {
		return nil, storageError("list products", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ProductPage{Items: items, Total: total}, nil
}

func (s *CatalogService) resolveCategory(ref string) (uint, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return uint(id), nil
	}
	category, err := s.store.Categories().FindByName(ref)
	if err != nil {
		return 0, storageError("find category", err)
	}
	if category == nil {
		return 0, nil
	}
	return category.ID, nil
}

// GetProduct loads one product live.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.store.Products().GetByID(id)
	if err != nil {
		return nil, storageError("get product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListByIDs loads live products for cart and wishlist views.
func (s *CatalogService) ListByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := s.store.Products().ListByIDs(ids)
	if err != nil {
		return nil, storageError("list products by id", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// CreateProduct validates and inserts a product.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}
	product := input.toModel()

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := checkCategory(tx, product.CategoryID); err != nil {
			return err
		}
		existing, err := tx.Products().GetBySKU(product.SKU)
		if err != nil {
			return storageError("get product by sku", err)
		}
		if existing != nil {
			return ErrSKUExists
		}
		if err := tx.Products().Create(product); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrSKUExists
			}
			return storageError("create product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	logger.Infow("product_created", "product_id", product.ID, "sku", product.SKU, "quantity", product.Quantity)
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies the present fields. A quantity write is a
// compare-and-swap against the quantity read in the same transaction, or
// against ExpectedQuantity when the caller sent one.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Products().GetByID(id)
		if err != nil {
			return storageError("get product", err)
		}
		if current == nil {
			return ErrProductNotFound
		}
		if input.CategoryID != nil && *input.CategoryID != current.CategoryID {
			if err := checkCategory(tx, *input.CategoryID); err != nil {
				return err
			}
		}
		patch := input.toPatch()
		if patch.SKU != nil && *patch.SKU != current.SKU {
			other, err := tx.Products().GetBySKU(*patch.SKU)
			if err != nil {
				return storageError("get product by sku", err)
			}
			if other != nil && other.ID != id {
				return ErrSKUExists
			}
		}
		if err := tx.Products().Patch(id, patch); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicate):
				return ErrSKUExists
			case errors.Is(err, repository.ErrNotFound):
				return ErrProductNotFound
			}
			return storageError("patch product", err)
		}
		if input.Quantity == nil {
			return nil
		}
		expected := current.Quantity
		if input.ExpectedQuantity != nil {
			expected = *input.ExpectedQuantity
		}
		if err := tx.Products().SetQuantity(id, expected, *input.Quantity); err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				s.metrics.StockRejected("set")
				return ErrStockConflict
			case errors.Is(err, repository.ErrNotFound):
				return ErrProductNotFound
			}
			return storageError("set quantity", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes the product. Orders keep their snapshots.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.store.Products().Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return storageError("delete product", err)
	}
	s.invalidate(ctx)
	logger.Infow("product_deleted", "product_id", id)
	return nil
}

// AdjustQuantity adds delta to the stock in one conditional update and
// returns the product after the change.
func (s *CatalogService) AdjustQuantity(ctx context.Context, id uint, delta int) (*models.Product, error) {
	if _, err := adjustStock(s.store, id, delta); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.StockRejected("adjust")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetProduct(ctx, id)
}

// Invalidate drops every cached catalog read.
func (s *CatalogService) Invalidate(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

// adjustStock maps repository stock errors onto service errors.
func adjustStock(store repository.Store, id uint, delta int) (int, error) {
	quantity, err := store.Products().AdjustQuantity(id, delta)
	if err == nil {
		return quantity, nil
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return 0, ErrProductNotFound
	case errors.Is(err, repository.ErrInsufficientStock):
		stockErr := &InsufficientStockError{ProductID: id, Requested: -delta}
		if product, getErr := store.Products().GetByID(id); getErr == nil && product != nil {
			stockErr.ProductName = product.NameAr
			stockErr.Available = product.Quantity
		}
		return 0, stockErr
	}
	return 0, storageError("adjust quantity", err)
}

func checkCategory(store repository.Store, categoryID uint) error {
	category, err := store.Categories().GetByID(categoryID)
	if err != nil {
		return storageError("get category", err)
	}
	if category == nil {
		return invalid("category_id", "error.product_category_invalid")
	}
	return nil
}

func (q ProductQuery) cacheKey() string {
	featured := "-"
	if q.Featured != nil {
		featured = strconv.FormatBool(*q.Featured)
	}
	return fmt.Sprintf("products:%s:%s:%s:%s:%d:%d",
		strings.ToLower(strings.TrimSpace(q.CategoryRef)),
		featured,
		strings.ToLower(strings.TrimSpace(q.Search)),
		q.StockStatus,
		q.Page,
		q.PageSize,
	)
}

func (in ProductInput) validate(create bool) error {
	if create || in.NameAr != nil {
		if in.NameAr == nil || strings.TrimSpace(*in.NameAr) == "" {
			return invalid("name_ar", "error.product_name_required")
		}
	}
	if create || in.Price != nil {
		if in.Price == nil || *in.Price <= 0 {
			return invalid("price", "error.product_price_invalid")
		}
	}
	if in.OriginalPrice != nil && *in.OriginalPrice <= 0 {
		return invalid("original_price", "error.product_original_price_invalid")
	}
	if create || in.Images != nil {
		if in.Images == nil || len(cleanImages(*in.Images)) == 0 {
			return invalid("images", "error.product_images_required")
		}
	}
	if create || in.CategoryID != nil {
		if in.CategoryID == nil || *in.CategoryID == 0 {
			return invalid("category_id", "error.product_category_required")
		}
	}
	if create || in.SKU != nil {
		if in.SKU == nil || normalizeSKU(*in.SKU) == "" {
			return invalid("sku", "error.product_sku_required")
		}
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return invalid("quantity", "error.product_quantity_invalid")
	}
	if in.ExpectedQuantity != nil && *in.ExpectedQuantity < 0 {
		return invalid("expected_quantity", "error.product_quantity_invalid")
	}
	return nil
}

func (in ProductInput) toModel() *models.Product {
	now := time.Now()
	p := &models.Product{
		CategoryID: *in.CategoryID,
		NameAr:     strings.TrimSpace(*in.NameAr),
		Price:      *in.Price,
		Images:     cleanImages(*in.Images),
		SKU:        normalizeSKU(*in.SKU),
		Features:   models.ProductFeatures{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.DescriptionAr != nil {
		p.DescriptionAr = strings.TrimSpace(*in.DescriptionAr)
	}
	if in.OriginalPrice != nil {
		value := *in.OriginalPrice
		p.OriginalPrice = &value
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	p.Weight = trimPtr(in.Weight)
	p.Material = trimPtr(in.Material)
	p.Size = trimPtr(in.Size)
	p.Color = trimPtr(in.Color)
	p.Warranty = trimPtr(in.Warranty)
	p.InStock = p.Quantity > 0
	return p
}

func (in ProductInput) toPatch() repository.ProductPatch {
	patch := repository.ProductPatch{
		CategoryID:         in.CategoryID,
		Name:               trimmedPtr(in.Name),
		NameAr:             trimmedPtr(in.NameAr),
		Description:        trimmedPtr(in.Description),
		DescriptionAr:      trimmedPtr(in.DescriptionAr),
		Price:              in.Price,
		OriginalPrice:      in.OriginalPrice,
		ClearOriginalPrice: in.ClearOriginalPrice && in.OriginalPrice == nil,
		Featured:           in.Featured,
		Features:           in.Features,
		Weight:             trimmedPtr(in.Weight),
		Material:           trimmedPtr(in.Material),
		Size:               trimmedPtr(in.Size),
		Color:              trimmedPtr(in.Color),
		Warranty:           trimmedPtr(in.Warranty),
	}
	if in.Images != nil {
		images := cleanImages(*in.Images)
		patch.Images = &images
	}
	if in.SKU != nil {
		sku := normalizeSKU(*in.SKU)
		patch.SKU = &sku
	}
	return patch
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, image := range images {
		if value := strings.TrimSpace(image); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func trimPtr(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
