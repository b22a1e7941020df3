package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductValidation(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		images := []string{"/uploads/a.jpg"}
		blankImages := []string{"  "}

		valid := func() ProductInput {
			return ProductInput{
				CategoryID: uintPtr(f.category.ID),
				NameAr:     strPtr("قلادة"),
				Price:      int64Ptr(1000),
				Images:     &images,
				SKU:        strPtr("n-1"),
			}
		}
		cases := []struct {
			name   string
			mutate func(in *ProductInput)
			key    string
		}{
			{"name", func(in *ProductInput) { in.NameAr = strPtr(" ") }, "error.product_name_required"},
			{"price", func(in *ProductInput) { in.Price = int64Ptr(0) }, "error.product_price_invalid"},
			{"images", func(in *ProductInput) { in.Images = &blankImages }, "error.product_images_required"},
			{"category missing", func(in *ProductInput) { in.CategoryID = nil }, "error.product_category_required"},
			{"category unknown", func(in *ProductInput) { in.CategoryID = uintPtr(f.category.ID + 50) }, "error.product_category_invalid"},
			{"sku", func(in *ProductInput) { in.SKU = strPtr("") }, "error.product_sku_required"},
			{"negative quantity", func(in *ProductInput) { in.Quantity = intPtr(-1) }, "error.product_quantity_invalid"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := valid()
				tc.mutate(&in)
				_, err := f.catalog.CreateProduct(ctx, in)
				var validation *ValidationError
				require.True(t, errors.As(err, &validation), "got %v", err)
				assert.Equal(t, tc.key, validation.Key)
			})
		}

		product, err := f.catalog.CreateProduct(ctx, valid())
		require.NoError(t, err)
		assert.Equal(t, "N-1", product.SKU)
		assert.Equal(t, 0, product.Quantity)
		assert.False(t, product.InStock)
		assert.Equal(t, "خواتم", product.CategoryNameAr)

		_, err = f.catalog.CreateProduct(ctx, valid())
		assert.ErrorIs(t, err, ErrSKUExists)
	})
}

func TestInStockFollowsQuantity(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "S-1", 1, 1000)
		assert.True(t, p.InStock)

		updated, err := f.catalog.AdjustQuantity(ctx, p.ID, -1)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Quantity)
		assert.False(t, updated.InStock)

		updated, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Quantity: intPtr(4)})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Quantity)
		assert.True(t, updated.InStock)

		updated, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Quantity: intPtr(0)})
		require.NoError(t, err)
		assert.False(t, updated.InStock)
	})
}

func TestAdjustQuantityNeverGoesNegative(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "S-2", 3, 1000)

		_, err := f.catalog.AdjustQuantity(ctx, p.ID, -4)
		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 4, stockErr.Requested)
		assert.Equal(t, 3, stockErr.Available)
		assert.Equal(t, "خاتم S-2", stockErr.ProductName)
		assert.Equal(t, 3, f.quantity(t, p.ID))

		updated, err := f.catalog.AdjustQuantity(ctx, p.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Quantity)

		_, err = f.catalog.AdjustQuantity(ctx, p.ID+40, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestUpdateProductQuantityCompareAndSwap(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "S-3", 5, 1000)

		// the admin form was loaded at 5, a checkout promotion moved it to 3
		_, err := f.catalog.AdjustQuantity(ctx, p.ID, -2)
		require.NoError(t, err)

		_, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Quantity: intPtr(10), ExpectedQuantity: intPtr(5)})
		assert.ErrorIs(t, err, ErrStockConflict)
		assert.Equal(t, 3, f.quantity(t, p.ID))

		updated, err := f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Quantity: intPtr(10), ExpectedQuantity: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 10, updated.Quantity)
	})
}

func TestUpdateProductPatchesPresentFields(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p, err := f.catalog.CreateProduct(ctx, ProductInput{
			CategoryID:    uintPtr(f.category.ID),
			NameAr:        strPtr("سوار"),
			Name:          strPtr("Bracelet"),
			Price:         int64Ptr(90000),
			OriginalPrice: int64Ptr(120000),
			Images:        &[]string{"/uploads/b.jpg"},
			SKU:           strPtr("B-1"),
			Quantity:      intPtr(2),
			Material:      strPtr("ذهب عيار 21"),
			Features:      &models.ProductFeatures{{ID: "water", Label: "مقاومة الماء", Value: "نعم"}},
		})
		require.NoError(t, err)
		other := f.product(t, "B-2", 1, 1000)

		updated, err := f.catalog.UpdateProduct(ctx, p.ID, ProductInput{
			Price:              int64Ptr(85000),
			ClearOriginalPrice: true,
			Featured:           boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(85000), updated.Price)
		assert.Nil(t, updated.OriginalPrice)
		assert.True(t, updated.Featured)
		assert.Equal(t, "Bracelet", updated.Name)
		assert.Equal(t, "ذهب عيار 21", updated.Material)
		assert.Equal(t, 2, updated.Quantity)
		require.Len(t, updated.Features, 1)
		assert.Equal(t, "مقاومة الماء", updated.Features[0].Label)

		_, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{SKU: strPtr(other.SKU)})
		assert.ErrorIs(t, err, ErrSKUExists)
		_, err = f.catalog.UpdateProduct(ctx, p.ID+99, ProductInput{Price: int64Ptr(1)})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestCatalogQueries(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "Q-1", 5, 1000)
		f.product(t, "Q-2", 0, 1000)
		_, err := f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Featured: boolPtr(true)})
		require.NoError(t, err)

		necklaces := &models.Category{Name: "Necklaces", NameAr: "قلائد"}
		require.NoError(t, store.Categories().Create(necklaces))

		all, err := f.catalog.GetProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		featured, err := f.catalog.GetFeaturedProducts(ctx)
		require.NoError(t, err)
		require.Len(t, featured, 1)
		assert.Equal(t, p.ID, featured[0].ID)

		for _, ref := range []string{"rings", "خواتم", "Rings"} {
			byName, err := f.catalog.GetProductsByCategory(ctx, ref)
			require.NoError(t, err)
			assert.Len(t, byName, 2, ref)
		}
		empty, err := f.catalog.GetProductsByCategory(ctx, "قلائد")
		require.NoError(t, err)
		assert.Empty(t, empty)
		unknown, err := f.catalog.GetProductsByCategory(ctx, "earrings")
		require.NoError(t, err)
		assert.Empty(t, unknown)

		out, err := f.catalog.ListProducts(ctx, ProductQuery{StockStatus: repository.StockStatusOutOfStock})
		require.NoError(t, err)
		require.Len(t, out.Items, 1)
		assert.Equal(t, "Q-2", out.Items[0].SKU)

		found, err := f.catalog.ListByIDs(ctx, []uint{p.ID, p.ID + 500})
		require.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Contains(t, found, p.ID)
	})
}

func TestDeleteProduct(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "D-1", 1, 1000)

		require.NoError(t, f.catalog.DeleteProduct(ctx, p.ID))
		_, err := f.catalog.GetProduct(ctx, p.ID)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.ErrorIs(t, f.catalog.DeleteProduct(ctx, p.ID), ErrProductNotFound)
	})
}

func TestCategoryDeletePolicies(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "C-1", 1, 1000)

		restrict := NewCategoryService(store, nil, "")
		assert.Equal(t, "restrict", restrict.Policy())
		_, err := restrict.Delete(ctx, f.category.ID)
		assert.ErrorIs(t, err, ErrCategoryInUse)

		orphan := NewCategoryService(store, nil, "orphan")
		moved, err := orphan.Delete(ctx, f.category.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, moved)

		product, err := f.catalog.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		system, err := store.Categories().GetSystem()
		require.NoError(t, err)
		assert.Equal(t, system.ID, product.CategoryID)

		_, err = orphan.Delete(ctx, system.ID)
		assert.ErrorIs(t, err, ErrCategorySystem)
		_, err = orphan.Get(ctx, f.category.ID)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCategoryCreateAndRename(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		categories := NewCategoryService(store, nil, "restrict")

		_, err := categories.Create(ctx, CategoryInput{Name: "Earrings"})
		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
		assert.Equal(t, "error.category_name_required", validation.Key)

		created, err := categories.Create(ctx, CategoryInput{NameAr: " أقراط "})
		require.NoError(t, err)
		assert.Equal(t, "أقراط", created.NameAr)
		assert.Equal(t, "أقراط", created.Name)

		p := f.product(t, "C-2", 1, 1000)
		_, err = categories.Update(ctx, f.category.ID, CategoryInput{Name: "Fine rings", NameAr: "خواتم فاخرة"})
		require.NoError(t, err)
		product, err := f.catalog.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "خواتم فاخرة", product.CategoryNameAr)

		list, err := categories.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func boolPtr(v bool) *bool { return &v }

func TestCachedListingsFollowStockChanges(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	require.NoError(t, cache.InitRedis(&config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, Prefix: "dorada-test"}))
	t.Cleanup(func() { _ = cache.Close() })

	store := repository.NewMemoryStore()
	f := newShopFixture(t, store)
	ctx := context.Background()
	catalogCache := cache.NewCatalogCache(time.Minute)
	cached := NewCatalogService(store, catalogCache, nil, config.CatalogConfig{LowStockThreshold: 3})
	p := f.product(t, "CACHE-1", 5, 1000)

	page, err := cached.ListProducts(ctx, ProductQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 5, page.Items[0].Quantity)

	// a reader captured the generation and loaded before the stock change
	key := ProductQuery{}.cacheKey()
	var stale ProductPage
	gen, hit, err := catalogCache.Get(ctx, key, &stale)
	require.NoError(t, err)
	require.True(t, hit)

	_, err = cached.AdjustQuantity(ctx, p.ID, -2)
	require.NoError(t, err)
	require.NoError(t, catalogCache.Set(ctx, key, gen, stale))

	page, err = cached.ListProducts(ctx, ProductQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].Quantity)

	// the fresh listing is cached under the new generation
	page, err = cached.ListProducts(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Items[0].Quantity)
}
