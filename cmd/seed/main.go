package main

import (
	"context"
	"errors"

	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"
	"github.com/dorada-store/internal/service"
)

type seedProduct struct {
	category string
	sku      string
	name     string
	nameAr   string
	price    int64
	quantity int
	featured bool
	material string
	image    string
}

var seedCategories = []service.CategoryInput{
	{Name: "Rings", NameAr: "خواتم", Icon: "ring"},
	{Name: "Necklaces", NameAr: "قلائد", Icon: "necklace"},
	{Name: "Bracelets", NameAr: "أساور", Icon: "bracelet"},
}

var seedProducts = []seedProduct{
	{category: "Rings", sku: "RNG-001", name: "Gold Solitaire Ring", nameAr: "خاتم ذهب سوليتير", price: 450000, quantity: 5, featured: true, material: "18K gold", image: "/uploads/seed/ring-solitaire.jpg"},
	{category: "Rings", sku: "RNG-002", name: "Silver Band", nameAr: "خاتم فضة", price: 65000, quantity: 20, material: "925 silver", image: "/uploads/seed/ring-band.jpg"},
	{category: "Necklaces", sku: "NCK-001", name: "Pearl Necklace", nameAr: "قلادة لؤلؤ", price: 320000, quantity: 3, featured: true, material: "Freshwater pearl", image: "/uploads/seed/necklace-pearl.jpg"},
	{category: "Bracelets", sku: "BRC-001", name: "Gold Bangle", nameAr: "إسوارة ذهب", price: 540000, quantity: 0, material: "21K gold", image: "/uploads/seed/bangle.jpg"},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	ctx := context.Background()
	store := repository.NewGormStore(models.DB)
	catalogCache := cache.NewCatalogCache(cfg.Catalog.CacheTTL())
	categories := service.NewCategoryService(store, catalogCache, cfg.Catalog.CategoryDeletePolicy)
	catalog := service.NewCatalogService(store, catalogCache, nil, cfg.Catalog)

	existing, err := categories.List(ctx)
	if err != nil {
		stdLog.Fatalf("list categories failed: %v", err)
	}
	categoryIDs := make(map[string]uint, len(existing))
	for _, c := range existing {
		categoryIDs[c.Name] = c.ID
	}
	for _, input := range seedCategories {
		if _, ok := categoryIDs[input.Name]; ok {
			logger.Infow("seed_category_exists", "name", input.Name)
			continue
		}
		created, err := categories.Create(ctx, input)
		if err != nil {
			stdLog.Fatalf("create category %s failed: %v", input.Name, err)
		}
		categoryIDs[created.Name] = created.ID
		logger.Infow("seed_category_created", "name", created.Name, "id", created.ID)
	}

	for _, p := range seedProducts {
		categoryID := categoryIDs[p.category]
		images := []string{p.image}
		_, err := catalog.CreateProduct(ctx, service.ProductInput{
			CategoryID: &categoryID,
			Name:       &p.name,
			NameAr:     &p.nameAr,
			Price:      &p.price,
			Images:     &images,
			Quantity:   &p.quantity,
			Featured:   &p.featured,
			SKU:        &p.sku,
			Material:   &p.material,
		})
		switch {
		case errors.Is(err, service.ErrSKUExists):
			logger.Infow("seed_product_exists", "sku", p.sku)
		case err != nil:
			stdLog.Fatalf("create product %s failed: %v", p.sku, err)
		default:
			logger.Infow("seed_product_created", "sku", p.sku)
		}
	}
}
