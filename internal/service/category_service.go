package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"
)

// CategoryInput create/update payload
type CategoryInput struct {
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
	Icon   string `json:"icon"`
}

// CategoryService manages categories and the delete policy for their products.
type CategoryService struct {
	store        repository.Store
	cache        *cache.CatalogCache
	deletePolicy string
}

// NewCategoryService creates the category service. policy is restrict or orphan.
func NewCategoryService(store repository.Store, catalogCache *cache.CatalogCache, policy string) *CategoryService {
	if policy != constants.CategoryDeleteOrphan {
		policy = constants.CategoryDeleteRestrict
	}
	return &CategoryService{store: store, cache: catalogCache, deletePolicy: policy}
}

// Policy returns the active delete policy.
func (s *CategoryService) Policy() string {
	return s.deletePolicy
}

// List returns categories ordered by Arabic name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().List()
	if err != nil {
		return nil, storageError("list categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(id)
	if err != nil {
		return nil, storageError("get category", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	category := &models.Category{
		Name:      input.Name,
		NameAr:    input.NameAr,
		Icon:      input.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Categories().Create(category); err != nil {
		return nil, storageError("create category", err)
	}
	return category, nil
}

// Update renames a category; products follow through the id.
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.NameAr = input.NameAr
	category.Icon = input.Icon
	if err := s.store.Categories().Update(category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storageError("update category", err)
	}
	s.invalidate(ctx)
	return category, nil
}

// Delete applies the configured policy: restrict refuses while products
// reference the category, orphan moves them to the system category first.
// Returns the number of products moved.
func (s *CategoryService) Delete(ctx context.Context, id uint) (int64, error) {
	var moved int64
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		category, err := tx.Categories().GetByID(id)
		if err != nil {
			return storageError("get category", err)
		}
		if category == nil {
			return ErrCategoryNotFound
		}
		if category.IsSystem {
			return ErrCategorySystem
		}
		count, err := tx.Products().CountByCategory(id)
		if err != nil {
			return storageError("count category products", err)
		}
		if count > 0 {
			if s.deletePolicy != constants.CategoryDeleteOrphan {
				return ErrCategoryInUse
			}
			fallback, err := tx.Categories().GetSystem()
			if err != nil {
				return storageError("get system category", err)
			}
			if moved, err = tx.Products().ReassignCategory(id, fallback.ID); err != nil {
				return storageError("reassign products", err)
			}
		}
		if err := tx.Categories().Delete(id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return storageError("delete category", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	logger.Infow("category_deleted", "category_id", id, "policy", s.deletePolicy, "products_moved", moved)
	return moved, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func (in CategoryInput) normalize() (CategoryInput, error) {
	in.NameAr = sanitizeText(in.NameAr, 120)
	in.Name = sanitizeText(in.Name, 120)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.NameAr == "" {
		return in, invalid("name_ar", "error.category_name_required")
	}
	if in.Name == "" {
		in.Name = in.NameAr
	}
	return in, nil
}
