package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dorada-store/internal/models"
)

// MemoryStore is the in-process Store used by the local deployment variant
// and by tests. One mutex serializes every call; WithinTx holds it for the
// whole callback and restores a snapshot when the callback fails.
type MemoryStore struct {
	shared *memoryShared
	inTx   bool
}

type memoryShared struct {
	mu    sync.Mutex
	state *memoryState
	now   func() time.Time
}

type memoryState struct {
	products   map[uint]models.Product
	categories map[uint]models.Category
	orders     map[uint]models.Order
	settings   map[string]models.Setting

	nextProductID  uint
	nextCategoryID uint
	nextOrderID    uint
	nextItemID     uint
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{shared: &memoryShared{
		state: &memoryState{
			products:   map[uint]models.Product{},
			categories: map[uint]models.Category{},
			orders:     map[uint]models.Order{},
			settings:   map[string]models.Setting{},
		},
		now: time.Now,
	}}
}

func (s *MemoryStore) Products() ProductRepository {
	return &memoryProductRepository{store: s}
}

func (s *MemoryStore) Categories() CategoryRepository {
	return &memoryCategoryRepository{store: s}
}

func (s *MemoryStore) Orders() OrderRepository {
	return &memoryOrderRepository{store: s}
}

func (s *MemoryStore) Settings() SettingRepository {
	return &memorySettingRepository{store: s}
}

// WithinTx runs fn exclusively; nested calls join the outer transaction.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if fn == nil {
		return nil
	}
	if s.inTx {
		return fn(s)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	snapshot := s.shared.state.clone()
	if err := fn(&MemoryStore{shared: s.shared, inTx: true}); err != nil {
		s.shared.state = snapshot
		return err
	}
	return nil
}

// with runs fn against the state, taking the lock unless a transaction holds it.
func (s *MemoryStore) with(fn func(st *memoryState, now time.Time) error) error {
	if !s.inTx {
		s.shared.mu.Lock()
		defer s.shared.mu.Unlock()
	}
	return fn(s.shared.state, s.shared.now())
}

func (st *memoryState) clone() *memoryState {
	out := &memoryState{
		products:       make(map[uint]models.Product, len(st.products)),
		categories:     make(map[uint]models.Category, len(st.categories)),
		orders:         make(map[uint]models.Order, len(st.orders)),
		settings:       make(map[string]models.Setting, len(st.settings)),
		nextProductID:  st.nextProductID,
		nextCategoryID: st.nextCategoryID,
		nextOrderID:    st.nextOrderID,
		nextItemID:     st.nextItemID,
	}
	for id, p := range st.products {
		out.products[id] = copyProduct(p)
	}
	for id, c := range st.categories {
		out.categories[id] = c
	}
	for id, o := range st.orders {
		out.orders[id] = copyOrder(o)
	}
	for key, setting := range st.settings {
		out.settings[key] = copySetting(setting)
	}
	return out
}

// view returns a detached product with its category attached.
func (st *memoryState) view(p models.Product) models.Product {
	out := copyProduct(p)
	if c, ok := st.categories[p.CategoryID]; ok {
		out.Category = &c
		out.SyncCategoryLabels()
	}
	return out
}

func copyProduct(p models.Product) models.Product {
	p.Images = append(models.StringArray{}, p.Images...)
	p.Features = append(models.ProductFeatures{}, p.Features...)
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	p.Category = nil
	return p
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem{}, o.Items...)
	if o.TelegramMessageID != nil {
		v := *o.TelegramMessageID
		o.TelegramMessageID = &v
	}
	return o
}

func copySetting(s models.Setting) models.Setting {
	value := make(models.JSON, len(s.ValueJSON))
	for k, v := range s.ValueJSON {
		value[k] = v
	}
	s.ValueJSON = value
	return s
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type memoryProductRepository struct {
	store *MemoryStore
}

func (r *memoryProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var out []models.Product
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		search := strings.TrimSpace(filter.Search)
		for _, p := range st.products {
			if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
				continue
			}
			if filter.Featured != nil && p.Featured != *filter.Featured {
				continue
			}
			if search != "" && !containsFold(p.NameAr, search) && !containsFold(p.Name, search) && !containsFold(p.SKU, search) {
				continue
			}
			switch filter.StockStatus {
			case StockStatusInStock:
				if p.Quantity <= 0 {
					continue
				}
			case StockStatusOutOfStock:
				if p.Quantity > 0 {
					continue
				}
			case StockStatusLow:
				if p.Quantity <= 0 || p.Quantity > filter.LowStockThreshold {
					continue
				}
			}
			out = append(out, st.view(p))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	total := int64(len(out))
	return paginateSlice(out, filter.Page, filter.PageSize), total, nil
}

func (r *memoryProductRepository) GetByID(id uint) (*models.Product, error) {
	var found *models.Product
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		if p, ok := st.products[id]; ok {
			v := st.view(p)
			found = &v
		}
		return nil
	})
	return found, err
}

func (r *memoryProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var found *models.Product
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, p := range st.products {
			if p.SKU == sku {
				v := st.view(p)
				found = &v
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *memoryProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	out := make([]models.Product, 0, len(ids))
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		seen := map[uint]bool{}
		for _, id := range ids {
			if p, ok := st.products[id]; ok && !seen[id] {
				seen[id] = true
				out = append(out, st.view(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *memoryProductRepository) Create(product *models.Product) error {
	return r.store.with(func(st *memoryState, now time.Time) error {
		for _, p := range st.products {
			if p.SKU == product.SKU {
				return ErrDuplicate
			}
		}
		st.nextProductID++
		product.ID = st.nextProductID
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
		product.UpdatedAt = now
		product.InStock = product.Quantity > 0
		st.products[product.ID] = copyProduct(*product)
		if c, ok := st.categories[product.CategoryID]; ok {
			product.Category = &c
			product.SyncCategoryLabels()
		}
		return nil
	})
}

func (r *memoryProductRepository) Patch(id uint, patch ProductPatch) error {
	return r.store.with(func(st *memoryState, now time.Time) error {
		p, ok := st.products[id]
		if !ok {
			return ErrNotFound
		}
		if patch.SKU != nil {
			for otherID, other := range st.products {
				if otherID != id && other.SKU == *patch.SKU {
					return ErrDuplicate
				}
			}
		}
		patch.apply(&p)
		p.UpdatedAt = now
		st.products[id] = p
		return nil
	})
}

func (r *memoryProductRepository) SetQuantity(id uint, expected, quantity int) error {
	if quantity < 0 {
		return ErrInsufficientStock
	}
	return r.store.with(func(st *memoryState, now time.Time) error {
		p, ok := st.products[id]
		if !ok {
			return ErrNotFound
		}
		if p.Quantity != expected {
			return ErrConflict
		}
		p.Quantity = quantity
		p.InStock = quantity > 0
		p.UpdatedAt = now
		st.products[id] = p
		return nil
	})
}

func (r *memoryProductRepository) AdjustQuantity(id uint, delta int) (int, error) {
	var quantity int
	err := r.store.with(func(st *memoryState, now time.Time) error {
		p, ok := st.products[id]
		if !ok {
			return ErrNotFound
		}
		next := p.Quantity + delta
		if next < 0 {
			return ErrInsufficientStock
		}
		if delta != 0 {
			p.Quantity = next
			p.InStock = next > 0
			p.UpdatedAt = now
			st.products[id] = p
		}
		quantity = next
		return nil
	})
	return quantity, err
}

func (r *memoryProductRepository) Delete(id uint) error {
	return r.store.with(func(st *memoryState, _ time.Time) error {
		if _, ok := st.products[id]; !ok {
			return ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *memoryProductRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, p := range st.products {
			if p.CategoryID == categoryID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *memoryProductRepository) ReassignCategory(fromID, toID uint) (int64, error) {
	var moved int64
	err := r.store.with(func(st *memoryState, now time.Time) error {
		for id, p := range st.products {
			if p.CategoryID == fromID {
				p.CategoryID = toID
				p.UpdatedAt = now
				st.products[id] = p
				moved++
			}
		}
		return nil
	})
	return moved, err
}

func (r *memoryProductRepository) StockSummary(lowThreshold int) (StockSummary, error) {
	var summary StockSummary
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, p := range st.products {
			summary.Products++
			summary.Units += int64(p.Quantity)
			switch {
			case p.Quantity <= 0:
				summary.OutOfStock++
			case p.Quantity <= lowThreshold:
				summary.LowStock++
			}
		}
		return nil
	})
	return summary, err
}

type memoryCategoryRepository struct {
	store *MemoryStore
}

func (r *memoryCategoryRepository) List() ([]models.Category, error) {
	var out []models.Category
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, c := range st.categories {
			out = append(out, c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].NameAr != out[j].NameAr {
			return out[i].NameAr < out[j].NameAr
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *memoryCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var found *models.Category
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		if c, ok := st.categories[id]; ok {
			found = &c
		}
		return nil
	})
	return found, err
}

func (r *memoryCategoryRepository) FindByName(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var found *models.Category
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, c := range st.categories {
			if !strings.EqualFold(c.Name, name) && !strings.EqualFold(c.NameAr, name) {
				continue
			}
			if found == nil || c.ID < found.ID {
				match := c
				found = &match
			}
		}
		return nil
	})
	return found, err
}

func (r *memoryCategoryRepository) Create(category *models.Category) error {
	return r.store.with(func(st *memoryState, now time.Time) error {
		st.nextCategoryID++
		category.ID = st.nextCategoryID
		category.CreatedAt = now
		category.UpdatedAt = now
		st.categories[category.ID] = *category
		return nil
	})
}

func (r *memoryCategoryRepository) Update(category *models.Category) error {
	return r.store.with(func(st *memoryState, now time.Time) error {
		current, ok := st.categories[category.ID]
		if !ok {
			return ErrNotFound
		}
		current.Name = category.Name
		current.NameAr = category.NameAr
		current.Icon = category.Icon
		current.UpdatedAt = now
		st.categories[category.ID] = current
		return nil
	})
}

func (r *memoryCategoryRepository) Delete(id uint) error {
	return r.store.with(func(st *memoryState, _ time.Time) error {
		if _, ok := st.categories[id]; !ok {
			return ErrNotFound
		}
		delete(st.categories, id)
		return nil
	})
}

func (r *memoryCategoryRepository) GetSystem() (*models.Category, error) {
	var system models.Category
	err := r.store.with(func(st *memoryState, now time.Time) error {
		var found *models.Category
		for _, c := range st.categories {
			if c.IsSystem && (found == nil || c.ID < found.ID) {
				match := c
				found = &match
			}
		}
		if found != nil {
			system = *found
			return nil
		}
		st.nextCategoryID++
		system = models.Category{
			ID:        st.nextCategoryID,
			Name:      SystemCategoryName,
			NameAr:    SystemCategoryNameAr,
			IsSystem:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		st.categories[system.ID] = system
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &system, nil
}

type memoryOrderRepository struct {
	store *MemoryStore
}

func (r *memoryOrderRepository) Create(order *models.Order) error {
	return r.store.with(func(st *memoryState, now time.Time) error {
		for _, o := range st.orders {
			if o.OrderNo == order.OrderNo {
				return ErrDuplicate
			}
		}
		st.nextOrderID++
		order.ID = st.nextOrderID
		if order.CreatedAt.IsZero() {
			order.CreatedAt = now
		}
		if order.UpdatedAt.IsZero() {
			order.UpdatedAt = order.CreatedAt
		}
		for i := range order.Items {
			st.nextItemID++
			order.Items[i].ID = st.nextItemID
			order.Items[i].OrderID = order.ID
			order.Items[i].CreatedAt = order.CreatedAt
		}
		st.orders[order.ID] = copyOrder(*order)
		return nil
	})
}

func (r *memoryOrderRepository) GetByID(id uint) (*models.Order, error) {
	var found *models.Order
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		if o, ok := st.orders[id]; ok {
			v := copyOrder(o)
			found = &v
		}
		return nil
	})
	return found, err
}

func (r *memoryOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	orderNo = strings.ToUpper(strings.TrimSpace(orderNo))
	var found *models.Order
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, o := range st.orders {
			if o.OrderNo == orderNo {
				v := copyOrder(o)
				found = &v
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *memoryOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var out []models.Order
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		search := strings.TrimSpace(filter.Search)
		for _, o := range st.orders {
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if search != "" && !containsFold(o.OrderNo, search) && !containsFold(o.CustomerName, search) && !containsFold(o.CustomerPhone, search) {
				continue
			}
			if filter.CreatedFrom != nil && o.CreatedAt.Before(*filter.CreatedFrom) {
				continue
			}
			if filter.CreatedTo != nil && o.CreatedAt.After(*filter.CreatedTo) {
				continue
			}
			out = append(out, copyOrder(o))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	total := int64(len(out))
	return paginateSlice(out, filter.Page, filter.PageSize), total, nil
}

func (r *memoryOrderRepository) UpdateStatus(id uint, fromStatus, toStatus, label string, at time.Time) error {
	return r.store.with(func(st *memoryState, _ time.Time) error {
		o, ok := st.orders[id]
		if !ok {
			return ErrNotFound
		}
		if o.Status != fromStatus {
			return ErrConflict
		}
		o.Status = toStatus
		o.StatusAr = label
		o.UpdatedAt = at
		st.orders[id] = o
		return nil
	})
}

func (r *memoryOrderRepository) SetTelegramMessageID(id uint, messageID int64) error {
	return r.store.with(func(st *memoryState, _ time.Time) error {
		o, ok := st.orders[id]
		if !ok {
			return ErrNotFound
		}
		o.TelegramMessageID = &messageID
		st.orders[id] = o
		return nil
	})
}

func (r *memoryOrderRepository) Summary(since time.Time) (OrderSummary, error) {
	summary := OrderSummary{Counts: map[string]int64{}, Amounts: map[string]int64{}}
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		days := map[string]*DayOrderCount{}
		for _, o := range st.orders {
			summary.Total++
			summary.Counts[o.Status]++
			summary.Amounts[o.Status] += o.Total
			if o.CreatedAt.Before(since) {
				continue
			}
			key := o.CreatedAt.UTC().Format("2006-01-02")
			if days[key] == nil {
				days[key] = &DayOrderCount{Day: key}
			}
			days[key].Orders++
			days[key].Amount += o.Total
		}
		for _, d := range days {
			summary.LastDays = append(summary.LastDays, *d)
		}
		return nil
	})
	sort.Slice(summary.LastDays, func(i, j int) bool { return summary.LastDays[i].Day < summary.LastDays[j].Day })
	return summary, err
}

func (r *memoryOrderRepository) TopProducts(statuses []string, limit int) ([]ProductRanking, error) {
	if limit <= 0 {
		limit = 5
	}
	allowed := map[string]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	byProduct := map[uint]*ProductRanking{}
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		for _, o := range st.orders {
			if !allowed[o.Status] {
				continue
			}
			for _, item := range o.Items {
				row := byProduct[item.ProductID]
				if row == nil {
					row = &ProductRanking{ProductID: item.ProductID, NameAr: item.NameAr}
					byProduct[item.ProductID] = row
				}
				row.Quantity += int64(item.Quantity)
				row.Amount += item.LineTotal()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]ProductRanking, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memorySettingRepository struct {
	store *MemoryStore
}

func (r *memorySettingRepository) GetByKey(key string) (*models.Setting, error) {
	var found *models.Setting
	err := r.store.with(func(st *memoryState, _ time.Time) error {
		if s, ok := st.settings[key]; ok {
			v := copySetting(s)
			found = &v
		}
		return nil
	})
	return found, err
}

func (r *memorySettingRepository) Upsert(key string, value models.JSON) (*models.Setting, error) {
	var saved models.Setting
	err := r.store.with(func(st *memoryState, now time.Time) error {
		saved = copySetting(models.Setting{Key: key, ValueJSON: value, UpdatedAt: now})
		st.settings[key] = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
