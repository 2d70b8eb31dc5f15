package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// In-memory store implementations mirroring the Mongo adapters' behavior:
// case-insensitive name matching, sortOrder/name ordering, skip+limit
// pagination applied only when the query carries a page.

type fakeCategoryStore struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Category

	failSetSortOrder map[primitive.ObjectID]bool
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		items:            make(map[primitive.ObjectID]models.Category),
		failSetSortOrder: make(map[primitive.ObjectID]bool),
	}
}

func (f *fakeCategoryStore) snapshot() []models.Category {
	out := make([]models.Category, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (f *fakeCategoryStore) List(_ context.Context, q models.CategoryListQuery) ([]models.Category, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var filtered []models.Category
	for _, c := range f.snapshot() {
		if q.IsActive != nil && c.IsActive != *q.IsActive {
			continue
		}
		if q.Search != "" && !containsFold(c.Name, q.Search) && !containsFold(c.Description, q.Search) {
			continue
		}
		filtered = append(filtered, c)
	}
	total := int64(len(filtered))
	return paginateSlice(filtered, q.Page, q.Limit), total, nil
}

func (f *fakeCategoryStore) ListActive(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.snapshot() {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, NewError(CodeNotFound, "category not found")
	}
	out := c
	return &out, nil
}

func (f *fakeCategoryStore) GetRefs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EntityRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make(map[primitive.ObjectID]models.EntityRef)
	for _, id := range ids {
		if c, ok := f.items[id]; ok {
			refs[id] = models.EntityRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
		}
	}
	return refs, nil
}

func (f *fakeCategoryStore) NameExists(_ context.Context, name string, excludeID *primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) SlugExists(_ context.Context, slug string, excludeID *primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) Insert(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[category.ID]; !ok {
		return NewError(CodeNotFound, "category not found")
	}
	f.items[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return NewError(CodeNotFound, "category not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCategoryStore) SetSortOrder(_ context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSetSortOrder[id] {
		return NewError(CodeInternal, "write failed")
	}
	c, ok := f.items[id]
	if !ok {
		return NewError(CodeNotFound, "category not found")
	}
	c.SortOrder = sortOrder
	c.UpdatedBy = actor.ID
	c.UpdatedAt = at
	f.items[id] = c
	return nil
}

func (f *fakeCategoryStore) Stats(_ context.Context) (models.CategoryStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.CategoryStats
	for _, c := range f.items {
		stats.TotalCategories++
		if c.IsActive {
			stats.ActiveCategories++
		}
	}
	return stats, nil
}

type fakeSubcategoryStore struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Subcategory

	failDeactivate bool
}

func newFakeSubcategoryStore() *fakeSubcategoryStore {
	return &fakeSubcategoryStore{items: make(map[primitive.ObjectID]models.Subcategory)}
}

func (f *fakeSubcategoryStore) snapshot() []models.Subcategory {
	out := make([]models.Subcategory, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (f *fakeSubcategoryStore) List(_ context.Context, q models.SubcategoryListQuery) ([]models.Subcategory, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var filtered []models.Subcategory
	for _, s := range f.snapshot() {
		if q.IsActive != nil && s.IsActive != *q.IsActive {
			continue
		}
		if q.Category != nil && s.Category != *q.Category {
			continue
		}
		if q.Search != "" && !containsFold(s.Name, q.Search) && !containsFold(s.Description, q.Search) {
			continue
		}
		filtered = append(filtered, s)
	}
	total := int64(len(filtered))
	return paginateSlice(filtered, q.Page, q.Limit), total, nil
}

func (f *fakeSubcategoryStore) ListActive(_ context.Context) ([]models.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subcategory
	for _, s := range f.snapshot() {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubcategoryStore) ListByCategory(_ context.Context, categoryID primitive.ObjectID) ([]models.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Subcategory
	for _, s := range f.snapshot() {
		if s.Category == categoryID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubcategoryStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, NewError(CodeNotFound, "subcategory not found")
	}
	out := s
	return &out, nil
}

func (f *fakeSubcategoryStore) GetRefs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EntityRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make(map[primitive.ObjectID]models.EntityRef)
	for _, id := range ids {
		if s, ok := f.items[id]; ok {
			refs[id] = models.EntityRef{ID: s.ID, Name: s.Name, Slug: s.Slug}
		}
	}
	return refs, nil
}

func (f *fakeSubcategoryStore) NameExistsInCategory(_ context.Context, name string, categoryID primitive.ObjectID, excludeID *primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.Category == categoryID && strings.EqualFold(s.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubcategoryStore) Insert(_ context.Context, subcategory *models.Subcategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[subcategory.ID] = *subcategory
	return nil
}

func (f *fakeSubcategoryStore) Update(_ context.Context, subcategory *models.Subcategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[subcategory.ID]; !ok {
		return NewError(CodeNotFound, "subcategory not found")
	}
	f.items[subcategory.ID] = *subcategory
	return nil
}

func (f *fakeSubcategoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return NewError(CodeNotFound, "subcategory not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeSubcategoryStore) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.items {
		if s.Category == categoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubcategoryStore) DeactivateByCategory(_ context.Context, categoryID primitive.ObjectID, actor models.Actor, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeactivate {
		return 0, NewError(CodeInternal, "bulk write failed")
	}
	var n int64
	for id, s := range f.items {
		if s.Category == categoryID && s.IsActive {
			s.IsActive = false
			s.UpdatedBy = actor.ID
			s.UpdatedAt = at
			f.items[id] = s
			n++
		}
	}
	return n, nil
}

func (f *fakeSubcategoryStore) SetSortOrder(_ context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return NewError(CodeNotFound, "subcategory not found")
	}
	s.SortOrder = sortOrder
	s.UpdatedBy = actor.ID
	s.UpdatedAt = at
	f.items[id] = s
	return nil
}

func (f *fakeSubcategoryStore) Stats(_ context.Context) (models.SubcategoryStatsReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var report models.SubcategoryStatsReport
	for _, s := range f.items {
		report.Stats.TotalSubcategories++
		if s.IsActive {
			report.Stats.ActivateSubcategories++
		}
	}
	return report, nil
}

type fakeProductStore struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Product

	failDeactivate bool
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{items: make(map[primitive.ObjectID]models.Product)}
}

func (f *fakeProductStore) snapshot() []models.Product {
	out := make([]models.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (f *fakeProductStore) List(_ context.Context, q models.ProductListQuery) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var filtered []models.Product
	for _, p := range f.snapshot() {
		if q.IsActive != nil && p.IsActive != *q.IsActive {
			continue
		}
		if q.IsFeatured != nil && p.IsFeatured != *q.IsFeatured {
			continue
		}
		if q.IsDigital != nil && p.IsDigital != *q.IsDigital {
			continue
		}
		if q.Category != nil && p.Category != *q.Category {
			continue
		}
		if q.Subcategory != nil && p.Subcategory != *q.Subcategory {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		if q.LowStock && !(p.Stock.TrackStock && p.Stock.Quantity <= p.Stock.MinStock) {
			continue
		}
		if q.Search != "" && !containsFold(p.Name, q.Search) && !containsFold(p.Description, q.Search) {
			continue
		}
		filtered = append(filtered, p)
	}
	total := int64(len(filtered))
	return paginateSlice(filtered, q.Page, q.Limit), total, nil
}

func (f *fakeProductStore) ListActive(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.snapshot() {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) ListFeatured(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.snapshot() {
		if p.IsActive && p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) ListByCategory(_ context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.snapshot() {
		if p.Category == categoryID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) ListBySubcategory(_ context.Context, subcategoryID primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.snapshot() {
		if p.Subcategory == subcategoryID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, NewError(CodeNotFound, "product not found")
	}
	out := p
	return &out, nil
}

func (f *fakeProductStore) GetBySKU(_ context.Context, sku string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.SKU == sku {
			out := p
			return &out, nil
		}
	}
	return nil, NewError(CodeNotFound, "product not found")
}

func (f *fakeProductStore) SKUExists(_ context.Context, sku string, excludeID *primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if strings.EqualFold(p.SKU, sku) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductStore) Insert(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[product.ID] = *product
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[product.ID]; !ok {
		return NewError(CodeNotFound, "product not found")
	}
	f.items[product.ID] = *product
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return NewError(CodeNotFound, "product not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProductStore) CountBySubcategory(_ context.Context, subcategoryID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.Subcategory == subcategoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductStore) DeactivateBySubcategory(_ context.Context, subcategoryID primitive.ObjectID, actor models.Actor, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeactivate {
		return 0, NewError(CodeInternal, "bulk write failed")
	}
	var n int64
	for id, p := range f.items {
		if p.Subcategory == subcategoryID && p.IsActive {
			p.IsActive = false
			p.UpdatedBy = actor.ID
			p.UpdatedAt = at
			f.items[id] = p
			n++
		}
	}
	return n, nil
}

func (f *fakeProductStore) SetSortOrder(_ context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return NewError(CodeNotFound, "product not found")
	}
	p.SortOrder = sortOrder
	p.UpdatedBy = actor.ID
	p.UpdatedAt = at
	f.items[id] = p
	return nil
}

func (f *fakeProductStore) Stats(_ context.Context) (models.ProductStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.ProductStats
	for _, p := range f.items {
		stats.TotalProducts++
		if p.IsActive {
			stats.ActiveProducts++
		}
		if p.IsFeatured {
			stats.FeaturedProducts++
		}
		if p.Stock.TrackStock && p.Stock.Quantity <= p.Stock.MinStock {
			stats.LowStockProducts++
		}
	}
	return stats, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginateSlice[T any](items []T, page *int, limit int) []T {
	if page == nil {
		return items
	}
	p := *page
	if p < 1 {
		p = 1
	}
	start := (p - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
