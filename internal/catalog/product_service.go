package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// ProductService orchestrates product operations. Products are leaves of the
// hierarchy; every write that touches the category or subcategory reference
// revalidates both parents and their consistency.
type ProductService struct {
	categories    CategoryStore
	subcategories SubcategoryStore
	products      ProductStore
	logger        *logrus.Entry
}

func NewProductService(categories CategoryStore, subcategories SubcategoryStore, products ProductStore, logger *logrus.Logger) *ProductService {
	return &ProductService{
		categories:    categories,
		subcategories: subcategories,
		products:      products,
		logger:        logger.WithField("component", "catalog.products"),
	}
}

// List returns products matching the query with both parent references
// resolved. Pagination metadata is present only when the query carried an
// explicit page.
func (s *ProductService) List(ctx context.Context, q models.ProductListQuery) ([]models.Product, *models.PaginationInfo, error) {
	q.Limit = normalizeLimit(q.Limit)
	products, total, err := s.products.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	if err := s.resolveRefs(ctx, products); err != nil {
		return nil, nil, err
	}
	return products, buildPagination(q.Page, q.Limit, total), nil
}

// ListActive returns all active products with their parent references
// resolved, unpaginated.
func (s *ProductService) ListActive(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveRefs(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListFeatured returns active featured products.
func (s *ProductService) ListFeatured(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveRefs(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCategory returns the active products under a category.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.products.ListByCategory(ctx, categoryID)
}

// ListBySubcategory returns the active products under a subcategory.
func (s *ProductService) ListBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID) ([]models.Product, error) {
	if _, err := s.subcategories.GetByID(ctx, subcategoryID); err != nil {
		return nil, err
	}
	return s.products.ListBySubcategory(ctx, subcategoryID)
}

// GetByID returns a product with its category and subcategory references
// resolved.
func (s *ProductService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	one := []models.Product{*product}
	if err := s.resolveRefs(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// GetBySKU looks a product up by its normalized SKU.
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	product, err := s.products.GetBySKU(ctx, NormalizeSKU(sku))
	if err != nil {
		return nil, err
	}
	one := []models.Product{*product}
	if err := s.resolveRefs(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// GetActiveByID is GetByID restricted to active products; inactive ones are
// reported as not found.
func (s *ProductService) GetActiveByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, NewError(CodeNotFound, "product not found")
	}
	return product, nil
}

// GetActiveBySKU is GetBySKU restricted to active products.
func (s *ProductService) GetActiveBySKU(ctx context.Context, sku string) (*models.Product, error) {
	product, err := s.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, NewError(CodeNotFound, "product not found")
	}
	return product, nil
}

// NormalizeSKU uppercases an SKU and trims surrounding whitespace. SKUs are
// stored and compared in this canonical form.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Create validates and creates a new product under an active category and an
// active subcategory belonging to that category.
func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest, actor models.Actor) (*models.Product, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SKU) == "" {
		return nil, FieldError("sku", "an SKU is required")
	}
	if req.Category == nil {
		return nil, FieldError("category", "a category is required")
	}
	if req.Subcategory == nil {
		return nil, FieldError("subcategory", "a subcategory is required")
	}
	if req.Price == nil {
		return nil, FieldError("price", "a price is required")
	}
	if err := validateNonNegative("price", *req.Price); err != nil {
		return nil, err
	}
	if req.ComparePrice != nil {
		if err := validateNonNegative("comparePrice", *req.ComparePrice); err != nil {
			return nil, err
		}
	}
	if req.Cost != nil {
		if err := validateNonNegative("cost", *req.Cost); err != nil {
			return nil, err
		}
	}

	if _, err := resolveActiveCategory(ctx, s.categories, *req.Category); err != nil {
		return nil, err
	}
	subcategory, err := resolveActiveSubcategory(ctx, s.subcategories, *req.Subcategory)
	if err != nil {
		return nil, err
	}
	if err := ensureHierarchy(subcategory, *req.Category); err != nil {
		return nil, err
	}

	sku := NormalizeSKU(req.SKU)
	if err := ensureSKUAvailable(ctx, s.products, sku, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		SKU:         sku,
		Slug:        Slugify(req.Name),
		Category:    *req.Category,
		Subcategory: *req.Subcategory,
		Price:       *req.Price,
		Stock:       models.Stock{TrackStock: true},
		IsActive:    true,
		CreatedBy:   actor.ID,
		UpdatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.ComparePrice != nil {
		product.ComparePrice = *req.ComparePrice
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	if len(req.Images) > 0 {
		product.Images = req.Images
	}
	if len(req.Tags) > 0 {
		product.Tags = req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsDigital != nil {
		product.IsDigital = *req.IsDigital
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}
	if req.SeoTitle != nil {
		product.SeoTitle = *req.SeoTitle
	}
	if req.SeoDescription != nil {
		product.SeoDescription = *req.SeoDescription
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial update. Changing the SKU re-checks uniqueness;
// changing either parent reference re-runs the full hierarchy validation
// against the effective pair.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateProductRequest, actor models.Actor) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category := product.Category
	subcategoryID := product.Subcategory
	if req.Category != nil {
		category = *req.Category
	}
	if req.Subcategory != nil {
		subcategoryID = *req.Subcategory
	}
	if category != product.Category || subcategoryID != product.Subcategory {
		if _, err := resolveActiveCategory(ctx, s.categories, category); err != nil {
			return nil, err
		}
		subcategory, err := resolveActiveSubcategory(ctx, s.subcategories, subcategoryID)
		if err != nil {
			return nil, err
		}
		if err := ensureHierarchy(subcategory, category); err != nil {
			return nil, err
		}
		product.Category = category
		product.Subcategory = subcategoryID
	}

	if req.Name != nil && *req.Name != product.Name {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		product.Name = *req.Name
		product.Slug = Slugify(*req.Name)
	}
	if req.SKU != nil {
		sku := NormalizeSKU(*req.SKU)
		if sku == "" {
			return nil, FieldError("sku", "an SKU is required")
		}
		if sku != product.SKU {
			if err := ensureSKUAvailable(ctx, s.products, sku, &id); err != nil {
				return nil, err
			}
			product.SKU = sku
		}
	}
	if req.Price != nil {
		if err := validateNonNegative("price", *req.Price); err != nil {
			return nil, err
		}
		product.Price = *req.Price
	}
	if req.ComparePrice != nil {
		if err := validateNonNegative("comparePrice", *req.ComparePrice); err != nil {
			return nil, err
		}
		product.ComparePrice = *req.ComparePrice
	}
	if req.Cost != nil {
		if err := validateNonNegative("cost", *req.Cost); err != nil {
			return nil, err
		}
		product.Cost = *req.Cost
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsDigital != nil {
		product.IsDigital = *req.IsDigital
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}
	if req.SeoTitle != nil {
		product.SeoTitle = *req.SeoTitle
	}
	if req.SeoDescription != nil {
		product.SeoDescription = *req.SeoDescription
	}

	product.UpdatedBy = actor.ID
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete hard-deletes a product. Products have no dependents, so there is no
// guard beyond existence.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

// ToggleStatus flips isActive.
func (s *ProductService) ToggleStatus(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.IsActive = !product.IsActive
	product.UpdatedBy = actor.ID
	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ToggleFeatured flips isFeatured.
func (s *ProductService) ToggleFeatured(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.IsFeatured = !product.IsFeatured
	product.UpdatedBy = actor.ID
	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Reorder assigns sortOrder = position + 1 for every id in the given order.
func (s *ProductService) Reorder(ctx context.Context, ids []primitive.ObjectID, actor models.Actor) error {
	if len(ids) == 0 {
		return FieldError("ids", "an ordered list of product ids is required")
	}
	failed := reorderAll(ctx, ids, actor, s.products.SetSortOrder)
	if len(failed) > 0 {
		return NewError(CodeReorderIncomplete, fmt.Sprintf("failed to reorder %d of %d products", len(failed), len(ids)))
	}
	return nil
}

// Stats reports product counts including the low-stock bucket.
func (s *ProductService) Stats(ctx context.Context) (models.ProductStats, error) {
	return s.products.Stats(ctx)
}

func (s *ProductService) resolveRefs(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	categoryIDs := make([]primitive.ObjectID, 0, len(products))
	subcategoryIDs := make([]primitive.ObjectID, 0, len(products))
	seenCat := make(map[primitive.ObjectID]bool)
	seenSub := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		if !seenCat[p.Category] {
			seenCat[p.Category] = true
			categoryIDs = append(categoryIDs, p.Category)
		}
		if !seenSub[p.Subcategory] {
			seenSub[p.Subcategory] = true
			subcategoryIDs = append(subcategoryIDs, p.Subcategory)
		}
	}
	categoryRefs, err := s.categories.GetRefs(ctx, categoryIDs)
	if err != nil {
		return err
	}
	subcategoryRefs, err := s.subcategories.GetRefs(ctx, subcategoryIDs)
	if err != nil {
		return err
	}
	for i := range products {
		if ref, ok := categoryRefs[products[i].Category]; ok {
			products[i].CategoryRef = &ref
		}
		if ref, ok := subcategoryRefs[products[i].Subcategory]; ok {
			products[i].SubcategoryRef = &ref
		}
	}
	return nil
}
