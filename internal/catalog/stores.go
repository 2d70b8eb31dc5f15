package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// The store interfaces use plain model types so the services can be tested
// against in-memory fakes and the Mongo adapters stay swappable. Stores
// translate driver-level outcomes into catalog errors: a missing document is
// a CodeNotFound error, a unique-index violation a CodeDuplicateName /
// CodeDuplicateSKU error.

// CategoryStore persists categories.
type CategoryStore interface {
	List(ctx context.Context, q models.CategoryListQuery) ([]models.Category, int64, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EntityRef, error)
	NameExists(ctx context.Context, name string, excludeID *primitive.ObjectID) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error
	Stats(ctx context.Context) (models.CategoryStats, error)
}

// SubcategoryStore persists subcategories.
type SubcategoryStore interface {
	List(ctx context.Context, q models.SubcategoryListQuery) ([]models.Subcategory, int64, error)
	ListActive(ctx context.Context) ([]models.Subcategory, error)
	// ListByCategory returns the active subcategories of a category in
	// default sort order.
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Subcategory, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subcategory, error)
	GetRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EntityRef, error)
	NameExistsInCategory(ctx context.Context, name string, categoryID primitive.ObjectID, excludeID *primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, subcategory *models.Subcategory) error
	Update(ctx context.Context, subcategory *models.Subcategory) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// CountByCategory counts subcategories of a category regardless of
	// status; the deletion guard must not orphan inactive children.
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	// DeactivateByCategory bulk-deactivates all active subcategories of a
	// category, stamping actor and timestamp. Returns the affected count.
	DeactivateByCategory(ctx context.Context, categoryID primitive.ObjectID, actor models.Actor, at time.Time) (int64, error)
	SetSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error
	Stats(ctx context.Context) (models.SubcategoryStatsReport, error)
}

// ProductStore persists products.
type ProductStore interface {
	List(ctx context.Context, q models.ProductListQuery) ([]models.Product, int64, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	// ListByCategory and ListBySubcategory return active products in default
	// sort order.
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error)
	ListBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID) ([]models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	SKUExists(ctx context.Context, sku string, excludeID *primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// CountBySubcategory counts products referencing a subcategory regardless
	// of status.
	CountBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID) (int64, error)
	// DeactivateBySubcategory bulk-deactivates all active products of a
	// subcategory. Returns the affected count.
	DeactivateBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID, actor models.Actor, at time.Time) (int64, error)
	SetSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error
	Stats(ctx context.Context) (models.ProductStats, error)
}
