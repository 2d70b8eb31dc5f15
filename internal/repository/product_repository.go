package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

const featuredCacheTTL = 5 * time.Minute

// ProductRepository is the Mongo-backed ProductStore. Only the storefront
// featured list is cached; the filterable admin lists go straight to Mongo.
type ProductRepository struct {
	collection *mongo.Collection
	redis      *redis.Client
}

var _ catalog.ProductStore = (*ProductRepository)(nil)

func NewProductRepository(db *mongo.Database, redis *redis.Client) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(ProductsCollection),
		redis:      redis,
	}
}

func (r *ProductRepository) invalidateCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	r.redis.Del(ctx, "catalog:products:featured")
}

// List retrieves products matching the filter with the total match count.
func (r *ProductRepository) List(ctx context.Context, q models.ProductListQuery) ([]models.Product, int64, error) {
	filter := buildProductFilter(q)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(defaultSort)
	if skip, limit := findWindow(q.Page, q.Limit); limit > 0 {
		opts.SetSkip(skip).SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListActive retrieves all active products.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{"isActive": true})
}

// ListFeatured retrieves active featured products with caching.
func (r *ProductRepository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	cacheKey := "catalog:products:featured"

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var products []models.Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := r.find(ctx, bson.M{"isActive": true, "isFeatured": true})
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(products); err == nil {
			r.redis.Set(ctx, cacheKey, data, featuredCacheTTL)
		}
	}
	return products, nil
}

// ListByCategory retrieves the active products of one category.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	return r.find(ctx, bson.M{"category": categoryID, "isActive": true})
}

// ListBySubcategory retrieves the active products of one subcategory.
func (r *ProductRepository) ListBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID) ([]models.Product, error) {
	return r.find(ctx, bson.M{"subcategory": subcategoryID, "isActive": true})
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(defaultSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, notFound(err, "product not found")
	}
	return &product, nil
}

// GetBySKU retrieves a product by its canonical SKU.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&product)
	if err != nil {
		return nil, notFound(err, "product not found")
	}
	return &product, nil
}

// SKUExists reports whether another product already uses the SKU.
func (r *ProductRepository) SKUExists(ctx context.Context, sku string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{"sku": sku}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return n > 0, err
}

// Insert creates a new product.
func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	_, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return translateWriteError(err, catalog.CodeDuplicateSKU, "a product with this SKU already exists")
	}
	r.invalidateCaches(ctx)
	return nil
}

// Update replaces a product document.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return translateWriteError(err, catalog.CodeDuplicateSKU, "a product with this SKU already exists")
	}
	if result.MatchedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "product not found")
	}
	r.invalidateCaches(ctx)
	return nil
}

// Delete removes a product document.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "product not found")
	}
	r.invalidateCaches(ctx)
	return nil
}

// CountBySubcategory counts all products of a subcategory regardless of
// status.
func (r *ProductRepository) CountBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"subcategory": subcategoryID})
}

// DeactivateBySubcategory bulk-deactivates the active products of a
// subcategory and returns how many documents were modified.
func (r *ProductRepository) DeactivateBySubcategory(ctx context.Context, subcategoryID primitive.ObjectID, actor models.Actor, at time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"subcategory": subcategoryID, "isActive": true},
		bson.M{"$set": bson.M{
			"isActive":  false,
			"updatedBy": actor.ID,
			"updatedAt": at,
		}})
	if err != nil {
		return 0, err
	}
	if result.ModifiedCount > 0 {
		r.invalidateCaches(ctx)
	}
	return result.ModifiedCount, nil
}

// SetSortOrder updates a single product's position.
func (r *ProductRepository) SetSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error {
	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"sortOrder": sortOrder,
		"updatedBy": actor.ID,
		"updatedAt": at,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "product not found")
	}
	return nil
}

// Stats counts the collection including the low-stock bucket.
func (r *ProductRepository) Stats(ctx context.Context) (models.ProductStats, error) {
	var stats models.ProductStats

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, err
	}
	active, err := r.collection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return stats, err
	}
	featured, err := r.collection.CountDocuments(ctx, bson.M{"isFeatured": true})
	if err != nil {
		return stats, err
	}
	lowStock, err := r.collection.CountDocuments(ctx, bson.M{"$expr": bson.M{"$and": bson.A{
		bson.M{"$eq": bson.A{"$stock.trackStock", true}},
		bson.M{"$lte": bson.A{"$stock.quantity", "$stock.minStock"}},
	}}})
	if err != nil {
		return stats, err
	}

	stats.TotalProducts = total
	stats.ActiveProducts = active
	stats.FeaturedProducts = featured
	stats.LowStockProducts = lowStock
	return stats, nil
}
