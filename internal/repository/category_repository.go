package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	categoryCacheTTL     = 30 * time.Minute // single categories rarely change
	categoryListCacheTTL = 15 * time.Minute // active-category lists
)

var defaultSort = bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}}

// CategoryRepository is the Mongo-backed CategoryStore with a Redis
// read-through cache in front of the hot read paths.
type CategoryRepository struct {
	collection *mongo.Collection
	redis      *redis.Client
}

var _ catalog.CategoryStore = (*CategoryRepository)(nil)

func NewCategoryRepository(db *mongo.Database, redis *redis.Client) *CategoryRepository {
	return &CategoryRepository{
		collection: db.Collection(CategoriesCollection),
		redis:      redis,
	}
}

// invalidateCaches drops the cached entries touched by a category write.
func (r *CategoryRepository) invalidateCaches(ctx context.Context, categoryID *primitive.ObjectID) {
	if r.redis == nil {
		return
	}
	if categoryID != nil {
		r.redis.Del(ctx, fmt.Sprintf("catalog:categories:category:%s", categoryID.Hex()))
	}
	r.redis.Del(ctx, "catalog:categories:active")
}

// List retrieves categories matching the filter, windowed when the query
// carries a page, together with the total match count.
func (r *CategoryRepository) List(ctx context.Context, q models.CategoryListQuery) ([]models.Category, int64, error) {
	filter := buildCategoryFilter(q)

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

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// ListActive retrieves all active categories with caching.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	cacheKey := "catalog:categories:active"

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var categories []models.Category
			if err := json.Unmarshal([]byte(val), &categories); err == nil {
				return categories, nil
			}
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, options.Find().SetSort(defaultSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			r.redis.Set(ctx, cacheKey, data, categoryListCacheTTL)
		}
	}
	return categories, nil
}

// GetByID retrieves a category by ID with caching.
func (r *CategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	cacheKey := fmt.Sprintf("catalog:categories:category:%s", id.Hex())

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var category models.Category
			if err := json.Unmarshal([]byte(val), &category); err == nil {
				return &category, nil
			}
		}
	}

	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		return nil, notFound(err, "category not found")
	}

	if r.redis != nil {
		if data, err := json.Marshal(category); err == nil {
			r.redis.Set(ctx, cacheKey, data, categoryCacheTTL)
		}
	}
	return &category, nil
}

// GetRefs returns {id, name, slug} summaries for the requested ids. Missing
// ids are simply absent from the result.
func (r *CategoryRepository) GetRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EntityRef, error) {
	refs := make(map[primitive.ObjectID]models.EntityRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "slug": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.EntityRef
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}

// NameExists reports whether another category already uses the name,
// case-insensitively.
func (r *CategoryRepository) NameExists(ctx context.Context, name string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{"name": exactFold(name)}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return n > 0, err
}

// SlugExists reports whether another category already holds the slug. Slugs
// are stored lowercase, so the match is exact.
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return n > 0, err
}

// Insert creates a new category.
func (r *CategoryRepository) Insert(ctx context.Context, category *models.Category) error {
	_, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		return translateWriteError(err, catalog.CodeDuplicateName, "a category with this name already exists")
	}
	r.invalidateCaches(ctx, nil)
	return nil
}

// Update replaces a category document.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return translateWriteError(err, catalog.CodeDuplicateName, "a category with this name already exists")
	}
	if result.MatchedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "category not found")
	}
	r.invalidateCaches(ctx, &category.ID)
	return nil
}

// Delete removes a category document.
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "category not found")
	}
	r.invalidateCaches(ctx, &id)
	return nil
}

// SetSortOrder updates a single category's position.
func (r *CategoryRepository) SetSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error {
	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"sortOrder": sortOrder,
		"updatedBy": actor.ID,
		"updatedAt": at,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "category not found")
	}
	r.invalidateCaches(ctx, &id)
	return nil
}

// Stats counts the collection.
func (r *CategoryRepository) Stats(ctx context.Context) (models.CategoryStats, error) {
	var stats models.CategoryStats
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, err
	}
	active, err := r.collection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return stats, err
	}
	stats.TotalCategories = total
	stats.ActiveCategories = active
	return stats, nil
}
