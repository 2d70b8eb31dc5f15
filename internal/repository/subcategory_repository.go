package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// SubcategoryRepository is the Mongo-backed SubcategoryStore.
type SubcategoryRepository struct {
	collection *mongo.Collection
	redis      *redis.Client
}

var _ catalog.SubcategoryStore = (*SubcategoryRepository)(nil)

func NewSubcategoryRepository(db *mongo.Database, redis *redis.Client) *SubcategoryRepository {
	return &SubcategoryRepository{
		collection: db.Collection(SubcategoriesCollection),
		redis:      redis,
	}
}

// List retrieves subcategories matching the filter with the total match count.
func (r *SubcategoryRepository) List(ctx context.Context, q models.SubcategoryListQuery) ([]models.Subcategory, int64, error) {
	filter := buildSubcategoryFilter(q)

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

	subcategories := []models.Subcategory{}
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, 0, err
	}
	return subcategories, total, nil
}

// ListActive retrieves all active subcategories.
func (r *SubcategoryRepository) ListActive(ctx context.Context) ([]models.Subcategory, error) {
	return r.find(ctx, bson.M{"isActive": true})
}

// ListByCategory retrieves the active subcategories of one category.
func (r *SubcategoryRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Subcategory, error) {
	return r.find(ctx, bson.M{"category": categoryID, "isActive": true})
}

func (r *SubcategoryRepository) find(ctx context.Context, filter bson.M) ([]models.Subcategory, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(defaultSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subcategories := []models.Subcategory{}
	if err := cursor.All(ctx, &subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

// GetByID retrieves a subcategory by ID.
func (r *SubcategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&subcategory)
	if err != nil {
		return nil, notFound(err, "subcategory not found")
	}
	return &subcategory, nil
}

// GetRefs returns {id, name, slug} summaries for the requested ids.
func (r *SubcategoryRepository) GetRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.EntityRef, error) {
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

// NameExistsInCategory reports whether another subcategory of the same
// category already uses the name, case-insensitively. Names only compete
// within their parent.
func (r *SubcategoryRepository) NameExistsInCategory(ctx context.Context, name string, categoryID primitive.ObjectID, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{"category": categoryID, "name": exactFold(name)}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return n > 0, err
}

// Insert creates a new subcategory.
func (r *SubcategoryRepository) Insert(ctx context.Context, subcategory *models.Subcategory) error {
	_, err := r.collection.InsertOne(ctx, subcategory)
	return translateWriteError(err, catalog.CodeDuplicateName, "a subcategory with this name already exists in this category")
}

// Update replaces a subcategory document.
func (r *SubcategoryRepository) Update(ctx context.Context, subcategory *models.Subcategory) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": subcategory.ID}, subcategory)
	if err != nil {
		return translateWriteError(err, catalog.CodeDuplicateName, "a subcategory with this name already exists in this category")
	}
	if result.MatchedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "subcategory not found")
	}
	return nil
}

// Delete removes a subcategory document.
func (r *SubcategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "subcategory not found")
	}
	return nil
}

// CountByCategory counts all subcategories of a category regardless of status.
func (r *SubcategoryRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"category": categoryID})
}

// DeactivateByCategory bulk-deactivates the active subcategories of a
// category and returns how many documents were modified.
func (r *SubcategoryRepository) DeactivateByCategory(ctx context.Context, categoryID primitive.ObjectID, actor models.Actor, at time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"category": categoryID, "isActive": true},
		bson.M{"$set": bson.M{
			"isActive":  false,
			"updatedBy": actor.ID,
			"updatedAt": at,
		}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// SetSortOrder updates a single subcategory's position.
func (r *SubcategoryRepository) SetSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error {
	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"sortOrder": sortOrder,
		"updatedBy": actor.ID,
		"updatedAt": at,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return catalog.NewError(catalog.CodeNotFound, "subcategory not found")
	}
	return nil
}

// Stats counts the collection and ranks the five subcategories holding the
// most products, each annotated with its parent category name.
func (r *SubcategoryRepository) Stats(ctx context.Context) (models.SubcategoryStatsReport, error) {
	var report models.SubcategoryStatsReport

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return report, err
	}
	active, err := r.collection.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return report, err
	}
	report.Stats.TotalSubcategories = total
	report.Stats.ActivateSubcategories = active

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         ProductsCollection,
			"localField":   "_id",
			"foreignField": "subcategory",
			"as":           "products",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         CategoriesCollection,
			"localField":   "category",
			"foreignField": "_id",
			"as":           "parentCategory",
		}}},
		{{Key: "$project", Value: bson.M{
			"name":          1,
			"productsCount": bson.M{"$size": "$products"},
			"categoryName": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$parentCategory.name", 0}},
				"",
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "productsCount", Value: -1}, {Key: "name", Value: 1}}}},
		{{Key: "$limit", Value: 5}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return report, err
	}
	defer cursor.Close(ctx)

	top := []models.TopSubcategory{}
	if err := cursor.All(ctx, &top); err != nil {
		return report, err
	}
	report.TopSubcategories = top
	return report, nil
}
