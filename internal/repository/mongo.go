package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/catalog"
)

// Collection names.
const (
	CategoriesCollection    = "categories"
	SubcategoriesCollection = "subcategories"
	ProductsCollection      = "products"
)

// caseInsensitive is the collation used by the uniqueness indexes; strength 2
// compares base characters and case-insensitively.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the catalog relies on. The unique indexes
// are the authority behind the duplicate-name and duplicate-SKU rules; the
// service-level pre-checks only exist for friendlier error messages.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CategoriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "sortOrder", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(SubcategoriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(ProductsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "subcategory", Value: 1}, {Key: "isActive", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isFeatured", Value: 1}, {Key: "isActive", Value: 1}},
		},
	})
	return err
}

// notFound translates a driver-level miss into a classified catalog error.
func notFound(err error, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.NewError(catalog.CodeNotFound, message)
	}
	return err
}

// translateWriteError maps a unique-index violation to the given duplicate
// classification; anything else passes through untouched.
func translateWriteError(err error, code, message string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return catalog.NewError(code, message)
	}
	return err
}
