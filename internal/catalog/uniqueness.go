package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The availability checks below are friendly pre-checks; the authoritative
// guarantee comes from the unique indexes at the storage layer. A duplicate
// key error raised at write time is translated by the stores into the same
// DUPLICATE_NAME / DUPLICATE_SKU classification.

// ensureCategoryNameAvailable rejects a name already taken by another
// category (case-insensitive, global scope).
func ensureCategoryNameAvailable(ctx context.Context, store CategoryStore, name string, excludeID *primitive.ObjectID) error {
	exists, err := store.NameExists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return NewError(CodeDuplicateName, "a category with this name already exists")
	}
	return nil
}

// ensureCategorySlugAvailable rejects a derived slug already held by another
// category. Distinct names can collapse to the same slug, so the name check
// alone is not enough.
func ensureCategorySlugAvailable(ctx context.Context, store CategoryStore, slug string, excludeID *primitive.ObjectID) error {
	exists, err := store.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return NewError(CodeDuplicateName, "a category with this slug already exists")
	}
	return nil
}

// ensureSubcategoryNameAvailable rejects a name already taken within the
// parent category (case-insensitive, per-category scope).
func ensureSubcategoryNameAvailable(ctx context.Context, store SubcategoryStore, name string, categoryID primitive.ObjectID, excludeID *primitive.ObjectID) error {
	exists, err := store.NameExistsInCategory(ctx, name, categoryID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return NewError(CodeDuplicateName, "a subcategory with this name already exists in this category")
	}
	return nil
}

// ensureSKUAvailable rejects an SKU already taken by another product. SKUs
// are normalized to uppercase before the check.
func ensureSKUAvailable(ctx context.Context, store ProductStore, sku string, excludeID *primitive.ObjectID) error {
	exists, err := store.SKUExists(ctx, sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return NewError(CodeDuplicateSKU, "a product with this SKU already exists")
	}
	return nil
}
