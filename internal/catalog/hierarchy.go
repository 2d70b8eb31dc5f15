package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// resolveActiveCategory loads a category and confirms it is active. Used
// before any write that attaches a child to it.
func resolveActiveCategory(ctx context.Context, store CategoryStore, id primitive.ObjectID) (*models.Category, error) {
	category, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, NewError(CodeParentInactive, "the specified category is not active")
	}
	return category, nil
}

// resolveActiveSubcategory loads a subcategory and confirms it is active.
func resolveActiveSubcategory(ctx context.Context, store SubcategoryStore, id primitive.ObjectID) (*models.Subcategory, error) {
	subcategory, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !subcategory.IsActive {
		return nil, NewError(CodeParentInactive, "the specified subcategory is not active")
	}
	return subcategory, nil
}

// ensureHierarchy confirms the subcategory belongs to the declared category.
// A product must never reference a subcategory from a different branch.
func ensureHierarchy(subcategory *models.Subcategory, categoryID primitive.ObjectID) error {
	if subcategory.Category != categoryID {
		return NewError(CodeHierarchyMismatch, "the subcategory does not belong to the specified category")
	}
	return nil
}
