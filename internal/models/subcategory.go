package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subcategory represents a second-level catalog entry. Its name is unique
// within the parent category, not globally.
type Subcategory struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Slug        string             `json:"slug" bson:"slug"`
	Category    primitive.ObjectID `json:"category" bson:"category"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Color       string             `json:"color,omitempty" bson:"color,omitempty"`
	SortOrder   int                `json:"sortOrder" bson:"sortOrder"`
	CreatedBy   string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedBy   string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Resolved on reads; never persisted.
	CategoryRef *EntityRef `json:"categoryRef,omitempty" bson:"-"`
	Products    []Product  `json:"products,omitempty" bson:"-"`
}

// CreateSubcategoryRequest represents a request to create a subcategory.
// Category accepts either "category" or "categoryId" for compatibility with
// older clients.
type CreateSubcategoryRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description *string             `json:"description,omitempty"`
	Category    *primitive.ObjectID `json:"category,omitempty"`
	CategoryID  *primitive.ObjectID `json:"categoryId,omitempty"`
	Icon        *string             `json:"icon,omitempty"`
	Color       *string             `json:"color,omitempty"`
	SortOrder   *int                `json:"sortOrder,omitempty"`
	IsActive    *bool               `json:"isActive,omitempty"`
}

// ParentCategory returns the declared parent from either accepted field.
func (r *CreateSubcategoryRequest) ParentCategory() *primitive.ObjectID {
	if r.CategoryID != nil {
		return r.CategoryID
	}
	return r.Category
}

// UpdateSubcategoryRequest represents a partial update; nil means "leave as is".
type UpdateSubcategoryRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Category    *primitive.ObjectID `json:"category,omitempty"`
	CategoryID  *primitive.ObjectID `json:"categoryId,omitempty"`
	Icon        *string             `json:"icon,omitempty"`
	Color       *string             `json:"color,omitempty"`
	SortOrder   *int                `json:"sortOrder,omitempty"`
	IsActive    *bool               `json:"isActive,omitempty"`
}

// ParentCategory returns the declared parent from either accepted field.
func (r *UpdateSubcategoryRequest) ParentCategory() *primitive.ObjectID {
	if r.CategoryID != nil {
		return r.CategoryID
	}
	return r.Category
}

// SubcategoryListQuery represents filters for subcategory list queries.
type SubcategoryListQuery struct {
	IsActive *bool
	Category *primitive.ObjectID
	Search   string
	Page     *int
	Limit    int
}

// SubcategoryStats summarizes the subcategories collection.
type SubcategoryStats struct {
	TotalSubcategories    int64 `json:"totalSubcategories"`
	ActivateSubcategories int64 `json:"activateSubcategories"`
}

// TopSubcategory is one row of the product-count ranking, annotated with the
// parent category name.
type TopSubcategory struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	CategoryName  string             `json:"categoryName" bson:"categoryName"`
	ProductsCount int64              `json:"productsCount" bson:"productsCount"`
}

// SubcategoryStatsReport is the stats() payload for subcategories.
type SubcategoryStatsReport struct {
	Stats            SubcategoryStats `json:"stats"`
	TopSubcategories []TopSubcategory `json:"topSubcategories"`
}
