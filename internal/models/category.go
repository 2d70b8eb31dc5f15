package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category represents a top-level catalog category.
type Category struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Slug        string             `json:"slug" bson:"slug"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Color       string             `json:"color,omitempty" bson:"color,omitempty"`
	SortOrder   int                `json:"sortOrder" bson:"sortOrder"`
	CreatedBy   string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedBy   string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Subcategories is resolved on detail reads; never persisted.
	Subcategories []Subcategory `json:"subcategories,omitempty" bson:"-"`
}

// CreateCategoryRequest represents a request to create a new category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	SortOrder   *int    `json:"sortOrder,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// UpdateCategoryRequest represents a partial update; nil means "leave as is".
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	SortOrder   *int    `json:"sortOrder,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// CategoryListQuery represents filters for category list queries.
type CategoryListQuery struct {
	IsActive *bool
	Search   string
	Page     *int
	Limit    int
}

// CategoryStats summarizes the categories collection.
type CategoryStats struct {
	TotalCategories  int64 `json:"totalCategories"`
	ActiveCategories int64 `json:"activeCategories"`
}
