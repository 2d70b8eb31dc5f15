package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stock is the embedded stock sub-record of a product.
type Stock struct {
	Quantity   int  `json:"quantity" bson:"quantity"`
	MinStock   int  `json:"minStock" bson:"minStock"`
	TrackStock bool `json:"trackStock" bson:"trackStock"`
}

// Dimensions represents physical product dimensions.
type Dimensions struct {
	Length float64 `json:"length,omitempty" bson:"length,omitempty"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Unit   string  `json:"unit,omitempty" bson:"unit,omitempty"`
}

// Product represents a catalog product. Category and Subcategory are
// non-owning references; the subcategory must belong to the same category.
type Product struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	ShortDescription string             `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	SKU              string             `json:"sku" bson:"sku"`
	Slug             string             `json:"slug" bson:"slug"`
	Category         primitive.ObjectID `json:"category" bson:"category"`
	Subcategory      primitive.ObjectID `json:"subcategory" bson:"subcategory"`
	Price            float64            `json:"price" bson:"price"`
	ComparePrice     float64            `json:"comparePrice,omitempty" bson:"comparePrice,omitempty"`
	Cost             float64            `json:"cost,omitempty" bson:"cost,omitempty"`
	Stock            Stock              `json:"stock" bson:"stock"`
	Dimensions       *Dimensions        `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Images           []string           `json:"images,omitempty" bson:"images,omitempty"`
	Tags             []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	IsActive         bool               `json:"isActive" bson:"isActive"`
	IsFeatured       bool               `json:"isFeatured" bson:"isFeatured"`
	IsDigital        bool               `json:"isDigital" bson:"isDigital"`
	SortOrder        int                `json:"sortOrder" bson:"sortOrder"`
	SeoTitle         string             `json:"seoTitle,omitempty" bson:"seoTitle,omitempty"`
	SeoDescription   string             `json:"seoDescription,omitempty" bson:"seoDescription,omitempty"`
	CreatedBy        string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedBy        string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Resolved on reads; never persisted.
	CategoryRef    *EntityRef `json:"categoryRef,omitempty" bson:"-"`
	SubcategoryRef *EntityRef `json:"subcategoryRef,omitempty" bson:"-"`
}

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Name             string              `json:"name" binding:"required"`
	Description      *string             `json:"description,omitempty"`
	ShortDescription *string             `json:"shortDescription,omitempty"`
	SKU              string              `json:"sku" binding:"required"`
	Category         *primitive.ObjectID `json:"category,omitempty"`
	Subcategory      *primitive.ObjectID `json:"subcategory,omitempty"`
	Price            *float64            `json:"price,omitempty"`
	ComparePrice     *float64            `json:"comparePrice,omitempty"`
	Cost             *float64            `json:"cost,omitempty"`
	Stock            *Stock              `json:"stock,omitempty"`
	Dimensions       *Dimensions         `json:"dimensions,omitempty"`
	Images           []string            `json:"images,omitempty"`
	Tags             []string            `json:"tags,omitempty"`
	IsActive         *bool               `json:"isActive,omitempty"`
	IsFeatured       *bool               `json:"isFeatured,omitempty"`
	IsDigital        *bool               `json:"isDigital,omitempty"`
	SortOrder        *int                `json:"sortOrder,omitempty"`
	SeoTitle         *string             `json:"seoTitle,omitempty"`
	SeoDescription   *string             `json:"seoDescription,omitempty"`
}

// UpdateProductRequest represents a partial update; nil means "leave as is".
type UpdateProductRequest struct {
	Name             *string             `json:"name,omitempty"`
	Description      *string             `json:"description,omitempty"`
	ShortDescription *string             `json:"shortDescription,omitempty"`
	SKU              *string             `json:"sku,omitempty"`
	Category         *primitive.ObjectID `json:"category,omitempty"`
	Subcategory      *primitive.ObjectID `json:"subcategory,omitempty"`
	Price            *float64            `json:"price,omitempty"`
	ComparePrice     *float64            `json:"comparePrice,omitempty"`
	Cost             *float64            `json:"cost,omitempty"`
	Stock            *Stock              `json:"stock,omitempty"`
	Dimensions       *Dimensions         `json:"dimensions,omitempty"`
	Images           []string            `json:"images,omitempty"`
	Tags             []string            `json:"tags,omitempty"`
	IsActive         *bool               `json:"isActive,omitempty"`
	IsFeatured       *bool               `json:"isFeatured,omitempty"`
	IsDigital        *bool               `json:"isDigital,omitempty"`
	SortOrder        *int                `json:"sortOrder,omitempty"`
	SeoTitle         *string             `json:"seoTitle,omitempty"`
	SeoDescription   *string             `json:"seoDescription,omitempty"`
}

// ProductListQuery represents filters for product list queries. All
// predicates are optional and combined with AND, except Search which expands
// to an OR across name, description and tags.
type ProductListQuery struct {
	IsActive    *bool
	IsFeatured  *bool
	IsDigital   *bool
	Category    *primitive.ObjectID
	Subcategory *primitive.ObjectID
	MinPrice    *float64
	MaxPrice    *float64
	LowStock    bool
	Search      string
	Page        *int
	Limit       int
}

// ProductStats summarizes the products collection.
type ProductStats struct {
	TotalProducts    int64 `json:"totalProducts"`
	ActiveProducts   int64 `json:"activeProducts"`
	FeaturedProducts int64 `json:"featuredProducts"`
	LowStockProducts int64 `json:"lowStockProducts"`
}
