package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// The list endpoints accept a free combination of optional filters. Each
// builder assembles the exact Mongo filter for one entity: absent predicates
// contribute nothing, Search expands into a case-insensitive OR across the
// text fields.

// exactFold builds an anchored case-insensitive match for a whole value.
// Anchoring matters: an unanchored regex would treat "Shoes" and "Snowshoes"
// as equal names.
func exactFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

// containsFold builds a case-insensitive substring match.
func containsFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

func buildCategoryFilter(q models.CategoryListQuery) bson.M {
	filter := bson.M{}
	if q.IsActive != nil {
		filter["isActive"] = *q.IsActive
	}
	if q.Search != "" {
		re := containsFold(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	return filter
}

func buildSubcategoryFilter(q models.SubcategoryListQuery) bson.M {
	filter := bson.M{}
	if q.IsActive != nil {
		filter["isActive"] = *q.IsActive
	}
	if q.Category != nil {
		filter["category"] = *q.Category
	}
	if q.Search != "" {
		re := containsFold(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	return filter
}

func buildProductFilter(q models.ProductListQuery) bson.M {
	filter := bson.M{}
	if q.IsActive != nil {
		filter["isActive"] = *q.IsActive
	}
	if q.IsFeatured != nil {
		filter["isFeatured"] = *q.IsFeatured
	}
	if q.IsDigital != nil {
		filter["isDigital"] = *q.IsDigital
	}
	if q.Category != nil {
		filter["category"] = *q.Category
	}
	if q.Subcategory != nil {
		filter["subcategory"] = *q.Subcategory
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	if q.LowStock {
		// Only products that actually track stock count as low.
		filter["$expr"] = bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{"$stock.trackStock", true}},
			bson.M{"$lte": bson.A{"$stock.quantity", "$stock.minStock"}},
		}}
	}
	if q.Search != "" {
		re := containsFold(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"sku": re},
			bson.M{"tags": re},
		}
	}
	return filter
}

// findWindow converts the optional page into skip/limit. No page means no
// window: the full result set is returned.
func findWindow(page *int, limit int) (skip, window int64) {
	if page == nil {
		return 0, 0
	}
	p := *page
	if p < 1 {
		p = 1
	}
	return int64(p-1) * int64(limit), int64(limit)
}
