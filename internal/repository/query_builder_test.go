package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

func boolPtr(b bool) *bool        { return &b }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestBuildCategoryFilter_Empty(t *testing.T) {
	filter := buildCategoryFilter(models.CategoryListQuery{})
	assert.Empty(t, filter)
}

func TestBuildCategoryFilter_SearchIsCaseInsensitive(t *testing.T) {
	filter := buildCategoryFilter(models.CategoryListQuery{IsActive: boolPtr(true), Search: "sho"})

	assert.Equal(t, true, filter["isActive"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	re := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, "sho", re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestBuildSubcategoryFilter_Category(t *testing.T) {
	id := primitive.NewObjectID()
	filter := buildSubcategoryFilter(models.SubcategoryListQuery{Category: &id})

	assert.Equal(t, id, filter["category"])
	_, hasActive := filter["isActive"]
	assert.False(t, hasActive)
}

func TestBuildProductFilter_PriceRange(t *testing.T) {
	filter := buildProductFilter(models.ProductListQuery{MinPrice: floatPtr(10), MaxPrice: floatPtr(50)})

	price, ok := filter["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 10.0, price["$gte"])
	assert.Equal(t, 50.0, price["$lte"])

	filter = buildProductFilter(models.ProductListQuery{MinPrice: floatPtr(10)})
	price = filter["price"].(bson.M)
	assert.Equal(t, 10.0, price["$gte"])
	_, hasMax := price["$lte"]
	assert.False(t, hasMax)
}

func TestBuildProductFilter_LowStockComparesFields(t *testing.T) {
	filter := buildProductFilter(models.ProductListQuery{LowStock: true})

	expr, ok := filter["$expr"].(bson.M)
	require.True(t, ok)
	and, ok := expr["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, bson.M{"$eq": bson.A{"$stock.trackStock", true}}, and[0])
	assert.Equal(t, bson.M{"$lte": bson.A{"$stock.quantity", "$stock.minStock"}}, and[1])
}

func TestBuildProductFilter_SearchCoversTags(t *testing.T) {
	filter := buildProductFilter(models.ProductListQuery{Search: "wireless"})

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 4)
}

func TestExactFold_AnchorsAndEscapes(t *testing.T) {
	re := exactFold("C++ Kit (v2)")

	assert.Equal(t, `^C\+\+ Kit \(v2\)$`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestFindWindow(t *testing.T) {
	skip, limit := findWindow(nil, 10)
	assert.Zero(t, skip)
	assert.Zero(t, limit)

	skip, limit = findWindow(intPtr(3), 20)
	assert.Equal(t, int64(40), skip)
	assert.Equal(t, int64(20), limit)

	skip, limit = findWindow(intPtr(0), 20)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(20), limit)
}
