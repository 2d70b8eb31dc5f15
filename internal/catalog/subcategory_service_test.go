package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

func TestSubcategoryCreate_RequiresParent(t *testing.T) {
	env := newTestEnv()

	_, err := env.subcategorySvc.Create(context.Background(), models.CreateSubcategoryRequest{
		Name: "Phones",
	}, testActor)

	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestSubcategoryCreate_AcceptsCategoryIdAlias(t *testing.T) {
	env := newTestEnv()
	category := mustCreateCategory(t, env, "Electronics")

	sub, err := env.subcategorySvc.Create(context.Background(), models.CreateSubcategoryRequest{
		Name:       "Phones",
		CategoryID: oidPtr(category.ID),
	}, testActor)

	require.NoError(t, err)
	assert.Equal(t, category.ID, sub.Category)
	assert.Equal(t, "phones", sub.Slug)
}

func TestSubcategoryCreate_ParentMustExist(t *testing.T) {
	env := newTestEnv()

	_, err := env.subcategorySvc.Create(context.Background(), models.CreateSubcategoryRequest{
		Name:     "Phones",
		Category: oidPtr(primitive.NewObjectID()),
	}, testActor)

	assert.True(t, IsNotFound(err))
}

func TestSubcategoryCreate_ParentMustBeActive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	_, _, err := env.categorySvc.ToggleStatus(ctx, category.ID, testActor)
	require.NoError(t, err)

	_, err = env.subcategorySvc.Create(ctx, models.CreateSubcategoryRequest{
		Name:     "Phones",
		Category: oidPtr(category.ID),
	}, testActor)

	assert.Equal(t, CodeParentInactive, CodeOf(err))
}

func TestSubcategoryCreate_NameUniquePerCategory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	shoes := mustCreateCategory(t, env, "Shoes")
	clothing := mustCreateCategory(t, env, "Clothing")
	mustCreateSubcategory(t, env, "Sneakers", shoes.ID)

	// Same name in the same category is rejected, case-insensitively.
	_, err := env.subcategorySvc.Create(ctx, models.CreateSubcategoryRequest{
		Name:     "SNEAKERS",
		Category: oidPtr(shoes.ID),
	}, testActor)
	assert.Equal(t, CodeDuplicateName, CodeOf(err))

	// The same name under a different category is fine.
	_, err = env.subcategorySvc.Create(ctx, models.CreateSubcategoryRequest{
		Name:     "Sneakers",
		Category: oidPtr(clothing.ID),
	}, testActor)
	assert.NoError(t, err)
}

func TestSubcategoryUpdate_ReparentValidatesNewParent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	shoes := mustCreateCategory(t, env, "Shoes")
	clearance := mustCreateCategory(t, env, "Clearance")
	sub := mustCreateSubcategory(t, env, "Sneakers", shoes.ID)
	_, _, err := env.categorySvc.ToggleStatus(ctx, clearance.ID, testActor)
	require.NoError(t, err)

	_, err = env.subcategorySvc.Update(ctx, sub.ID, models.UpdateSubcategoryRequest{
		Category: oidPtr(clearance.ID),
	}, testActor)

	assert.Equal(t, CodeParentInactive, CodeOf(err))
}

func TestSubcategoryUpdate_ReparentChecksNameInTargetCategory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	shoes := mustCreateCategory(t, env, "Shoes")
	clothing := mustCreateCategory(t, env, "Clothing")
	sub := mustCreateSubcategory(t, env, "Sneakers", shoes.ID)
	mustCreateSubcategory(t, env, "Sneakers", clothing.ID)

	_, err := env.subcategorySvc.Update(ctx, sub.ID, models.UpdateSubcategoryRequest{
		Category: oidPtr(clothing.ID),
	}, testActor)

	assert.Equal(t, CodeDuplicateName, CodeOf(err))
}

func TestSubcategoryUpdate_DeactivationCascadesToProducts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	sub := mustCreateSubcategory(t, env, "Phones", category.ID)
	product := mustCreateProduct(t, env, "Handset", "SKU-1", category.ID, sub.ID)

	_, err := env.subcategorySvc.Update(ctx, sub.ID, models.UpdateSubcategoryRequest{
		IsActive: boolPtr(false),
	}, testActor)

	require.NoError(t, err)
	stored, err := env.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestSubcategoryToggleStatus_CascadeAndCount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	sub := mustCreateSubcategory(t, env, "Phones", category.ID)
	mustCreateProduct(t, env, "Handset", "SKU-1", category.ID, sub.ID)
	mustCreateProduct(t, env, "Charger", "SKU-2", category.ID, sub.ID)

	toggled, affected, err := env.subcategorySvc.ToggleStatus(ctx, sub.ID, testActor)

	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.Equal(t, int64(2), affected)
}

func TestSubcategoryToggleStatus_CascadeFailureIsSurfaced(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	sub := mustCreateSubcategory(t, env, "Phones", category.ID)
	mustCreateProduct(t, env, "Handset", "SKU-1", category.ID, sub.ID)
	env.products.failDeactivate = true

	_, _, err := env.subcategorySvc.ToggleStatus(ctx, sub.ID, testActor)

	require.Error(t, err)
	assert.Equal(t, CodeCascadeIncomplete, CodeOf(err))
}

func TestSubcategoryDelete_BlockedByProducts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	sub := mustCreateSubcategory(t, env, "Phones", category.ID)
	product := mustCreateProduct(t, env, "Handset", "SKU-1", category.ID, sub.ID)

	err := env.subcategorySvc.Delete(ctx, sub.ID)
	assert.Equal(t, CodeConflict, CodeOf(err))

	// Deactivating the product does not lift the guard.
	_, err = env.productSvc.ToggleStatus(ctx, product.ID, testActor)
	require.NoError(t, err)
	err = env.subcategorySvc.Delete(ctx, sub.ID)
	assert.Equal(t, CodeConflict, CodeOf(err))

	require.NoError(t, env.productSvc.Delete(ctx, product.ID))
	assert.NoError(t, env.subcategorySvc.Delete(ctx, sub.ID))
}

func TestSubcategoryGetByID_ResolvesParentAndProducts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	sub := mustCreateSubcategory(t, env, "Phones", category.ID)
	product := mustCreateProduct(t, env, "Handset", "SKU-1", category.ID, sub.ID)

	got, err := env.subcategorySvc.GetByID(ctx, sub.ID)

	require.NoError(t, err)
	require.NotNil(t, got.CategoryRef)
	assert.Equal(t, "Electronics", got.CategoryRef.Name)
	assert.Equal(t, "electronics", got.CategoryRef.Slug)
	require.Len(t, got.Products, 1)
	assert.Equal(t, product.ID, got.Products[0].ID)
}

func TestSubcategoryList_ResolvesCategoryRefs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	mustCreateSubcategory(t, env, "Phones", category.ID)
	mustCreateSubcategory(t, env, "Laptops", category.ID)

	result, pagination, err := env.subcategorySvc.List(ctx, models.SubcategoryListQuery{})

	require.NoError(t, err)
	assert.Nil(t, pagination)
	require.Len(t, result, 2)
	for _, sub := range result {
		require.NotNil(t, sub.CategoryRef)
		assert.Equal(t, "Electronics", sub.CategoryRef.Name)
	}
}

func TestSubcategoryList_FilterByCategory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	shoes := mustCreateCategory(t, env, "Shoes")
	clothing := mustCreateCategory(t, env, "Clothing")
	mustCreateSubcategory(t, env, "Sneakers", shoes.ID)
	mustCreateSubcategory(t, env, "Shirts", clothing.ID)

	result, _, err := env.subcategorySvc.List(ctx, models.SubcategoryListQuery{Category: oidPtr(shoes.ID)})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Sneakers", result[0].Name)
}

func TestSubcategoryStats_EmptyCollections(t *testing.T) {
	env := newTestEnv()

	report, err := env.subcategorySvc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Stats.TotalSubcategories)
	assert.Equal(t, int64(0), report.Stats.ActivateSubcategories)
	assert.Empty(t, report.TopSubcategories)
}

func TestSubcategoryStats_Counts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	mustCreateSubcategory(t, env, "Phones", category.ID)
	hidden := mustCreateSubcategory(t, env, "Pagers", category.ID)
	_, _, err := env.subcategorySvc.ToggleStatus(ctx, hidden.ID, testActor)
	require.NoError(t, err)

	report, err := env.subcategorySvc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Stats.TotalSubcategories)
	assert.Equal(t, int64(1), report.Stats.ActivateSubcategories)
}

func TestSubcategoryListActive_FiltersAndResolvesParents(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	category := mustCreateCategory(t, env, "Electronics")
	mustCreateSubcategory(t, env, "Phones", category.ID)
	retired := mustCreateSubcategory(t, env, "Pagers", category.ID)

	_, _, err := env.subcategorySvc.ToggleStatus(ctx, retired.ID, testActor)
	require.NoError(t, err)

	active, err := env.subcategorySvc.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Phones", active[0].Name)
	require.NotNil(t, active[0].CategoryRef)
	assert.Equal(t, "Electronics", active[0].CategoryRef.Name)
}
