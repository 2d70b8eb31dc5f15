package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// SubcategoryService orchestrates subcategory operations. Subcategories sit
// in the middle of the hierarchy, so the service checks upward (the parent
// category must exist and be active) and downward (products block deletion
// and receive the deactivation cascade).
type SubcategoryService struct {
	categories    CategoryStore
	subcategories SubcategoryStore
	products      ProductStore
	logger        *logrus.Entry
}

func NewSubcategoryService(categories CategoryStore, subcategories SubcategoryStore, products ProductStore, logger *logrus.Logger) *SubcategoryService {
	return &SubcategoryService{
		categories:    categories,
		subcategories: subcategories,
		products:      products,
		logger:        logger.WithField("component", "catalog.subcategories"),
	}
}

// List returns subcategories matching the query with their parent category
// references resolved. Pagination metadata is present only when the query
// carried an explicit page.
func (s *SubcategoryService) List(ctx context.Context, q models.SubcategoryListQuery) ([]models.Subcategory, *models.PaginationInfo, error) {
	q.Limit = normalizeLimit(q.Limit)
	subcategories, total, err := s.subcategories.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	if err := s.resolveCategoryRefs(ctx, subcategories); err != nil {
		return nil, nil, err
	}
	return subcategories, buildPagination(q.Page, q.Limit, total), nil
}

// ListActive returns all active subcategories with their parent category
// references resolved, unpaginated.
func (s *SubcategoryService) ListActive(ctx context.Context) ([]models.Subcategory, error) {
	subcategories, err := s.subcategories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolveCategoryRefs(ctx, subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

// ListByCategory returns the active subcategories of a category.
func (s *SubcategoryService) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Subcategory, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.subcategories.ListByCategory(ctx, categoryID)
}

// GetByID returns a subcategory with its parent reference and its active
// products resolved.
func (s *SubcategoryService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subcategory, error) {
	subcategory, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	refs, err := s.categories.GetRefs(ctx, []primitive.ObjectID{subcategory.Category})
	if err != nil {
		return nil, err
	}
	if ref, ok := refs[subcategory.Category]; ok {
		subcategory.CategoryRef = &ref
	}
	products, err := s.products.ListBySubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	subcategory.Products = products
	return subcategory, nil
}

// Create validates and creates a new subcategory under an active category.
// The name must be unique within the parent, not globally.
func (s *SubcategoryService) Create(ctx context.Context, req models.CreateSubcategoryRequest, actor models.Actor) (*models.Subcategory, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	parent := req.ParentCategory()
	if parent == nil {
		return nil, FieldError("category", "a parent category is required")
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Color != nil {
		if err := validateColor(*req.Color); err != nil {
			return nil, err
		}
	}
	if _, err := resolveActiveCategory(ctx, s.categories, *parent); err != nil {
		return nil, err
	}
	if err := ensureSubcategoryNameAvailable(ctx, s.subcategories, req.Name, *parent, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subcategory := &models.Subcategory{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Slug:      Slugify(req.Name),
		Category:  *parent,
		IsActive:  true,
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		subcategory.Description = *req.Description
	}
	if req.Icon != nil {
		subcategory.Icon = *req.Icon
	}
	if req.Color != nil {
		subcategory.Color = *req.Color
	}
	if req.SortOrder != nil {
		subcategory.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		subcategory.IsActive = *req.IsActive
	}

	if err := s.subcategories.Insert(ctx, subcategory); err != nil {
		return nil, err
	}
	return subcategory, nil
}

// Update applies a partial update. Renames re-check uniqueness within the
// effective parent; reparenting re-validates the new parent and the name
// within it. A deactivation cascades onto the subcategory's products.
func (s *SubcategoryService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateSubcategoryRequest, actor models.Actor) (*models.Subcategory, error) {
	subcategory, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	parent := subcategory.Category
	if p := req.ParentCategory(); p != nil && *p != subcategory.Category {
		if _, err := resolveActiveCategory(ctx, s.categories, *p); err != nil {
			return nil, err
		}
		parent = *p
	}

	name := subcategory.Name
	if req.Name != nil && *req.Name != subcategory.Name {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		name = *req.Name
	}
	if name != subcategory.Name || parent != subcategory.Category {
		if err := ensureSubcategoryNameAvailable(ctx, s.subcategories, name, parent, &id); err != nil {
			return nil, err
		}
	}
	if name != subcategory.Name {
		subcategory.Name = name
		subcategory.Slug = Slugify(name)
	}
	subcategory.Category = parent

	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
		subcategory.Description = *req.Description
	}
	if req.Icon != nil {
		subcategory.Icon = *req.Icon
	}
	if req.Color != nil {
		if err := validateColor(*req.Color); err != nil {
			return nil, err
		}
		subcategory.Color = *req.Color
	}
	if req.SortOrder != nil {
		subcategory.SortOrder = *req.SortOrder
	}

	wasActive := subcategory.IsActive
	if req.IsActive != nil {
		subcategory.IsActive = *req.IsActive
	}

	subcategory.UpdatedBy = actor.ID
	subcategory.UpdatedAt = time.Now().UTC()

	if err := s.subcategories.Update(ctx, subcategory); err != nil {
		return nil, err
	}

	if wasActive && !subcategory.IsActive {
		if _, err := s.cascadeDeactivation(ctx, subcategory.ID, actor); err != nil {
			return subcategory, err
		}
	}
	return subcategory, nil
}

// Delete hard-deletes a subcategory. It is refused while any product, active
// or not, still references it.
func (s *SubcategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.subcategories.GetByID(ctx, id); err != nil {
		return err
	}
	dependents, err := s.products.CountBySubcategory(ctx, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return NewError(CodeConflict, "cannot delete subcategory because it has associated products")
	}
	return s.subcategories.Delete(ctx, id)
}

// ToggleStatus flips isActive. Deactivation cascades to the subcategory's
// products; reactivation never resurrects them. Returns the affected
// product count.
func (s *SubcategoryService) ToggleStatus(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Subcategory, int64, error) {
	subcategory, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	subcategory.IsActive = !subcategory.IsActive
	subcategory.UpdatedBy = actor.ID
	subcategory.UpdatedAt = time.Now().UTC()
	if err := s.subcategories.Update(ctx, subcategory); err != nil {
		return nil, 0, err
	}

	if subcategory.IsActive {
		return subcategory, 0, nil
	}
	affected, err := s.cascadeDeactivation(ctx, subcategory.ID, actor)
	if err != nil {
		return subcategory, affected, err
	}
	return subcategory, affected, nil
}

func (s *SubcategoryService) cascadeDeactivation(ctx context.Context, id primitive.ObjectID, actor models.Actor) (int64, error) {
	affected, err := s.products.DeactivateBySubcategory(ctx, id, actor, time.Now().UTC())
	if err != nil {
		s.logger.WithError(err).WithField("subcategory", id.Hex()).Error("product cascade failed")
		return affected, NewError(CodeCascadeIncomplete, "subcategory deactivated but cascading to products failed")
	}
	if affected > 0 {
		s.logger.WithFields(logrus.Fields{"subcategory": id.Hex(), "affected": affected}).Info("deactivated dependent products")
	}
	return affected, nil
}

// Reorder assigns sortOrder = position + 1 for every id in the given order.
func (s *SubcategoryService) Reorder(ctx context.Context, ids []primitive.ObjectID, actor models.Actor) error {
	if len(ids) == 0 {
		return FieldError("ids", "an ordered list of subcategory ids is required")
	}
	failed := reorderAll(ctx, ids, actor, s.subcategories.SetSortOrder)
	if len(failed) > 0 {
		return NewError(CodeReorderIncomplete, fmt.Sprintf("failed to reorder %d of %d subcategories", len(failed), len(ids)))
	}
	return nil
}

// Stats reports subcategory counts plus the five subcategories with the most
// products, annotated with their parent category names.
func (s *SubcategoryService) Stats(ctx context.Context) (models.SubcategoryStatsReport, error) {
	return s.subcategories.Stats(ctx)
}

func (s *SubcategoryService) resolveCategoryRefs(ctx context.Context, subcategories []models.Subcategory) error {
	if len(subcategories) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(subcategories))
	seen := make(map[primitive.ObjectID]bool)
	for _, sub := range subcategories {
		if !seen[sub.Category] {
			seen[sub.Category] = true
			ids = append(ids, sub.Category)
		}
	}
	refs, err := s.categories.GetRefs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range subcategories {
		if ref, ok := refs[subcategories[i].Category]; ok {
			subcategories[i].CategoryRef = &ref
		}
	}
	return nil
}
