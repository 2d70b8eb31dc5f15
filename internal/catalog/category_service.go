package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/models"
)

// CategoryService orchestrates category operations: payload validation,
// uniqueness and hierarchy checks, slug derivation, the write itself, and
// the deactivation cascade onto subcategories.
type CategoryService struct {
	categories    CategoryStore
	subcategories SubcategoryStore
	logger        *logrus.Entry
}

func NewCategoryService(categories CategoryStore, subcategories SubcategoryStore, logger *logrus.Logger) *CategoryService {
	return &CategoryService{
		categories:    categories,
		subcategories: subcategories,
		logger:        logger.WithField("component", "catalog.categories"),
	}
}

// List returns categories matching the query. Pagination metadata is present
// only when the query carried an explicit page.
func (s *CategoryService) List(ctx context.Context, q models.CategoryListQuery) ([]models.Category, *models.PaginationInfo, error) {
	q.Limit = normalizeLimit(q.Limit)
	categories, total, err := s.categories.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return categories, buildPagination(q.Page, q.Limit, total), nil
}

// ListActive returns all active categories, unpaginated.
func (s *CategoryService) ListActive(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListActive(ctx)
}

// GetByID returns a category with its active subcategories resolved.
func (s *CategoryService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subcategories, err := s.subcategories.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Subcategories = subcategories
	return category, nil
}

// GetActiveByID is GetByID restricted to active categories; inactive ones
// are reported as not found.
func (s *CategoryService) GetActiveByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, NewError(CodeNotFound, "category not found")
	}
	return category, nil
}

// Create validates and creates a new category.
func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest, actor models.Actor) (*models.Category, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
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
	if err := ensureCategoryNameAvailable(ctx, s.categories, req.Name, nil); err != nil {
		return nil, err
	}
	slug := Slugify(req.Name)
	if err := ensureCategorySlugAvailable(ctx, s.categories, slug, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Slug:      slug,
		IsActive:  true,
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies a partial update. Renames re-derive the slug and re-check
// name uniqueness; an isActive transition from true to false cascades onto
// the category's subcategories.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateCategoryRequest, actor models.Actor) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		if err := ensureCategoryNameAvailable(ctx, s.categories, *req.Name, &id); err != nil {
			return nil, err
		}
		slug := Slugify(*req.Name)
		if err := ensureCategorySlugAvailable(ctx, s.categories, slug, &id); err != nil {
			return nil, err
		}
		category.Name = *req.Name
		category.Slug = slug
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		if err := validateColor(*req.Color); err != nil {
			return nil, err
		}
		category.Color = *req.Color
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	wasActive := category.IsActive
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	category.UpdatedBy = actor.ID
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	if wasActive && !category.IsActive {
		if _, err := s.cascadeDeactivation(ctx, category.ID, actor); err != nil {
			return category, err
		}
	}
	return category, nil
}

// Delete hard-deletes a category. It is refused while any subcategory,
// active or not, still references it.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	dependents, err := s.subcategories.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return NewError(CodeConflict, "cannot delete category because it has associated subcategories")
	}
	return s.categories.Delete(ctx, id)
}

// ToggleStatus flips isActive. Deactivation cascades to the category's
// subcategories; reactivation is a plain field write and never resurrects
// children. Returns the affected descendant count.
func (s *CategoryService) ToggleStatus(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Category, int64, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	category.IsActive = !category.IsActive
	category.UpdatedBy = actor.ID
	category.UpdatedAt = time.Now().UTC()
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, 0, err
	}

	if category.IsActive {
		return category, 0, nil
	}
	affected, err := s.cascadeDeactivation(ctx, category.ID, actor)
	if err != nil {
		return category, affected, err
	}
	return category, affected, nil
}

// cascadeDeactivation propagates a deactivation one level down. The parent
// write and the bulk child update are two separate operations; when the
// second fails the tree is left parent-inactive/children-active, which is
// surfaced as a retryable CASCADE_INCOMPLETE error. Re-running the toggle
// (or the cascade alone) is idempotent.
func (s *CategoryService) cascadeDeactivation(ctx context.Context, id primitive.ObjectID, actor models.Actor) (int64, error) {
	affected, err := s.subcategories.DeactivateByCategory(ctx, id, actor, time.Now().UTC())
	if err != nil {
		s.logger.WithError(err).WithField("category", id.Hex()).Error("subcategory cascade failed")
		return affected, NewError(CodeCascadeIncomplete, "category deactivated but cascading to subcategories failed")
	}
	if affected > 0 {
		s.logger.WithFields(logrus.Fields{"category": id.Hex(), "affected": affected}).Info("deactivated dependent subcategories")
	}
	return affected, nil
}

// Reorder assigns sortOrder = position + 1 for every id in the given order.
// Updates target disjoint documents and run concurrently; all must complete
// before success is reported.
func (s *CategoryService) Reorder(ctx context.Context, ids []primitive.ObjectID, actor models.Actor) error {
	if len(ids) == 0 {
		return FieldError("ids", "an ordered list of category ids is required")
	}
	failed := reorderAll(ctx, ids, actor, s.categories.SetSortOrder)
	if len(failed) > 0 {
		return NewError(CodeReorderIncomplete, fmt.Sprintf("failed to reorder %d of %d categories", len(failed), len(ids)))
	}
	return nil
}

type setSortOrderFunc func(ctx context.Context, id primitive.ObjectID, sortOrder int, actor models.Actor, at time.Time) error

// reorderAll dispatches one update per id and waits for all of them.
func reorderAll(ctx context.Context, ids []primitive.ObjectID, actor models.Actor, set setSortOrderFunc) []primitive.ObjectID {
	now := time.Now().UTC()
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []primitive.ObjectID
	)
	for i, id := range ids {
		wg.Add(1)
		go func(position int, id primitive.ObjectID) {
			defer wg.Done()
			if err := set(ctx, id, position+1, actor, now); err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(i, id)
	}
	wg.Wait()
	return failed
}

// Stats reports collection-level counts. Empty collections yield zero-valued
// summaries.
func (s *CategoryService) Stats(ctx context.Context) (models.CategoryStats, error) {
	return s.categories.Stats(ctx)
}
