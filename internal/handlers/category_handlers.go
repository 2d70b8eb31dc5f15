package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

type CategoryHandler struct {
	service         *catalog.CategoryService
	eventsPublisher eventPublisher
}

func NewCategoryHandler(service *catalog.CategoryService, eventsPublisher *events.Publisher) *CategoryHandler {
	return &CategoryHandler{
		service:         service,
		eventsPublisher: eventsPublisher,
	}
}

// GetCategoryList returns categories matching the optional filters. The
// response carries a pagination block only when the request asked for a page.
func (h *CategoryHandler) GetCategoryList(c *gin.Context) {
	query := models.CategoryListQuery{
		IsActive: parseBoolQuery(c, "isActive"),
		Search:   c.Query("search"),
		Page:     parseIntQuery(c, "page"),
	}
	if limit := parseIntQuery(c, "limit"); limit != nil {
		query.Limit = *limit
	}

	categories, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(categories, pagination))
}

// GetActiveCategories returns the active categories for storefront reads.
func (h *CategoryHandler) GetActiveCategories(c *gin.Context) {
	categories, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// GetCategory returns one category with its active subcategories.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	category, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// GetActiveCategory is the storefront read of a single category; inactive
// categories come back as 404.
func (h *CategoryHandler) GetActiveCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	category, err := h.service.GetActiveByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	category, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.CategoryCreated, category.ID.Hex(), category.Name, category.Slug, "", 0, actor)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": category})
}

// UpdateCategory applies a partial update to a category
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	category, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.CategoryUpdated, category.ID.Hex(), category.Name, category.Slug, "", 0, actor)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// DeleteCategory removes a category without dependents
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.CategoryDeleted, id.Hex(), "", "", "", 0, middleware.ActorFromContext(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

// ToggleCategoryStatus flips the active flag, cascading deactivation to the
// category's subcategories.
func (h *CategoryHandler) ToggleCategoryStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	category, affected, err := h.service.ToggleStatus(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.CategoryStatusChanged, category.ID.Hex(), category.Name, category.Slug, "", affected, actor)
	if affected > 0 {
		h.eventsPublisher.Publish(events.CascadeDeactivated, category.ID.Hex(), category.Name, "", "", affected, actor)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
		"message": statusChangeMessage("Category", category.IsActive, affected, "subcategories"),
	})
}

// ReorderCategories assigns sortOrder by list position
func (h *CategoryHandler) ReorderCategories(c *gin.Context) {
	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), req.IDs, middleware.ActorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Categories reordered"})
}

// GetCategoryStats returns collection-level counts
func (h *CategoryHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
