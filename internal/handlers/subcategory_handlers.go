package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

type SubcategoryHandler struct {
	service         *catalog.SubcategoryService
	eventsPublisher eventPublisher
}

func NewSubcategoryHandler(service *catalog.SubcategoryService, eventsPublisher *events.Publisher) *SubcategoryHandler {
	return &SubcategoryHandler{
		service:         service,
		eventsPublisher: eventsPublisher,
	}
}

// GetSubcategoryList returns subcategories matching the optional filters,
// each with its parent category reference resolved.
func (h *SubcategoryHandler) GetSubcategoryList(c *gin.Context) {
	query := models.SubcategoryListQuery{
		IsActive: parseBoolQuery(c, "isActive"),
		Category: parseObjectIDQuery(c, "category"),
		Search:   c.Query("search"),
		Page:     parseIntQuery(c, "page"),
	}
	if limit := parseIntQuery(c, "limit"); limit != nil {
		query.Limit = *limit
	}

	subcategories, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(subcategories, pagination))
}

// GetActiveSubcategories returns the active subcategories for storefront
// reads.
func (h *SubcategoryHandler) GetActiveSubcategories(c *gin.Context) {
	subcategories, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategories})
}

// GetSubcategoriesByCategory returns the active subcategories of a category.
func (h *SubcategoryHandler) GetSubcategoriesByCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	subcategories, err := h.service.ListByCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategories})
}

// GetSubcategory returns one subcategory with its parent reference and
// active products.
func (h *SubcategoryHandler) GetSubcategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	subcategory, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategory})
}

// CreateSubcategory creates a new subcategory under an active category
func (h *SubcategoryHandler) CreateSubcategory(c *gin.Context) {
	var req models.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	subcategory, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.SubcategoryCreated, subcategory.ID.Hex(), subcategory.Name, subcategory.Slug, subcategory.Category.Hex(), 0, actor)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": subcategory})
}

// UpdateSubcategory applies a partial update to a subcategory
func (h *SubcategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	subcategory, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.SubcategoryUpdated, subcategory.ID.Hex(), subcategory.Name, subcategory.Slug, subcategory.Category.Hex(), 0, actor)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": subcategory})
}

// DeleteSubcategory removes a subcategory without dependents
func (h *SubcategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.SubcategoryDeleted, id.Hex(), "", "", "", 0, middleware.ActorFromContext(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subcategory deleted"})
}

// ToggleSubcategoryStatus flips the active flag, cascading deactivation to
// the subcategory's products.
func (h *SubcategoryHandler) ToggleSubcategoryStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	subcategory, affected, err := h.service.ToggleStatus(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.SubcategoryStatusChanged, subcategory.ID.Hex(), subcategory.Name, subcategory.Slug, subcategory.Category.Hex(), affected, actor)
	if affected > 0 {
		h.eventsPublisher.Publish(events.CascadeDeactivated, subcategory.ID.Hex(), subcategory.Name, "", "", affected, actor)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subcategory,
		"message": statusChangeMessage("Subcategory", subcategory.IsActive, affected, "products"),
	})
}

// ReorderSubcategories assigns sortOrder by list position
func (h *SubcategoryHandler) ReorderSubcategories(c *gin.Context) {
	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), req.IDs, middleware.ActorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subcategories reordered"})
}

// GetSubcategoryStats returns counts and the top five subcategories by
// product count.
func (h *SubcategoryHandler) GetSubcategoryStats(c *gin.Context) {
	report, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}
