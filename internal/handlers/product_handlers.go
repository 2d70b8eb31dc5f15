package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

type ProductHandler struct {
	service         *catalog.ProductService
	eventsPublisher eventPublisher
}

func NewProductHandler(service *catalog.ProductService, eventsPublisher *events.Publisher) *ProductHandler {
	return &ProductHandler{
		service:         service,
		eventsPublisher: eventsPublisher,
	}
}

// GetProductList returns products matching the optional filters with both
// parent references resolved.
func (h *ProductHandler) GetProductList(c *gin.Context) {
	query := models.ProductListQuery{
		IsActive:    parseBoolQuery(c, "isActive"),
		IsFeatured:  parseBoolQuery(c, "isFeatured"),
		IsDigital:   parseBoolQuery(c, "isDigital"),
		Category:    parseObjectIDQuery(c, "category"),
		Subcategory: parseObjectIDQuery(c, "subcategory"),
		MinPrice:    parseFloatQuery(c, "minPrice"),
		MaxPrice:    parseFloatQuery(c, "maxPrice"),
		Search:      c.Query("search"),
		Page:        parseIntQuery(c, "page"),
	}
	if low := parseBoolQuery(c, "lowStock"); low != nil {
		query.LowStock = *low
	}
	if limit := parseIntQuery(c, "limit"); limit != nil {
		query.Limit = *limit
	}

	products, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(products, pagination))
}

// GetFeaturedProducts returns active featured products.
// GetActiveProducts returns the active products for storefront reads.
func (h *ProductHandler) GetActiveProducts(c *gin.Context) {
	products, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.service.ListFeatured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

// GetProductsByCategory returns the active products of a category.
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	products, err := h.service.ListByCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

// GetProductsBySubcategory returns the active products of a subcategory.
func (h *ProductHandler) GetProductsBySubcategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	products, err := h.service.ListBySubcategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

// GetProduct returns one product with its parent references.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// GetProductBySKU looks a product up by SKU, case-insensitively.
func (h *ProductHandler) GetProductBySKU(c *gin.Context) {
	product, err := h.service.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// GetActiveProduct is the storefront read of a single product; inactive
// products come back as 404.
func (h *ProductHandler) GetActiveProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.service.GetActiveByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// GetActiveProductBySKU is the storefront SKU lookup; inactive products come
// back as 404.
func (h *ProductHandler) GetActiveProductBySKU(c *gin.Context) {
	product, err := h.service.GetActiveBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProduct creates a new product under an active category/subcategory
// pair
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.ProductCreated, product.ID.Hex(), product.Name, product.Slug, product.Subcategory.Hex(), 0, actor)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
}

// UpdateProduct applies a partial update to a product
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.ProductUpdated, product.ID.Hex(), product.Name, product.Slug, product.Subcategory.Hex(), 0, actor)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// DeleteProduct removes a product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.ProductDeleted, id.Hex(), "", "", "", 0, middleware.ActorFromContext(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

// ToggleProductStatus flips the active flag
func (h *ProductHandler) ToggleProductStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	product, err := h.service.ToggleStatus(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	h.eventsPublisher.Publish(events.ProductStatusChanged, product.ID.Hex(), product.Name, product.Slug, product.Subcategory.Hex(), 0, actor)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
		"message": statusChangeMessage("Product", product.IsActive, 0, ""),
	})
}

// ToggleProductFeatured flips the featured flag
func (h *ProductHandler) ToggleProductFeatured(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.service.ToggleFeatured(c.Request.Context(), id, middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// ReorderProducts assigns sortOrder by list position
func (h *ProductHandler) ReorderProducts(c *gin.Context) {
	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), req.IDs, middleware.ActorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Products reordered"})
}

// GetProductStats returns collection-level counts
func (h *ProductHandler) GetProductStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
