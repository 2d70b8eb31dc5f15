package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// eventPublisher is the slice of *events.Publisher the handlers need.
type eventPublisher interface {
	Publish(eventType, entityID, entityName, slug, parentID string, affected int64, actor models.Actor)
}

// statusFor maps a catalog error classification to its HTTP status.
func statusFor(code string) int {
	switch code {
	case catalog.CodeValidation, catalog.CodeDuplicateName, catalog.CodeDuplicateSKU,
		catalog.CodeParentInactive, catalog.CodeHierarchyMismatch:
		return http.StatusBadRequest
	case catalog.CodeNotFound:
		return http.StatusNotFound
	case catalog.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope for a classified catalog error.
// Unclassified errors become an opaque 500.
func respondError(c *gin.Context, err error) {
	code := catalog.CodeOf(err)
	message := "An unexpected error occurred"
	field := ""
	var ce *catalog.Error
	if errors.As(err, &ce) {
		message = ce.Message
		field = ce.Field
	}

	body := gin.H{"code": code, "message": message}
	if field != "" {
		body["field"] = field
	}
	c.JSON(statusFor(code), gin.H{"success": false, "error": body})
}

// respondBindError wraps a gin binding failure in the standard envelope.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    catalog.CodeValidation,
			"message": err.Error(),
		},
	})
}

// parseIDParam reads and validates the :id path parameter.
func parseIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    catalog.CodeValidation,
				"message": "invalid id",
				"field":   "id",
			},
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseBoolQuery(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntQuery(c *gin.Context, name string) *int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatQuery(c *gin.Context, name string) *float64 {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseObjectIDQuery(c *gin.Context, name string) *primitive.ObjectID {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	return &id
}

func listResponse(data interface{}, pagination *models.PaginationInfo) models.ListResponse {
	return models.ListResponse{Success: true, Data: data, Pagination: pagination}
}

func statusChangeMessage(entity string, isActive bool, affected int64, dependents string) string {
	if isActive {
		return entity + " activated"
	}
	if affected > 0 {
		return fmt.Sprintf("%s deactivated along with %d %s", entity, affected, dependents)
	}
	return entity + " deactivated"
}
