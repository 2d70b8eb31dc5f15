package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor identifies the authenticated user performing a mutation.
// It is resolved by the auth middleware and passed explicitly into the
// catalog services so they stay independent of request state.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// EntityRef is a resolved parent reference ({id, name, slug} summary).
// Parent links are stored as plain ObjectIDs and resolved at read time;
// parent data is never duplicated into child documents.
type EntityRef struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
	Slug string             `json:"slug" bson:"slug"`
}

// PaginationInfo is attached to list responses only when the client
// explicitly supplied a page parameter.
type PaginationInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Error represents error details in an API response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse represents an error response envelope.
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// SuccessResponse represents a generic success envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse represents a list envelope with optional pagination.
type ListResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// ReorderRequest carries an ordered id list; each entity is assigned
// sortOrder = index + 1.
type ReorderRequest struct {
	IDs []primitive.ObjectID `json:"ids" binding:"required"`
}
