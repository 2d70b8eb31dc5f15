package catalog

import "catalog-service/internal/models"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// normalizeLimit clamps a requested page size to sane bounds.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// buildPagination returns pagination metadata, or nil when the client did
// not ask for a page. Omitting page means "return everything"; that mode is
// distinct from page 1 and carries no pagination block.
func buildPagination(page *int, limit int, total int64) *models.PaginationInfo {
	if page == nil {
		return nil
	}
	p := *page
	if p < 1 {
		p = 1
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	return &models.PaginationInfo{
		Page:  p,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
