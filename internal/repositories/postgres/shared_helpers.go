package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// applySorting orders the query by an allow-listed column, falling back to
// the default column in descending order.
func applySorting(query *gorm.DB, sortBy, sortOrder, defaultColumn string) *gorm.DB {
	column := defaultColumn
	switch sortBy {
	case "created_at", "updated_at", "title", "job_title", "published_at", "starts_at":
		column = sortBy
	}

	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}

	return query.Order(fmt.Sprintf("%s %s", column, order))
}

// applyPagination applies limit/offset with a sane cap. A negative limit
// skips pagination entirely; exports need the full result set.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit < 0 {
		return query
	}
	if limit == 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
