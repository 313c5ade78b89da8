package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// applySort orders the query by a whitelisted column. Unknown columns
// fall back to the default ordering to keep user input out of SQL.
func applySort(query *gorm.DB, orderBy, orderDir string, allowed map[string]string, fallback string) *gorm.DB {
	column, ok := allowed[orderBy]
	if !ok {
		return query.Order(fallback)
	}
	dir := "ASC"
	if strings.EqualFold(orderDir, "desc") {
		dir = "DESC"
	}
	return query.Order(column + " " + dir)
}

// applyPagination applies limit/offset when a page size is set
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	query = query.Limit(pageSize)
	if page > 1 {
		query = query.Offset((page - 1) * pageSize)
	}
	return query
}

// isUniqueViolation reports whether the error is a unique constraint
// violation across the drivers we run against.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}
