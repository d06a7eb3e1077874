package database

import (
	"gorm.io/gorm"

	"github.com/well-broomed/cleaning-api/internal/utils"
)

// Paginate applies pagination to a GORM query. Zero-valued params leave the
// query unpaginated, for internal callers that need the full set.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
