package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/well-broomed/cleaning-api/internal/utils"
)

// ConflictError carries the per-field collision flags from a uniqueness check
// so handlers can answer 409 with the exact offending field(s).
type ConflictError struct {
	Fields utils.Conflicts
}

func (e *ConflictError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("not unique: %s", strings.Join(fields, ", "))
}
