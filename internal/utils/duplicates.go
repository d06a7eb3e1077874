package utils

// Conflicts flags which candidate fields collided with existing rows.
type Conflicts map[string]bool

// CheckForDuplicates compares a candidate field-value map against rows that
// matched an OR-combined uniqueness query and reports which field(s) actually
// collided. The query matches on either field, so each returned row is checked
// against every candidate field; flags accumulate across rows. Returns nil
// when nothing collides so callers can short-circuit on truthiness.
func CheckForDuplicates(candidate map[string]string, existing []map[string]string) Conflicts {
	conflicts := Conflicts{}
	for _, row := range existing {
		for field, value := range candidate {
			if value != "" && row[field] == value {
				conflicts[field] = true
			}
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	return conflicts
}
