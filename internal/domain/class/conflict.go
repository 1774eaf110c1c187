package class

import "time"

// FindConflict returns the first class in existing whose window overlaps
// [start, end), skipping the class with excludeID (pass "" to skip none).
// Which overlapping class is returned is unspecified when several match.
// PRE: existing belong to a single trainer; start < end
// POST: Returns (conflict, true) on overlap, (Class{}, false) otherwise
func FindConflict(existing []Class, start, end time.Time, excludeID string) (Class, bool) {
	for _, c := range existing {
		if excludeID != "" && c.ID == excludeID {
			continue
		}
		if c.Overlaps(start, end) {
			return c, true
		}
	}
	return Class{}, false
}

// CheckConflict is FindConflict in error form: nil when the window is free,
// a *ConflictError otherwise.
func CheckConflict(existing []Class, start, end time.Time, excludeID string) error {
	if c, ok := FindConflict(existing, start, end, excludeID); ok {
		return &ConflictError{Existing: c}
	}
	return nil
}
