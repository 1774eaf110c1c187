package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyPatch is returned when a partial update names no fields.
var ErrEmptyPatch = errors.New("no fields to update")

// UnknownFieldError names a patch field outside the table's allow-list.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q cannot be updated", e.Field)
}

// Patch is a partial update keyed by column name. Only columns in the
// store's allow-list reach the SQL text; values are always bound.
type Patch map[string]any

// Columns returns the patched column names in sorted order.
func (p Patch) Columns() []string {
	cols := make([]string, 0, len(p))
	for k := range p {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Check rejects an empty patch or one naming a column outside allowed.
func (p Patch) Check(allowed map[string]bool) error {
	if len(p) == 0 {
		return ErrEmptyPatch
	}
	for _, col := range p.Columns() {
		if !allowed[col] {
			return &UnknownFieldError{Field: col}
		}
	}
	return nil
}

// SetClause builds "a = ?, b = ?" with args in matching order.
// PRE: Check(allowed) returned nil
// POST: Column names come only from the allow-list
func (p Patch) SetClause(allowed map[string]bool) (string, []any, error) {
	if err := p.Check(allowed); err != nil {
		return "", nil, err
	}
	cols := p.Columns()
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		parts[i] = col + " = ?"
		args[i] = p[col]
	}
	return strings.Join(parts, ", "), args, nil
}
