package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"

	"fitpro/internal/domain/member"
)

// ImportMembersInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream with a header row
// POST: Returns aggregate counts and per-row errors; writes are skipped when DryRun=true
// INVARIANT: Existing members are never modified; a duplicate email skips the row
type ImportMembersInput struct {
	Reader  io.Reader
	AdminID string
	DryRun  bool
}

// ImportMembersResult holds aggregate counts and per-row errors from an import run.
type ImportMembersResult struct {
	Total   int
	Created int
	Skipped int
	Errors  []ImportMembersRowError
	DryRun  bool
	Unknown []string
}

// ImportMembersRowError describes a validation or processing error for a single CSV row.
type ImportMembersRowError struct {
	Row     int
	Message string
}

// ImportMembersDeps holds external dependencies for the import orchestrator.
type ImportMembersDeps struct {
	MemberStore MemberStoreForRegister
	GenerateID  func() string
}

var importColumns = map[string]bool{
	"NAME": true, "EMAIL": true, "PHONE": true, "AGE": true, "GENDER": true, "ADDRESS": true,
}

// ExecuteImportMembers parses a CSV stream and creates member records.
// PRE: Input.Reader contains a CSV with at least NAME and EMAIL columns
// POST: Valid rows with new emails are created; others are counted as skipped or errors
func ExecuteImportMembers(ctx context.Context, input ImportMembersInput, deps ImportMembersDeps) (ImportMembersResult, error) {
	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportMembersResult{}, required("CSV is empty or unreadable")
	}

	colIdx := make(map[string]int, len(header))
	var unknownCols []string
	for i, h := range header {
		key := strings.ToUpper(strings.TrimSpace(h))
		colIdx[key] = i
		if !importColumns[key] {
			unknownCols = append(unknownCols, h)
		}
	}
	for _, col := range []string{"NAME", "EMAIL"} {
		if _, ok := colIdx[col]; !ok {
			return ImportMembersResult{}, required("CSV missing required column: " + col)
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := ImportMembersResult{DryRun: input.DryRun, Unknown: unknownCols}
	rowNum := 1

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Total++
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "malformed row"})
			continue
		}
		result.Total++

		rawEmail := getCol(row, "EMAIL")
		addr, parseErr := mail.ParseAddress(rawEmail)
		if parseErr != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "invalid email: " + rawEmail})
			continue
		}

		age := 0
		if raw := getCol(row, "AGE"); raw != "" {
			if age, err = strconv.Atoi(raw); err != nil {
				result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "invalid age: " + raw})
				continue
			}
		}

		m := member.Member{
			ID:      newID(deps.GenerateID),
			Name:    getCol(row, "NAME"),
			Email:   strings.ToLower(addr.Address),
			Phone:   getCol(row, "PHONE"),
			Age:     age,
			Gender:  strings.ToLower(getCol(row, "GENDER")),
			Address: getCol(row, "ADDRESS"),
		}
		if err := m.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		if input.DryRun {
			result.Created++
			continue
		}

		if err := deps.MemberStore.Create(ctx, m); err != nil {
			if errors.Is(err, member.ErrDuplicateEmail) {
				result.Skipped++
				continue
			}
			slog.Error("members_import_save_failed", "row", rowNum, "email", m.Email, "error", err)
			result.Errors = append(result.Errors, ImportMembersRowError{Row: rowNum, Message: "save failed (see server log)"})
			continue
		}
		result.Created++
	}

	slog.Info("members_import",
		"admin", input.AdminID,
		"dry_run", input.DryRun,
		"total", result.Total,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}
