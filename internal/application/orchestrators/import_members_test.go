package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fitpro/internal/domain/member"
)

func importDeps(store *mockMemberStore) ImportMembersDeps {
	return ImportMembersDeps{
		MemberStore: store,
		GenerateID:  seqID("gen"),
	}
}

// TestExecuteImportMembers_CreatesNewMembers verifies new members are created from valid CSV.
// PRE: empty store, valid CSV with NAME+EMAIL.
// POST: created=2, no errors.
func TestExecuteImportMembers_CreatesNewMembers(t *testing.T) {
	store := newMockMemberStore()
	csv := "NAME,EMAIL,AGE,GENDER\nAlice,Alice@Test.com,31,female\nBob,bob@test.com,,male\n"
	result, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
	}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("created=%d want 2", result.Created)
	}
	if result.Total != 2 {
		t.Errorf("total=%d want 2", result.Total)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors=%v want none", result.Errors)
	}
	if got := store.byID["gen-1"]; got.Email != "alice@test.com" || got.Age != 31 {
		t.Errorf("gen-1 = %+v", got)
	}
}

// TestExecuteImportMembers_SkipsDuplicates verifies existing emails are skipped.
// PRE: member with email exists, CSV contains same email.
// POST: skipped=1, created=0, existing member unchanged.
func TestExecuteImportMembers_SkipsDuplicates(t *testing.T) {
	store := newMockMemberStore()
	store.byID["orig-1"] = member.Member{ID: "orig-1", Name: "Alice Original", Email: "alice@test.com"}

	csv := "NAME,EMAIL\nAlice Updated,alice@test.com\n"
	result, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
	}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped=%d want 1", result.Skipped)
	}
	if result.Created != 0 {
		t.Errorf("created=%d want 0", result.Created)
	}
	if store.byID["orig-1"].Name != "Alice Original" {
		t.Error("original member name should not be changed")
	}
}

// TestExecuteImportMembers_DryRunDoesNotWrite verifies dry_run=true returns counts without writing.
func TestExecuteImportMembers_DryRunDoesNotWrite(t *testing.T) {
	store := newMockMemberStore()
	csv := "NAME,EMAIL\nDry Person,dry@test.com\n"
	result, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
		DryRun:  true,
	}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DryRun {
		t.Error("DryRun should be true in result")
	}
	if result.Created != 1 {
		t.Errorf("created=%d want 1", result.Created)
	}
	if len(store.byID) != 0 {
		t.Error("no members should be written during dry run")
	}
}

// TestExecuteImportMembers_RowErrors verifies bad rows produce per-row errors and do not stop the run.
func TestExecuteImportMembers_RowErrors(t *testing.T) {
	store := newMockMemberStore()
	csv := "NAME,EMAIL,AGE,GENDER\nBad Person,notanemail,,\n,valid@test.com,,\nOld,old@test.com,abc,\nOdd,odd@test.com,,robot\nGood,good@test.com,,\n"
	result, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
	}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 4 {
		t.Fatalf("errors=%v want 4", result.Errors)
	}
	if result.Errors[0].Row != 2 || result.Errors[3].Row != 5 {
		t.Errorf("row numbers = %d..%d, want 2..5", result.Errors[0].Row, result.Errors[3].Row)
	}
	if result.Created != 1 {
		t.Errorf("created=%d want 1", result.Created)
	}
}

// TestExecuteImportMembers_MissingRequiredColumn returns a validation error for a missing NAME column.
func TestExecuteImportMembers_MissingRequiredColumn(t *testing.T) {
	csv := "EMAIL\nalice@test.com\n"
	_, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
	}, importDeps(newMockMemberStore()))
	if err == nil {
		t.Fatal("expected error for missing NAME column")
	}
	if !IsValidation(err) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}
}

// TestExecuteImportMembers_UnknownColumnsReported verifies unknown columns are listed in result.
func TestExecuteImportMembers_UnknownColumnsReported(t *testing.T) {
	csv := "NAME,EMAIL,BELT\nAlice,alice@test.com,blue\n"
	result, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
	}, importDeps(newMockMemberStore()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Unknown) != 1 || result.Unknown[0] != "BELT" {
		t.Errorf("unknown=%v want [BELT]", result.Unknown)
	}
}

// TestExecuteImportMembers_SaveErrorReportedPerRow verifies store save errors produce per-row errors.
func TestExecuteImportMembers_SaveErrorReportedPerRow(t *testing.T) {
	store := newMockMemberStore()
	store.saveErr = errors.New("disk full")
	csv := "NAME,EMAIL\nAlice,alice@test.com\n"
	result, err := ExecuteImportMembers(context.Background(), ImportMembersInput{
		Reader:  strings.NewReader(csv),
		AdminID: "admin-1",
	}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors=%d want 1", len(result.Errors))
	}
	if strings.Contains(result.Errors[0].Message, "disk full") {
		t.Error("internal error detail must not be exposed in row message")
	}
}
