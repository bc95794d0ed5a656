package extract

import (
	"strings"
	"testing"

	"github.com/yungbote/surveykg-backend/internal/domain"
)

func TestValidateRelationships(t *testing.T) {
	entities := []domain.Entity{
		{ID: "a", Type: "Respondent"},
		{ID: "b", Type: "Demographics"},
	}
	rels := []domain.Relationship{
		{SourceID: "a", TargetID: "b", Type: "DEMOGRAPHICS"},
		{SourceID: "a", TargetID: "ghost", Type: "DEMOGRAPHICS"},
		{SourceID: "phantom", TargetID: "b", Type: "DEMOGRAPHICS"},
	}

	report := ValidateRelationships(entities, rels)
	if report.TotalRelationships != 3 {
		t.Errorf("total = %d, want 3", report.TotalRelationships)
	}
	if report.ValidRelationships != 1 {
		t.Errorf("valid = %d, want 1", report.ValidRelationships)
	}
	if len(report.Orphaned) != 2 {
		t.Fatalf("orphaned = %d, want 2", len(report.Orphaned))
	}
	if report.Passed {
		t.Error("report should not pass with orphans")
	}
	if !strings.Contains(report.Orphaned[0], "ghost") {
		t.Errorf("first orphan should name the missing target: %q", report.Orphaned[0])
	}
	if !strings.Contains(report.Orphaned[1], "phantom") {
		t.Errorf("second orphan should name the missing source: %q", report.Orphaned[1])
	}
}

func TestValidateRelationshipsClean(t *testing.T) {
	entities := []domain.Entity{{ID: "a"}, {ID: "b"}}
	rels := []domain.Relationship{{SourceID: "a", TargetID: "b", Type: "X"}}

	report := ValidateRelationships(entities, rels)
	if !report.Passed || report.ValidRelationships != 1 || len(report.Orphaned) != 0 {
		t.Fatalf("clean set should pass: %+v", report)
	}
}

func TestValidationReportPreview(t *testing.T) {
	report := domain.ValidationReport{Orphaned: []string{"a", "b", "c"}}
	if got := report.Preview(2); len(got) != 2 {
		t.Errorf("Preview(2) = %v", got)
	}
	if got := report.Preview(10); len(got) != 3 {
		t.Errorf("Preview(10) = %v", got)
	}
}
