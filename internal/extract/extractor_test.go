package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/surveykg-backend/internal/dataset"
	"github.com/yungbote/surveykg-backend/internal/domain"
	"github.com/yungbote/surveykg-backend/internal/ontology"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
)

const testOntologyYAML = `
name: test_survey
version: 1
categories:
  OPINIONS:
    class_name: PoliticalOpinions
    fields:
      Q1:
        name: biden_job_approval
        description: Biden job approval rating
      Q2:
        name: party_identification
        description: Political party identification
  DEMOGRAPHICS:
    class_name: Demographics
    fields:
      GENDER:
        name: gender
        description: Gender identity
`

func testOntology(t *testing.T) ontology.Ontology {
	t.Helper()
	ont, err := ontology.ParseDefinition([]byte(testOntologyYAML))
	if err != nil {
		t.Fatalf("parse test ontology: %v", err)
	}
	return ont
}

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	clock := fixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	return New(testOntology(t), NewRespondentIDGenerator(1, clock), logger.NewNop())
}

func scenarioTable() *dataset.Table {
	return dataset.NewTable(
		[]string{"UID", "PROJECT_NAME", "YEARRAW", "Q1"},
		[][]string{
			{"u1", "pulse", "2023", "Approve"},
			{"u2", "pulse", "2023", ""},
			{"u3", "pulse", "2023", "Disapprove"},
		},
	)
}

func countByType(entities []domain.Entity) map[string]int {
	out := make(map[string]int)
	for _, e := range entities {
		out[e.Type]++
	}
	return out
}

func countRelsByType(rels []domain.Relationship) map[string]int {
	out := make(map[string]int)
	for _, r := range rels {
		out[r.Type]++
	}
	return out
}

func TestBuildScenario(t *testing.T) {
	res, err := testExtractor(t).Build(scenarioTable())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	entities := countByType(res.Entities)
	if entities[TypeRespondent] != 3 {
		t.Errorf("respondents = %d, want 3", entities[TypeRespondent])
	}
	// Row 2's only category answer is blank, so it yields no response entity.
	if entities["PoliticalOpinions"] != 2 {
		t.Errorf("opinion entities = %d, want 2", entities["PoliticalOpinions"])
	}
	if entities[TypeSurvey] != 1 {
		t.Errorf("surveys = %d, want 1", entities[TypeSurvey])
	}
	if entities[TypeQuestion] != 1 {
		t.Errorf("questions = %d, want 1", entities[TypeQuestion])
	}

	rels := countRelsByType(res.Relationships)
	if rels["OPINIONS"] != 2 {
		t.Errorf("OPINIONS relationships = %d, want 2", rels["OPINIONS"])
	}
	if rels[RelHasRespondent] != 3 {
		t.Errorf("HAS_RESPONDENT relationships = %d, want 3", rels[RelHasRespondent])
	}

	report := ValidateRelationships(res.Entities, res.Relationships)
	if !report.Passed {
		t.Errorf("validation found orphans: %v", report.Orphaned)
	}

	for _, e := range res.Entities {
		if e.Type != TypeSurvey {
			continue
		}
		if got := e.Properties["total_respondents"]; got != int64(3) {
			t.Errorf("survey total_respondents = %v, want 3", got)
		}
		if got := e.Properties["survey_year"]; got != "2023" {
			t.Errorf("survey_year = %v, want 2023", got)
		}
	}
}

func TestBuildEntityIDsUnique(t *testing.T) {
	res, err := testExtractor(t).Build(scenarioTable())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seen := make(map[string]struct{}, len(res.Entities))
	for _, e := range res.Entities {
		if _, dup := seen[e.ID]; dup {
			t.Fatalf("duplicate entity ID %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
}

func TestBuildDeterministicStructure(t *testing.T) {
	first, err := testExtractor(t).Build(scenarioTable())
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := testExtractor(t).Build(scenarioTable())
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if len(first.Entities) != len(second.Entities) {
		t.Errorf("entity counts differ: %d vs %d", len(first.Entities), len(second.Entities))
	}
	if len(first.Relationships) != len(second.Relationships) {
		t.Errorf("relationship counts differ: %d vs %d", len(first.Relationships), len(second.Relationships))
	}
	a, b := countByType(first.Entities), countByType(second.Entities)
	for typ, n := range a {
		if b[typ] != n {
			t.Errorf("entity type %s: %d vs %d", typ, n, b[typ])
		}
	}
	ra, rb := countRelsByType(first.Relationships), countRelsByType(second.Relationships)
	for typ, n := range ra {
		if rb[typ] != n {
			t.Errorf("relationship type %s: %d vs %d", typ, n, rb[typ])
		}
	}
}

func TestBuildSparsity(t *testing.T) {
	// Every category field null for row 0 -> no entity, no relationship.
	table := dataset.NewTable(
		[]string{"UID", "PROJECT_NAME", "Q1", "Q2", "GENDER"},
		[][]string{
			{"u1", "pulse", "", "nan", "NULL"},
			{"u2", "pulse", "Approve", "", "female"},
		},
	)
	res, err := testExtractor(t).Build(table)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	entities := countByType(res.Entities)
	if entities["PoliticalOpinions"] != 1 {
		t.Errorf("opinion entities = %d, want 1 (row 2 only)", entities["PoliticalOpinions"])
	}
	if entities["Demographics"] != 1 {
		t.Errorf("demographic entities = %d, want 1 (row 2 only)", entities["Demographics"])
	}

	for _, e := range res.Entities {
		if e.Type == "PoliticalOpinions" {
			if got := e.Properties["response_count"]; got != int64(1) {
				t.Errorf("response_count = %v, want 1", got)
			}
			// Null answers never appear as non-nil properties.
			if v, present := e.Properties["party_identification"]; present && v != nil {
				t.Errorf("null answer leaked into properties: %v", v)
			}
		}
	}
}

func TestBuildRespondentFallbacks(t *testing.T) {
	table := dataset.NewTable(
		[]string{"UID", "Q1"},
		[][]string{{"", "Approve"}},
	)
	res, err := testExtractor(t).Build(table)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var respondent *domain.Entity
	for i := range res.Entities {
		if res.Entities[i].Type == TypeRespondent {
			respondent = &res.Entities[i]
		}
	}
	if respondent == nil {
		t.Fatal("no respondent entity extracted")
	}
	if respondent.Properties["original_uid"] != respondent.ID {
		t.Errorf("blank UID should fall back to generated ID, got %v", respondent.Properties["original_uid"])
	}
	if respondent.Properties["survey_project"] != "unknown" {
		t.Errorf("missing project should fall back to unknown, got %v", respondent.Properties["survey_project"])
	}
	// No PROJECT_NAME column at all -> no survey entities.
	if n := countByType(res.Entities)[TypeSurvey]; n != 0 {
		t.Errorf("surveys = %d, want 0 without project column", n)
	}
}

func TestBuildResponseEntityIDAndText(t *testing.T) {
	res, err := testExtractor(t).Build(scenarioTable())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, e := range res.Entities {
		if e.Type != "PoliticalOpinions" {
			continue
		}
		owner, _ := e.Properties["respondent_uid"].(string)
		if e.ID != owner+"_opinions" {
			t.Errorf("response entity ID = %q, want %q", e.ID, owner+"_opinions")
		}
		if !strings.Contains(e.TextContent, "biden_job_approval:") {
			t.Errorf("text summary missing descriptive field name: %q", e.TextContent)
		}
		if !strings.HasPrefix(e.TextContent, "PoliticalOpinions responses for respondent ") {
			t.Errorf("text summary has wrong prefix: %q", e.TextContent)
		}
	}
}

func TestBuildEmptyTable(t *testing.T) {
	if _, err := testExtractor(t).Build(dataset.NewTable([]string{"UID"}, nil)); err == nil {
		t.Fatal("Build on empty table should fail")
	}
}

func TestInferDataType(t *testing.T) {
	cases := []struct {
		values []string
		want   string
	}{
		{[]string{"1", "2", ""}, "integer"},
		{[]string{"1.5", "2"}, "float"},
		{[]string{"yes", "2"}, "string"},
		{[]string{"", ""}, "empty"},
	}
	for _, tc := range cases {
		if got := inferDataType(tc.values); got != tc.want {
			t.Errorf("inferDataType(%v) = %q, want %q", tc.values, got, tc.want)
		}
	}
}

func TestStats(t *testing.T) {
	res, err := testExtractor(t).Build(scenarioTable())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	stats := Stats(res)
	if stats.TotalEntities != len(res.Entities) {
		t.Errorf("TotalEntities = %d, want %d", stats.TotalEntities, len(res.Entities))
	}
	if stats.EntitiesWithText != len(res.Entities) {
		t.Errorf("every extracted entity carries text, got %d of %d", stats.EntitiesWithText, len(res.Entities))
	}
	if stats.EntityTypeCounts[TypeRespondent] != 3 {
		t.Errorf("respondent count = %d, want 3", stats.EntityTypeCounts[TypeRespondent])
	}
}
