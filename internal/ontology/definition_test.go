package ontology

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/yungbote/surveykg-backend/internal/pkg/errors"
)

const sampleYAML = `
name: political_pulse
version: 2
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
    fields:
      GENDER:
        name: gender
        description: Gender identity
`

func sampleDefinition(t *testing.T) *Definition {
	t.Helper()
	d, err := ParseDefinition([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	return d
}

func TestParseDefinition(t *testing.T) {
	d := sampleDefinition(t)

	mappings := d.RelationshipMappings()
	if len(mappings) != 2 {
		t.Fatalf("mappings = %d categories, want 2", len(mappings))
	}
	if got := mappings["OPINIONS"]; len(got) != 2 || got[0] != "Q1" || got[1] != "Q2" {
		t.Errorf("OPINIONS fields = %v, want sorted [Q1 Q2]", got)
	}

	if got := d.CategoryClassName("OPINIONS"); got != "PoliticalOpinions" {
		t.Errorf("CategoryClassName = %q", got)
	}
	// No class_name falls back to the category key.
	if got := d.CategoryClassName("DEMOGRAPHICS"); got != "DEMOGRAPHICS" {
		t.Errorf("fallback class name = %q", got)
	}
	if got := d.CategoryClassName("NOPE"); got != "NOPE" {
		t.Errorf("unknown class name = %q", got)
	}

	if got := d.DescriptiveFieldName("q1"); got != "biden_job_approval" {
		t.Errorf("DescriptiveFieldName(q1) = %q", got)
	}
	if got := d.DescriptiveFieldName("UNKNOWN"); got != "UNKNOWN" {
		t.Errorf("unknown field name = %q", got)
	}

	if got := d.CategoryForField("Q2"); got != "OPINIONS" {
		t.Errorf("CategoryForField(Q2) = %q", got)
	}
	if got := d.CategoryForField("X99"); got != "unknown" {
		t.Errorf("CategoryForField(X99) = %q", got)
	}

	if got := d.FieldDescription("GENDER"); got != "Gender identity" {
		t.Errorf("FieldDescription(GENDER) = %q", got)
	}

	fields := d.AllSurveyFields()
	if len(fields) != 3 {
		t.Errorf("AllSurveyFields = %d, want 3", len(fields))
	}
	if _, ok := fields["Q1"]; !ok {
		t.Error("AllSurveyFields should key by uppercase code")
	}
}

func TestParseDefinitionInvalid(t *testing.T) {
	cases := map[string]string{
		"no categories": `name: x`,
		"empty category": `
categories:
  OPINIONS:
    class_name: Opinions
`,
		"duplicate field": `
categories:
  A:
    fields:
      Q1: {name: one}
  B:
    fields:
      q1: {name: other}
`,
	}
	for label, doc := range cases {
		if _, err := ParseDefinition([]byte(doc)); !errors.Is(err, pkgerrors.ErrOntologyInvalid) {
			t.Errorf("%s: got %v, want ErrOntologyInvalid", label, err)
		}
	}

	if _, err := ParseDefinition([]byte("categories: [not, a, map]")); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestLoadDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontology.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if d.SchemaSummary().Name != "political_pulse" {
		t.Errorf("summary name = %q", d.SchemaSummary().Name)
	}

	if _, err := LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestValidateColumns(t *testing.T) {
	d := sampleDefinition(t)
	v := d.ValidateColumns([]string{"q1", "GENDER", "EXTRA", "", "  "})

	if v.TotalKnown != 2 {
		t.Errorf("TotalKnown = %d, want 2", v.TotalKnown)
	}
	if v.TotalUnknown != 1 || len(v.UnknownFields) != 1 || v.UnknownFields[0] != "EXTRA" {
		t.Errorf("unknown fields = %v", v.UnknownFields)
	}
	if len(v.MissingFields) != 1 || v.MissingFields[0] != "Q2" {
		t.Errorf("missing fields = %v", v.MissingFields)
	}
}

func TestSchemaSummary(t *testing.T) {
	s := sampleDefinition(t).SchemaSummary()
	if s.CategoryCount != 2 || s.FieldCount != 3 || s.Version != 2 {
		t.Errorf("summary = %+v", s)
	}
	if s.FieldsPerGroup["OPINIONS"] != 2 {
		t.Errorf("FieldsPerGroup = %v", s.FieldsPerGroup)
	}
}

func TestRegistry(t *testing.T) {
	d := sampleDefinition(t)
	Register("pulse", d)

	got, err := Lookup("pulse")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != Ontology(d) {
		t.Error("Lookup returned a different ontology")
	}

	if _, err := Lookup("absent"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("Lookup(absent) = %v, want ErrNotFound", err)
	}
}
