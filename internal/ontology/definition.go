package ontology

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/yungbote/surveykg-backend/internal/pkg/errors"
)

// fieldSpec is one survey question inside a category block.
type fieldSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// categorySpec is one response-category block in a definition document.
type categorySpec struct {
	ClassName string               `yaml:"class_name"`
	Fields    map[string]fieldSpec `yaml:"fields"`
}

type definitionDoc struct {
	Name       string                  `yaml:"name"`
	Version    int                     `yaml:"version"`
	Categories map[string]categorySpec `yaml:"categories"`
}

// Definition is a configuration-driven Ontology built from a YAML document.
// It replaces the idea of executing user-supplied schema code at runtime:
// the schema is data, validated once at load time.
type Definition struct {
	name    string
	version int

	mappings     map[string][]string // relationship type -> ordered field codes
	classNames   map[string]string   // relationship type -> node label
	fieldNames   map[string]string   // UPPER(field code) -> descriptive name
	fieldDescs   map[string]string   // UPPER(field code) -> description
	fieldGroups  map[string]string   // UPPER(field code) -> relationship type
	surveyFields map[string]struct{} // UPPER(field code)
}

// LoadDefinition reads and validates a YAML ontology definition.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ontology: read %s: %w", path, err)
	}
	return ParseDefinition(raw)
}

// ParseDefinition builds a Definition from YAML bytes.
func ParseDefinition(raw []byte) (*Definition, error) {
	var doc definitionDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ontology: parse yaml: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("ontology: no categories defined: %w", pkgerrors.ErrOntologyInvalid)
	}

	d := &Definition{
		name:         doc.Name,
		version:      doc.Version,
		mappings:     make(map[string][]string, len(doc.Categories)),
		classNames:   make(map[string]string, len(doc.Categories)),
		fieldNames:   make(map[string]string),
		fieldDescs:   make(map[string]string),
		fieldGroups:  make(map[string]string),
		surveyFields: make(map[string]struct{}),
	}

	for relType, cat := range doc.Categories {
		relType = strings.TrimSpace(relType)
		if relType == "" {
			return nil, fmt.Errorf("ontology: blank category key: %w", pkgerrors.ErrOntologyInvalid)
		}
		if len(cat.Fields) == 0 {
			return nil, fmt.Errorf("ontology: category %s has no fields: %w", relType, pkgerrors.ErrOntologyInvalid)
		}
		className := strings.TrimSpace(cat.ClassName)
		if className == "" {
			className = relType
		}
		d.classNames[relType] = className

		codes := make([]string, 0, len(cat.Fields))
		for code, spec := range cat.Fields {
			code = strings.TrimSpace(code)
			if code == "" {
				return nil, fmt.Errorf("ontology: category %s has a blank field code: %w", relType, pkgerrors.ErrOntologyInvalid)
			}
			upper := strings.ToUpper(code)
			if _, dup := d.surveyFields[upper]; dup {
				return nil, fmt.Errorf("ontology: field %s appears in more than one category: %w", code, pkgerrors.ErrOntologyInvalid)
			}
			d.surveyFields[upper] = struct{}{}
			d.fieldGroups[upper] = relType
			if spec.Name != "" {
				d.fieldNames[upper] = spec.Name
			}
			if spec.Description != "" {
				d.fieldDescs[upper] = spec.Description
			}
			codes = append(codes, code)
		}
		// Deterministic field order regardless of YAML map iteration.
		sort.Strings(codes)
		d.mappings[relType] = codes
	}

	return d, nil
}

func (d *Definition) RelationshipMappings() map[string][]string {
	out := make(map[string][]string, len(d.mappings))
	for k, v := range d.mappings {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (d *Definition) DescriptiveFieldName(field string) string {
	if name, ok := d.fieldNames[strings.ToUpper(field)]; ok {
		return name
	}
	return field
}

func (d *Definition) CategoryClassName(relType string) string {
	if name, ok := d.classNames[relType]; ok {
		return name
	}
	return relType
}

func (d *Definition) CategoryForField(field string) string {
	if cat, ok := d.fieldGroups[strings.ToUpper(field)]; ok {
		return cat
	}
	return "unknown"
}

func (d *Definition) FieldDescription(field string) string {
	if desc, ok := d.fieldDescs[strings.ToUpper(field)]; ok {
		return desc
	}
	return d.DescriptiveFieldName(field)
}

func (d *Definition) AllSurveyFields() map[string]struct{} {
	out := make(map[string]struct{}, len(d.surveyFields))
	for k := range d.surveyFields {
		out[k] = struct{}{}
	}
	return out
}

func (d *Definition) ValidateColumns(columns []string) ColumnValidation {
	seen := make(map[string]struct{}, len(columns))
	v := ColumnValidation{}
	for _, col := range columns {
		upper := strings.ToUpper(strings.TrimSpace(col))
		if upper == "" {
			continue
		}
		seen[upper] = struct{}{}
		if _, ok := d.surveyFields[upper]; ok {
			v.TotalKnown++
		} else {
			v.UnknownFields = append(v.UnknownFields, col)
		}
	}
	for field := range d.surveyFields {
		if _, ok := seen[field]; !ok {
			v.MissingFields = append(v.MissingFields, field)
		}
	}
	sort.Strings(v.UnknownFields)
	sort.Strings(v.MissingFields)
	v.TotalUnknown = len(v.UnknownFields)
	return v
}

func (d *Definition) SchemaSummary() Summary {
	perGroup := make(map[string]int, len(d.mappings))
	for relType, fields := range d.mappings {
		perGroup[relType] = len(fields)
	}
	return Summary{
		Name:           d.name,
		Version:        d.version,
		CategoryCount:  len(d.mappings),
		FieldCount:     len(d.surveyFields),
		FieldsPerGroup: perGroup,
	}
}
