// Package ontology defines the pluggable schema contract that tells the
// extraction engine how raw survey columns group into response categories.
package ontology

// ColumnValidation reports how a dataset's columns line up with the fields an
// ontology expects.
type ColumnValidation struct {
	TotalKnown    int      `json:"total_known"`
	TotalUnknown  int      `json:"total_unknown"`
	UnknownFields []string `json:"unknown_fields"`
	MissingFields []string `json:"missing_fields"`
}

// Summary is a compact description of an ontology for statistics artifacts.
type Summary struct {
	Name           string         `json:"name"`
	Version        int            `json:"version"`
	CategoryCount  int            `json:"category_count"`
	FieldCount     int            `json:"field_count"`
	FieldsPerGroup map[string]int `json:"fields_per_category"`
}

// Ontology is the read-only schema consumed by the extraction engine.
// Implementations must be safe for concurrent reads.
type Ontology interface {
	// RelationshipMappings returns relationship-type -> ordered field codes.
	RelationshipMappings() map[string][]string
	// DescriptiveFieldName maps a raw field code to its readable name.
	// Unknown codes map to themselves.
	DescriptiveFieldName(field string) string
	// CategoryClassName maps a relationship type to the node label used for
	// its response entities. Unknown types map to themselves.
	CategoryClassName(relType string) string
	// CategoryForField returns the relationship type a field belongs to.
	CategoryForField(field string) string
	// FieldDescription returns the free-text question description for a field.
	FieldDescription(field string) string
	// AllSurveyFields returns the uppercased set of known field codes.
	AllSurveyFields() map[string]struct{}
	// ValidateColumns checks dataset columns against the known field set.
	ValidateColumns(columns []string) ColumnValidation
	// SchemaSummary describes the loaded schema.
	SchemaSummary() Summary
}
