package extract

import "strings"

// fieldValue is one answered question, already mapped to its descriptive name.
type fieldValue struct {
	Name  string
	Value string
}

// categoryText renders the human-readable summary attached to a grouped
// response entity. One formatter serves every category; the ontology's
// descriptive names carry the per-field wording.
func categoryText(className, respondentID string, answers []fieldValue) string {
	var b strings.Builder
	b.WriteString(className)
	b.WriteString(" responses for respondent ")
	b.WriteString(respondentID)
	b.WriteString(":")
	for _, a := range answers {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(": ")
		b.WriteString(a.Value)
		b.WriteString(",")
	}
	return b.String()
}
