package extract

import (
	"fmt"

	"github.com/yungbote/surveykg-backend/internal/domain"
)

// ValidateRelationships checks that every relationship endpoint resolves to
// an extracted entity. The report is advisory: nothing is dropped here, and
// the loader independently rejects relationships whose endpoints never made
// it into the store.
func ValidateRelationships(entities []domain.Entity, relationships []domain.Relationship) domain.ValidationReport {
	ids := make(map[string]struct{}, len(entities))
	for _, ent := range entities {
		ids[ent.ID] = struct{}{}
	}

	report := domain.ValidationReport{TotalRelationships: len(relationships)}
	for _, rel := range relationships {
		if _, ok := ids[rel.SourceID]; !ok {
			report.Orphaned = append(report.Orphaned,
				fmt.Sprintf("missing source %s for relationship %s", rel.SourceID, rel.Type))
			continue
		}
		if _, ok := ids[rel.TargetID]; !ok {
			report.Orphaned = append(report.Orphaned,
				fmt.Sprintf("missing target %s for relationship %s", rel.TargetID, rel.Type))
			continue
		}
		report.ValidRelationships++
	}
	report.Passed = len(report.Orphaned) == 0
	return report
}
