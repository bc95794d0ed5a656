package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/surveykg-backend/internal/domain"
)

// EnsureSchema issues the fixed constraints and indexes plus one index per
// entity type present in the dataset. Every statement is IF NOT EXISTS and
// best-effort: a failure is logged and the load proceeds.
func (l *Loader) EnsureSchema(ctx context.Context, entities []domain.Entity) {
	session := l.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: l.client.Database,
	})
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT respondent_unique_id IF NOT EXISTS FOR (r:Respondent) REQUIRE r.unique_id IS UNIQUE`,
		`CREATE CONSTRAINT survey_project_name IF NOT EXISTS FOR (s:Survey) REQUIRE s.project_name IS UNIQUE`,
		`CREATE INDEX respondent_survey_project IF NOT EXISTS FOR (r:Respondent) ON (r.survey_project)`,
		`CREATE INDEX respondent_original_uid IF NOT EXISTS FOR (r:Respondent) ON (r.original_uid)`,
		`CREATE INDEX respondent_entity_id IF NOT EXISTS FOR (r:Respondent) ON (r.entity_id)`,
	}
	statements = append(statements, l.dynamicIndexStatements(entities)...)

	for _, stmt := range statements {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			l.log.Warn("schema statement failed (continuing)", "statement", firstClause(stmt), "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

// dynamicIndexStatements derives one entity_id index per non-Respondent type
// in the dataset, plus a respondent_uid index for types whose sampled
// entities carry that property.
func (l *Loader) dynamicIndexStatements(entities []domain.Entity) []string {
	types, grouped := groupEntitiesByType(entities)

	var statements []string
	for _, entityType := range types {
		if entityType == "Respondent" {
			continue
		}
		label, ok := safeLabel(entityType)
		if !ok {
			l.log.Warn("skipping dynamic index for unusable type", "type", entityType)
			continue
		}
		name := strings.ToLower(label)
		statements = append(statements, fmt.Sprintf(
			`CREATE INDEX %s_entity_id IF NOT EXISTS FOR (n:%s) ON (n.entity_id)`, name, label))

		sample := grouped[entityType]
		if len(sample) > 5 {
			sample = sample[:5]
		}
		for _, ent := range sample {
			if _, has := ent.Properties["respondent_uid"]; has {
				statements = append(statements, fmt.Sprintf(
					`CREATE INDEX %s_respondent_uid IF NOT EXISTS FOR (n:%s) ON (n.respondent_uid)`, name, label))
				break
			}
		}
	}
	return statements
}

func firstClause(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.Index(stmt, "IF NOT EXISTS"); i > 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}
