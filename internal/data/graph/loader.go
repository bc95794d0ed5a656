// Package graph persists extracted survey entities and relationships into
// Neo4j using a two-phase, batched, idempotent write protocol.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/surveykg-backend/internal/domain"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
	"github.com/yungbote/surveykg-backend/internal/platform/neo4jdb"
)

const (
	DefaultEntityBatchSize       = 1000
	DefaultRelationshipBatchSize = 500
)

// Loader writes one extraction result into the store. Batch sizes only
// bound memory and round-trips; results are identical for any batch size.
type Loader struct {
	client *neo4jdb.Client
	log    *logger.Logger

	EntityBatchSize       int
	RelationshipBatchSize int
}

func NewLoader(client *neo4jdb.Client, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{
		client:                client,
		log:                   log.With("component", "loader"),
		EntityBatchSize:       DefaultEntityBatchSize,
		RelationshipBatchSize: DefaultRelationshipBatchSize,
	}
}

// Load runs the full protocol in order: schema bootstrap, dynamic indexes,
// all entities, then all relationships. Relationships must come last because
// edge creation matches endpoint nodes by entity_id.
func (l *Loader) Load(ctx context.Context, entities []domain.Entity, relationships []domain.Relationship) (*domain.LoadResult, error) {
	if l.client == nil || l.client.Driver == nil {
		return nil, fmt.Errorf("graph: loader has no store client")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	l.EnsureSchema(ctx, entities)

	result := &domain.LoadResult{}
	if err := l.LoadEntities(ctx, entities, result); err != nil {
		return result, err
	}
	if err := l.LoadRelationships(ctx, relationships, result); err != nil {
		return result, err
	}

	l.log.Info("load complete",
		"entities_created", result.EntitiesCreated,
		"relationships_created", result.RelationshipsCreated,
		"rejected", len(result.Rejected))
	return result, nil
}

// LoadEntities writes entities grouped by type in fixed-size batches. A
// failed batch is logged and skipped; remaining batches still run.
func (l *Loader) LoadEntities(ctx context.Context, entities []domain.Entity, result *domain.LoadResult) error {
	batchSize := l.EntityBatchSize
	if batchSize <= 0 {
		batchSize = DefaultEntityBatchSize
	}
	result.EntitiesAttempted += len(entities)

	session := l.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: l.client.Database,
	})
	defer session.Close(ctx)

	types, grouped := groupEntitiesByType(entities)
	for _, entityType := range types {
		label, ok := safeLabel(entityType)
		if !ok {
			l.log.Warn("skipping entities with unusable type", "type", entityType, "count", len(grouped[entityType]))
			continue
		}
		for _, batch := range chunk(grouped[entityType], batchSize) {
			rows := make([]map[string]any, 0, len(batch))
			for _, ent := range batch {
				rows = append(rows, map[string]any{
					"entity_id":    ent.ID,
					"properties":   nonNullProps(ent.Properties),
					"text_content": ent.TextContent,
				})
			}

			cypher := fmt.Sprintf(`
UNWIND $entities AS entity
CREATE (n:%s)
SET n.entity_id = entity.entity_id
SET n += entity.properties
SET n.text_content = entity.text_content
RETURN count(n) AS created_count
`, label)

			created, err := l.writeBatch(ctx, session, cypher, map[string]any{"entities": rows})
			if err != nil {
				l.log.Error("entity batch write failed, continuing", "type", entityType, "size", len(batch), "error", err)
				continue
			}
			result.EntitiesCreated += int(created)
			l.log.Debug("entity batch written", "type", entityType, "created", created)
		}
	}
	return nil
}

// LoadRelationships writes relationships grouped by type in fixed-size
// batches. Edge creation matches both endpoints by entity_id, so a
// relationship whose endpoint node is absent is not created; such drops are
// surfaced in the result's rejected manifest rather than lost in logs.
func (l *Loader) LoadRelationships(ctx context.Context, relationships []domain.Relationship, result *domain.LoadResult) error {
	batchSize := l.RelationshipBatchSize
	if batchSize <= 0 {
		batchSize = DefaultRelationshipBatchSize
	}
	result.RelationshipsAttempted += len(relationships)

	session := l.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: l.client.Database,
	})
	defer session.Close(ctx)

	types, grouped := groupRelationshipsByType(relationships)
	for _, relType := range types {
		label, ok := safeLabel(relType)
		if !ok {
			l.log.Warn("skipping relationships with unusable type", "type", relType, "count", len(grouped[relType]))
			continue
		}
		for _, batch := range chunk(grouped[relType], batchSize) {
			rows := make([]map[string]any, 0, len(batch))
			for _, rel := range batch {
				rows = append(rows, map[string]any{
					"source_id":  rel.SourceID,
					"target_id":  rel.TargetID,
					"properties": nonNullProps(rel.Properties),
				})
			}

			cypher := fmt.Sprintf(`
UNWIND $relationships AS rel
MATCH (source {entity_id: rel.source_id})
MATCH (target {entity_id: rel.target_id})
CREATE (source)-[r:%s]->(target)
SET r += rel.properties
RETURN count(r) AS created_count
`, label)

			created, err := l.writeBatch(ctx, session, cypher, map[string]any{"relationships": rows})
			if err != nil {
				l.log.Error("relationship batch write failed, continuing", "type", relType, "size", len(batch), "error", err)
				for _, rel := range batch {
					result.Rejected = append(result.Rejected, domain.RejectedRelationship{
						SourceID: rel.SourceID,
						TargetID: rel.TargetID,
						Type:     rel.Type,
						Reason:   "batch write failed: " + err.Error(),
					})
				}
				continue
			}
			result.RelationshipsCreated += int(created)

			if int(created) != len(batch) {
				l.log.Warn("relationship batch created fewer edges than attempted",
					"type", relType, "attempted", len(batch), "created", created)
				l.probeMissingEndpoints(ctx, session, batch, result)
			}
		}
	}
	return nil
}

// probeMissingEndpoints re-checks each relationship of a short batch to
// report which endpoint the store could not match.
func (l *Loader) probeMissingEndpoints(ctx context.Context, session neo4j.SessionWithContext, batch []domain.Relationship, result *domain.LoadResult) {
	for _, rel := range batch {
		res, err := session.Run(ctx, `
MATCH (source {entity_id: $source_id})
MATCH (target {entity_id: $target_id})
RETURN count(*) AS found
`, map[string]any{"source_id": rel.SourceID, "target_id": rel.TargetID})
		if err != nil {
			l.log.Error("endpoint probe failed", "source", rel.SourceID, "target", rel.TargetID, "error", err)
			continue
		}
		rec, err := res.Single(ctx)
		if err != nil {
			l.log.Error("endpoint probe failed", "source", rel.SourceID, "target", rel.TargetID, "error", err)
			continue
		}
		found, _ := rec.Get("found")
		if count, ok := found.(int64); ok && count == 0 {
			l.log.Error("missing endpoint node for relationship", "source", rel.SourceID, "target", rel.TargetID, "type", rel.Type)
			result.Rejected = append(result.Rejected, domain.RejectedRelationship{
				SourceID: rel.SourceID,
				TargetID: rel.TargetID,
				Type:     rel.Type,
				Reason:   "endpoint node missing",
			})
		}
	}
}

func (l *Loader) writeBatch(ctx context.Context, session neo4j.SessionWithContext, cypher string, params map[string]any) (int64, error) {
	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		created, _ := rec.Get("created_count")
		return created, nil
	})
	if err != nil {
		return 0, err
	}
	created, _ := out.(int64)
	return created, nil
}
