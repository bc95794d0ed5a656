package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/surveykg-backend/internal/domain"
)

// Stats queries store metadata for per-label node counts, per-type
// relationship counts, and simple quality metrics.
func (l *Loader) Stats(ctx context.Context) (*domain.GraphStats, error) {
	session := l.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: l.client.Database,
	})
	defer session.Close(ctx)

	stats := &domain.GraphStats{
		NodeCounts:         make(map[string]int64),
		RelationshipCounts: make(map[string]int64),
	}

	labels, err := l.collectStrings(ctx, session, `CALL db.labels() YIELD label RETURN label ORDER BY label`, "label")
	if err != nil {
		return nil, fmt.Errorf("graph: list labels: %w", err)
	}
	for _, label := range labels {
		safe, ok := safeLabel(label)
		if !ok {
			continue
		}
		count, err := l.countQuery(ctx, session, fmt.Sprintf(`MATCH (n:%s) RETURN count(n) AS count`, safe))
		if err != nil {
			return nil, fmt.Errorf("graph: count label %s: %w", label, err)
		}
		stats.NodeCounts[label] = count
		stats.TotalNodes += count
	}

	relTypes, err := l.collectStrings(ctx, session, `CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType ORDER BY relationshipType`, "relationshipType")
	if err != nil {
		return nil, fmt.Errorf("graph: list relationship types: %w", err)
	}
	for _, relType := range relTypes {
		safe, ok := safeLabel(relType)
		if !ok {
			continue
		}
		count, err := l.countQuery(ctx, session, fmt.Sprintf(`MATCH ()-[r:%s]->() RETURN count(r) AS count`, safe))
		if err != nil {
			return nil, fmt.Errorf("graph: count relationship %s: %w", relType, err)
		}
		stats.RelationshipCounts[relType] = count
		stats.TotalRelationships += count
	}

	// Quality metrics are best-effort; a failure leaves them at zero.
	if count, err := l.countQuery(ctx, session, `MATCH (n) WHERE n.text_content IS NOT NULL RETURN count(n) AS count`); err != nil {
		l.log.Warn("text content metric failed", "error", err)
	} else {
		stats.NodesWithText = count
	}
	if count, err := l.countQuery(ctx, session, `MATCH (n) WHERE NOT (n)--() RETURN count(n) AS count`); err != nil {
		l.log.Warn("orphaned node metric failed", "error", err)
	} else {
		stats.OrphanedNodes = count
	}

	return stats, nil
}

func (l *Loader) collectStrings(ctx context.Context, session neo4j.SessionWithContext, cypher, key string) ([]string, error) {
	res, err := session.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	var out []string
	for res.Next(ctx) {
		if v, ok := res.Record().Get(key); ok {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out, res.Err()
}

func (l *Loader) countQuery(ctx context.Context, session neo4j.SessionWithContext, cypher string) (int64, error) {
	res, err := session.Run(ctx, cypher, nil)
	if err != nil {
		return 0, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	v, _ := rec.Get("count")
	count, _ := v.(int64)
	return count, nil
}
