package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const resetBatchSize = 10000

// Reset empties the store before a full rebuild: relationships first, then
// nodes, each deleted in bounded batches until none remain. It refuses to
// run without explicit confirmation and is never invoked implicitly.
func (l *Loader) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		l.log.Warn("store reset requires confirmation, skipping")
		return nil
	}

	session := l.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: l.client.Database,
	})
	defer session.Close(ctx)

	relQuery := fmt.Sprintf(`MATCH ()-[r]->() WITH r LIMIT %d DELETE r RETURN count(r) AS deleted`, resetBatchSize)
	for {
		deleted, err := l.deleteBatch(ctx, session, relQuery)
		if err != nil {
			return fmt.Errorf("graph: reset relationships: %w", err)
		}
		if deleted == 0 {
			break
		}
		l.log.Info("deleted relationship batch", "count", deleted)
	}

	nodeQuery := fmt.Sprintf(`MATCH (n) WITH n LIMIT %d DELETE n RETURN count(n) AS deleted`, resetBatchSize)
	for {
		deleted, err := l.deleteBatch(ctx, session, nodeQuery)
		if err != nil {
			return fmt.Errorf("graph: reset nodes: %w", err)
		}
		if deleted == 0 {
			break
		}
		l.log.Info("deleted node batch", "count", deleted)
	}

	l.log.Info("store reset complete")
	return nil
}

func (l *Loader) deleteBatch(ctx context.Context, session neo4j.SessionWithContext, cypher string) (int64, error) {
	res, err := session.Run(ctx, cypher, nil)
	if err != nil {
		return 0, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	deleted, _ := rec.Get("deleted")
	count, _ := deleted.(int64)
	return count, nil
}
