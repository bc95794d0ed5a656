package vector

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// SearchResult is one similarity hit.
type SearchResult struct {
	EntityID string  `json:"entity_id"`
	Text     string  `json:"text_content"`
	Score    float64 `json:"score"`
}

// Search embeds the query and runs a top-K similarity lookup against one
// label's vector index. Used for smoke-testing the enrichment, not part of
// the write path.
func (v *Vectorizer) Search(ctx context.Context, label, query string, topK int) ([]SearchResult, error) {
	if !isSafeLabel(label) {
		return nil, fmt.Errorf("vector: unusable label %q", label)
	}
	if topK <= 0 {
		topK = 5
	}

	vectors, err := v.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("vector: embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("vector: embedder returned %d vectors for one query", len(vectors))
	}

	session := v.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: v.client.Database,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
CALL db.index.vector.queryNodes($index, $top_k, $query_vector)
YIELD node, score
RETURN node.entity_id AS entity_id, node.text_content AS text_content, score
ORDER BY score DESC
`, map[string]any{
		"index":        IndexName(label),
		"top_k":        topK,
		"query_vector": vectors[0],
	})
	if err != nil {
		return nil, fmt.Errorf("vector: similarity query: %w", err)
	}

	var out []SearchResult
	for res.Next(ctx) {
		rec := res.Record()
		id, _ := rec.Get("entity_id")
		text, _ := rec.Get("text_content")
		score, _ := rec.Get("score")
		hit := SearchResult{}
		hit.EntityID, _ = id.(string)
		hit.Text, _ = text.(string)
		hit.Score, _ = score.(float64)
		out = append(out, hit)
	}
	return out, res.Err()
}
