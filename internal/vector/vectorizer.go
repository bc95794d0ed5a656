// Package vector enriches persisted graph entities with text embeddings and
// similarity indexes. It sits downstream of the batch loader and only needs
// a reachable store plus an embedding function.
package vector

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/surveykg-backend/internal/domain"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
	"github.com/yungbote/surveykg-backend/internal/platform/neo4jdb"
)

const DefaultBatchSize = 32

// Embedder turns a batch of texts into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// entityText is one persisted entity's summary pulled back for embedding.
type entityText struct {
	EntityID string
	Label    string
	Text     string
}

type Vectorizer struct {
	client   *neo4jdb.Client
	embedder Embedder
	log      *logger.Logger

	BatchSize int
}

func New(client *neo4jdb.Client, embedder Embedder, log *logger.Logger) *Vectorizer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Vectorizer{
		client:    client,
		embedder:  embedder,
		log:       log.With("component", "vectorizer"),
		BatchSize: DefaultBatchSize,
	}
}

// Run reads back every labeled entity carrying a text summary, embeds the
// summaries in batches, writes the vectors onto the nodes, and declares one
// similarity index per label. A failed batch is logged and skipped.
func (v *Vectorizer) Run(ctx context.Context) (*domain.VectorStats, error) {
	if v.client == nil || v.client.Driver == nil {
		return nil, fmt.Errorf("vector: no store client")
	}
	if v.embedder == nil {
		return nil, fmt.Errorf("vector: no embedder configured")
	}
	batchSize := v.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	texts, err := v.collectTexts(ctx)
	if err != nil {
		return nil, err
	}
	v.log.Info("collected entity summaries for embedding", "count", len(texts))

	stats := &domain.VectorStats{PerLabel: make(map[string]int64)}
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		inputs := make([]string, len(batch))
		for i, t := range batch {
			inputs[i] = t.Text
		}
		vectors, err := v.embedder.Embed(ctx, inputs)
		if err != nil {
			v.log.Error("embedding batch failed, continuing", "size", len(batch), "error", err)
			continue
		}
		if len(vectors) != len(batch) {
			v.log.Error("embedder returned wrong vector count", "expected", len(batch), "got", len(vectors))
			continue
		}

		if err := v.storeEmbeddings(ctx, batch, vectors); err != nil {
			v.log.Error("storing embedding batch failed, continuing", "size", len(batch), "error", err)
			continue
		}
		for i, t := range batch {
			stats.EntitiesEmbedded++
			stats.PerLabel[t.Label]++
			if stats.Dimension == 0 {
				stats.Dimension = len(vectors[i])
			}
		}
	}

	if stats.Dimension > 0 {
		labels := make([]string, 0, len(stats.PerLabel))
		for label := range stats.PerLabel {
			labels = append(labels, label)
		}
		v.ensureVectorIndexes(ctx, labels, stats.Dimension)
	}

	v.log.Info("vectorization complete", "embedded", stats.EntitiesEmbedded, "dimension", stats.Dimension)
	return stats, nil
}

// collectTexts pulls entity_id and text_content for every labeled node with
// a summary, grouped by label so indexes can follow the same taxonomy.
func (v *Vectorizer) collectTexts(ctx context.Context) ([]entityText, error) {
	session := v.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: v.client.Database,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (n)
WHERE n.text_content IS NOT NULL AND n.entity_id IS NOT NULL
RETURN n.entity_id AS entity_id, labels(n)[0] AS label, n.text_content AS text_content
ORDER BY label, entity_id
`, nil)
	if err != nil {
		return nil, fmt.Errorf("vector: collect summaries: %w", err)
	}

	var out []entityText
	for res.Next(ctx) {
		rec := res.Record()
		id, _ := rec.Get("entity_id")
		label, _ := rec.Get("label")
		text, _ := rec.Get("text_content")
		idStr, _ := id.(string)
		labelStr, _ := label.(string)
		textStr, _ := text.(string)
		if idStr == "" || textStr == "" {
			continue
		}
		out = append(out, entityText{EntityID: idStr, Label: labelStr, Text: textStr})
	}
	return out, res.Err()
}

func (v *Vectorizer) storeEmbeddings(ctx context.Context, batch []entityText, vectors [][]float32) error {
	rows := make([]map[string]any, len(batch))
	for i, t := range batch {
		rows[i] = map[string]any{
			"entity_id": t.EntityID,
			"embedding": vectors[i],
			"dimension": int64(len(vectors[i])),
		}
	}

	session := v.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: v.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $batch AS item
MATCH (n {entity_id: item.entity_id})
SET n.embedding = item.embedding,
    n.embedding_dimension = item.dimension
RETURN count(n) AS updated
`, map[string]any{"batch": rows})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		updated, _ := rec.Get("updated")
		if count, ok := updated.(int64); ok && int(count) != len(batch) {
			v.log.Warn("embedding write updated fewer nodes than attempted",
				"attempted", len(batch), "updated", count)
		}
		return nil, nil
	})
	return err
}

// ensureVectorIndexes declares a cosine similarity index per label,
// best-effort, matching the loader's schema bootstrap discipline.
func (v *Vectorizer) ensureVectorIndexes(ctx context.Context, labels []string, dimension int) {
	session := v.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: v.client.Database,
	})
	defer session.Close(ctx)

	for _, label := range labels {
		if !isSafeLabel(label) {
			v.log.Warn("skipping vector index for unusable label", "label", label)
			continue
		}
		stmt := fmt.Sprintf(`
CREATE VECTOR INDEX %s IF NOT EXISTS
FOR (n:%s) ON (n.embedding)
OPTIONS {
  indexConfig: {
    `+"`vector.dimensions`"+`: %d,
    `+"`vector.similarity_function`"+`: 'cosine'
  }
}
`, IndexName(label), label, dimension)
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			v.log.Warn("vector index creation failed (continuing)", "label", label, "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

// IndexName is the similarity index name used for one label.
func IndexName(label string) string {
	return strings.ToLower(label) + "_embedding_idx"
}

func isSafeLabel(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
