// Package pipeline orchestrates one end-to-end run: read the table, extract
// the graph, validate it, load it into the store, and optionally enrich it
// with embeddings. Statistics for each stage land in the results directory.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/surveykg-backend/internal/data/graph"
	"github.com/yungbote/surveykg-backend/internal/dataset"
	"github.com/yungbote/surveykg-backend/internal/domain"
	"github.com/yungbote/surveykg-backend/internal/extract"
	"github.com/yungbote/surveykg-backend/internal/ontology"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
	"github.com/yungbote/surveykg-backend/internal/vector"
)

// Options configure a single run.
type Options struct {
	DataPath   string
	ResultsDir string
	// Reset empties the store before loading. Requires explicit opt-in.
	Reset bool
	// Vectorize runs the embedding enrichment after a successful load.
	Vectorize bool
}

// Report aggregates every stage's outcome for one run.
type Report struct {
	RunID      string                  `json:"run_id"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Extraction domain.ExtractionStats  `json:"extraction"`
	Ontology   ontology.Summary        `json:"ontology"`
	Validation domain.ValidationReport `json:"validation"`
	Load       *domain.LoadResult      `json:"load"`
	Graph      *domain.GraphStats      `json:"graph"`
	Vector     *domain.VectorStats     `json:"vector,omitempty"`
}

type Runner struct {
	ont        ontology.Ontology
	extractor  *extract.Extractor
	loader     *graph.Loader
	vectorizer *vector.Vectorizer
	log        *logger.Logger
}

// NewRunner wires the stages. The vectorizer may be nil when enrichment is
// not configured; Options.Vectorize is then ignored with a warning.
func NewRunner(ont ontology.Ontology, extractor *extract.Extractor, loader *graph.Loader, vectorizer *vector.Vectorizer, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{
		ont:        ont,
		extractor:  extractor,
		loader:     loader,
		vectorizer: vectorizer,
		log:        log.With("component", "pipeline"),
	}
}

func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Ontology:  r.ont.SchemaSummary(),
	}
	log := r.log.With("run_id", report.RunID)

	table, err := dataset.Read(opts.DataPath)
	if err != nil {
		return nil, err
	}
	log.Info("loaded dataset", "path", opts.DataPath, "rows", len(table.Rows), "columns", len(table.Columns))

	result, err := r.extractor.Build(table)
	if err != nil {
		return nil, err
	}
	report.Extraction = extract.Stats(result)

	report.Validation = extract.ValidateRelationships(result.Entities, result.Relationships)
	if !report.Validation.Passed {
		// Advisory by policy: the loader's rejected manifest is the
		// authoritative account of what was not persisted.
		log.Warn("relationship validation found orphans, proceeding",
			"orphaned", len(report.Validation.Orphaned),
			"preview", report.Validation.Preview(5))
	}

	if opts.Reset {
		if err := r.loader.Reset(ctx, true); err != nil {
			return nil, err
		}
	}

	loadResult, err := r.loader.Load(ctx, result.Entities, result.Relationships)
	report.Load = loadResult
	if err != nil {
		return report, err
	}

	graphStats, err := r.loader.Stats(ctx)
	if err != nil {
		log.Warn("graph statistics failed", "error", err)
	}
	report.Graph = graphStats

	if opts.Vectorize {
		if r.vectorizer == nil {
			log.Warn("vectorization requested but no embedder configured, skipping")
		} else {
			vectorStats, err := r.vectorizer.Run(ctx)
			if err != nil {
				log.Warn("vectorization failed", "error", err)
			}
			report.Vector = vectorStats
		}
	}

	report.FinishedAt = time.Now().UTC()
	if opts.ResultsDir != "" {
		r.export(opts.ResultsDir, report)
	}
	return report, nil
}

// export writes the per-stage statistics artifacts. Failures are warnings;
// the run itself has already succeeded.
func (r *Runner) export(dir string, report *Report) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.log.Warn("could not create results dir", "dir", dir, "error", err)
		return
	}
	r.writeJSON(filepath.Join(dir, "kg_statistics.json"), map[string]any{
		"run_id":     report.RunID,
		"extraction": report.Extraction,
		"ontology":   report.Ontology,
		"validation": report.Validation,
	})
	r.writeJSON(filepath.Join(dir, "graph_statistics.json"), map[string]any{
		"run_id": report.RunID,
		"load":   report.Load,
		"graph":  report.Graph,
	})
	if report.Vector != nil {
		r.writeJSON(filepath.Join(dir, "vector_statistics.json"), map[string]any{
			"run_id": report.RunID,
			"vector": report.Vector,
		})
	}
}

func (r *Runner) writeJSON(path string, v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.log.Warn("could not marshal statistics", "path", path, "error", err)
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		r.log.Warn("could not write statistics", "path", path, "error", err)
		return
	}
	r.log.Info("statistics exported", "path", path)
}

// Describe renders a short human-readable summary for CLI output.
func Describe(report *Report) string {
	if report == nil {
		return ""
	}
	s := fmt.Sprintf("run %s: %d entities, %d relationships extracted",
		report.RunID, report.Extraction.TotalEntities, report.Extraction.TotalRelationships)
	if report.Load != nil {
		s += fmt.Sprintf("; %d/%d entities and %d/%d relationships loaded",
			report.Load.EntitiesCreated, report.Load.EntitiesAttempted,
			report.Load.RelationshipsCreated, report.Load.RelationshipsAttempted)
	}
	if report.Vector != nil {
		s += fmt.Sprintf("; %d entities embedded (dim %d)",
			report.Vector.EntitiesEmbedded, report.Vector.Dimension)
	}
	return s
}
