package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/surveykg-backend/internal/config"
	"github.com/yungbote/surveykg-backend/internal/data/graph"
	"github.com/yungbote/surveykg-backend/internal/extract"
	"github.com/yungbote/surveykg-backend/internal/ontology"
	"github.com/yungbote/surveykg-backend/internal/pipeline"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
	"github.com/yungbote/surveykg-backend/internal/platform/neo4jdb"
	"github.com/yungbote/surveykg-backend/internal/platform/openai"
	"github.com/yungbote/surveykg-backend/internal/vector"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}
	cfg := config.Load()

	// Flags override env settings per run.
	dataPath := flag.String("data", cfg.CSVPath, "path to the survey CSV or XLSX export")
	ontologyPath := flag.String("ontology", cfg.OntologyPath, "path to the ontology YAML definition")
	resultsDir := flag.String("results", cfg.ResultsDir, "directory for statistics artifacts")
	entityBatch := flag.Int("entity-batch", cfg.EntityBatchSize, "entity write batch size")
	relBatch := flag.Int("relationship-batch", cfg.RelationshipBatchSize, "relationship write batch size")
	reset := flag.Bool("reset", false, "empty the store before loading (destructive)")
	vectorize := flag.Bool("vectorize", false, "generate embeddings after loading")
	flag.Parse()

	if *ontologyPath == "" {
		log.Error("no ontology definition supplied, set -ontology or SURVEY_ONTOLOGY_PATH")
		os.Exit(1)
	}

	// Ontology
	ont, err := ontology.LoadDefinition(*ontologyPath)
	if err != nil {
		log.Error("could not load ontology", "path", *ontologyPath, "error", err)
		os.Exit(1)
	}
	summary := ont.SchemaSummary()
	log.Info("ontology loaded", "name", summary.Name, "categories", summary.CategoryCount, "fields", summary.FieldCount)

	// Neo4j
	client, err := neo4jdb.New(neo4jdb.Config{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	}, log)
	if err != nil {
		log.Error("could not connect to graph store", "uri", cfg.Neo4jURI, "error", err)
		os.Exit(1)
	}
	defer client.Close(context.Background())

	// Stages
	extractor := extract.New(ont, extract.NewRespondentIDGenerator(1, time.Now), log)
	loader := graph.NewLoader(client, log)
	loader.EntityBatchSize = *entityBatch
	loader.RelationshipBatchSize = *relBatch

	var vectorizer *vector.Vectorizer
	if *vectorize {
		if cfg.OpenAIAPIKey == "" {
			log.Warn("vectorize requested but OPENAI_API_KEY is empty, skipping enrichment")
		} else {
			embedder, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIEmbeddingModel, log)
			if err != nil {
				log.Error("could not init embeddings client", "error", err)
				os.Exit(1)
			}
			vectorizer = vector.New(client, embedder, log)
			vectorizer.BatchSize = cfg.EmbedBatchSize
		}
	}

	runner := pipeline.NewRunner(ont, extractor, loader, vectorizer, log)
	report, err := runner.Run(context.Background(), pipeline.Options{
		DataPath:   *dataPath,
		ResultsDir: *resultsDir,
		Reset:      *reset,
		Vectorize:  *vectorize && vectorizer != nil,
	})
	if err != nil {
		log.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(pipeline.Describe(report))
}
