package config

import (
	"github.com/yungbote/surveykg-backend/internal/platform/envutil"
)

// Config carries the environment-sourced settings for one pipeline process.
// Every field can be overridden per run through flags in cmd.
type Config struct {
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	CSVPath      string
	OntologyPath string
	ResultsDir   string

	EntityBatchSize       int
	RelationshipBatchSize int
	EmbedBatchSize        int

	OpenAIAPIKey         string
	OpenAIEmbeddingModel string
}

func Load() Config {
	return Config{
		Neo4jURI:      envutil.Str("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     envutil.Str("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: envutil.Str("NEO4J_PASSWORD", "password"),
		Neo4jDatabase: envutil.Str("NEO4J_DATABASE", "neo4j"),

		CSVPath:      envutil.Str("SURVEY_CSV_PATH", "data/survey_data.csv"),
		OntologyPath: envutil.Str("SURVEY_ONTOLOGY_PATH", ""),
		ResultsDir:   envutil.Str("SURVEY_RESULTS_DIR", "results"),

		EntityBatchSize:       envutil.Int("KG_ENTITY_BATCH_SIZE", 1000),
		RelationshipBatchSize: envutil.Int("KG_RELATIONSHIP_BATCH_SIZE", 500),
		EmbedBatchSize:        envutil.Int("KG_EMBED_BATCH_SIZE", 32),

		OpenAIAPIKey:         envutil.Str("OPENAI_API_KEY", ""),
		OpenAIEmbeddingModel: envutil.Str("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
	}
}
