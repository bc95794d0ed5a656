package domain

// Entity is a node-to-be in the survey knowledge graph. Entities are created
// once by the extraction engine and never mutated afterwards.
type Entity struct {
	ID          string
	Type        string
	Properties  map[string]any
	TextContent string
}

// Relationship is a directed, typed edge between two extracted entities.
// SourceID and TargetID refer to Entity.ID values from the same run.
type Relationship struct {
	SourceID   string
	TargetID   string
	Type       string
	Properties map[string]any
}

// ExtractionStats summarizes one extraction run.
type ExtractionStats struct {
	TotalEntities         int            `json:"total_entities"`
	TotalRelationships    int            `json:"total_relationships"`
	EntityTypeCounts      map[string]int `json:"entity_type_counts"`
	RelationshipCounts    map[string]int `json:"relationship_type_counts"`
	EntitiesWithText      int            `json:"entities_with_text_content"`
	TextContentPercentage float64        `json:"text_content_percentage"`
}

// ValidationReport is the relationship integrity validator's outcome. It is
// advisory: callers decide whether orphans block the load.
type ValidationReport struct {
	TotalRelationships int      `json:"total_relationships"`
	ValidRelationships int      `json:"valid_relationships"`
	Orphaned           []string `json:"orphaned_relationships"`
	Passed             bool     `json:"validation_passed"`
}

// Preview returns at most n orphan descriptions for log output.
func (r ValidationReport) Preview(n int) []string {
	if len(r.Orphaned) <= n {
		return r.Orphaned
	}
	return r.Orphaned[:n]
}

// RejectedRelationship records a relationship the loader could not create,
// with the endpoint that was missing in the store.
type RejectedRelationship struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}

// LoadResult is the explicit manifest returned by the batch loader so that
// callers can reconcile attempted versus created counts deterministically.
type LoadResult struct {
	EntitiesAttempted      int                    `json:"entities_attempted"`
	EntitiesCreated        int                    `json:"entities_created"`
	RelationshipsAttempted int                    `json:"relationships_attempted"`
	RelationshipsCreated   int                    `json:"relationships_created"`
	Rejected               []RejectedRelationship `json:"rejected_relationships"`
}

// GraphStats describes what actually landed in the store after a load.
type GraphStats struct {
	NodeCounts         map[string]int64 `json:"node_counts"`
	RelationshipCounts map[string]int64 `json:"relationship_counts"`
	TotalNodes         int64            `json:"total_nodes"`
	TotalRelationships int64            `json:"total_relationships"`
	NodesWithText      int64            `json:"nodes_with_text_content"`
	OrphanedNodes      int64            `json:"orphaned_nodes"`
}

// VectorStats summarizes the embedding enrichment pass.
type VectorStats struct {
	EntitiesEmbedded int              `json:"entities_embedded"`
	Dimension        int              `json:"embedding_dimension"`
	PerLabel         map[string]int64 `json:"nodes_with_embeddings_by_label"`
}
