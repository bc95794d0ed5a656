// Package extract turns one tabular survey dataset into the in-memory
// entity/relationship set that the batch loader persists.
package extract

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/surveykg-backend/internal/dataset"
	"github.com/yungbote/surveykg-backend/internal/domain"
	"github.com/yungbote/surveykg-backend/internal/ontology"
	"github.com/yungbote/surveykg-backend/internal/platform/logger"
)

const (
	TypeRespondent = "Respondent"
	TypeSurvey     = "Survey"
	TypeQuestion   = "Question"

	RelHasRespondent = "HAS_RESPONDENT"
)

// Extractor performs one single-pass transformation of a table into entities
// and relationships, interpreting columns through an ontology.
type Extractor struct {
	ont   ontology.Ontology
	idgen *RespondentIDGenerator
	log   *logger.Logger

	// Designated metadata columns; fall back behavior kicks in when a row
	// has no usable value.
	UIDColumn     string
	ProjectColumn string
	YearColumn    string
}

// Result is the complete output of one extraction run. It is owned by the
// caller and never mutated after Build returns.
type Result struct {
	Entities      []domain.Entity
	Relationships []domain.Relationship
	// RespondentIDs maps row index to the generated respondent ID. It is the
	// sole source of truth for row association.
	RespondentIDs map[int]string
	Validation    ontology.ColumnValidation
}

func New(ont ontology.Ontology, idgen *RespondentIDGenerator, log *logger.Logger) *Extractor {
	if idgen == nil {
		idgen = NewRespondentIDGenerator(1, time.Now)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{
		ont:           ont,
		idgen:         idgen,
		log:           log.With("component", "extractor"),
		UIDColumn:     "UID",
		ProjectColumn: "PROJECT_NAME",
		YearColumn:    "YEARRAW",
	}
}

// Build runs the five extraction steps in their required order. The row
// index to respondent ID mapping from step 1 feeds steps 3 and 5.
func (e *Extractor) Build(t *dataset.Table) (*Result, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, fmt.Errorf("extract: nil or empty table")
	}

	validation := e.ont.ValidateColumns(t.Columns)
	e.log.Info("validated dataset columns",
		"known", validation.TotalKnown,
		"unknown", validation.TotalUnknown)
	if len(validation.UnknownFields) > 0 {
		e.log.Warn("unknown columns in dataset", "columns", preview(validation.UnknownFields, 10))
	}
	if len(validation.MissingFields) > 0 {
		e.log.Warn("expected fields missing from dataset", "fields", preview(validation.MissingFields, 10))
	}

	res := &Result{
		RespondentIDs: make(map[int]string, len(t.Rows)),
		Validation:    validation,
	}

	e.extractRespondents(t, res)
	e.extractResponses(t, res)
	e.extractQuestions(t, res)
	e.extractSurveys(t, res)

	e.log.Info("extraction complete",
		"entities", len(res.Entities),
		"relationships", len(res.Relationships))
	return res, nil
}

// extractRespondents covers steps 1 and 2: ID assignment and the respondent
// entity per row.
func (e *Extractor) extractRespondents(t *dataset.Table, res *Result) {
	year := strconv.Itoa(time.Now().Year())
	for i := range t.Rows {
		id := e.idgen.Next()
		res.RespondentIDs[i] = id

		originalUID := id
		if v, ok := t.Value(i, e.UIDColumn); ok {
			originalUID = v
		}
		project := "unknown"
		if v, ok := t.Value(i, e.ProjectColumn); ok {
			project = v
		}
		createdAt := year
		if v, ok := t.Value(i, e.YearColumn); ok {
			createdAt = v
		}

		res.Entities = append(res.Entities, domain.Entity{
			ID:   id,
			Type: TypeRespondent,
			Properties: map[string]any{
				"unique_id":      id,
				"original_uid":   originalUID,
				"survey_project": project,
				"created_at":     createdAt,
				"row_index":      int64(i),
			},
			TextContent: fmt.Sprintf("Respondent %s from survey %s", id, project),
		})
	}
}

// extractResponses is step 3: one grouped-response entity plus one edge per
// (row, category) pair that has at least one non-null answer.
func (e *Extractor) extractResponses(t *dataset.Table, res *Result) {
	mappings := e.ont.RelationshipMappings()
	relTypes := make([]string, 0, len(mappings))
	for relType := range mappings {
		relTypes = append(relTypes, relType)
	}
	sort.Strings(relTypes)

	for i := range t.Rows {
		respondentID, ok := res.RespondentIDs[i]
		if !ok || respondentID == "" {
			e.log.Warn("no respondent ID for row, skipping", "row", i)
			continue
		}

		for _, relType := range relTypes {
			fields := mappings[relType]
			answers := make(map[string]any, len(fields))
			ordered := make([]fieldValue, 0, len(fields))
			nonNull := 0
			for _, field := range fields {
				if !t.HasColumn(field) {
					continue
				}
				name := e.ont.DescriptiveFieldName(field)
				if v, present := t.Value(i, field); present {
					answers[name] = v
					ordered = append(ordered, fieldValue{Name: name, Value: v})
					nonNull++
				} else {
					answers[name] = nil
				}
			}
			if nonNull == 0 {
				continue
			}

			className := e.ont.CategoryClassName(relType)
			entityID := respondentID + "_" + strings.ToLower(relType)
			props := map[string]any{
				"respondent_uid":    respondentID,
				"response_category": relType,
				"response_count":    int64(nonNull),
			}
			for k, v := range answers {
				props[k] = v
			}

			res.Entities = append(res.Entities, domain.Entity{
				ID:          entityID,
				Type:        className,
				Properties:  props,
				TextContent: categoryText(className, respondentID, ordered),
			})
			res.Relationships = append(res.Relationships, domain.Relationship{
				SourceID: respondentID,
				TargetID: entityID,
				Type:     relType,
				Properties: map[string]any{
					"respondent_uid": respondentID,
					"response_count": int64(nonNull),
				},
			})
		}
	}
}

// extractQuestions is step 4: one Question entity per distinct column the
// ontology recognizes, across the whole table.
func (e *Extractor) extractQuestions(t *dataset.Table, res *Result) {
	known := e.ont.AllSurveyFields()
	seen := make(map[string]struct{}, len(t.Columns))

	for _, column := range t.Columns {
		upper := strings.ToUpper(strings.TrimSpace(column))
		if _, ok := known[upper]; !ok {
			continue
		}
		if _, dup := seen[upper]; dup {
			continue
		}
		seen[upper] = struct{}{}

		name := e.ont.DescriptiveFieldName(column)
		category := e.ont.CategoryForField(column)
		description := e.ont.FieldDescription(column)
		values := t.Column(column)
		distinct := make(map[string]struct{}, len(values))
		nulls := 0
		for _, v := range values {
			if v == "" {
				nulls++
				continue
			}
			distinct[v] = struct{}{}
		}

		res.Entities = append(res.Entities, domain.Entity{
			ID:   "question_" + name,
			Type: TypeQuestion,
			Properties: map[string]any{
				"original_field_name":    column,
				"descriptive_field_name": name,
				"category":               category,
				"description":            description,
				"data_type":              inferDataType(values),
				"unique_values":          int64(len(distinct)),
				"null_count":             int64(nulls),
			},
			TextContent: fmt.Sprintf("Survey question %s: %s in %s category", name, description, category),
		})
	}
}

// extractSurveys is step 5: one Survey entity per distinct project label with
// aggregate statistics, plus HAS_RESPONDENT edges to every row's respondent.
func (e *Extractor) extractSurveys(t *dataset.Table, res *Result) {
	if !t.HasColumn(e.ProjectColumn) {
		return
	}

	// Distinct projects in first-appearance order.
	projects := make([]string, 0)
	rowsByProject := make(map[string][]int)
	for i := range t.Rows {
		project, ok := t.Value(i, e.ProjectColumn)
		if !ok {
			continue
		}
		if _, seen := rowsByProject[project]; !seen {
			projects = append(projects, project)
		}
		rowsByProject[project] = append(rowsByProject[project], i)
	}

	for _, project := range projects {
		rows := rowsByProject[project]

		year := "unknown"
		if v, ok := t.Value(rows[0], e.YearColumn); ok {
			year = v
		}

		surveyID := "survey_" + sanitizeID(project)
		res.Entities = append(res.Entities, domain.Entity{
			ID:   surveyID,
			Type: TypeSurvey,
			Properties: map[string]any{
				"project_name":       project,
				"total_respondents":  int64(len(rows)),
				"survey_year":        year,
				"completion_rate":    round2(float64(len(rows)) / float64(len(t.Rows)) * 100),
				"data_quality_score": e.dataQualityScore(t, rows),
			},
			TextContent: fmt.Sprintf("Survey %s with %d respondents from %s", project, len(rows), year),
		})

		for _, row := range rows {
			respondentID, ok := res.RespondentIDs[row]
			if !ok {
				e.log.Warn("no respondent ID for row, skipping survey edge", "row", row)
				continue
			}
			res.Relationships = append(res.Relationships, domain.Relationship{
				SourceID:   surveyID,
				TargetID:   respondentID,
				Type:       RelHasRespondent,
				Properties: map[string]any{"survey_project": project},
			})
		}
	}
}

// dataQualityScore is the percentage of non-null cells across the project's
// row/column subset.
func (e *Extractor) dataQualityScore(t *dataset.Table, rows []int) float64 {
	total := len(rows) * len(t.Columns)
	if total == 0 {
		return 0
	}
	nonNull := 0
	for _, row := range rows {
		for _, col := range t.Columns {
			if _, ok := t.Value(row, col); ok {
				nonNull++
			}
		}
	}
	return round2(float64(nonNull) / float64(total) * 100)
}

// Stats summarizes a result for the exported statistics artifact.
func Stats(res *Result) domain.ExtractionStats {
	s := domain.ExtractionStats{
		TotalEntities:      len(res.Entities),
		TotalRelationships: len(res.Relationships),
		EntityTypeCounts:   make(map[string]int),
		RelationshipCounts: make(map[string]int),
	}
	for _, ent := range res.Entities {
		s.EntityTypeCounts[ent.Type]++
		if ent.TextContent != "" {
			s.EntitiesWithText++
		}
	}
	for _, rel := range res.Relationships {
		s.RelationshipCounts[rel.Type]++
	}
	if s.TotalEntities > 0 {
		s.TextContentPercentage = round2(float64(s.EntitiesWithText) / float64(s.TotalEntities) * 100)
	}
	return s
}

func inferDataType(values []string) string {
	sawValue := false
	allInt := true
	allFloat := true
	for _, v := range values {
		if v == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
		}
	}
	switch {
	case !sawValue:
		return "empty"
	case allInt:
		return "integer"
	case allFloat:
		return "float"
	default:
		return "string"
	}
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func preview(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
