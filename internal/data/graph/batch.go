package graph

import (
	"sort"

	"github.com/yungbote/surveykg-backend/internal/domain"
)

// chunk splits items into slices of at most size elements, preserving order.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// groupEntitiesByType buckets entities by type and returns the types in
// sorted order so writes are deterministic.
func groupEntitiesByType(entities []domain.Entity) ([]string, map[string][]domain.Entity) {
	grouped := make(map[string][]domain.Entity)
	for _, ent := range entities {
		grouped[ent.Type] = append(grouped[ent.Type], ent)
	}
	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, grouped
}

func groupRelationshipsByType(relationships []domain.Relationship) ([]string, map[string][]domain.Relationship) {
	grouped := make(map[string][]domain.Relationship)
	for _, rel := range relationships {
		grouped[rel.Type] = append(grouped[rel.Type], rel)
	}
	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, grouped
}

// nonNullProps drops nil values so absent answers never become store
// properties. Flat scalars only; nested structures are not supported.
func nonNullProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// safeLabel reports whether a type tag can be interpolated into Cypher as a
// label or relationship type. Only letters, digits and underscores pass, and
// the first rune must not be a digit.
func safeLabel(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return "", false
			}
		default:
			return "", false
		}
	}
	return s, true
}
