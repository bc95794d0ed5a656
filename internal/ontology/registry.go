package ontology

import (
	"fmt"
	"sync"

	pkgerrors "github.com/yungbote/surveykg-backend/internal/pkg/errors"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Ontology)
)

// Register makes an ontology selectable by name. Registering the same name
// twice replaces the earlier entry.
func Register(name string, o Ontology) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = o
}

// Lookup returns a previously registered ontology.
func Lookup(name string) (Ontology, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	o, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("ontology %q: %w", name, pkgerrors.ErrNotFound)
	}
	return o, nil
}
