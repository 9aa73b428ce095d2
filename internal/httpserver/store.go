package httpserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gofhir/sqlonfhir/viewdef"
)

// ViewStore holds parsed ViewDefinitions by ID, so a client can
// register a view once and apply it to many resources across many
// requests without re-parsing it each time.
type ViewStore struct {
	mu    sync.RWMutex
	views map[string]*viewdef.ViewDefinition
}

// NewViewStore creates an empty store.
func NewViewStore() *ViewStore {
	return &ViewStore{views: make(map[string]*viewdef.ViewDefinition)}
}

// Put registers a parsed ViewDefinition and returns its generated ID.
func (s *ViewStore) Put(view *viewdef.ViewDefinition) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.views[id] = view
	s.mu.Unlock()
	return id
}

// Get returns the view registered under id, if any.
func (s *ViewStore) Get(id string) (*viewdef.ViewDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[id]
	return v, ok
}

// Delete removes a registered view. It is not an error to delete an
// unknown ID.
func (s *ViewStore) Delete(id string) {
	s.mu.Lock()
	delete(s.views, id)
	s.mu.Unlock()
}
