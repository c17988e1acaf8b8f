// Package store keeps the current state of designs folded from widget
// callback events. In-memory only.
package store

import (
	"sync"

	"github.com/printloom/designer-gateway/internal/model"
)

type designState struct {
	d            model.Design
	lastSequence uint64
}

// Store is a concurrency-safe design map keyed by design id.
type Store struct {
	mu sync.RWMutex
	m  map[string]designState
}

// New returns an empty Store.
func New() *Store {
	return &Store{m: make(map[string]designState)}
}

// Get returns the current state of a design.
func (s *Store) Get(id string) (model.Design, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[id]
	if !ok {
		return model.Design{}, false
	}
	return st.d, true
}

// Apply folds an event into the design record. Events carry partial data
// depending on the callback type; stale sequences are dropped so replays and
// out-of-order delivery cannot roll a design backwards.
func (s *Store) Apply(ev model.DesignEvent) {
	if ev.DesignID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[ev.DesignID]
	if ok && ev.Sequence <= st.lastSequence {
		return
	}
	if !ok {
		st = designState{d: model.Design{DesignID: ev.DesignID}}
	}
	if ev.TemplateID != "" {
		st.d.TemplateID = ev.TemplateID
	}
	if ev.ProductID != 0 {
		st.d.ProductID = ev.ProductID
	}
	if ev.VariantID != 0 {
		st.d.VariantID = ev.VariantID
	}
	if ev.Status != "" {
		st.d.Status = ev.Status
	}
	st.lastSequence = ev.Sequence
	s.m[ev.DesignID] = st
}
