// Package memstore implements docstore.Store in a purely in-memory manner.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/maxline/ordergate/docstore"
)

// New returns a store that provides transient, in-memory storage.
func New() docstore.Store {
	return &store{
		data: map[string]map[string]map[string]interface{}{},
	}
}

type store struct {
	// data[collection][documentID] = fields
	data map[string]map[string]map[string]interface{}
	mu   sync.RWMutex
}

func (s *store) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return deepCopy(doc), nil
}

func (s *store) Create(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[collection][id]; ok {
		return docstore.ErrAlreadyExists
	}
	if s.data[collection] == nil {
		s.data[collection] = map[string]map[string]interface{}{}
	}
	s.data[collection][id] = deepCopy(doc)
	return nil
}

func (s *store) Set(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[collection][id]; !ok {
		return docstore.ErrNotFound
	}
	s.data[collection][id] = deepCopy(doc)
	return nil
}

func (s *store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[collection][id]; !ok {
		return docstore.ErrNotFound
	}
	delete(s.data[collection], id)
	return nil
}

// List always performs a full scan of the collection.
func (s *store) List(ctx context.Context, collection string, filter map[string]interface{}) ([]docstore.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data[collection]))
	for id := range s.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var snaps []docstore.Snapshot
	for _, id := range ids {
		doc := s.data[collection][id]
		if docstore.MatchesFilter(doc, filter) {
			snaps = append(snaps, docstore.Snapshot{ID: id, Data: deepCopy(doc)})
		}
	}
	return snaps, nil
}

// deepCopy isolates stored documents from caller mutation. Values are copied
// structurally so field types, time.Time included, survive the round trip.
func deepCopy(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		return deepCopy(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
