package memstore

import (
	"sort"
	"sync"

	"github.com/ablackcat04/software-studio-final/internal/domain"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

// MemoryStore is an in-memory port.DocStore used by tests and offline runs.
// It preserves insertion order within each sub-collection so streaming order
// is deterministic.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]*subCollection // partition -> sub-collection name
}

type subCollection struct {
	byKey map[string]domain.MemeDocument
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]map[string]*subCollection),
	}
}

func (s *MemoryStore) Exists(partition, subColl, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub := s.sub(partition, subColl)
	if sub == nil {
		return false, nil
	}
	_, ok := sub.byKey[key]
	return ok, nil
}

func (s *MemoryStore) StreamAll(subColl string, partitions []string, fn func(partition string, doc domain.MemeDocument) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := partitions
	if wantsAll(partitions) {
		resolved = s.partitionsLocked()
	}

	for _, p := range resolved {
		sub := s.sub(p, subColl)
		if sub == nil {
			continue
		}
		for _, key := range sub.order {
			if err := fn(p, sub.byKey[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *MemoryStore) CommitBatch(partition, subColl string, docs []domain.MemeDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs[partition] == nil {
		s.docs[partition] = make(map[string]*subCollection)
	}
	sub := s.docs[partition][subColl]
	if sub == nil {
		sub = &subCollection{byKey: make(map[string]domain.MemeDocument)}
		s.docs[partition][subColl] = sub
	}
	for _, doc := range docs {
		if _, ok := sub.byKey[doc.ID]; !ok {
			sub.order = append(sub.order, doc.ID)
		}
		sub.byKey[doc.ID] = doc
	}
	return nil
}

func (s *MemoryStore) Partitions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partitionsLocked(), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) sub(partition, subColl string) *subCollection {
	if s.docs[partition] == nil {
		return nil
	}
	return s.docs[partition][subColl]
}

func (s *MemoryStore) partitionsLocked() []string {
	partitions := make([]string, 0, len(s.docs))
	for p := range s.docs {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)
	return partitions
}

func wantsAll(partitions []string) bool {
	if len(partitions) == 0 {
		return true
	}
	for _, p := range partitions {
		if p == port.PartitionAll {
			return true
		}
	}
	return false
}

var _ port.DocStore = (*MemoryStore)(nil)
