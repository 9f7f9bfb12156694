package memstore

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/asaupe/course-recommendation-system/internal/port"
)

// MemoryVectorStore is an in-memory VectorStore for tests and ephemeral
// runs where the index is rebuilt on every start.
type MemoryVectorStore struct {
	mu          sync.RWMutex
	dimension   int
	vectors     map[string]entry
	fingerprint string
}

type entry struct {
	vector  []float32
	ordinal int
}

func NewMemoryVectorStore(dimension int) *MemoryVectorStore {
	return &MemoryVectorStore{
		dimension: dimension,
		vectors:   make(map[string]entry),
	}
}

func (s *MemoryVectorStore) Upsert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}
		s.vectors[item.Code] = entry{vector: item.Vector, ordinal: item.Ordinal}
	}
	return nil
}

func (s *MemoryVectorStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}
	if len(s.vectors) == 0 {
		return nil, nil
	}

	results := make([]port.VectorResult, 0, len(s.vectors))
	for code, e := range s.vectors {
		results = append(results, port.VectorResult{
			Code:    code,
			Ordinal: e.ordinal,
			Score:   cosine(query, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Ordinal < results[j].Ordinal
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (s *MemoryVectorStore) Delete(codes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range codes {
		delete(s.vectors, code)
	}
	return nil
}

func (s *MemoryVectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

func (s *MemoryVectorStore) Fingerprint() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint, nil
}

func (s *MemoryVectorStore) SetFingerprint(fp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprint = fp
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
