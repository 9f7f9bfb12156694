package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/asaupe/course-recommendation-system/internal/port"
)

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")
	keyFinger     = []byte("catalog_fingerprint")
)

// BoltVectorStore implements VectorStore using BoltDB for persistence.
// Uses brute-force search; catalogs are small enough that an ANN index
// would be overkill. The full vector set is mirrored in memory so queries
// never touch disk.
type BoltVectorStore struct {
	db        *bbolt.DB
	dimension int
	mu        sync.RWMutex
	vectors   map[string]vectorEntry
}

type vectorEntry struct {
	vector  []float32
	ordinal int
}

type storedVector struct {
	Vector  []float32 `json:"v"`
	Ordinal int       `json:"o"`
}

// NewBoltVectorStore opens (or creates) the vector index at path.
func NewBoltVectorStore(path string, dimension int) (*BoltVectorStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketVectors); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	store := &BoltVectorStore{
		db:        db,
		dimension: dimension,
		vectors:   make(map[string]vectorEntry),
	}

	if err := store.loadVectors(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load vectors: %w", err)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *BoltVectorStore) Close() error {
	return s.db.Close()
}

// loadVectors loads all vectors from BoltDB into memory.
func (s *BoltVectorStore) loadVectors() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			s.vectors[string(k)] = vectorEntry{
				vector:  stored.Vector,
				ordinal: stored.Ordinal,
			}
			return nil
		})
	})
}

// Upsert adds or updates vectors in the store.
func (s *BoltVectorStore) Upsert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return fmt.Errorf("vectors bucket not found")
		}

		for _, item := range items {
			if len(item.Vector) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
			}

			data, err := json.Marshal(storedVector{
				Vector:  item.Vector,
				Ordinal: item.Ordinal,
			})
			if err != nil {
				return err
			}

			if err := b.Put([]byte(item.Code), data); err != nil {
				return err
			}

			s.vectors[item.Code] = vectorEntry{
				vector:  item.Vector,
				ordinal: item.Ordinal,
			}
		}

		return nil
	})
}

// Search finds the k nearest vectors to the query using cosine similarity.
// Ties are broken by catalog insertion order.
func (s *BoltVectorStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	return searchVectors(s.vectors, query, k), nil
}

// Delete removes vectors by course code.
func (s *BoltVectorStore) Delete(codes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return nil
		}

		for _, code := range codes {
			if err := b.Delete([]byte(code)); err != nil {
				return err
			}
			delete(s.vectors, code)
		}

		return nil
	})
}

// Count returns the number of vectors in the store.
func (s *BoltVectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

// Fingerprint returns the recorded catalog fingerprint.
func (s *BoltVectorStore) Fingerprint() (string, error) {
	var fp string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}
		fp = string(b.Get(keyFinger))
		return nil
	})
	return fp, err
}

// SetFingerprint records the catalog fingerprint the index was built from.
func (s *BoltVectorStore) SetFingerprint(fp string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return fmt.Errorf("meta bucket not found")
		}
		return b.Put(keyFinger, []byte(fp))
	})
}

// searchVectors ranks all entries against the query and returns the top k.
func searchVectors(vectors map[string]vectorEntry, query []float32, k int) []port.VectorResult {
	if len(vectors) == 0 {
		return nil
	}

	scores := make([]port.VectorResult, 0, len(vectors))
	for code, entry := range vectors {
		scores = append(scores, port.VectorResult{
			Code:    code,
			Ordinal: entry.ordinal,
			Score:   cosineSimilarity(query, entry.vector),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Ordinal < scores[j].Ordinal
	})

	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k]
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
