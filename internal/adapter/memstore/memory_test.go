package memstore

import (
	"testing"

	"github.com/asaupe/course-recommendation-system/internal/port"
)

func TestMemoryStoreSearchOrdering(t *testing.T) {
	s := NewMemoryVectorStore(3)

	err := s.Upsert([]port.VectorItem{
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 0, 0}},
		{Code: "CS201", Ordinal: 1, Vector: []float32{0, 1, 0}},
		{Code: "CS301", Ordinal: 2, Vector: []float32{0.8, 0.2, 0}},
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := s.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Code != "CS101" || results[1].Code != "CS301" {
		t.Errorf("unexpected ranking: %v", results)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending score order")
		}
	}
}

func TestMemoryStoreTieBreaksByOrdinal(t *testing.T) {
	s := NewMemoryVectorStore(2)

	err := s.Upsert([]port.VectorItem{
		{Code: "HIST201", Ordinal: 8, Vector: []float32{1, 1}},
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 1}},
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := s.Search([]float32{1, 1}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results[0].Code != "CS101" || results[1].Code != "HIST201" {
		t.Errorf("expected ordinal tie-break, got %v", results)
	}
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	s := NewMemoryVectorStore(2)

	s.Upsert([]port.VectorItem{{Code: "CS101", Ordinal: 0, Vector: []float32{1, 0}}})
	s.Upsert([]port.VectorItem{{Code: "CS101", Ordinal: 0, Vector: []float32{0, 1}}})

	count, _ := s.Count()
	if count != 1 {
		t.Errorf("expected 1 vector after replace, got %d", count)
	}

	results, _ := s.Search([]float32{0, 1}, 1)
	if len(results) != 1 || results[0].Score < 0.99 {
		t.Errorf("expected replaced vector to match query, got %v", results)
	}
}

func TestMemoryStoreDeleteAndCount(t *testing.T) {
	s := NewMemoryVectorStore(2)

	s.Upsert([]port.VectorItem{
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 0}},
		{Code: "CS201", Ordinal: 1, Vector: []float32{0, 1}},
	})

	if err := s.Delete([]string{"CS101"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	count, _ := s.Count()
	if count != 1 {
		t.Errorf("expected 1 vector, got %d", count)
	}
}

func TestMemoryStoreFingerprint(t *testing.T) {
	s := NewMemoryVectorStore(2)

	fp, err := s.Fingerprint()
	if err != nil || fp != "" {
		t.Errorf("expected empty fingerprint, got %q", fp)
	}

	if err := s.SetFingerprint("deadbeef"); err != nil {
		t.Fatalf("set fingerprint failed: %v", err)
	}

	fp, _ = s.Fingerprint()
	if fp != "deadbeef" {
		t.Errorf("expected deadbeef, got %q", fp)
	}
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	s := NewMemoryVectorStore(3)

	if err := s.Upsert([]port.VectorItem{{Code: "CS101", Vector: []float32{1}}}); err == nil {
		t.Error("expected upsert dimension error")
	}
	if _, err := s.Search([]float32{1}, 1); err == nil {
		t.Error("expected search dimension error")
	}
}
