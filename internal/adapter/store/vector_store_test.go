package store

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/asaupe/course-recommendation-system/internal/port"
)

func newTestStore(t *testing.T) (*BoltVectorStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := NewBoltVectorStore(path, 3)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s, path
}

func TestUpsertAndSearch(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	items := []port.VectorItem{
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 0, 0}},
		{Code: "CS201", Ordinal: 1, Vector: []float32{0, 1, 0}},
		{Code: "CS301", Ordinal: 2, Vector: []float32{0.9, 0.1, 0}},
	}
	if err := s.Upsert(items); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := s.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Code != "CS101" {
		t.Errorf("expected CS101 first, got %s", results[0].Code)
	}
	if results[1].Code != "CS301" {
		t.Errorf("expected CS301 second, got %s", results[1].Code)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not sorted by descending score")
	}
}

func TestSearchTieBreaksByOrdinal(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	// Identical vectors, so similarity ties exactly.
	items := []port.VectorItem{
		{Code: "MATH201", Ordinal: 4, Vector: []float32{1, 1, 0}},
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 1, 0}},
		{Code: "CS201", Ordinal: 1, Vector: []float32{1, 1, 0}},
	}
	if err := s.Upsert(items); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		results, err := s.Search([]float32{1, 1, 0}, 3)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		want := []string{"CS101", "CS201", "MATH201"}
		for j, w := range want {
			if results[j].Code != w {
				t.Fatalf("run %d: expected %v, got %s at %d", i, want, results[j].Code, j)
			}
		}
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	if _, err := s.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestUpsertDimensionMismatch(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	err := s.Upsert([]port.VectorItem{{Code: "CS101", Vector: []float32{1, 0}}})
	if err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)

	items := []port.VectorItem{
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 0, 0}},
		{Code: "CS201", Ordinal: 1, Vector: []float32{0, 1, 0}},
	}
	if err := s.Upsert(items); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := s.SetFingerprint("abc123"); err != nil {
		t.Fatalf("set fingerprint failed: %v", err)
	}
	s.Close()

	reopened, err := NewBoltVectorStore(path, 3)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count()
	if err != nil || count != 2 {
		t.Errorf("expected 2 vectors after reopen, got %d (err %v)", count, err)
	}

	fp, err := reopened.Fingerprint()
	if err != nil || fp != "abc123" {
		t.Errorf("expected fingerprint abc123, got %q (err %v)", fp, err)
	}

	results, err := reopened.Search([]float32{0, 1, 0}, 1)
	if err != nil || len(results) != 1 || results[0].Code != "CS201" {
		t.Errorf("expected CS201 from reopened store, got %v (err %v)", results, err)
	}
	if results[0].Ordinal != 1 {
		t.Errorf("ordinal not persisted, got %d", results[0].Ordinal)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	items := []port.VectorItem{
		{Code: "CS101", Ordinal: 0, Vector: []float32{1, 0, 0}},
		{Code: "CS201", Ordinal: 1, Vector: []float32{0, 1, 0}},
	}
	if err := s.Upsert(items); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := s.Delete([]string{"CS101"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	count, _ := s.Count()
	if count != 1 {
		t.Errorf("expected 1 vector after delete, got %d", count)
	}

	results, _ := s.Search([]float32{1, 0, 0}, 5)
	for _, r := range results {
		if r.Code == "CS101" {
			t.Errorf("deleted vector still returned")
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
