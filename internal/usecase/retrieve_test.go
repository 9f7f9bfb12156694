package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/asaupe/course-recommendation-system/internal/adapter/cache"
	"github.com/asaupe/course-recommendation-system/internal/adapter/catalog"
	"github.com/asaupe/course-recommendation-system/internal/domain"
)

type stubRetriever struct {
	results []domain.ScoredCourse
	err     error
	calls   int
}

func (r *stubRetriever) Search(query string, k int) ([]domain.ScoredCourse, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if k < len(r.results) {
		return r.results[:k], nil
	}
	return r.results, nil
}

func sampleCatalog(t *testing.T) *catalog.JSONStore {
	t.Helper()
	cat, _ := catalog.NewFromCourses(catalog.SampleCourses())
	return cat
}

func TestRetrieveRejectsInvalidInput(t *testing.T) {
	uc := NewRetrieveUseCase(&stubRetriever{}, sampleCatalog(t), nil, nil)

	if _, err := uc.Retrieve("", 5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty query, got %v", err)
	}
	if _, err := uc.Retrieve("   \t  ", 5); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for whitespace query, got %v", err)
	}
	if _, err := uc.Retrieve("valid query", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for topK 0, got %v", err)
	}
}

func TestRetrieveEmptyCatalog(t *testing.T) {
	empty, _ := catalog.NewFromCourses(nil)
	uc := NewRetrieveUseCase(&stubRetriever{}, empty, nil, nil)

	results, err := uc.Retrieve("machine learning", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty catalog, got %d", len(results))
	}
}

func TestRetrieveCapsTopKAtCatalogSize(t *testing.T) {
	small, _ := catalog.NewFromCourses([]domain.Course{
		{Code: "CS101", Title: "Intro"},
		{Code: "CS201", Title: "Data Structures"},
	})
	stub := &stubRetriever{results: []domain.ScoredCourse{
		{Course: domain.Course{Code: "CS101"}, Score: 0.9},
		{Course: domain.Course{Code: "CS201"}, Score: 0.8},
	}}
	uc := NewRetrieveUseCase(stub, small, nil, nil)

	results, err := uc.Retrieve("anything", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(results))
	}
}

func TestRetrieveUsesCache(t *testing.T) {
	stub := &stubRetriever{results: []domain.ScoredCourse{
		{Course: domain.Course{Code: "CS301"}, Score: 0.7},
	}}
	uc := NewRetrieveUseCase(stub, sampleCatalog(t),
		cache.NewQueryCache(10, time.Minute), nil)

	first, err := uc.Retrieve("machine learning", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Retrieve("machine learning", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 {
		t.Errorf("expected 1 retriever call with cache, got %d", stub.calls)
	}
	if len(first) != len(second) || first[0].Course.Code != second[0].Course.Code {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}
}

func TestRetrievePropagatesRetrieverError(t *testing.T) {
	wantErr := &domain.EmbeddingUnavailableError{Err: errors.New("down")}
	uc := NewRetrieveUseCase(&stubRetriever{err: wantErr}, sampleCatalog(t), nil, nil)

	_, err := uc.Retrieve("anything", 5)
	var unavailable *domain.EmbeddingUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("expected EmbeddingUnavailableError, got %v", err)
	}
}
