package retriever

import (
	"sort"

	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// HybridRetriever fuses semantic similarity search with keyword overlap
// using Reciprocal Rank Fusion. Short queries like "CS101 prerequisites"
// often carry lexical signal the embedding misses, and vice versa.
type HybridRetriever struct {
	semantic       port.Retriever
	keyword        port.Retriever
	rrfK           int
	semanticWeight float64
}

func NewHybridRetriever(
	semantic port.Retriever,
	keyword port.Retriever,
	rrfK int,
	semanticWeight float64,
) *HybridRetriever {
	if rrfK <= 0 {
		rrfK = 60
	}
	if semanticWeight < 0 || semanticWeight > 1 {
		semanticWeight = 0.7
	}

	return &HybridRetriever{
		semantic:       semantic,
		keyword:        keyword,
		rrfK:           rrfK,
		semanticWeight: semanticWeight,
	}
}

// Search fuses both rankings. A keyword failure degrades to semantic-only;
// a semantic failure (embedding provider down) surfaces so the caller can
// fall back, since keyword-only results would silently change semantics.
func (r *HybridRetriever) Search(query string, k int) ([]domain.ScoredCourse, error) {
	candidateK := k * 3
	if candidateK < 10 {
		candidateK = 10
	}

	semanticResults, err := r.semantic.Search(query, candidateK)
	if err != nil {
		return nil, err
	}

	keywordResults, err := r.keyword.Search(query, candidateK)
	if err != nil || len(keywordResults) == 0 {
		if k < len(semanticResults) {
			semanticResults = semanticResults[:k]
		}
		return semanticResults, nil
	}

	fused := r.rrfFuse(semanticResults, keywordResults)
	if len(fused) > k {
		fused = fused[:k]
	}
	return fused, nil
}

// rrfFuse combines the two rankings: each course accumulates
// weight / (rrfK + rank) per list it appears in. The fused value only
// orders the results; the reported Score stays the similarity from the
// source list (semantic when present) so downstream confidence tiering
// reads the same scale as plain semantic retrieval.
func (r *HybridRetriever) rrfFuse(semanticResults, keywordResults []domain.ScoredCourse) []domain.ScoredCourse {
	rrfScores := make(map[string]float64)
	similarity := make(map[string]float64)
	courses := make(map[string]domain.Course)
	order := make(map[string]int)

	for rank, result := range semanticResults {
		code := result.Course.Code
		rrfScores[code] += r.semanticWeight / float64(r.rrfK+rank+1)
		similarity[code] = result.Score
		courses[code] = result.Course
		order[code] = rank
	}

	keywordWeight := 1.0 - r.semanticWeight
	for rank, result := range keywordResults {
		code := result.Course.Code
		rrfScores[code] += keywordWeight / float64(r.rrfK+rank+1)
		if _, exists := courses[code]; !exists {
			similarity[code] = result.Score
			courses[code] = result.Course
			order[code] = len(semanticResults) + rank
		}
	}

	fused := make([]domain.ScoredCourse, 0, len(rrfScores))
	for code := range rrfScores {
		fused = append(fused, domain.ScoredCourse{
			Course: courses[code],
			Score:  similarity[code],
		})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		ci, cj := fused[i].Course.Code, fused[j].Course.Code
		if rrfScores[ci] != rrfScores[cj] {
			return rrfScores[ci] > rrfScores[cj]
		}
		return order[ci] < order[cj]
	})

	return fused
}
