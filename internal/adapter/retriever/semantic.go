package retriever

import (
	"fmt"

	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// SemanticRetriever embeds the query and ranks catalog courses by cosine
// similarity against the vector index.
type SemanticRetriever struct {
	vectorStore port.VectorStore
	embedder    port.Embedder
	catalog     port.CatalogStore
}

func NewSemanticRetriever(
	vectorStore port.VectorStore,
	embedder port.Embedder,
	catalog port.CatalogStore,
) *SemanticRetriever {
	return &SemanticRetriever{
		vectorStore: vectorStore,
		embedder:    embedder,
		catalog:     catalog,
	}
}

func (r *SemanticRetriever) Search(query string, k int) ([]domain.ScoredCourse, error) {
	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := r.vectorStore.Search(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	courses := make([]domain.ScoredCourse, 0, len(results))
	for _, result := range results {
		course, ok := r.catalog.GetCourse(result.Code)
		if !ok {
			// Stale index entry for a course no longer in the catalog.
			continue
		}
		courses = append(courses, domain.ScoredCourse{
			Course: course,
			Score:  result.Score,
		})
	}

	return courses, nil
}
