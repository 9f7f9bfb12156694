package port

import "github.com/asaupe/course-recommendation-system/internal/domain"

// Retriever defines the interface for searching the course catalog.
type Retriever interface {
	// Search returns up to k courses ranked by descending relevance.
	Search(query string, k int) ([]domain.ScoredCourse, error)
}
