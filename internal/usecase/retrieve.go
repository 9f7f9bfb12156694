package usecase

import (
	"strings"

	"go.uber.org/zap"

	"github.com/asaupe/course-recommendation-system/internal/adapter/cache"
	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// RetrieveUseCase orchestrates query embedding and vector search, producing
// ranked courses for downstream prompt assembly.
type RetrieveUseCase struct {
	retriever port.Retriever
	catalog   port.CatalogStore
	cache     *cache.QueryCache
	log       *zap.Logger
}

// NewRetrieveUseCase creates a new retrieve use case. The cache may be nil
// to disable result caching.
func NewRetrieveUseCase(
	retriever port.Retriever,
	catalog port.CatalogStore,
	queryCache *cache.QueryCache,
	log *zap.Logger,
) *RetrieveUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetrieveUseCase{
		retriever: retriever,
		catalog:   catalog,
		cache:     queryCache,
		log:       log,
	}
}

// Retrieve returns up to topK courses ranked by descending similarity.
// Empty queries are rejected with domain.ErrInvalidInput; an empty catalog
// yields an empty result, not an error. topK is capped at the catalog size.
func (u *RetrieveUseCase) Retrieve(query string, topK int) ([]domain.ScoredCourse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if topK < 1 {
		return nil, domain.ErrInvalidInput
	}

	size := u.catalog.Count()
	if size == 0 {
		return nil, nil
	}
	if topK > size {
		topK = size
	}

	if u.cache != nil {
		if results, ok := u.cache.Get(query, topK); ok {
			u.log.Debug("retrieval cache hit", zap.String("query", query), zap.Int("top_k", topK))
			return results, nil
		}
	}

	results, err := u.retriever.Search(query, topK)
	if err != nil {
		return nil, err
	}

	u.log.Debug("retrieved courses",
		zap.String("query", query),
		zap.Int("top_k", topK),
		zap.Int("results", len(results)))

	if u.cache != nil {
		u.cache.Put(query, topK, results)
	}

	return results, nil
}
