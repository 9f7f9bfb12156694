package retriever

import (
	"math"
	"sort"
	"strings"

	"github.com/asaupe/course-recommendation-system/internal/adapter/analyzer"
	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// KeywordRetriever scores courses by token overlap between the query and
// the course title, code, description and category. It needs no remote
// services, which makes it the catalog-browsing and offline search path.
type KeywordRetriever struct {
	catalog   port.CatalogStore
	tokenizer *analyzer.Tokenizer
}

func NewKeywordRetriever(catalog port.CatalogStore, tokenizer *analyzer.Tokenizer) *KeywordRetriever {
	return &KeywordRetriever{
		catalog:   catalog,
		tokenizer: tokenizer,
	}
}

func (r *KeywordRetriever) Search(query string, k int) ([]domain.ScoredCourse, error) {
	queryTokens := r.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	querySet := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		querySet[t] = struct{}{}
	}

	courses := r.catalog.ListCourses()
	scored := make([]domain.ScoredCourse, 0, len(courses))
	for _, course := range courses {
		score := r.overlapScore(querySet, course)

		// An exact code mention dominates everything else.
		if strings.Contains(strings.ToUpper(query), course.Code) {
			score = 1.0
		}

		if score > 0 {
			scored = append(scored, domain.ScoredCourse{Course: course, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// overlapScore is the Ochiai coefficient |Q∩C| / sqrt(|Q|*|C|) over the
// distinct token sets of the query and the course text.
func (r *KeywordRetriever) overlapScore(querySet map[string]struct{}, course domain.Course) float64 {
	text := course.Title + " " + course.Description + " " + course.Category
	tokens := r.tokenizer.Tokenize(text)

	seen := make(map[string]struct{}, len(tokens))
	matches := 0
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := querySet[t]; ok {
			matches++
		}
	}

	if len(querySet) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(matches) / math.Sqrt(float64(len(querySet))*float64(len(seen)))
}
