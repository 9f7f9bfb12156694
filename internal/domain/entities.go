package domain

import "regexp"

// courseCodeRe matches catalog course codes like "CS101" or "MATH301".
var courseCodeRe = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{3}$`)

// ValidCourseCode reports whether s follows the catalog code format.
func ValidCourseCode(s string) bool {
	return courseCodeRe.MatchString(s)
}

// Course is a single recommendable catalog entry. Courses are immutable
// after the catalog is loaded.
type Course struct {
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Credits       int      `json:"credits"`
	Difficulty    int      `json:"difficulty"`
	Category      string   `json:"category"`
	Semester      string   `json:"semester,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

// ScoredCourse pairs a course with its retrieval similarity score.
type ScoredCourse struct {
	Course Course  `json:"course"`
	Score  float64 `json:"score"`
}

// ConfidenceTier is a coarse classification of retrieval quality derived
// from the similarity distribution.
type ConfidenceTier string

const (
	TierHigh     ConfidenceTier = "high"
	TierMedium   ConfidenceTier = "medium"
	TierLow      ConfidenceTier = "low"
	TierFallback ConfidenceTier = "fallback"
)

// Rank orders tiers so that HIGH > MEDIUM > LOW > FALLBACK.
func (t ConfidenceTier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is a single validated course suggestion.
type Recommendation struct {
	CourseID      string  `json:"course_id"`
	Title         string  `json:"title"`
	Justification string  `json:"justification"`
	MatchScore    float64 `json:"match_score"`
}

// ResponseMetadata records how many recommendations survived filtering.
type ResponseMetadata struct {
	OriginalCount  int            `json:"original_recommendation_count"`
	FilteredCount  int            `json:"filtered_recommendation_count"`
	RetrievedCount int            `json:"retrieved_course_count"`
	RetrievalTier  ConfidenceTier `json:"retrieval_tier"`
}

// RecommendationResponse is the unit returned to callers. It is immutable
// once constructed; degraded quality is communicated through the confidence
// value, the flags and the warnings rather than through errors.
type RecommendationResponse struct {
	Query             string           `json:"query"`
	Recommendations   []Recommendation `json:"recommendations"`
	OverallConfidence float64          `json:"overall_confidence"`
	Justification     string           `json:"justification"`
	ValidationPassed  bool             `json:"validation_passed"`
	FallbackTriggered bool             `json:"fallback_triggered"`
	Warnings          []string         `json:"warnings"`
	Metadata          ResponseMetadata `json:"metadata"`
}
