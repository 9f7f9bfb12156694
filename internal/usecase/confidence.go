package usecase

import "github.com/asaupe/course-recommendation-system/internal/domain"

// ConfidenceThresholds are the tier cut-offs. They are heuristic guards
// against presenting confident-sounding text when semantic overlap is weak,
// and come from configuration rather than constants.
type ConfidenceThresholds struct {
	HighMax   float64
	HighAvg   float64
	MediumMax float64
	MediumAvg float64
	Fallback  float64
}

// DefaultConfidenceThresholds mirrors the config defaults.
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{
		HighMax:   0.6,
		HighAvg:   0.4,
		MediumMax: 0.4,
		MediumAvg: 0.3,
		Fallback:  0.2,
	}
}

// AssessConfidence derives a tier from the similarity distribution of a
// retrieval result. Pure function of the scores.
func AssessConfidence(results []domain.ScoredCourse, th ConfidenceThresholds) domain.ConfidenceTier {
	if len(results) == 0 {
		return domain.TierFallback
	}

	maxScore := results[0].Score
	sum := 0.0
	for _, r := range results {
		if r.Score > maxScore {
			maxScore = r.Score
		}
		sum += r.Score
	}
	avgScore := sum / float64(len(results))

	switch {
	case maxScore >= th.HighMax && avgScore >= th.HighAvg:
		return domain.TierHigh
	case maxScore >= th.MediumMax && avgScore >= th.MediumAvg:
		return domain.TierMedium
	case maxScore >= th.Fallback:
		return domain.TierLow
	default:
		return domain.TierFallback
	}
}
