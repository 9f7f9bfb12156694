package usecase

import (
	"testing"

	"github.com/asaupe/course-recommendation-system/internal/domain"
)

func scored(scores ...float64) []domain.ScoredCourse {
	out := make([]domain.ScoredCourse, len(scores))
	for i, s := range scores {
		out[i] = domain.ScoredCourse{Score: s}
	}
	return out
}

func TestAssessConfidenceTiers(t *testing.T) {
	th := DefaultConfidenceThresholds()

	tests := []struct {
		name   string
		scores []float64
		want   domain.ConfidenceTier
	}{
		{"empty", nil, domain.TierFallback},
		{"strong match", []float64{0.8, 0.7, 0.6}, domain.TierHigh},
		{"boundary high", []float64{0.6, 0.55}, domain.TierHigh},
		{"high max low avg", []float64{0.7, 0.1, 0.1}, domain.TierMedium},
		{"moderate", []float64{0.5, 0.4, 0.3}, domain.TierMedium},
		{"boundary medium", []float64{0.4, 0.3, 0.2}, domain.TierMedium},
		{"weak", []float64{0.3, 0.2}, domain.TierLow},
		{"boundary low", []float64{0.2}, domain.TierLow},
		{"no signal", []float64{0.1, 0.05}, domain.TierFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessConfidence(scored(tt.scores...), th)
			if got != tt.want {
				t.Errorf("scores %v: expected %s, got %s", tt.scores, tt.want, got)
			}
		})
	}
}

func TestAssessConfidenceSingleResult(t *testing.T) {
	th := DefaultConfidenceThresholds()

	if got := AssessConfidence(scored(0.65), th); got != domain.TierHigh {
		t.Errorf("single strong result should be high, got %s", got)
	}
}

func TestAssessConfidenceMonotone(t *testing.T) {
	th := DefaultConfidenceThresholds()

	// Raising every score must never lower the tier.
	base := []float64{0.15, 0.1, 0.05}
	prev := AssessConfidence(scored(base...), th)
	for step := 0; step < 8; step++ {
		for i := range base {
			base[i] += 0.1
		}
		cur := AssessConfidence(scored(base...), th)
		if cur.Rank() < prev.Rank() {
			t.Fatalf("tier dropped from %s to %s at scores %v", prev, cur, base)
		}
		prev = cur
	}
}

func TestTierRankOrdering(t *testing.T) {
	if !(domain.TierHigh.Rank() > domain.TierMedium.Rank() &&
		domain.TierMedium.Rank() > domain.TierLow.Rank() &&
		domain.TierLow.Rank() > domain.TierFallback.Rank()) {
		t.Error("tier ranks out of order")
	}
}
