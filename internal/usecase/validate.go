package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// ValidatorOptions hold the tunable guardrail knobs.
type ValidatorOptions struct {
	MinConfidence          float64
	MinJustificationLength int
	MaxRecommendations     int
	TierDivergence         float64
}

// Validator parses raw generation output, enforces the output schema,
// filters hallucinated course references and decides between accepting the
// result and substituting a fallback. Malformed model output is the
// expected failure mode here: Validate never returns an error, it degrades.
type Validator struct {
	catalog port.CatalogStore
	opts    ValidatorOptions
	log     *zap.Logger
}

// rawResponse is the shape we ask the generator to produce.
type rawResponse struct {
	Recommendations   []rawRecommendation `json:"recommendations"`
	OverallConfidence *float64            `json:"overall_confidence"`
	Justification     string              `json:"justification"`
	MatchScore        *float64            `json:"match_score"`
}

type rawRecommendation struct {
	CourseID      string   `json:"course_id"`
	Title         string   `json:"title"`
	Justification string   `json:"justification"`
	MatchScore    *float64 `json:"match_score"`
}

var (
	jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)
	courseRefRe = regexp.MustCompile(`\b[A-Z]{2,4}[0-9]{3}\b`)
	lineRecRe   = regexp.MustCompile(`(?m)^\s*(?:[-*]\s*)?(?:\d+[.)]\s*)?([A-Z]{2,4}[0-9]{3})\s*[:\-]\s*(.+)$`)
	lineScoreRe = regexp.MustCompile(`\(\s*(?:score:?\s*)?([01](?:\.\d+)?)\s*\)\s*$`)

	// Claims no honest advisor makes.
	unrealisticClaimRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)100%\s+guaranteed`),
		regexp.MustCompile(`(?i)perfect\s+course`),
		regexp.MustCompile(`(?i)never\s+fails`),
		regexp.MustCompile(`(?i)instant\s+expertise`),
		regexp.MustCompile(`(?i)guarantee[sd]?\s+(?:success|a\s+job)`),
	}
	noPrereqClaimRe = regexp.MustCompile(`(?i)no\s+prerequisites?\s*(?:needed|required)?`)
)

// tierValue maps a retrieval tier to the confidence a response at that tier
// is expected to carry; used only to detect sharp divergence.
func tierValue(tier domain.ConfidenceTier) float64 {
	switch tier {
	case domain.TierHigh:
		return 0.8
	case domain.TierMedium:
		return 0.6
	case domain.TierLow:
		return 0.4
	default:
		return 0.2
	}
}

// NewValidator creates a Validator over the given catalog.
func NewValidator(catalog port.CatalogStore, opts ValidatorOptions, log *zap.Logger) *Validator {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.6
	}
	if opts.MinJustificationLength <= 0 {
		opts.MinJustificationLength = 50
	}
	if opts.MaxRecommendations <= 0 {
		opts.MaxRecommendations = 5
	}
	if opts.TierDivergence <= 0 {
		opts.TierDivergence = 0.3
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{catalog: catalog, opts: opts, log: log}
}

// Validate turns raw generation output into a RecommendationResponse.
// minConfidence overrides the configured gate when positive.
func (v *Validator) Validate(rawText, query string, tier domain.ConfidenceTier, minConfidence float64) domain.RecommendationResponse {
	if minConfidence <= 0 {
		minConfidence = v.opts.MinConfidence
	}

	parsed, ok := v.parse(rawText)
	if !ok {
		v.log.Warn("generation output unparseable, falling back", zap.Int("raw_len", len(rawText)))
		return FallbackResponse(query, tier, []string{"unable to parse generation output"}, 0)
	}

	warnings := []string{}
	originalCount := len(parsed.Recommendations)
	seen := make(map[string]struct{}, originalCount)
	var recs []domain.Recommendation

	for _, raw := range parsed.Recommendations {
		code := strings.ToUpper(strings.TrimSpace(raw.CourseID))

		if !domain.ValidCourseCode(code) {
			warnings = append(warnings, fmt.Sprintf("dropped recommendation with malformed course ID %q", raw.CourseID))
			continue
		}

		course, exists := v.catalog.GetCourse(code)
		if !exists {
			warnings = append(warnings, fmt.Sprintf("dropped hallucinated course ID %s: not in catalog", code))
			continue
		}

		if _, dup := seen[code]; dup {
			warnings = append(warnings, fmt.Sprintf("dropped duplicate recommendation for %s", code))
			continue
		}

		if titleDisagrees(raw.Title, course.Title) {
			warnings = append(warnings, fmt.Sprintf("dropped %s: title %q does not match catalog title %q", code, raw.Title, course.Title))
			continue
		}

		score := 0.5
		if raw.MatchScore != nil {
			score = *raw.MatchScore
		}
		if score < 0 || score > 1 {
			warnings = append(warnings, fmt.Sprintf("dropped %s: match score %.2f outside [0,1]", code, score))
			continue
		}

		just := strings.TrimSpace(raw.Justification)
		if len(just) < v.opts.MinJustificationLength {
			warnings = append(warnings, fmt.Sprintf("dropped %s: justification shorter than %d characters", code, v.opts.MinJustificationLength))
			continue
		}
		if echoesQuery(just, query) {
			warnings = append(warnings, fmt.Sprintf("dropped %s: justification only restates the query", code))
			continue
		}

		warnings = append(warnings, v.scanClaims(code, course, just)...)

		seen[code] = struct{}{}
		recs = append(recs, domain.Recommendation{
			CourseID:      code,
			Title:         course.Title,
			Justification: just,
			MatchScore:    score,
		})
	}

	if len(recs) > v.opts.MaxRecommendations {
		warnings = append(warnings, fmt.Sprintf("truncated recommendations to %d", v.opts.MaxRecommendations))
		recs = recs[:v.opts.MaxRecommendations]
	}

	if len(recs) == 0 {
		warnings = append(warnings, "no recommendations survived validation")
		return FallbackResponse(query, tier, warnings, originalCount)
	}

	// Overall confidence is the mean of surviving match scores. The model's
	// own overall_confidence is advisory only: when the two disagree
	// sharply we keep the computed value and widen the warnings.
	overall := meanScore(recs)
	if parsed.OverallConfidence != nil && math.Abs(*parsed.OverallConfidence-overall) > v.opts.TierDivergence {
		warnings = append(warnings, fmt.Sprintf("model-reported confidence %.2f disagrees with computed %.2f", *parsed.OverallConfidence, overall))
	}
	if diff := math.Abs(overall - tierValue(tier)); diff > v.opts.TierDivergence {
		warnings = append(warnings, fmt.Sprintf("computed confidence %.2f diverges from retrieval tier %s", overall, tier))
	}

	if overall < minConfidence {
		warnings = append(warnings, fmt.Sprintf("overall confidence %.2f below minimum %.2f", overall, minConfidence))
		return FallbackResponse(query, tier, warnings, originalCount)
	}

	justification := strings.TrimSpace(parsed.Justification)
	if len(justification) < 100 {
		justification = padJustification(justification)
	}

	return domain.RecommendationResponse{
		Query:             query,
		Recommendations:   recs,
		OverallConfidence: overall,
		Justification:     justification,
		ValidationPassed:  true,
		FallbackTriggered: false,
		Warnings:          warnings,
		Metadata: domain.ResponseMetadata{
			OriginalCount: originalCount,
			FilteredCount: len(recs),
			RetrievalTier: tier,
		},
	}
}

// parse attempts, in order: strict JSON, embedded JSON block, and
// line-pattern extraction ("CS101: reason (0.8)").
func (v *Validator) parse(rawText string) (rawResponse, bool) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return rawResponse{}, false
	}

	var parsed rawResponse
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return parsed, true
	}

	if block := jsonBlockRe.FindString(trimmed); block != "" {
		if err := json.Unmarshal([]byte(block), &parsed); err == nil {
			return parsed, true
		}
	}

	return v.extractFromText(trimmed)
}

// extractFromText recognizes "identifier: justification (score)" lines and,
// as a last resort, bare catalog code mentions.
func (v *Validator) extractFromText(text string) (rawResponse, bool) {
	var parsed rawResponse
	seen := make(map[string]struct{})

	for _, m := range lineRecRe.FindAllStringSubmatch(text, -1) {
		code, rest := m[1], strings.TrimSpace(m[2])
		if _, dup := seen[code]; dup {
			continue
		}

		score := 0.7
		if sm := lineScoreRe.FindStringSubmatch(rest); sm != nil {
			if parsedScore, err := strconv.ParseFloat(sm[1], 64); err == nil {
				score = parsedScore
			}
			rest = strings.TrimSpace(rest[:len(rest)-len(sm[0])])
		}

		seen[code] = struct{}{}
		s := score
		parsed.Recommendations = append(parsed.Recommendations, rawRecommendation{
			CourseID:      code,
			Justification: rest,
			MatchScore:    &s,
		})
	}

	if len(parsed.Recommendations) == 0 {
		// Bare code mentions: only codes that exist in the catalog count,
		// otherwise arbitrary prose could fabricate recommendations.
		for _, code := range courseRefRe.FindAllString(text, -1) {
			if _, dup := seen[code]; dup {
				continue
			}
			if _, ok := v.catalog.GetCourse(code); !ok {
				continue
			}
			seen[code] = struct{}{}
			s := 0.7
			parsed.Recommendations = append(parsed.Recommendations, rawRecommendation{
				CourseID:      code,
				Justification: "Recommended based on content analysis of the generated response, which mentioned this course in connection with the query.",
				MatchScore:    &s,
			})
		}
	}

	if len(parsed.Recommendations) == 0 {
		return rawResponse{}, false
	}

	parsed.Justification = text
	return parsed, true
}

// scanClaims flags unrealistic claims and prerequisite claims that
// contradict the catalog. Warnings only, never drops.
func (v *Validator) scanClaims(code string, course domain.Course, justification string) []string {
	var warnings []string

	for _, re := range unrealisticClaimRes {
		if m := re.FindString(justification); m != "" {
			warnings = append(warnings, fmt.Sprintf("%s: potentially unrealistic claim detected: %q", code, m))
		}
	}

	if len(course.Prerequisites) > 0 && noPrereqClaimRe.MatchString(justification) {
		warnings = append(warnings, fmt.Sprintf("%s: justification claims no prerequisites but catalog lists %s", code, strings.Join(course.Prerequisites, ", ")))
	}

	for _, ref := range courseRefRe.FindAllString(justification, -1) {
		if ref == code {
			continue
		}
		if _, ok := v.catalog.GetCourse(ref); !ok {
			warnings = append(warnings, fmt.Sprintf("%s: justification references unknown course %s", code, ref))
		}
	}

	return warnings
}

// titleDisagrees reports whether a model-supplied title materially
// contradicts the catalog title. Empty titles and case or whitespace
// differences are tolerated; the catalog title wins either way.
func titleDisagrees(given, catalog string) bool {
	given = strings.TrimSpace(given)
	if given == "" {
		return false
	}
	g := strings.ToLower(given)
	c := strings.ToLower(strings.TrimSpace(catalog))
	if g == c {
		return false
	}
	return !strings.Contains(c, g) && !strings.Contains(g, c)
}

// echoesQuery reports whether the justification is just the query text with
// little or nothing added.
func echoesQuery(justification, query string) bool {
	j := strings.ToLower(strings.TrimSpace(justification))
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if j == q {
		return true
	}
	if strings.Contains(j, q) {
		leftover := strings.TrimSpace(strings.Replace(j, q, "", 1))
		return len(leftover) < 15
	}
	return false
}

func meanScore(recs []domain.Recommendation) float64 {
	if len(recs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range recs {
		sum += r.MatchScore
	}
	return sum / float64(len(recs))
}

func padJustification(s string) string {
	base := "Based on the analysis of your query and the available courses, these recommendations aim to provide relevant learning opportunities aligned with your stated interests and academic goals."
	if s == "" {
		return base
	}
	return s + ". " + base
}

const fallbackGuidance = `I couldn't provide specific course recommendations for this query with enough confidence. For general guidance: start with core fundamentals, check prerequisite requirements before enrolling, browse the course catalog to discover areas of interest, and consult an academic advisor for personalized planning. Rephrasing the query with more specific interests or goals may produce better recommendations.`

// FallbackResponse builds the safe generic response used whenever parsing,
// validation or an upstream stage fails. The single guidance entry does not
// reference any catalog course.
func FallbackResponse(query string, tier domain.ConfidenceTier, warnings []string, originalCount int) domain.RecommendationResponse {
	if len(warnings) == 0 {
		warnings = []string{"fallback triggered"}
	}
	return domain.RecommendationResponse{
		Query: query,
		Recommendations: []domain.Recommendation{
			{
				Title:         "General course guidance",
				Justification: fallbackGuidance,
				MatchScore:    0,
			},
		},
		OverallConfidence: 0,
		Justification:     fallbackGuidance,
		ValidationPassed:  false,
		FallbackTriggered: true,
		Warnings:          warnings,
		Metadata: domain.ResponseMetadata{
			OriginalCount: originalCount,
			FilteredCount: 0,
			RetrievalTier: tier,
		},
	}
}
