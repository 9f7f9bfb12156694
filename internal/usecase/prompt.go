package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/asaupe/course-recommendation-system/internal/adapter/analyzer"
	"github.com/asaupe/course-recommendation-system/internal/domain"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

const descriptionExcerptLen = 300

// PromptBuilder renders retrieved courses into a bounded context block and
// assembles the full generation prompt. Pure formatting, no side effects.
type PromptBuilder struct {
	tokenizer   *analyzer.Tokenizer
	tokenBudget int
	system      string
	userTmpl    *template.Template
}

// promptData feeds the recommend prompt template.
type promptData struct {
	Query              string
	Context            string
	Tier               domain.ConfidenceTier
	TierGuidance       string
	ValidCodes         []string
	MaxRecommendations int
	MinJustification   int
}

// NewPromptBuilder creates a PromptBuilder. tokenBudget bounds the rendered
// context block (approximate LLM tokens); zero disables the bound.
func NewPromptBuilder(tokenBudget int) (*PromptBuilder, error) {
	system, err := promptTemplates.ReadFile("templates/system_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("system template not found: %w", err)
	}

	userContent, err := promptTemplates.ReadFile("templates/recommend_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("recommend template not found: %w", err)
	}

	funcs := template.FuncMap{
		"join": strings.Join,
	}
	userTmpl, err := template.New("recommend").Funcs(funcs).Parse(string(userContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse recommend template: %w", err)
	}

	return &PromptBuilder{
		tokenizer:   analyzer.NewTokenizer(),
		tokenBudget: tokenBudget,
		system:      strings.TrimSpace(string(system)),
		userTmpl:    userTmpl,
	}, nil
}

// BuildContext renders at most maxItems retrieved courses, in ranked order,
// stopping early if the token budget would be exceeded. At least one course
// is always rendered when results are non-empty.
func (b *PromptBuilder) BuildContext(results []domain.ScoredCourse, maxItems int) string {
	if len(results) == 0 {
		return "No relevant courses found."
	}
	if maxItems > 0 && len(results) > maxItems {
		results = results[:maxItems]
	}

	var sb strings.Builder
	sb.WriteString("RELEVANT COURSES FOUND:\n")

	used := 0
	for i, r := range results {
		block := renderCourse(i+1, r)
		cost := b.tokenizer.CountTokens(block)
		if b.tokenBudget > 0 && i > 0 && used+cost > b.tokenBudget {
			break
		}
		sb.WriteString(block)
		used += cost
	}

	return sb.String()
}

func renderCourse(rank int, r domain.ScoredCourse) string {
	c := r.Course

	prereqs := "None"
	if len(c.Prerequisites) > 0 {
		prereqs = strings.Join(c.Prerequisites, ", ")
	}
	semester := c.Semester
	if semester == "" {
		semester = "Fall/Spring"
	}

	return fmt.Sprintf(`
%d. %s (%s)
   - Description: %s
   - Credits: %d | Difficulty: %d/5
   - Category: %s | Semester: %s
   - Prerequisites: %s
   - Relevance Score: %.3f
`, rank, c.Title, c.Code, excerpt(c.Description), c.Credits, c.Difficulty, c.Category, semester, prereqs, r.Score)
}

func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionExcerptLen {
		return s
	}
	return string(runes[:descriptionExcerptLen]) + "..."
}

// SystemPrompt returns the fixed system instruction.
func (b *PromptBuilder) SystemPrompt() string {
	return b.system
}

// BuildPrompt assembles the user prompt from the rendered context, the
// original query and tier-specific guidance.
func (b *PromptBuilder) BuildPrompt(
	query, context string,
	tier domain.ConfidenceTier,
	validCodes []string,
	maxRecommendations, minJustification int,
) (string, error) {
	data := promptData{
		Query:              query,
		Context:            context,
		Tier:               tier,
		TierGuidance:       tierGuidance(tier),
		ValidCodes:         validCodes,
		MaxRecommendations: maxRecommendations,
		MinJustification:   minJustification,
	}

	var buf bytes.Buffer
	if err := b.userTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

func tierGuidance(tier domain.ConfidenceTier) string {
	switch tier {
	case domain.TierMedium:
		return "The semantic match is only moderate. Hedge your recommendations and acknowledge that other courses may also fit."
	case domain.TierLow:
		return "The semantic match is weak. Recommend cautiously, use low match scores, and suggest the student refine their query."
	case domain.TierFallback:
		return "The similarity search returned no reliable matches. Do not recommend specific courses; provide only general guidance, suggest refining the query with more specific interests, and recommend speaking with an academic advisor."
	default:
		return ""
	}
}
