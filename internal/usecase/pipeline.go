package usecase

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// PipelineOptions tune the orchestrated flow.
type PipelineOptions struct {
	TopK              int
	MinConfidence     float64
	MaxContextCourses int
}

// Pipeline chains retrieval, confidence assessment, prompt assembly,
// generation and validation into one query-to-response flow. Every stage
// failure except invalid input is absorbed into a fallback response so
// callers always get a usable answer.
type Pipeline struct {
	retrieve   *RetrieveUseCase
	prompts    *PromptBuilder
	llm        port.LLM
	validator  *Validator
	catalog    port.CatalogStore
	thresholds ConfidenceThresholds
	opts       PipelineOptions
	log        *zap.Logger
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(
	retrieve *RetrieveUseCase,
	prompts *PromptBuilder,
	llm port.LLM,
	validator *Validator,
	catalog port.CatalogStore,
	thresholds ConfidenceThresholds,
	opts PipelineOptions,
	log *zap.Logger,
) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.6
	}
	if opts.MaxContextCourses <= 0 {
		opts.MaxContextCourses = opts.TopK
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		retrieve:   retrieve,
		prompts:    prompts,
		llm:        llm,
		validator:  validator,
		catalog:    catalog,
		thresholds: thresholds,
		opts:       opts,
		log:        log,
	}
}

// Process runs the full pipeline for one student query. The only error it
// returns is domain.ErrInvalidInput; provider outages, timeouts and
// malformed generation output all degrade into a fallback response.
func (p *Pipeline) Process(query string) (domain.RecommendationResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RecommendationResponse{}, domain.ErrInvalidInput
	}

	results, err := p.retrieve.Retrieve(query, p.opts.TopK)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return domain.RecommendationResponse{}, err
		}
		p.log.Warn("retrieval failed, falling back", zap.Error(err))
		resp := FallbackResponse(query, domain.TierFallback,
			[]string{fmt.Sprintf("retrieval unavailable: %v", err)}, 0)
		return resp, nil
	}

	tier := AssessConfidence(results, p.thresholds)
	p.log.Info("retrieval complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.String("tier", string(tier)))

	context := p.prompts.BuildContext(results, p.opts.MaxContextCourses)

	validCodes := make([]string, 0, len(results))
	for _, r := range results {
		validCodes = append(validCodes, r.Course.Code)
	}
	if len(validCodes) == 0 {
		for _, c := range p.catalog.ListCourses() {
			validCodes = append(validCodes, c.Code)
		}
	}

	prompt, err := p.prompts.BuildPrompt(query, context, tier, validCodes,
		p.validator.opts.MaxRecommendations, p.validator.opts.MinJustificationLength)
	if err != nil {
		p.log.Error("prompt assembly failed", zap.Error(err))
		resp := FallbackResponse(query, tier,
			[]string{fmt.Sprintf("prompt assembly failed: %v", err)}, 0)
		resp.Metadata.RetrievedCount = len(results)
		return resp, nil
	}

	raw, err := p.llm.GenerateWithSystem(p.prompts.SystemPrompt(), prompt)
	if err != nil {
		warning := fmt.Sprintf("generation unavailable: %v", err)
		var timeoutErr *domain.GenerationTimeoutError
		if errors.As(err, &timeoutErr) {
			warning = fmt.Sprintf("generation timed out: %v", err)
		}
		p.log.Warn("generation failed, falling back", zap.Error(err))
		resp := FallbackResponse(query, tier, []string{warning}, 0)
		resp.Metadata.RetrievedCount = len(results)
		return resp, nil
	}

	resp := p.validator.Validate(raw, query, tier, p.opts.MinConfidence)
	resp.Metadata.RetrievedCount = len(results)

	p.log.Info("pipeline complete",
		zap.String("query", query),
		zap.Float64("confidence", resp.OverallConfidence),
		zap.Bool("fallback", resp.FallbackTriggered),
		zap.Int("recommendations", len(resp.Recommendations)),
		zap.Int("warnings", len(resp.Warnings)))

	return resp, nil
}
