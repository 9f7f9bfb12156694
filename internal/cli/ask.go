package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asaupe/course-recommendation-system/internal/adapter/analyzer"
	"github.com/asaupe/course-recommendation-system/internal/adapter/cache"
	"github.com/asaupe/course-recommendation-system/internal/adapter/retriever"
	"github.com/asaupe/course-recommendation-system/internal/domain"
	"github.com/asaupe/course-recommendation-system/internal/port"
	"github.com/asaupe/course-recommendation-system/internal/usecase"
)

var (
	askTopK          int
	askMinConfidence float64
	askJSON          bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Get course recommendations for a free-text query",
	Long: `Ask runs the full recommendation pipeline: the query is embedded,
matched against the course index, and a language model drafts
recommendations that are validated against the catalog.

Examples:
  courserec ask "I want to learn machine learning"
  courserec ask -k 3 --json "beginner programming courses"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "courses to retrieve (default from config)")
	askCmd.Flags().Float64Var(&askMinConfidence, "min-confidence", 0, "minimum confidence before falling back (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	query := args[0]

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	generator, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	st, err := openVectorStore(embedder.Dimension(), true)
	if err != nil {
		return err
	}
	defer st.Close()

	if fp, err := st.Fingerprint(); err == nil && fp != "" && fp != cat.Fingerprint() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: catalog changed since last index build. Run 'courserec index' to rebuild.")
	}

	prompts, err := usecase.NewPromptBuilder(cfg.Retrieve.ContextTokenBudget)
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	queryCache := cache.NewQueryCache(cfg.Retrieve.CacheSize,
		time.Duration(cfg.Retrieve.CacheTTLSeconds)*time.Second)

	var courseRetriever port.Retriever = retriever.NewSemanticRetriever(st, embedder, cat)
	if cfg.Retrieve.Hybrid {
		keyword := retriever.NewKeywordRetriever(cat, analyzer.NewTokenizer())
		courseRetriever = retriever.NewHybridRetriever(courseRetriever, keyword,
			cfg.Retrieve.RRFK, cfg.Retrieve.SemanticWeight)
	}
	retrieveUC := usecase.NewRetrieveUseCase(courseRetriever, cat, queryCache, log)

	validator := usecase.NewValidator(cat, usecase.ValidatorOptions{
		MinConfidence:          cfg.Validate.MinConfidence,
		MinJustificationLength: cfg.Validate.MinJustificationLength,
		MaxRecommendations:     cfg.Validate.MaxRecommendations,
		TierDivergence:         cfg.Validate.TierDivergence,
	}, log)

	topK := cfg.Retrieve.TopK
	if askTopK > 0 {
		topK = askTopK
	}
	minConfidence := cfg.Validate.MinConfidence
	if askMinConfidence > 0 {
		minConfidence = askMinConfidence
	}

	pipeline := usecase.NewPipeline(retrieveUC, prompts, generator, validator, cat,
		usecase.ConfidenceThresholds{
			HighMax:   cfg.Retrieve.HighMaxScore,
			HighAvg:   cfg.Retrieve.HighAvgScore,
			MediumMax: cfg.Retrieve.MediumMaxScore,
			MediumAvg: cfg.Retrieve.MediumAvgScore,
			Fallback:  cfg.Retrieve.FallbackThreshold,
		},
		usecase.PipelineOptions{
			TopK:              topK,
			MinConfidence:     minConfidence,
			MaxContextCourses: cfg.Retrieve.MaxContextCourses,
		}, log)

	resp, err := pipeline.Process(query)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if askJSON {
		output, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	printResponse(cmd, resp)
	return nil
}

func printResponse(cmd *cobra.Command, resp domain.RecommendationResponse) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Query: %s\n", resp.Query)
	fmt.Fprintf(out, "Confidence: %.2f (retrieval tier: %s)\n", resp.OverallConfidence, resp.Metadata.RetrievalTier)
	if resp.FallbackTriggered {
		fmt.Fprintln(out, "Note: confidence was too low for specific recommendations.")
	}
	fmt.Fprintln(out)

	for i, rec := range resp.Recommendations {
		if rec.CourseID != "" {
			fmt.Fprintf(out, "%d. %s (%s) - match %.2f\n", i+1, rec.Title, rec.CourseID, rec.MatchScore)
		} else {
			fmt.Fprintf(out, "%d. %s\n", i+1, rec.Title)
		}
		fmt.Fprintf(out, "   %s\n\n", rec.Justification)
	}

	fmt.Fprintf(out, "Summary: %s\n", resp.Justification)

	if len(resp.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range resp.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	fmt.Fprintf(out, "\nRetrieved %d courses, kept %d of %d recommendations.\n",
		resp.Metadata.RetrievedCount, resp.Metadata.FilteredCount, resp.Metadata.OriginalCount)
}
