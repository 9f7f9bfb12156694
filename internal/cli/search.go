package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asaupe/course-recommendation-system/internal/adapter/analyzer"
	"github.com/asaupe/course-recommendation-system/internal/adapter/retriever"
	"github.com/asaupe/course-recommendation-system/internal/domain"
)

var (
	searchQuery      string
	searchTopK       int
	searchCategory   string
	searchDifficulty int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Keyword search over the course catalog",
	Long: `Search matches the query against course titles, descriptions and
categories by token overlap. No embedding service or LLM is involved, so it
works offline and without an index.

Examples:
  courserec search -q "machine learning"
  courserec search -q programming --category "Computer Science"
  courserec search -q CS101`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "results to return (default from config)")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "restrict to a category")
	searchCmd.Flags().IntVar(&searchDifficulty, "difficulty", 0, "restrict to a difficulty level (1-5)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	topK := cfg.Retrieve.TopK
	if searchTopK > 0 {
		topK = searchTopK
	}

	keyword := retriever.NewKeywordRetriever(cat, analyzer.NewTokenizer())
	results, err := keyword.Search(searchQuery, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchCategory != "" {
		results = keepMatching(results, cat.FilterByCategory(searchCategory))
	}
	if searchDifficulty > 0 {
		results = keepMatching(results, cat.FilterByDifficulty(searchDifficulty, searchDifficulty))
	}

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No matching courses found.")
		return nil
	}

	if searchJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	for i, r := range results {
		c := r.Course
		fmt.Printf("%d. %s (%s) - score %.3f\n", i+1, c.Title, c.Code, r.Score)
		fmt.Printf("   %s | difficulty %d/5 | %d credits\n", c.Category, c.Difficulty, c.Credits)
	}

	return nil
}

// keepMatching drops scored results whose course is absent from allowed.
func keepMatching(results []domain.ScoredCourse, allowed []domain.Course) []domain.ScoredCourse {
	codes := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		codes[c.Code] = true
	}

	kept := results[:0]
	for _, r := range results {
		if codes[r.Course.Code] {
			kept = append(kept, r)
		}
	}
	return kept
}
