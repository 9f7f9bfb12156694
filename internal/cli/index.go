package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asaupe/course-recommendation-system/internal/usecase"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the course catalog into the local vector index",
	Long: `Index embeds every catalog course and stores the vectors in a local
database under .courserec/. Unchanged catalogs are skipped; use --force to
rebuild anyway, e.g. after switching embedding models.

Examples:
  courserec index
  courserec index --force`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "rebuild even if the index is up to date")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := openVectorStore(embedder.Dimension(), false)
	if err != nil {
		return err
	}
	defer st.Close()

	indexUC := usecase.NewIndexUseCase(cat, embedder, st, cfg.Embedding.BatchSize, true, log)

	result, err := indexUC.BuildIndex(indexForce)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if result.Skipped {
		fmt.Printf("Index already up to date (%d courses, model %s).\n", result.Indexed, result.Model)
		return nil
	}

	fmt.Printf("Indexed %d courses with %s.\n", result.Indexed, result.Model)
	return nil
}
