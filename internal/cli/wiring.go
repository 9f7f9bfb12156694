package cli

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/asaupe/course-recommendation-system/config"
	"github.com/asaupe/course-recommendation-system/internal/adapter/catalog"
	"github.com/asaupe/course-recommendation-system/internal/adapter/embedding"
	"github.com/asaupe/course-recommendation-system/internal/adapter/llm"
	"github.com/asaupe/course-recommendation-system/internal/adapter/store"
	"github.com/asaupe/course-recommendation-system/internal/port"
)

// openCatalog loads courses from the configured glob patterns. When nothing
// matches, the bundled sample catalog keeps the tool usable out of the box.
func openCatalog(cfg *config.Config) (*catalog.JSONStore, error) {
	cat, skipped, err := catalog.Load(cfg.Catalog.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, code := range skipped {
		log.Warn("skipped invalid catalog entry", zap.String("code", code))
	}

	if cat.Count() == 0 {
		log.Warn("no courses matched catalog paths, using bundled sample catalog",
			zap.Strings("paths", cfg.Catalog.Paths))
		cat, skipped = catalog.NewFromCourses(catalog.SampleCourses())
		for _, code := range skipped {
			log.Warn("skipped invalid sample entry", zap.String("code", code))
		}
	}

	return cat, nil
}

// newEmbedder builds the configured embedding client.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding
	opts := embedding.Options{
		BaseURL:    e.BaseURL,
		Dimension:  e.Dimension,
		BatchSize:  e.BatchSize,
		MaxRetries: e.MaxRetries,
		Timeout:    time.Duration(e.TimeoutSeconds) * time.Second,
	}

	switch e.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(e.APIKeyEnv, e.Model, opts)
	case "deepseek":
		return embedding.NewDeepSeekEmbedder(e.APIKeyEnv, e.Model, opts)
	case "jina":
		return embedding.NewJinaEmbedder(e.APIKeyEnv, e.Model, opts)
	case "ollama":
		return embedding.NewOllamaEmbedder(e.Model, opts)
	case "mock":
		return embedding.NewMockEmbedder(e.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", e.Provider)
	}
}

// newLLM builds the configured generation client.
func newLLM(cfg *config.Config) (port.LLM, error) {
	g := cfg.Generation
	return llm.NewClient(g.Provider, g.APIKeyEnv, llm.Options{
		Model:       g.Model,
		BaseURL:     g.BaseURL,
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
		MaxRetries:  g.MaxRetries,
		Timeout:     time.Duration(g.TimeoutSeconds) * time.Second,
	})
}

// openVectorStore opens the persisted index, creating the state directory if
// needed. mustExist makes a missing index an error instead of an empty store.
func openVectorStore(dimension int, mustExist bool) (*store.BoltVectorStore, error) {
	dbPath := config.IndexDBPath(rootDir)
	if mustExist {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no index found. Run 'courserec index' first")
		}
	}
	if err := config.EnsureStateDir(rootDir); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	st, err := store.NewBoltVectorStore(dbPath, dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return st, nil
}
