package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the recommendation pipeline.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Validate   ValidateConfig   `yaml:"validate"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CatalogConfig holds catalog loading configuration.
type CatalogConfig struct {
	// Paths are glob patterns for course JSON files, merged in order.
	Paths []string `yaml:"paths"`
}

// EmbeddingConfig holds embedding service configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`    // "openai", "deepseek", "jina", "ollama", "mock"
	Model          string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv      string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL        string `yaml:"base_url"`    // Override for local/self-hosted providers
	Dimension      int    `yaml:"dimension"`
	BatchSize      int    `yaml:"batch_size"`
	MaxRetries     int    `yaml:"max_retries"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GenerationConfig holds text-generation service configuration.
type GenerationConfig struct {
	Provider       string  `yaml:"provider"` // "openai", "deepseek", "local"
	Model          string  `yaml:"model"`    // e.g., "gpt-3.5-turbo"
	APIKeyEnv      string  `yaml:"api_key_env"`
	BaseURL        string  `yaml:"base_url"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"` // Low by default; output must stay parseable
	MaxRetries     int     `yaml:"max_retries"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// RetrieveConfig holds retrieval and confidence-tier configuration.
// The tier thresholds are the main precision/recall tuning lever.
type RetrieveConfig struct {
	TopK               int     `yaml:"top_k"`
	Hybrid             bool    `yaml:"hybrid"`          // Fuse keyword overlap into the ranking
	RRFK               int     `yaml:"rrf_k"`           // Reciprocal Rank Fusion constant
	SemanticWeight     float64 `yaml:"semantic_weight"` // Semantic share of the fused score
	HighMaxScore       float64 `yaml:"high_max_score"`
	HighAvgScore       float64 `yaml:"high_avg_score"`
	MediumMaxScore     float64 `yaml:"medium_max_score"`
	MediumAvgScore     float64 `yaml:"medium_avg_score"`
	FallbackThreshold  float64 `yaml:"fallback_threshold"`
	MaxContextCourses  int     `yaml:"max_context_courses"`
	ContextTokenBudget int     `yaml:"context_token_budget"`
	CacheSize          int     `yaml:"cache_size"`
	CacheTTLSeconds    int     `yaml:"cache_ttl_seconds"`
}

// ValidateConfig holds output-validation configuration.
type ValidateConfig struct {
	MinConfidence          float64 `yaml:"min_confidence"`
	MinJustificationLength int     `yaml:"min_justification_length"`
	MaxRecommendations     int     `yaml:"max_recommendations"`
	TierDivergence         float64 `yaml:"tier_divergence"` // Widen warnings when |confidence - tier value| exceeds this
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Paths: []string{"data/*.json"},
		},
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			APIKeyEnv:      "OPENAI_API_KEY",
			Dimension:      1536,
			BatchSize:      100,
			MaxRetries:     3,
			TimeoutSeconds: 60,
		},
		Generation: GenerationConfig{
			Provider:       "openai",
			Model:          "gpt-3.5-turbo",
			APIKeyEnv:      "OPENAI_API_KEY",
			MaxTokens:      1500,
			Temperature:    0.3,
			MaxRetries:     3,
			TimeoutSeconds: 60,
		},
		Retrieve: RetrieveConfig{
			TopK:               5,
			RRFK:               60,
			SemanticWeight:     0.7,
			HighMaxScore:       0.6,
			HighAvgScore:       0.4,
			MediumMaxScore:     0.4,
			MediumAvgScore:     0.3,
			FallbackThreshold:  0.2,
			MaxContextCourses:  5,
			ContextTokenBudget: 2000,
			CacheSize:          100,
			CacheTTLSeconds:    300,
		},
		Validate: ValidateConfig{
			MinConfidence:          0.6,
			MinJustificationLength: 50,
			MaxRecommendations:     5,
			TierDivergence:         0.3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for courserec.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "courserec.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".courserec", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the vector index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".courserec", "index.db")
}

// EnsureStateDir ensures the .courserec directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".courserec"), 0755)
}
