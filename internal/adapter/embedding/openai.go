package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/asaupe/course-recommendation-system/internal/domain"
)

// Options control the remote embedding client.
type Options struct {
	Model      string
	BaseURL    string
	APIKey     string
	Dimension  int
	BatchSize  int
	MaxRetries int
	Timeout    time.Duration
}

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint. Transient
// failures are retried with exponential backoff; once the retry budget is
// exhausted the error surfaces as domain.EmbeddingUnavailableError.
type OpenAIEmbedder struct {
	apiKey     string
	model      string
	baseURL    string
	dimension  int
	batchSize  int
	maxRetries int
	client     *http.Client
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

const baseBackoff = 500 * time.Millisecond

func NewOpenAIEmbedder(apiKeyEnv, model string, opts Options) (*OpenAIEmbedder, error) {
	opts.BaseURL = defaultString(opts.BaseURL, "https://api.openai.com/v1")
	opts.APIKey = os.Getenv(apiKeyEnv)
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	opts.Model = model
	return newEmbedder(opts), nil
}

func NewDeepSeekEmbedder(apiKeyEnv, model string, opts Options) (*OpenAIEmbedder, error) {
	opts.BaseURL = defaultString(opts.BaseURL, "https://api.deepseek.com/v1")
	opts.APIKey = os.Getenv(apiKeyEnv)
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	opts.Model = model
	return newEmbedder(opts), nil
}

func NewJinaEmbedder(apiKeyEnv, model string, opts Options) (*OpenAIEmbedder, error) {
	opts.BaseURL = defaultString(opts.BaseURL, "https://api.jina.ai/v1")
	opts.APIKey = os.Getenv(apiKeyEnv)
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	opts.Model = model
	return newEmbedder(opts), nil
}

func NewOllamaEmbedder(model string, opts Options) (*OpenAIEmbedder, error) {
	opts.BaseURL = defaultString(opts.BaseURL, "http://localhost:11434/v1")
	opts.APIKey = "ollama"
	opts.Model = model
	if opts.Dimension == 0 {
		switch model {
		case "mxbai-embed-large":
			opts.Dimension = 1024
		case "all-minilm":
			opts.Dimension = 384
		default:
			opts.Dimension = 768
		}
	}
	return newEmbedder(opts), nil
}

func newEmbedder(opts Options) *OpenAIEmbedder {
	if opts.Dimension == 0 {
		switch opts.Model {
		case "text-embedding-3-large":
			opts.Dimension = 3072
		case "jina-embeddings-v3":
			opts.Dimension = 1024
		default:
			opts.Dimension = 1536
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	return &OpenAIEmbedder{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		dimension:  opts.Dimension,
		batchSize:  opts.BatchSize,
		maxRetries: opts.MaxRetries,
		client:     &http.Client{Timeout: opts.Timeout},
	}
}

// Embed generates embeddings for the given texts, batching requests to stay
// under the provider's input limit.
func (e *OpenAIEmbedder) Embed(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var allEmbeddings [][]float32
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, err := e.embedBatchWithRetry(texts[i:end])
		if err != nil {
			return nil, err
		}
		allEmbeddings = append(allEmbeddings, embeddings...)
	}

	return allEmbeddings, nil
}

func (e *OpenAIEmbedder) embedBatchWithRetry(texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if attempt > 1 {
			time.Sleep(baseBackoff * time.Duration(1<<(attempt-2)))
		}

		embeddings, err := e.embedBatch(texts)
		if err == nil {
			return embeddings, nil
		}
		lastErr = err
	}
	return nil, &domain.EmbeddingUnavailableError{Err: lastErr}
}

func (e *OpenAIEmbedder) embedBatch(texts []string) ([][]float32, error) {
	reqBody := embeddingRequest{
		Input: texts,
		Model: e.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", e.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200]
		}
		return nil, fmt.Errorf("failed to parse response (body: %s): %w", bodyPreview, err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", embResp.Error.Message)
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index < len(embeddings) {
			embeddings[data.Index] = data.Embedding
		}
	}

	return embeddings, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// MockEmbedder produces deterministic character-derived vectors. Useful for
// tests and offline runs.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, e.dimension)

		for j, r := range texts[i] {
			if j < e.dimension {
				embeddings[i][j] = float32(r) / 1000.0
			}
		}
	}
	return embeddings, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
