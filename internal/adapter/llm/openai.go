package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/asaupe/course-recommendation-system/internal/domain"
)

// Options control the remote generation client.
type Options struct {
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	Timeout     time.Duration
}

// Client calls an OpenAI-compatible /chat/completions endpoint. Temperature
// stays low because downstream parsing expects near-deterministic JSON.
// Malformed-but-received output is returned as-is; retrying on content is
// the validator's concern, not the transport's.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	maxRetries  int
	client      *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

var providerDefaults = map[string]struct {
	baseURL   string
	apiKeyEnv string
}{
	"openai":   {"https://api.openai.com/v1", "OPENAI_API_KEY"},
	"deepseek": {"https://api.deepseek.com/v1", "DEEPSEEK_API_KEY"},
	"local":    {"http://localhost:11434/v1", ""},
}

const baseBackoff = 500 * time.Millisecond

// NewClient builds a generation client for the given provider. An empty
// apiKeyEnv uses the provider's conventional environment variable.
func NewClient(provider, apiKeyEnv string, opts Options) (*Client, error) {
	defaults, ok := providerDefaults[provider]
	if !ok {
		return nil, fmt.Errorf("unknown generation provider: %s", provider)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = defaults.baseURL
	}
	if apiKeyEnv == "" {
		apiKeyEnv = defaults.apiKeyEnv
	}
	if apiKeyEnv != "" {
		opts.APIKey = os.Getenv(apiKeyEnv)
		if opts.APIKey == "" && provider != "local" {
			return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1500
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	return &Client{
		apiKey:      opts.APIKey,
		model:       opts.Model,
		baseURL:     opts.BaseURL,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		maxRetries:  opts.MaxRetries,
		client:      &http.Client{Timeout: opts.Timeout},
	}, nil
}

// Generate implements single-turn generation.
func (c *Client) Generate(prompt string) (string, error) {
	return c.chat([]chatMessage{{Role: "user", Content: prompt}})
}

// GenerateWithSystem implements generation with a system prompt.
func (c *Client) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	return c.chat([]chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
}

func (c *Client) ModelName() string {
	return c.model
}

func (c *Client) chat(messages []chatMessage) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			time.Sleep(baseBackoff * time.Duration(1<<(attempt-2)))
		}

		output, err := c.doRequest(messages)
		if err == nil {
			return output, nil
		}
		if isTimeout(err) {
			return "", &domain.GenerationTimeoutError{Err: err}
		}
		lastErr = err
	}
	return "", &domain.GenerationUnavailableError{Err: lastErr}
}

func (c *Client) doRequest(messages []chatMessage) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err)
}

// MockLLM returns canned responses for tests and offline runs.
type MockLLM struct {
	Response string
	Err      error
	Calls    int
}

func (m *MockLLM) Generate(prompt string) (string, error) {
	m.Calls++
	return m.Response, m.Err
}

func (m *MockLLM) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	m.Calls++
	return m.Response, m.Err
}

func (m *MockLLM) ModelName() string { return "mock" }
