// Package llm wraps the Groq chat-completion endpoint used for shop matching,
// donor messaging and anomaly scoring.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	DefaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel    = "llama3-8b-8192"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500

	systemPrompt = "You are an AI assistant for a donation platform that connects donors with institutions in need."
)

// Options tune a single generation. Zero values fall back to the defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// IsDefault reports whether the options resolve to the default generation
// settings. Only default-option calls are memoized.
func (o Options) IsDefault() bool {
	o = o.withDefaults()
	return o.Temperature == DefaultTemperature && o.MaxTokens == DefaultMaxTokens
}

// Config holds client settings, normally sourced from the environment.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Client posts chat-completion requests with a fixed system role. Failures
// come back as errors; callers decide how to degrade.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a two-message exchange and returns the raw
// model text. Any transport, HTTP or decode failure is logged with request
// diagnostics and returned as an error.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.withDefaults()

	text, err := c.generate(ctx, prompt, opts)
	if err != nil {
		log.Printf("[llm] generation failed: %v", err)
		log.Printf("[llm] endpoint=%s api_key_present=%t model=%s", c.endpoint, c.apiKey != "", c.model)
		return "", err
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string, opts Options) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, msg)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
