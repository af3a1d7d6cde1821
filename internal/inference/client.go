package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"recruit-backend/internal/shared/metrics"
)

const defaultTimeout = 60 * time.Second

// Client sends a prompt to a named model and returns its text.
type Client interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// generator is the subset of genai.Models used by GeminiClient.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	Credentials Credentials
	BaseURL     string
	Timeout     time.Duration
	Logger      *zap.Logger
}

// GeminiClient calls the Gemini generateContent API. It does not retry.
type GeminiClient struct {
	creds   Credentials
	baseURL string
	timeout time.Duration
	logger  *zap.Logger

	newGenerator func(ctx context.Context, apiKey string) (generator, error)

	mu         sync.Mutex
	generators map[string]generator
}

// NewGeminiClient builds a client. genai clients are created lazily per model.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &GeminiClient{
		creds:      cfg.Credentials,
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		timeout:    timeout,
		logger:     logger.Named("inference"),
		generators: make(map[string]generator),
	}
	c.newGenerator = c.newGenAIGenerator
	return c
}

func (c *GeminiClient) newGenAIGenerator(ctx context.Context, apiKey string) (generator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

func (c *GeminiClient) generatorFor(ctx context.Context, model string) (generator, error) {
	key, err := c.creds.Lookup(model)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.generators[model]; ok {
		return g, nil
	}
	g, err := c.newGenerator(ctx, key)
	if err != nil {
		return nil, err
	}
	c.generators[model] = g
	return g, nil
}

// Complete sends prompt to model and returns the first candidate's text.
func (c *GeminiClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	g, err := c.generatorFor(ctx, model)
	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			c.logger.Error("inference credential missing", zap.String("model", model))
			metrics.IncInferenceCall(model, "error")
			return "", err
		}
		metrics.IncInferenceCall(model, "error")
		return "", &UpstreamError{Model: model, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.GenerateContent(callCtx, model, genai.Text(prompt), nil)
	latency := time.Since(start)
	if err != nil {
		c.logCall(model, prompt, latency, err)
		metrics.IncInferenceCall(model, "error")
		return "", &UpstreamError{Model: model, Err: err}
	}

	text, err := firstText(resp)
	if err != nil {
		c.logCall(model, prompt, latency, err)
		metrics.IncInferenceCall(model, "error")
		return "", &UpstreamError{Model: model, Err: err}
	}

	c.logCall(model, prompt, latency, nil)
	metrics.IncInferenceCall(model, "ok")
	return text, nil
}

func (c *GeminiClient) logCall(model, prompt string, latency time.Duration, err error) {
	fields := []zap.Field{
		zap.String("model", model),
		zap.Int("prompt_chars", len([]rune(prompt))),
		zap.Duration("latency", latency),
	}
	if err != nil {
		c.logger.Warn("inference call failed", append(fields, zap.Error(err))...)
		return
	}
	c.logger.Debug("inference call complete", fields...)
}

// firstText takes the first part of the first candidate, which is the shape
// the evaluation prompts ask for.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content parts", ErrMalformedResponse)
	}
	part := candidate.Content.Parts[0]
	if part == nil || strings.TrimSpace(part.Text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}
	return part.Text, nil
}
