// Package apiclient calls the dictionary API: definitions, jokes, captions and health.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lexibot/internal/domain"

	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

// TokenSource supplies the bearer token for the caller identified by ctx.
// An empty token means the request is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SessionInvalidator clears the caller's session and sends them to sign-in.
// It is called once per 401 response, before the call returns.
type SessionInvalidator interface {
	InvalidateSession(ctx context.Context)
}

// Config configures a Client
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Tokens         TokenSource
	OnUnauthorized SessionInvalidator
	Logger         *zap.Logger
}

// Client is a dictionary API client. It never retries.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized SessionInvalidator
	logger         *zap.Logger
}

// New creates a new API client
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           httpClient,
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger,
	}
}

// DefineText looks up req.Text via POST /define
func (c *Client) DefineText(ctx context.Context, req domain.DefinitionRequest) (*domain.DefinitionResponse, error) {
	text, err := ValidateText(req.Text, "a term to define")
	if err != nil {
		return nil, err
	}
	req.Text = text

	body, err := c.do(ctx, http.MethodPost, "/define", req)
	if err != nil {
		return nil, err
	}
	return decodeDefinition(body)
}

// Define satisfies lookup.Definer for the standard contract
func (c *Client) Define(ctx context.Context, req domain.DefinitionRequest) (*domain.DefinitionResponse, error) {
	return c.DefineText(ctx, req)
}

// DefineTerm looks up input via the v1 contract, POST /api/v1/define
func (c *Client) DefineTerm(ctx context.Context, input string) (*domain.TermDefinition, error) {
	text, err := ValidateText(input, "a term to define")
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/define", domain.TermRequest{Input: text})
	if err != nil {
		return nil, err
	}
	return decodeTerm(body)
}

// GenerateJoke generates a joke from prompt
func (c *Client) GenerateJoke(ctx context.Context, prompt string) (*domain.Joke, error) {
	text, err := ValidateText(prompt, "a joke prompt")
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, "/jokes/generate", domain.PromptRequest{Prompt: text})
	if err != nil {
		return nil, err
	}

	var out domain.Joke
	if err := decodeInto(body, jokeSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateCaption generates an Instagram caption from prompt
func (c *Client) GenerateCaption(ctx context.Context, prompt string) (*domain.Caption, error) {
	text, err := ValidateText(prompt, "a caption prompt")
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, "/captions/generate", domain.PromptRequest{Prompt: text})
	if err != nil {
		return nil, err
	}

	var out domain.Caption
	if err := decodeInto(body, captionSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck calls GET /health
func (c *Client) HealthCheck(ctx context.Context) (*domain.Health, error) {
	body, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var out domain.Health
	if err := decodeInto(body, healthSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &Error{Kind: KindTransport, Message: ErrTransport.Message, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: ErrTransport.Message, Err: err}
	}

	c.logger.Debug("API request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized.InvalidateSession(ctx)
		}
		return nil, &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Message: ErrUnauthorized.Message}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		if msg == "" {
			msg = "Request failed. Try again later."
		}
		return nil, &Error{Kind: KindAPI, Status: resp.StatusCode, Message: msg}
	}

	return body, nil
}
