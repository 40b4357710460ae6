package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

const (
	DefaultEndpoint    = "http://localhost:11434"
	DefaultModel       = "codellama:7b"
	DefaultTemperature = 0.3
	DefaultTimeout     = 60 * time.Second
)

// OllamaClient calls the /api/generate endpoint of an Ollama server.
type OllamaClient struct {
	endpoint    string
	model       string
	temperature float64
	client      *http.Client
}

// NewOllamaClient creates a client for the server at cfg.Endpoint.
// Zero values fall back to the package defaults.
func NewOllamaClient(cfg Config) *OllamaClient {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OllamaClient{
		endpoint:    endpoint,
		model:       model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// generateRequest represents the JSON request body for /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse represents the JSON response from /api/generate.
type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Complete sends a non-streaming generate request and returns the response text.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: c.temperature},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", c.fail(ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", c.fail(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(ErrRequestFailed, fmt.Errorf("failed to read response: %w", err))
	}

	var genResp generateResponse
	decodeErr := json.Unmarshal(body, &genResp)

	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(genResp.Error)
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		statusErr := fmt.Errorf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), detail)
		if resp.StatusCode == http.StatusNotFound || strings.Contains(strings.ToLower(detail), "model") {
			return "", c.fail(ErrModelUnavailable, statusErr)
		}
		return "", c.fail(ErrRequestFailed, statusErr)
	}

	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return genResp.Response, nil
}

// classifyTransportError separates connection failures from timeouts and other errors.
func (c *OllamaClient) classifyTransportError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return c.fail(ErrUnreachable, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return c.fail(ErrUnreachable, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return c.fail(ErrUnreachable, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return c.fail(ErrRequestFailed, fmt.Errorf("request timed out: %w", err))
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return c.fail(ErrRequestFailed, err)
	}

	return err
}

func (c *OllamaClient) fail(kind, err error) error {
	return &ServiceError{
		Kind:     kind,
		Endpoint: c.host(),
		Model:    c.model,
		Err:      err,
	}
}

// host returns host:port of the endpoint for messages.
func (c *OllamaClient) host() string {
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Host == "" {
		return c.endpoint
	}
	return u.Host
}
