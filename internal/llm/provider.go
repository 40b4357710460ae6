package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnreachable indicates the completion server could not be contacted.
	ErrUnreachable = errors.New("completion service unreachable")

	// ErrModelUnavailable indicates the server rejected the request because the model is missing.
	ErrModelUnavailable = errors.New("completion model unavailable")

	// ErrRequestFailed indicates the server answered with an error status or the request timed out.
	ErrRequestFailed = errors.New("completion request failed")

	// ErrUnknownProvider indicates an unsupported provider name in Config.
	ErrUnknownProvider = errors.New("unknown completion provider")
)

// Completer turns a prompt into a natural-language response.
type Completer interface {
	// Complete sends prompt to the completion service and returns its answer.
	// Failures are returned as *ServiceError values wrapping one of the
	// sentinel errors above.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures a Completer.
type Config struct {
	Provider    string        // "ollama" or "none"
	Endpoint    string        // base URL, e.g. http://localhost:11434
	Model       string        // e.g. codellama:7b
	Temperature float64       // sampling temperature
	Timeout     time.Duration // per-request timeout
}

// NewCompleter creates the Completer selected by cfg.Provider.
func NewCompleter(cfg Config) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		return NewOllamaClient(cfg), nil
	case "none":
		return &disabledCompleter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// ServiceError describes a failed completion call.
type ServiceError struct {
	Kind     error // ErrUnreachable, ErrModelUnavailable or ErrRequestFailed
	Endpoint string
	Model    string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Answer calls c and never fails: errors come back as descriptive text so a
// query pipeline can show them in place of the answer.
func Answer(ctx context.Context, c Completer, prompt string) string {
	response, err := c.Complete(ctx, prompt)
	if err != nil {
		return DescribeError(err)
	}
	if strings.TrimSpace(response) == "" {
		return "Error: No response from Ollama"
	}
	return response
}

// DescribeError renders a completion failure as user-facing text.
func DescribeError(err error) string {
	host := "localhost:11434"
	model := "codellama:7b"
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Endpoint != "" {
			host = svcErr.Endpoint
		}
		if svcErr.Model != "" {
			model = svcErr.Model
		}
	}

	switch {
	case errors.Is(err, ErrUnreachable):
		return fmt.Sprintf("Error: Ollama server not running at %s. Start it with `ollama serve`.", host)
	case errors.Is(err, ErrModelUnavailable), errors.Is(err, ErrRequestFailed):
		return fmt.Sprintf("Error querying Ollama: %v. Ensure model `%s` is listed in `ollama list` and server is running (`ollama serve`).", err, model)
	default:
		return fmt.Sprintf("Unexpected error querying Ollama: %v. Check server and model availability.", err)
	}
}

// disabledCompleter answers every prompt with a notice. Used when no
// completion server is configured.
type disabledCompleter struct{}

func (d *disabledCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return "Explanations are disabled (llm.provider is \"none\"). Structural queries still work.", nil
}
