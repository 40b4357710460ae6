package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

var (
	// ErrNoLanguagePatterns indicates no supported language has any pattern
	ErrNoLanguagePatterns = errors.New("no language patterns")

	// ErrUnknownLanguage indicates a languages key that is not supported
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid scan workers")

	// ErrInvalidProvider indicates an unsupported completion provider
	ErrInvalidProvider = errors.New("invalid llm provider")

	// ErrEmptyEndpoint indicates missing completion endpoint
	ErrEmptyEndpoint = errors.New("empty llm endpoint")

	// ErrEmptyModel indicates missing completion model
	ErrEmptyModel = errors.New("empty llm model")

	// ErrInvalidTemperature indicates a temperature outside 0..2
	ErrInvalidTemperature = errors.New("invalid llm temperature")

	// ErrInvalidTimeout indicates a non-positive request timeout
	ErrInvalidTimeout = errors.New("invalid llm timeout")

	// ErrInvalidCacheSize indicates a non-positive MCP cache size
	ErrInvalidCacheSize = errors.New("invalid mcp cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateLanguages(cfg.Languages); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if cfg.Scan.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Scan.Workers))
	}

	if err := validateLLM(&cfg.LLM); err != nil {
		errs = append(errs, err)
	}

	if cfg.MCP.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.MCP.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLanguages(languages map[string][]string) error {
	var errs []error

	total := 0
	for name, patterns := range languages {
		if _, ok := extraction.ParseLanguage(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %s (valid: c, java, javascript, php, python, typescript)", ErrUnknownLanguage, name))
			continue
		}
		for _, p := range patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p, err))
			}
		}
		total += len(patterns)
	}

	if total == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one language pattern required", ErrNoLanguagePatterns))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error
	for _, p := range cfg.Ignore {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: ignore %q: %v", ErrInvalidPattern, p, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateLLM(cfg *LLMConfig) error {
	var errs []error

	provider := strings.ToLower(cfg.Provider)
	if provider != "ollama" && provider != "none" {
		errs = append(errs, fmt.Errorf("%w: must be 'ollama' or 'none', got '%s'", ErrInvalidProvider, cfg.Provider))
	}

	// Endpoint and model are irrelevant when explanations are disabled.
	if provider != "none" {
		if strings.TrimSpace(cfg.Endpoint) == "" {
			errs = append(errs, fmt.Errorf("%w: endpoint is required", ErrEmptyEndpoint))
		}
		if strings.TrimSpace(cfg.Model) == "" {
			errs = append(errs, fmt.Errorf("%w: model is required", ErrEmptyModel))
		}
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, fmt.Errorf("%w: temperature must be between 0 and 2, got %.2f", ErrInvalidTemperature, cfg.Temperature))
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches each of errs with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
