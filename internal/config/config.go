package config

import (
	"sort"
	"time"

	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
	"github.com/mvp-joe/codeshape/internal/llm"
)

// Config represents the complete codeshape configuration.
// It can be loaded from .codeshape/config.yml with environment variable overrides.
type Config struct {
	Languages map[string][]string `yaml:"languages" mapstructure:"languages"` // language name → glob patterns
	Paths     PathsConfig         `yaml:"paths" mapstructure:"paths"`
	Scan      ScanConfig          `yaml:"scan" mapstructure:"scan"`
	LLM       LLMConfig           `yaml:"llm" mapstructure:"llm"`
	MCP       MCPConfig           `yaml:"mcp" mapstructure:"mcp"`
}

// PathsConfig defines which files to skip during discovery.
type PathsConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// ScanConfig controls extraction.
type ScanConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // parallel extraction workers
}

// LLMConfig configures the completion service used for explanations.
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`       // "ollama" or "none"
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`       // e.g., http://localhost:11434
	Model       string        `yaml:"model" mapstructure:"model"`             // e.g., codellama:7b
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"` // 0.0 - 2.0
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`         // per request
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	CacheSize int           `yaml:"cache_size" mapstructure:"cache_size"` // analyzed projects kept in memory
	CacheTTL  time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`   // how long an analysis stays cached
	Watch     bool          `yaml:"watch" mapstructure:"watch"`           // invalidate directory projects on change
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Languages: map[string][]string{
			string(extraction.LanguageC):          {"**/*.c", "**/*.h"},
			string(extraction.LanguageJava):       {"**/*.java"},
			string(extraction.LanguageJavaScript): {"**/*.js"},
			string(extraction.LanguagePHP):        {"**/*.php"},
			string(extraction.LanguagePython):     {"**/*.py"},
			string(extraction.LanguageTypeScript): {"**/*.ts", "**/*.tsx"},
		},
		Paths: PathsConfig{
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.pyc",
			},
		},
		Scan: ScanConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			Endpoint:    llm.DefaultEndpoint,
			Model:       llm.DefaultModel,
			Temperature: llm.DefaultTemperature,
			Timeout:     llm.DefaultTimeout,
		},
		MCP: MCPConfig{
			CacheSize: 32,
			CacheTTL:  30 * time.Minute,
			Watch:     true,
		},
	}
}

// LanguagePatterns returns the configured patterns keyed by Language.
// Unknown language names are skipped; Validate reports them.
func (c *Config) LanguagePatterns() map[extraction.Language][]string {
	out := make(map[extraction.Language][]string, len(c.Languages))
	for name, patterns := range c.Languages {
		if lang, ok := extraction.ParseLanguage(name); ok && len(patterns) > 0 {
			out[lang] = patterns
		}
	}
	return out
}

// Extensions returns the sorted file extensions covered by the language
// patterns (e.g., []string{".c", ".h", ".py"}).
func (c *Config) Extensions() []string {
	extMap := make(map[string]bool)
	for _, patterns := range c.Languages {
		for _, pattern := range patterns {
			if ext := extractExtension(pattern); ext != "" {
				extMap[ext] = true
			}
		}
	}

	extensions := make([]string, 0, len(extMap))
	for ext := range extMap {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.py" -> ".py", "*.ts" -> ".ts", "src/**" -> ""
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
