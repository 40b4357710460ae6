package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that looks for .codeshape/config.yml under rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file. Unlike
// NewLoader, a missing file is an error.
func NewFileLoader(configFile string) Loader {
	return &loader{configFile: configFile}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODESHAPE_*)
// 2. Config file (.codeshape/config.yml or .codeshape/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".codeshape"))
	}

	// CODESHAPE_LLM_ENDPOINT overrides llm.endpoint, and so on.
	v.SetEnvPrefix("CODESHAPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("scan.workers")

	v.BindEnv("llm.provider")
	v.BindEnv("llm.endpoint")
	v.BindEnv("llm.model")
	v.BindEnv("llm.temperature")
	v.BindEnv("llm.timeout")

	v.BindEnv("mcp.cache_size")
	v.BindEnv("mcp.cache_ttl")
	v.BindEnv("mcp.watch")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	for name, patterns := range defaults.Languages {
		v.SetDefault("languages."+name, patterns)
	}

	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("scan.workers", defaults.Scan.Workers)

	v.SetDefault("llm.provider", defaults.LLM.Provider)
	v.SetDefault("llm.endpoint", defaults.LLM.Endpoint)
	v.SetDefault("llm.model", defaults.LLM.Model)
	v.SetDefault("llm.temperature", defaults.LLM.Temperature)
	v.SetDefault("llm.timeout", defaults.LLM.Timeout)

	v.SetDefault("mcp.cache_size", defaults.MCP.CacheSize)
	v.SetDefault("mcp.cache_ttl", defaults.MCP.CacheTTL)
	v.SetDefault("mcp.watch", defaults.MCP.Watch)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
