package config

import (
	"github.com/mvp-joe/codeshape/internal/indexer"
	"github.com/mvp-joe/codeshape/internal/llm"
)

// ToIndexerConfig converts a Config to an indexer.Config for the project at rootDir.
func (c *Config) ToIndexerConfig(rootDir string) *indexer.Config {
	return &indexer.Config{
		RootDir:          rootDir,
		LanguagePatterns: c.LanguagePatterns(),
		IgnorePatterns:   c.Paths.Ignore,
		Workers:          c.Scan.Workers,
	}
}

// ToLLMConfig converts a Config to an llm.Config.
func (c *Config) ToLLMConfig() llm.Config {
	return llm.Config{
		Provider:    c.LLM.Provider,
		Endpoint:    c.LLM.Endpoint,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		Timeout:     c.LLM.Timeout,
	}
}
