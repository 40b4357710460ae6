// Package config provides configuration loading for codeshape.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (CODESHAPE_*)
//  2. Project config (.codeshape/config.yml), or the file given with --config
//  3. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: CODESHAPE_
//   - Nested fields: Use underscores (CODESHAPE_LLM_ENDPOINT)
//   - Automatic mapping via Viper's SetEnvKeyReplacer
//
// Example usage:
//
//	cfg, err := config.LoadConfigFromDir(projectDir)
//	if err != nil {
//	    return err
//	}
//	scanner := indexer.NewScanner(cfg.ToIndexerConfig(projectDir), nil)
package config
