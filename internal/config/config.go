// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Vocabulary VocabularyConfig
	Imports    ImportConfig
}

// DatabaseConfig holds database connection settings. URL empty means
// persistence is disabled.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// VocabularyConfig holds the reference vocabulary settings
type VocabularyConfig struct {
	// Path to a RefMet tab-separated export
	Path string
}

// ImportConfig holds import pipeline settings
type ImportConfig struct {
	MaxConcurrent int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: envOrDefault("PORT", "8080"),
		},
		Vocabulary: VocabularyConfig{
			Path: os.Getenv("VOCABULARY_PATH"),
		},
		Imports: ImportConfig{
			MaxConcurrent: 4,
		},
	}

	if raw := os.Getenv("MAX_CONCURRENT_IMPORTS"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_CONCURRENT_IMPORTS must be a positive integer, got %q", raw)
		}
		cfg.Imports.MaxConcurrent = n
	}

	if cfg.Vocabulary.Path == "" {
		return nil, fmt.Errorf("VOCABULARY_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
