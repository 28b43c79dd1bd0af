package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rationaleemotions/sitegen/internal/config"
)

const envPrefix = "SITEGEN_"

// envConfig holds path overrides from the environment.
type envConfig struct {
	ConfigPath string // SITEGEN_CONFIG: config file name or path
	ContentDir string // SITEGEN_CONTENT_DIR: posts directory
	PagesDir   string // SITEGEN_PAGES_DIR: standalone pages directory
	OutputDir  string // SITEGEN_OUTPUT_DIR: output root
}

// knownEnvVars lists valid SITEGEN_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SITEGEN_CONFIG":      true,
	"SITEGEN_CONTENT_DIR": true,
	"SITEGEN_PAGES_DIR":   true,
	"SITEGEN_OUTPUT_DIR":  true,
}

// loadEnvConfig reads SITEGEN_* values. The process environment wins over
// the .env file; a missing .env file is not an error.
func loadEnvConfig(env *Environment) (*envConfig, error) {
	dotenv := map[string]string{}
	if env.DotEnvPath != "" {
		m, err := godotenv.Read(env.DotEnvPath)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUsage, env.DotEnvPath, err)
		}
	}

	lookup := func(key string) string {
		if v := env.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	return &envConfig{
		ConfigPath: lookup("SITEGEN_CONFIG"),
		ContentDir: lookup("SITEGEN_CONTENT_DIR"),
		PagesDir:   lookup("SITEGEN_PAGES_DIR"),
		OutputDir:  lookup("SITEGEN_OUTPUT_DIR"),
	}, nil
}

// warnUnknownEnvVars logs warnings for unrecognized SITEGEN_* variables.
// Helps catch typos like SITEGEN_OUTPUT instead of SITEGEN_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values to cfg.
// Env values override the config file; CLI flags are applied later via
// mergeFlags, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.ContentDir != "" {
		cfg.Content.Dir = env.ContentDir
	}
	if env.PagesDir != "" {
		cfg.Content.PagesDir = env.PagesDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
}
