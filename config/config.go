// Package config loads resolver settings from the environment (.env via
// godotenv) and, optionally, a YAML settings file. Call once at bootstrap:
//
//	cfg := config.Load()
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the central typed configuration struct.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver"`
	Debug    DebugConfig    `yaml:"debug"`
	Log      LogConfig      `yaml:"log"`
}

// ResolverConfig tunes the resolution engine.
type ResolverConfig struct {
	// MaxDepth bounds one resolution chain. The bound is a safety valve for
	// runaway derivation, not a semantic guarantee.
	MaxDepth int `yaml:"max_depth"`

	// Ambiguity selects the tie-break policy: "latest" | "fail".
	Ambiguity string `yaml:"ambiguity"`
}

// DebugConfig controls the introspection HTTP surface.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Resolver: ResolverConfig{MaxDepth: 64, Ambiguity: "latest"},
		Debug:    DebugConfig{Enabled: false, Addr: "127.0.0.1:7117"},
		Log:      LogConfig{Level: "info", JSON: false},
	}
}

// Load reads .env (if present) and populates a Config from environment
// variables, falling back to defaults.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist outside development
	_ = godotenv.Load(files...)

	def := Default()
	return &Config{
		Resolver: ResolverConfig{
			MaxDepth:  envInt("IMPLICIT_MAX_DEPTH", def.Resolver.MaxDepth),
			Ambiguity: env("IMPLICIT_AMBIGUITY", def.Resolver.Ambiguity),
		},
		Debug: DebugConfig{
			Enabled: envBool("IMPLICIT_DEBUG", def.Debug.Enabled),
			Addr:    env("IMPLICIT_DEBUG_ADDR", def.Debug.Addr),
		},
		Log: LogConfig{
			Level: env("IMPLICIT_LOG_LEVEL", def.Log.Level),
			JSON:  envBool("IMPLICIT_LOG_JSON", def.Log.JSON),
		},
	}
}

// LoadFile reads a YAML settings file over the defaults. Environment
// variables are not consulted; combine with [Load] by loading the file
// first and letting the caller pick.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
