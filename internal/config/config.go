// Package config loads runtime settings from dotenv files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Transcription backends.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Config holds the settings for one run, built by Load or FromEnv.
type Config struct {
	Backend      string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	ChunkSeconds float64
	CacheDir     string
	SoxBin       string
	SoxiBin      string
}

// LoadEnvFiles loads $AVIM_ENV, ~/.avim.env and ./.env when present. Values
// already in the environment win. A file that exists but cannot be parsed is
// an error.
func LoadEnvFiles() error {
	var files []string
	if f := os.Getenv("AVIM_ENV"); f != "" {
		files = append(files, f)
	}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".avim.env"))
	}
	files = append(files, ".env")

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the dotenv files and then the environment.
func Load() (Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (Config, error) {
	cfg := Config{}

	cfg.Backend = envOrDefault("AVIM_BACKEND", BackendGemini)
	if cfg.Backend != BackendGemini && cfg.Backend != BackendOpenAI {
		return Config{}, fmt.Errorf("AVIM_BACKEND: unknown backend %q", cfg.Backend)
	}
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = envOrDefault("AVIM_GEMINI_MODEL", "gemini-2.5-flash")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = envOrDefault("AVIM_OPENAI_MODEL", "whisper-1")
	cfg.SoxBin = envOrDefault("AVIM_SOX", "sox")
	cfg.SoxiBin = envOrDefault("AVIM_SOXI", "soxi")

	chunk, err := parseFloatEnv("AVIM_CHUNK_SECONDS", 300)
	if err != nil {
		return Config{}, fmt.Errorf("parse AVIM_CHUNK_SECONDS: %w", err)
	}
	if chunk <= 0 {
		return Config{}, fmt.Errorf("AVIM_CHUNK_SECONDS must be positive, got %v", chunk)
	}
	cfg.ChunkSeconds = chunk

	cfg.CacheDir = os.Getenv("AVIM_CACHE_DIR")
	if cfg.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve cache dir: %w", err)
		}
		cfg.CacheDir = filepath.Join(base, "avim")
	}
	return cfg, nil
}

// APIKey returns the key for the selected backend.
func (c Config) APIKey() string {
	if c.Backend == BackendOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// DebugLogPath is where --debug writes its log.
func (c Config) DebugLogPath() string {
	return filepath.Join(c.CacheDir, "debug.log")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value := envOrDefault(key, "")
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}
