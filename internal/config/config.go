// README: Config loader with env defaults for HTTP, storage backends, extractors and Firebase.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Theme model storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendFirebase = "firebase"
)

// Entity extractors.
const (
	ExtractorGemini = "gemini"
	ExtractorProse  = "prose"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Prefs struct {
		Backend string
	}
	AI struct {
		Extractor string
		GeminiKey string
		Model     string
		CacheTTL  time.Duration
	}
	Maps struct {
		APIKey string
	}
	Firebase struct {
		ProjectID       string
		DatabaseURL     string
		CredentialsFile string
	}
	Intent struct {
		UnknownDestination string
		BatchConcurrency   int
	}
	Log struct {
		Level string
		File  string
	}
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("PLANZY_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("PLANZY_DB_DSN")
	cfg.Redis.Addr = envOrDefault("PLANZY_REDIS_ADDR", "localhost:6379")
	cfg.Prefs.Backend = strings.ToLower(envOrDefault("PLANZY_PREFS_BACKEND", BackendMemory))
	cfg.AI.Extractor = strings.ToLower(envOrDefault("PLANZY_EXTRACTOR", ExtractorGemini))
	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.AI.Model = envOrDefault("PLANZY_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.AI.CacheTTL = time.Duration(envOrDefaultInt("PLANZY_CACHE_TTL_SECONDS", 600)) * time.Second
	cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.Firebase.ProjectID = os.Getenv("PLANZY_FIREBASE_PROJECT_ID")
	cfg.Firebase.DatabaseURL = os.Getenv("PLANZY_FIREBASE_DATABASE_URL")
	cfg.Firebase.CredentialsFile = os.Getenv("PLANZY_FIREBASE_CREDENTIALS")
	cfg.Intent.UnknownDestination = envOrDefault("PLANZY_UNKNOWN_DESTINATION", "Unknown")
	cfg.Intent.BatchConcurrency = envOrDefaultInt("PLANZY_BATCH_CONCURRENCY", 4)
	cfg.Log.Level = envOrDefault("PLANZY_LOG_LEVEL", "info")
	cfg.Log.File = os.Getenv("PLANZY_LOG_FILE")
	return cfg, nil
}

// Validate checks the settings each selected backend needs.
func (c Config) Validate() error {
	switch c.Prefs.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("PLANZY_DB_DSN is required for the %s backend", c.Prefs.Backend)
		}
	case BackendFirebase:
		if c.Firebase.DatabaseURL == "" {
			return fmt.Errorf("PLANZY_FIREBASE_DATABASE_URL is required for the %s backend", c.Prefs.Backend)
		}
	default:
		return fmt.Errorf("unknown PLANZY_PREFS_BACKEND %q", c.Prefs.Backend)
	}

	switch c.AI.Extractor {
	case ExtractorGemini:
		if c.AI.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini extractor")
		}
	case ExtractorProse:
	default:
		return fmt.Errorf("unknown PLANZY_EXTRACTOR %q", c.AI.Extractor)
	}

	if c.Intent.BatchConcurrency < 1 {
		return fmt.Errorf("PLANZY_BATCH_CONCURRENCY must be positive")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
