package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"brainplan/internal/brainstorm"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	UseMockData        bool
	BackendURL         string
	BackendTimeout     time.Duration
	MockDelay          time.Duration
	DemoBackend        bool
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	DatabaseURL        string
	MaxAttachments     int
	MaxAttachmentBytes int
	SessionCacheSize   int
	HistoryCacheSize   int
	SubmitRate         float64
	SubmitBurst        int
}

// fileConfig is the optional YAML file named by BRAINPLAN_CONFIG.
type fileConfig struct {
	UseMock        *bool  `yaml:"use_mock"`
	BackendURL     string `yaml:"backend_url"`
	BackendTimeout string `yaml:"backend_timeout"`
	MockDelay      string `yaml:"mock_delay"`
	DemoBackend    *bool  `yaml:"demo_backend"`
}

// Load reads configuration from .env files, an optional YAML file and the
// environment, in increasing precedence.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8080")),
		UseMockData:        true,
		BackendURL:         "http://localhost:5000",
		BackendTimeout:     60 * time.Second,
		MockDelay:          brainstorm.DefaultMockDelay,
		DemoBackend:        env != "production",
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MaxAttachments:     getEnvInt("MAX_ATTACHMENTS", brainstorm.DefaultMaxAttachments),
		MaxAttachmentBytes: getEnvInt("MAX_ATTACHMENT_BYTES", brainstorm.DefaultMaxAttachmentBytes),
		SessionCacheSize:   getEnvInt("SESSION_CACHE_SIZE", brainstorm.DefaultSessionCacheSize),
		HistoryCacheSize:   getEnvInt("HISTORY_CACHE_SIZE", 500),
		SubmitRate:         getEnvFloat("SUBMIT_RATE", 0.2),
		SubmitBurst:        getEnvInt("SUBMIT_BURST", 3),
	}

	if path := strings.TrimSpace(os.Getenv("BRAINPLAN_CONFIG")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			log.Printf("config file %s ignored: %v", path, err)
		}
	}

	if raw, ok := os.LookupEnv("USE_MOCK_DATA"); ok {
		cfg.UseMockData = parseBool(raw, cfg.UseMockData)
	}
	if raw, ok := os.LookupEnv("DEMO_BACKEND"); ok {
		cfg.DemoBackend = parseBool(raw, cfg.DemoBackend)
	}
	cfg.BackendURL = strings.TrimRight(getEnv("BACKEND_URL", cfg.BackendURL), "/")
	cfg.BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", cfg.BackendTimeout)
	cfg.MockDelay = getEnvDuration("MOCK_DELAY", cfg.MockDelay)

	if env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is not set in production; submission history stays in memory")
	}
	return cfg
}

// Mode returns the submission mode. It is fixed for the life of the process.
func (c Config) Mode() brainstorm.Mode {
	return brainstorm.Mode{UseMock: c.UseMockData, BackendBaseURL: c.BackendURL}
}

// Limits returns the attachment bounds.
func (c Config) Limits() brainstorm.Limits {
	return brainstorm.Limits{MaxAttachments: c.MaxAttachments, MaxAttachmentBytes: c.MaxAttachmentBytes}
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if fc.UseMock != nil {
		c.UseMockData = *fc.UseMock
	}
	if fc.DemoBackend != nil {
		c.DemoBackend = *fc.DemoBackend
	}
	if fc.BackendURL != "" {
		c.BackendURL = strings.TrimRight(fc.BackendURL, "/")
	}
	if fc.BackendTimeout != "" {
		d, err := time.ParseDuration(fc.BackendTimeout)
		if err != nil {
			return fmt.Errorf("backend_timeout: %w", err)
		}
		c.BackendTimeout = d
	}
	if fc.MockDelay != "" {
		d, err := time.ParseDuration(fc.MockDelay)
		if err != nil {
			return fmt.Errorf("mock_delay: %w", err)
		}
		c.MockDelay = d
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid number %q, using %g", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val < 0 {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "none", "off":
		return "none"
	default:
		return "local"
	}
}
