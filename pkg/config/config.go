package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	RemoteBaseURL       string        `yaml:"remote_base_url"`
	RemoteTimeout       time.Duration `yaml:"remote_timeout"`
	RemoteJWTSecret     string        `yaml:"remote_jwt_secret"`
	RemoteJWTIssuer     string        `yaml:"remote_jwt_issuer"`
	RemoteJWTTTLMinutes int           `yaml:"remote_jwt_ttl_minutes"`

	FacadeJWTSecret string `yaml:"facade_jwt_secret"`
	FacadeJWTIssuer string `yaml:"facade_jwt_issuer"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ChatTypingMin       time.Duration `yaml:"chat_typing_min"`
	ChatTypingMax       time.Duration `yaml:"chat_typing_max"`
	ChatEscalationDelay time.Duration `yaml:"chat_escalation_delay"`

	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	UploadDir      string `yaml:"upload_dir"`
}

// Load reads environment variables, optionally from a .env file if present,
// then applies the YAML file named by CONFIG_FILE on top.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RemoteBaseURL:       getEnv("REMOTE_BASE_URL", "http://localhost:8000"),
		RemoteTimeout:       getEnvDuration("REMOTE_TIMEOUT", 60*time.Second),
		RemoteJWTSecret:     os.Getenv("REMOTE_JWT_SECRET"),
		RemoteJWTIssuer:     getEnv("REMOTE_JWT_ISSUER", "careerly-client"),
		RemoteJWTTTLMinutes: getEnvInt("REMOTE_JWT_TTL_MINUTES", 60),
		FacadeJWTSecret:     os.Getenv("FACADE_JWT_SECRET"),
		FacadeJWTIssuer:     os.Getenv("FACADE_JWT_ISSUER"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		ChatTypingMin:       getEnvDuration("CHAT_TYPING_MIN", time.Second),
		ChatTypingMax:       getEnvDuration("CHAT_TYPING_MAX", 2*time.Second),
		ChatEscalationDelay: getEnvDuration("CHAT_ESCALATION_DELAY", 2*time.Second),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 15<<20)),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return Config{}, err
		}
	}
	cfg.normalize()
	return cfg, nil
}

// overlay decodes a YAML file over cfg. Keys absent from the file keep
// their current value.
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	for _, d := range []*time.Duration{&c.RemoteTimeout, &c.ChatTypingMin, &c.ChatTypingMax, &c.ChatEscalationDelay} {
		if *d < 0 {
			*d = 0
		}
	}
	if c.ChatTypingMin > c.ChatTypingMax {
		c.ChatTypingMin, c.ChatTypingMax = c.ChatTypingMax, c.ChatTypingMin
	}
	if c.RemoteJWTTTLMinutes <= 0 {
		c.RemoteJWTTTLMinutes = 60
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("1500ms") or plain milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return def
}
