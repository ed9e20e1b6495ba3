// Package config loads application configuration from command-line flags,
// environment variables, and an optional .env file, in that order of
// precedence, with sensible defaults last.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Data        DataConfig
	Auth        AuthConfig
	ObjectStore ObjectStoreConfig
	Speech      SpeechConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string
	Port int
}

// DataConfig holds storage path settings.
type DataConfig struct {
	Dir string // Root directory for the database and auth key
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	KeyPath         string        // Directory holding the token signing key
	SessionDuration time.Duration // Lifetime of issued session tokens
	CookieName      string        // Name of the session cookie
	CookieSecure    bool          // Set the Secure flag on the session cookie
}

// ObjectStoreConfig holds S3 settings for tile image storage.
type ObjectStoreConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional custom endpoint for S3-compatible stores
}

// SpeechConfig holds text-to-speech settings.
type SpeechConfig struct {
	Region          string
	Voice           string // Polly voice ID
	AccessKeyID     string
	SecretAccessKey string
}

// Load builds the configuration. Precedence: flags > env vars > .env file >
// defaults.
func Load() (*Config, error) {
	loadEnvFile(".env")

	var (
		env      = flag.String("env", "", "environment (development|production)")
		logLevel = flag.String("log-level", "", "log level (debug|info|warn|error)")
		host     = flag.String("host", "", "server bind host")
		port     = flag.Int("port", 0, "server port")
		dataDir  = flag.String("data-dir", "", "data directory")
	)
	flag.Parse()

	cfg := &Config{
		App: AppConfig{
			Environment: pick(*env, getEnv("TILESPEAK_ENV"), "development"),
			LogLevel:    pick(*logLevel, getEnv("TILESPEAK_LOG_LEVEL"), "info"),
		},
		Server: ServerConfig{
			Host: pick(*host, getEnv("TILESPEAK_HOST"), "0.0.0.0"),
			Port: pickInt(*port, getEnvInt("TILESPEAK_PORT"), 8080),
		},
		Data: DataConfig{
			Dir: pick(*dataDir, getEnv("TILESPEAK_DATA_DIR"), "./data"),
		},
		Auth: AuthConfig{
			SessionDuration: pickDuration(getEnvDuration("TILESPEAK_SESSION_DURATION"), 180*24*time.Hour),
			CookieName:      pick(getEnv("TILESPEAK_COOKIE_NAME"), "tilespeak_session"),
			CookieSecure:    getEnvBool("TILESPEAK_COOKIE_SECURE"),
		},
		ObjectStore: ObjectStoreConfig{
			Region:          pick(getEnv("TILESPEAK_S3_REGION"), getEnv("AWS_REGION"), "us-east-1"),
			Bucket:          getEnv("TILESPEAK_S3_BUCKET"),
			AccessKeyID:     pick(getEnv("TILESPEAK_S3_ACCESS_KEY_ID"), getEnv("AWS_ACCESS_KEY_ID")),
			SecretAccessKey: pick(getEnv("TILESPEAK_S3_SECRET_ACCESS_KEY"), getEnv("AWS_SECRET_ACCESS_KEY")),
			Endpoint:        getEnv("TILESPEAK_S3_ENDPOINT"),
		},
		Speech: SpeechConfig{
			Region:          pick(getEnv("TILESPEAK_POLLY_REGION"), getEnv("AWS_REGION"), "us-east-1"),
			Voice:           pick(getEnv("TILESPEAK_POLLY_VOICE"), "Joanna"),
			AccessKeyID:     pick(getEnv("TILESPEAK_POLLY_ACCESS_KEY_ID"), getEnv("AWS_ACCESS_KEY_ID")),
			SecretAccessKey: pick(getEnv("TILESPEAK_POLLY_SECRET_ACCESS_KEY"), getEnv("AWS_SECRET_ACCESS_KEY")),
		},
	}
	cfg.Auth.KeyPath = filepath.Join(cfg.Data.Dir, "auth")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.App.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("invalid environment: %q", c.App.Environment)
	}
	return nil
}

// IsDevelopment returns true when running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Addr returns the host:port the server should bind to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func pickDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvInt(key string) int {
	var v int
	fmt.Sscanf(getEnv(key), "%d", &v)
	return v
}

func getEnvBool(key string) bool {
	return strings.EqualFold(getEnv(key), "true")
}

func getEnvDuration(key string) time.Duration {
	d, err := time.ParseDuration(getEnv(key))
	if err != nil {
		return 0
	}
	return d
}

// loadEnvFile reads KEY=VALUE pairs from the given file into the process
// environment, skipping keys already set. Missing file is not an error.
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}
