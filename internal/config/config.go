// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Dataset   DatasetConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatasetConfig holds the input resource configuration.
type DatasetConfig struct {
	// Path is a local file, an http(s) URL, or sqlite://file?table=name.
	Path         string
	FetchTimeout time.Duration // Remote fetch timeout (default: 30s)
	ViewsFile    string        // Optional YAML file with view policies
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 60s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed origins for browser front-ends
}

// RateLimitConfig holds per-client rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64 // Sustained requests per second per client
	Burst   int
}

// Flags holds raw command-line values. Empty strings fall through to the
// environment and then to defaults.
type Flags struct {
	Env          string
	LogLevel     string
	DatasetPath  string
	FetchTimeout string
	ViewsFile    string
	Port         string
	ReadTimeout  string
	WriteTimeout string
	IdleTimeout  string
	CORSOrigins  string
	RateLimit    string
	RateLimitRPS string
	RateBurst    string
	EnvFile      string

	// DefaultLogLevel replaces "info" when neither the flag nor LOG_LEVEL is set.
	DefaultLogLevel string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	var f Flags
	flag.StringVar(&f.Env, "env", "", "Environment (development, staging, production)")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.DatasetPath, "dataset", "", "Dataset path, URL, or sqlite://file?table=name")
	flag.StringVar(&f.FetchTimeout, "fetch-timeout", "", "Remote dataset fetch timeout (default: 30s)")
	flag.StringVar(&f.ViewsFile, "views", "", "Path to views YAML file")
	flag.StringVar(&f.Port, "port", "", "Server port (default: 8080)")
	flag.StringVar(&f.ReadTimeout, "read-timeout", "", "HTTP read timeout (default: 15s)")
	flag.StringVar(&f.WriteTimeout, "write-timeout", "", "HTTP write timeout (default: 60s)")
	flag.StringVar(&f.IdleTimeout, "idle-timeout", "", "HTTP idle timeout (default: 60s)")
	flag.StringVar(&f.CORSOrigins, "cors-origins", "", "Comma-separated allowed origins")
	flag.StringVar(&f.RateLimit, "rate-limit", "", "Enable per-client rate limiting (default: true)")
	flag.StringVar(&f.RateLimitRPS, "rate-limit-rps", "", "Requests per second per client (default: 5)")
	flag.StringVar(&f.RateBurst, "rate-limit-burst", "", "Burst size per client (default: 20)")
	flag.StringVar(&f.EnvFile, "env-file", ".env", "Path to .env file")

	flag.Parse()

	return Load(f)
}

// Load builds a Config from already parsed flag values.
func Load(f Flags) (*Config, error) {
	envFile := f.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(envFile)

	defaultLevel := f.DefaultLogLevel
	if defaultLevel == "" {
		defaultLevel = "info"
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(f.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(f.LogLevel, "LOG_LEVEL", defaultLevel),
		},
		Dataset: DatasetConfig{
			Path:      getConfigValue(f.DatasetPath, "DATASET_PATH", ""),
			ViewsFile: getConfigValue(f.ViewsFile, "VIEWS_FILE", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(f.Port, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(f.CORSOrigins, "CORS_ORIGINS", "*")),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolConfigValue(f.RateLimit, "RATE_LIMIT_ENABLED", true),
			RPS:     getFloatConfigValue(f.RateLimitRPS, "RATE_LIMIT_RPS", 5),
			Burst:   getIntConfigValue(f.RateBurst, "RATE_LIMIT_BURST", 20),
		},
	}

	durations := []struct {
		flagValue, envKey, def, name string
		dst                          *time.Duration
	}{
		{f.FetchTimeout, "DATASET_FETCH_TIMEOUT", "30s", "fetch timeout", &cfg.Dataset.FetchTimeout},
		{f.ReadTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout", &cfg.Server.ReadTimeout},
		{f.WriteTimeout, "SERVER_WRITE_TIMEOUT", "60s", "write timeout", &cfg.Server.WriteTimeout},
		{f.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDatasetPath(); err != nil {
		return nil, fmt.Errorf("invalid dataset path: %w", err)
	}

	if cfg.Dataset.ViewsFile != "" {
		expanded, err := expandPath(cfg.Dataset.ViewsFile, "")
		if err != nil {
			return nil, fmt.Errorf("invalid views file: %w", err)
		}
		cfg.Dataset.ViewsFile = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Dataset.Path == "" {
		return errors.New("DATASET_PATH is required")
	}

	if c.Dataset.FetchTimeout <= 0 {
		return errors.New("dataset fetch timeout must be positive")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("invalid rate limit: rps=%v burst=%d", c.RateLimit.RPS, c.RateLimit.Burst)
	}

	return nil
}

// IsRemote reports whether the dataset is fetched over HTTP.
func (d DatasetConfig) IsRemote() bool {
	return strings.HasPrefix(d.Path, "http://") || strings.HasPrefix(d.Path, "https://")
}

// expandDatasetPath makes local dataset paths absolute. URLs and sqlite
// locations are left alone.
func (c *Config) expandDatasetPath() error {
	if c.Dataset.Path == "" || c.Dataset.IsRemote() || strings.HasPrefix(c.Dataset.Path, "sqlite://") {
		return nil
	}

	expanded, err := expandPath(c.Dataset.Path, "")
	if err != nil {
		return err
	}
	c.Dataset.Path = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
