package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Dataset:   DatasetConfig{Path: "/data/corpus.csv", FetchTimeout: 30 * time.Second},
		RateLimit: RateLimitConfig{Enabled: true, RPS: 5, Burst: 20},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_DatasetAndRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Dataset.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "DATASET_PATH")

	cfg = validConfig()
	cfg.Dataset.FetchTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RateLimit.RPS = 0
	assert.Error(t, cfg.Validate())

	cfg.RateLimit.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATASET_PATH", "")
	t.Setenv("ENV", "")

	cfg, err := Load(Flags{
		DatasetPath: "https://example.org/corpus.csv",
		EnvFile:     filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "https://example.org/corpus.csv", cfg.Dataset.Path)
	assert.True(t, cfg.Dataset.IsRemote())
	assert.Equal(t, 30*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("DATASET_PATH", "/from/env.csv")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load(Flags{
		DatasetPath: "sqlite://corpus.db?table=texts",
		EnvFile:     filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "sqlite://corpus.db?table=texts", cfg.Dataset.Path, "sqlite locations are not expanded")
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_LogLevelPrecedence(t *testing.T) {
	load := func(f Flags) string {
		t.Helper()
		f.DatasetPath = "/data/corpus.csv"
		if f.EnvFile == "" {
			f.EnvFile = filepath.Join(t.TempDir(), "missing.env")
		}
		cfg, err := Load(f)
		require.NoError(t, err)
		return cfg.Logger.Level
	}

	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, "info", load(Flags{}))
	assert.Equal(t, "warn", load(Flags{DefaultLogLevel: "warn"}))

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, "debug", load(Flags{DefaultLogLevel: "warn"}))
	assert.Equal(t, "error", load(Flags{LogLevel: "error", DefaultLogLevel: "warn"}))

	t.Setenv("LOG_LEVEL", "")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=error\n"), 0o600))
	assert.Equal(t, "error", load(Flags{EnvFile: envFile, DefaultLogLevel: "warn"}))
}

func TestLoad_ExpandsLocalPaths(t *testing.T) {
	cfg, err := Load(Flags{
		DatasetPath: "data/corpus.csv",
		ViewsFile:   "views.yaml",
		EnvFile:     filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Dataset.Path))
	assert.True(t, filepath.IsAbs(cfg.Dataset.ViewsFile))
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load(Flags{
		DatasetPath:  "/data/corpus.csv",
		FetchTimeout: "soon",
		EnvFile:      filepath.Join(t.TempDir(), "missing.env"),
	})
	assert.ErrorContains(t, err, "fetch timeout")
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/corpus.csv", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "corpus.csv"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("/abs/./corpus.csv", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/corpus.csv", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TEST_ENV_KEY_UNSET", "default"))
}

func TestTypedConfigValues(t *testing.T) {
	assert.True(t, getBoolConfigValue("YES", "UNSET_KEY", false))
	assert.False(t, getBoolConfigValue("off", "UNSET_KEY", true))
	assert.True(t, getBoolConfigValue("", "UNSET_KEY", true))

	assert.Equal(t, 7, getIntConfigValue("7", "UNSET_KEY", 1))
	assert.Equal(t, 1, getIntConfigValue("seven", "UNSET_KEY", 1))

	assert.Equal(t, 2.5, getFloatConfigValue("2.5", "UNSET_KEY", 1))
	assert.Equal(t, 1.0, getFloatConfigValue("x", "UNSET_KEY", 1))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nMAHABBA_TEST_A=one\n  MAHABBA_TEST_B = \"two\"  \nMAHABBA_TEST_C=kept\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("MAHABBA_TEST_A", "")
	t.Setenv("MAHABBA_TEST_B", "")
	t.Setenv("MAHABBA_TEST_C", "original")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "one", os.Getenv("MAHABBA_TEST_A"))
	assert.Equal(t, "two", os.Getenv("MAHABBA_TEST_B"))
	assert.Equal(t, "original", os.Getenv("MAHABBA_TEST_C"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	assert.ErrorContains(t, loadEnvFile(path), "line 1")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/.env"))
}
