package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"REVIEWHUB_APP_NAME":                os.Getenv("REVIEWHUB_APP_NAME"),
		"REVIEWHUB_APP_ENV":                 os.Getenv("REVIEWHUB_APP_ENV"),
		"REVIEWHUB_APP_PORT":                os.Getenv("REVIEWHUB_APP_PORT"),
		"REVIEWHUB_DATABASE_HOST":           os.Getenv("REVIEWHUB_DATABASE_HOST"),
		"REVIEWHUB_DATABASE_PORT":           os.Getenv("REVIEWHUB_DATABASE_PORT"),
		"REVIEWHUB_DATABASE_USER":           os.Getenv("REVIEWHUB_DATABASE_USER"),
		"REVIEWHUB_DATABASE_PASSWORD":       os.Getenv("REVIEWHUB_DATABASE_PASSWORD"),
		"REVIEWHUB_DATABASE_DBNAME":         os.Getenv("REVIEWHUB_DATABASE_DBNAME"),
		"REVIEWHUB_DATABASE_SSLMODE":        os.Getenv("REVIEWHUB_DATABASE_SSLMODE"),
		"REVIEWHUB_DATABASE_MAX_OPEN_CONNS": os.Getenv("REVIEWHUB_DATABASE_MAX_OPEN_CONNS"),
		"REVIEWHUB_DATABASE_MAX_IDLE_CONNS": os.Getenv("REVIEWHUB_DATABASE_MAX_IDLE_CONNS"),
		"REVIEWHUB_SHOPIFY_API_KEY":         os.Getenv("REVIEWHUB_SHOPIFY_API_KEY"),
		"REVIEWHUB_SHOPIFY_API_SECRET":      os.Getenv("REVIEWHUB_SHOPIFY_API_SECRET"),
		"APP_ENV":                           os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "reviewhub-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "reviewhub", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 10, cfg.Automation.BatchSize)
		assert.Equal(t, 61406, cfg.DevPort.Default)
		assert.False(t, cfg.Storage.Enabled)
		assert.Equal(t, "us-east-1", cfg.Storage.Region)
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
	})

	t.Run("loads values from environment variables with REVIEWHUB prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_APP_NAME", "test-app")
		os.Setenv("REVIEWHUB_APP_ENV", "testing")
		os.Setenv("REVIEWHUB_APP_PORT", "9000")
		os.Setenv("REVIEWHUB_DATABASE_HOST", "testdb.local")
		os.Setenv("REVIEWHUB_DATABASE_PORT", "5433")
		os.Setenv("REVIEWHUB_DATABASE_USER", "testuser")
		os.Setenv("REVIEWHUB_DATABASE_PASSWORD", "testpass")
		os.Setenv("REVIEWHUB_DATABASE_DBNAME", "testdb")
		os.Setenv("REVIEWHUB_DATABASE_SSLMODE", "require")
		os.Setenv("REVIEWHUB_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("REVIEWHUB_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("REVIEWHUB_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"REVIEWHUB_APP_ENV":            os.Getenv("REVIEWHUB_APP_ENV"),
		"REVIEWHUB_SHOPIFY_API_KEY":    os.Getenv("REVIEWHUB_SHOPIFY_API_KEY"),
		"REVIEWHUB_SHOPIFY_API_SECRET": os.Getenv("REVIEWHUB_SHOPIFY_API_SECRET"),
		"REVIEWHUB_DATABASE_PASSWORD":  os.Getenv("REVIEWHUB_DATABASE_PASSWORD"),
		"REVIEWHUB_DATABASE_SSLMODE":   os.Getenv("REVIEWHUB_DATABASE_SSLMODE"),
		"REVIEWHUB_DEV_PORT_ENABLED":   os.Getenv("REVIEWHUB_DEV_PORT_ENABLED"),
		"APP_ENV":                      os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("REVIEWHUB_APP_ENV", "production")
		os.Setenv("REVIEWHUB_SHOPIFY_API_KEY", "abc123def456")
		os.Setenv("REVIEWHUB_SHOPIFY_API_SECRET", "shpss_secure_app_secret_value")
		os.Setenv("REVIEWHUB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("REVIEWHUB_DATABASE_SSLMODE", "require")
	}

	t.Run("requires shopify.api_secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_APP_ENV", "production")
		os.Setenv("REVIEWHUB_SHOPIFY_API_KEY", "abc123def456")
		os.Setenv("REVIEWHUB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("REVIEWHUB_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shopify.api_secret is required in production")
	})

	t.Run("requires shopify.api_key in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_APP_ENV", "production")
		os.Setenv("REVIEWHUB_SHOPIFY_API_SECRET", "shpss_secure_app_secret_value")
		os.Setenv("REVIEWHUB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("REVIEWHUB_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shopify.api_key is required in production")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_APP_ENV", "production")
		os.Setenv("REVIEWHUB_SHOPIFY_API_KEY", "abc123def456")
		os.Setenv("REVIEWHUB_SHOPIFY_API_SECRET", "shpss_secure_app_secret_value")
		os.Setenv("REVIEWHUB_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("REVIEWHUB_APP_ENV", "production")
		os.Setenv("REVIEWHUB_SHOPIFY_API_KEY", "abc123def456")
		os.Setenv("REVIEWHUB_SHOPIFY_API_SECRET", "shpss_secure_app_secret_value")
		os.Setenv("REVIEWHUB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("REVIEWHUB_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects dev port endpoint in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("REVIEWHUB_DEV_PORT_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dev_port.enabled must be false in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
