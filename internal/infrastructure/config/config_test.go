package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CAFE_APP_NAME",
	"CAFE_APP_ENV",
	"CAFE_APP_PORT",
	"CAFE_DATABASE_HOST",
	"CAFE_DATABASE_PORT",
	"CAFE_DATABASE_USER",
	"CAFE_DATABASE_PASSWORD",
	"CAFE_DATABASE_DBNAME",
	"CAFE_DATABASE_SSLMODE",
	"CAFE_DATABASE_MAX_OPEN_CONNS",
	"CAFE_DATABASE_MAX_IDLE_CONNS",
	"CAFE_JWT_SECRET",
	"CAFE_REDIS_HOST",
	"CAFE_AUDIT_PERSIST_ENABLED",
	"CAFE_AUDIT_PUBLISH_ENABLED",
	"CAFE_KAFKA_BROKERS",
	"CAFE_TELEMETRY_SAMPLING_RATIO",
	"CAFE_TELEMETRY_DB_LOG_FULL_SQL",
}

// clearConfigEnv unsets every key for the duration of the test
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearConfigEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "cafeops-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "cafeops", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 10*time.Minute, cfg.Redis.CacheTTL)
		assert.False(t, cfg.Redis.Enabled())
		assert.True(t, cfg.Audit.PersistEnabled)
		assert.False(t, cfg.Audit.PublishEnabled)
		assert.Equal(t, "cafeops.audit", cfg.Kafka.AuditTopic)
	})

	t.Run("loads values from environment variables with CAFE prefix", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CAFE_APP_NAME", "test-app")
		t.Setenv("CAFE_APP_ENV", "testing")
		t.Setenv("CAFE_APP_PORT", "9000")
		t.Setenv("CAFE_DATABASE_HOST", "testdb.local")
		t.Setenv("CAFE_DATABASE_PORT", "5433")
		t.Setenv("CAFE_DATABASE_USER", "testuser")
		t.Setenv("CAFE_DATABASE_PASSWORD", "testpass")
		t.Setenv("CAFE_DATABASE_DBNAME", "testdb")
		t.Setenv("CAFE_DATABASE_SSLMODE", "require")
		t.Setenv("CAFE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("CAFE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("CAFE_REDIS_HOST", "cache.local")
		t.Setenv("CAFE_AUDIT_PERSIST_ENABLED", "false")

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
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.False(t, cfg.Audit.PersistEnabled)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CAFE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("CAFE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CAFE_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CAFE_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CAFE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("audit publishing requires brokers", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CAFE_AUDIT_PUBLISH_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kafka.brokers")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("CAFE_APP_ENV", "production")
		t.Setenv("CAFE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("CAFE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("CAFE_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearConfigEnv(t)
		setValidProductionBase(t)
		os.Unsetenv("CAFE_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearConfigEnv(t)
		setValidProductionBase(t)
		t.Setenv("CAFE_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearConfigEnv(t)
		setValidProductionBase(t)
		os.Unsetenv("CAFE_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearConfigEnv(t)
		setValidProductionBase(t)
		t.Setenv("CAFE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects full SQL logging in production", func(t *testing.T) {
		clearConfigEnv(t)
		setValidProductionBase(t)
		t.Setenv("CAFE_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearConfigEnv(t)
		setValidProductionBase(t)

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

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
