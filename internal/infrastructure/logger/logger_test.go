package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	l, err := New(FromAppConfig(config.LogConfig{Level: "debug", Format: "json", Output: "stderr"}))
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestContext_Actor(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	actor := shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleAdmin}

	ctx, _ := WithActor(context.Background(), zap.New(core), actor)
	L(ctx).Info("Item adjusted")

	got, ok := GetActor(ctx)
	require.True(t, ok)
	assert.Equal(t, actor, got)

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, actor.TenantID.String(), fields["business_id"])
	assert.Equal(t, "admin", fields["role"])
}

func TestContext_RequestID(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("logs request with actor set downstream", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		actor := shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleOwner}

		router := gin.New()
		router.Use(func(c *gin.Context) { c.Set("request_id", "req-42"); c.Next() })
		router.Use(GinMiddleware(zap.New(core)))
		router.Use(func(c *gin.Context) {
			ctx, _ := WithActor(c.Request.Context(), GetGinLogger(c), actor)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
		router.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/items?page=2", nil)
		router.ServeHTTP(w, req)

		logs := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-42", fields["request_id"])
		assert.Equal(t, "page=2", fields["query"])
		assert.Equal(t, actor.TenantID.String(), fields["business_id"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/missing", nil)
		router.ServeHTTP(w, req)

		logs := recorded.FilterMessage("HTTP Request").All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGormLogger(t *testing.T) {
	t.Run("LogMode returns a copy", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
		other, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
		require.True(t, ok)
		assert.Equal(t, gormlogger.Info, gl.logLevel)
		assert.Equal(t, gormlogger.Warn, other.logLevel)
	})

	t.Run("record not found is not logged", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT * FROM inventory_items", 0
		}, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("errors carry the business but not the statement text", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Error)
		actor := shared.Actor{TenantID: uuid.New()}
		ctx, _ := WithActor(context.Background(), zap.NewNop(), actor)

		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return `UPDATE "inventory_items" SET current_stock = 1 WHERE id = 'x'`, 0
		}, errors.New("deadlock detected"))

		logs := recorded.FilterMessage("SQL error").All()
		require.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, actor.TenantID.String(), fields["business_id"])
		assert.Equal(t, "UPDATE inventory_items", fields["statement"])
		assert.NotContains(t, fields, "sql")
	})

	t.Run("full SQL when enabled", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info, WithFullSQL(true))

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT * FROM suppliers WHERE business_id = 'b'", 2
		}, nil)

		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "SELECT * FROM suppliers WHERE business_id = 'b'", fields["sql"])
		assert.Equal(t, "SELECT suppliers", fields["statement"])
	})

	t.Run("unique violations are demoted", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "INSERT INTO businesses (id, name) VALUES ('a', 'b')", 0
		}, errors.New("UNIQUE constraint failed: businesses.name"))
		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "INSERT INTO product_modifiers (id) VALUES ('a')", 0
		}, &pgconn.PgError{Code: "23505"})

		assert.Zero(t, recorded.FilterLevelExact(zapcore.ErrorLevel).Len())
		assert.Equal(t, 2, recorded.FilterMessage("Unique constraint hit").Len())
	})

	t.Run("check violations stay errors", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "UPDATE products SET sale_price = 1", 0
		}, &pgconn.PgError{Code: "23514"})

		assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
	})

	t.Run("slow queries warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)
		gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
			return `SELECT * FROM "inventory_items" WHERE id IN ('a') ORDER BY id FOR UPDATE`, 1
		}, nil)

		require.Len(t, recorded.All(), 2)
		assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
		locks := recorded.FilterMessage("Slow row lock").All()
		require.Len(t, locks, 1)
		assert.Equal(t, zapcore.WarnLevel, locks[0].Level)
		assert.Equal(t, "SELECT inventory_items", locks[0].ContextMap()["statement"])
	})

	t.Run("statement summary", func(t *testing.T) {
		assert.Equal(t, "INSERT inventory_movements", statementSummary(`INSERT INTO "inventory_movements" ("id") VALUES ($1)`))
		assert.Equal(t, "DELETE modifier_assignments", statementSummary("delete from modifier_assignments where id = 1"))
		assert.Equal(t, "SELECT", statementSummary("SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"))
		assert.Equal(t, "BEGIN", statementSummary("begin"))
		assert.Equal(t, "", statementSummary("  "))
	})

	t.Run("MapGormLogLevel", func(t *testing.T) {
		assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
		assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
		assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
	})
}
