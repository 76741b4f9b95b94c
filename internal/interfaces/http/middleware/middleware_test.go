package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/auth"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/cafeops/backend/internal/infrastructure/logger"
	"github.com/cafeops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingRevocations struct{}

type revokedUsers map[string]bool

func (r revokedUsers) IsRevoked(_ context.Context, claims *auth.Claims) (bool, error) {
	return r[claims.UserID], nil
}

func (failingRevocations) IsRevoked(context.Context, *auth.Claims) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func newAuthRouter(cfg AuthConfig, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Auth(cfg))
	handlers := append(extra, func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		logged, _ := logger.GetActor(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"business_id": actor.TenantID.String(),
			"role":        actor.Role.String(),
			"logged":      logged.TenantID.String(),
		})
	})
	router.GET("/api/v1/items", handlers...)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func bearer(t *testing.T, svc *auth.JWTService, role shared.Role) (string, uuid.UUID, uuid.UUID) {
	t.Helper()
	tenantID, userID := uuid.New(), uuid.New()
	token, err := svc.Issue(auth.IssueInput{TenantID: tenantID, UserID: userID, Role: role})
	require.NoError(t, err)
	return "Bearer " + token, tenantID, userID
}

func TestAuth(t *testing.T) {
	svc := auth.NewJWTService(config.JWTConfig{Secret: "middleware-test-secret", Issuer: "cafeops"})

	t.Run("valid token sets the actor", func(t *testing.T) {
		router := newAuthRouter(AuthConfig{JWTService: svc})
		header, tenantID, _ := bearer(t, svc, shared.RoleAdmin)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set(AuthHeaderKey, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tenantID.String(), body["business_id"])
		assert.Equal(t, tenantID.String(), body["logged"])
		assert.Equal(t, "admin", body["role"])
	})

	t.Run("missing header", func(t *testing.T) {
		router := newAuthRouter(AuthConfig{JWTService: svc})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeTokenInvalid, info.Code)
		assert.NotEmpty(t, info.RequestID)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret", Issuer: "cafeops"})
		header, _, _ := bearer(t, other, shared.RoleOwner)
		router := newAuthRouter(AuthConfig{JWTService: svc})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set(AuthHeaderKey, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		header, _, _ := bearer(t, svc, shared.Role("chef"))
		router := newAuthRouter(AuthConfig{JWTService: svc})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set(AuthHeaderKey, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked user", func(t *testing.T) {
		header, _, userID := bearer(t, svc, shared.RoleOwner)
		router := newAuthRouter(AuthConfig{JWTService: svc, Revocations: revokedUsers{userID.String(): true}})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set(AuthHeaderKey, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
	})

	t.Run("revocation store failure fails open", func(t *testing.T) {
		header, _, _ := bearer(t, svc, shared.RoleOwner)
		router := newAuthRouter(AuthConfig{JWTService: svc, Revocations: failingRevocations{}})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set(AuthHeaderKey, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("skip paths need no token", func(t *testing.T) {
		router := newAuthRouter(AuthConfig{JWTService: svc, SkipPaths: []string{"/health"}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RequireRoles rejects lower roles", func(t *testing.T) {
		router := newAuthRouter(AuthConfig{JWTService: svc},
			RequireRoles("manage inventory", shared.RoleOwner, shared.RoleAdmin))
		header, _, _ := bearer(t, svc, shared.RoleCook)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
		req.Header.Set(AuthHeaderKey, header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeForbidden, info.Code)
		assert.Contains(t, info.Message, "OWNER, ADMIN")
	})
}

func TestCORS(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins: []string{"https://app.cafeops.test"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Authorization"},
	}
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://app.cafeops.test")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://app.cafeops.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://evil.test")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://app.cafeops.test")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDKey, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(RequestIDKey))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDKey, strings.Repeat("a", MaxRequestIDLength+1))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestBodyLimit(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(100))
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader([]byte("small")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(bytes.Repeat([]byte("x"), 200)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeError(t, w).Code)
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	type adjustBody struct {
		Reason    string          `json:"reason" binding:"required"`
		UnitPrice decimal.Decimal `json:"unit_price" binding:"gte=0"`
	}

	router := gin.New()
	router.POST("/x", func(c *gin.Context) {
		var body adjustBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ValidationDetails(err))
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"unit_price":"-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var details []dto.ValidationDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["reason"])
	assert.Equal(t, "Must be greater than or equal to 0", fields["unit_price"])

	assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	router := gin.New()
	router.Use(HTTPMetrics(provider.Meter("test"), nil))
	router.GET("/api/v1/items/:id", func(c *gin.Context) {
		c.Set(ErrorCodeKey, dto.ErrCodeNotFound)
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/"+uuid.NewString(), nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "cafeops_http_server_request_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			dp := sum.DataPoints[0]
			assert.Equal(t, int64(1), dp.Value)
			route, _ := dp.Attributes.Value(attribute.Key("http.route"))
			assert.Equal(t, "/api/v1/items/:id", route.AsString())
			code, _ := dp.Attributes.Value(attribute.Key("error.code"))
			assert.Equal(t, dto.ErrCodeNotFound, code.AsString())
			found = true
		}
	}
	assert.True(t, found)
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil, nil))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
