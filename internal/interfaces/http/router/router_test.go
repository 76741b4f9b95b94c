package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/interfaces/http/handler"
	"github.com/cafeops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	var calls []string
	r := NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		calls = append(calls, "api")
		c.Next()
	}))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group).Setup()
	engine.GET("/outside", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outside", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api"}, calls)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("methods, subgroups and group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("inventory", "/inventory")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "inventory")
			c.Next()
		})
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.Group("items", "/items").
			GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/inventory/items"},
			{http.MethodPost, "/api/v1/inventory/items"},
			{http.MethodPut, "/api/v1/inventory/items/1"},
			{http.MethodPatch, "/api/v1/inventory/items/1"},
			{http.MethodDelete, "/api/v1/inventory/items/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method+" "+tc.path)
			assert.Equal(t, tc.method, w.Body.String())
			assert.Equal(t, "inventory", w.Header().Get("X-Group"))
		}
	})
}

func newAPI(t *testing.T, actor *shared.Actor) *gin.Engine {
	t.Helper()
	engine := gin.New()
	handlers := Handlers{
		Inventory: handler.NewInventoryHandler(nil, nil, nil),
		Transfers: handler.NewTransferHandler(nil),
		Business:  handler.NewBusinessHandler(nil, nil),
		Suppliers: handler.NewSupplierHandler(nil),
		Products:  handler.NewProductHandler(nil, nil),
		Modifiers: handler.NewModifierHandler(nil),
		AuditLogs: handler.NewAuditLogHandler(nil),
	}
	r := NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorKey, *actor)
		}
		c.Next()
	}))
	r.Register(DomainGroups(handlers)...).Setup()
	RegisterSystemRoutes(engine, handler.NewSystemHandler("cafeops", "test", nil))
	return engine
}

func TestDomainGroups_Routes(t *testing.T) {
	engine := newAPI(t, nil)

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/v1/inventory/items",
		"GET /api/v1/inventory/items/low-stock",
		"POST /api/v1/inventory/items/:id/adjust",
		"POST /api/v1/inventory/items/:id/movements",
		"POST /api/v1/inventory/movements/:id/revert",
		"POST /api/v1/inventory/transfers",
		"POST /api/v1/inventory/transfers/:id/accept",
		"POST /api/v1/inventory/transfers/:id/reject",
		"POST /api/v1/inventory/transfers/:id/cancel",
		"GET /api/v1/businesses",
		"GET /api/v1/businesses/me",
		"POST /api/v1/relationships",
		"GET /api/v1/relationships/pending",
		"PUT /api/v1/products/:id/ingredients",
		"POST /api/v1/products/:id/modifiers",
		"DELETE /api/v1/products/:id/modifiers/:modifier_id",
		"GET /api/v1/modifier-groups/:id/modifiers",
		"PUT /api/v1/modifiers/:id",
		"GET /api/v1/suppliers",
		"DELETE /api/v1/suppliers/:id/permanent",
		"GET /api/v1/audit-logs",
		"GET /health/live",
		"GET /health/ready",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestDomainGroups_RoleGuards(t *testing.T) {
	t.Run("unauthenticated relationship request", func(t *testing.T) {
		engine := newAPI(t, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/relationships", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin cannot request relationships", func(t *testing.T) {
		actor := shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleAdmin}
		engine := newAPI(t, &actor)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/relationships", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin cannot delete suppliers permanently", func(t *testing.T) {
		actor := shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleAdmin}
		engine := newAPI(t, &actor)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/suppliers/"+uuid.NewString()+"/permanent", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cook cannot read the audit log", func(t *testing.T) {
		actor := shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleCook}
		engine := newAPI(t, &actor)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("health needs no actor", func(t *testing.T) {
		engine := newAPI(t, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})
}
