package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	businessapp "github.com/cafeops/backend/internal/application/business"
	inventoryapp "github.com/cafeops/backend/internal/application/inventory"
	partnerapp "github.com/cafeops/backend/internal/application/partner"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/interfaces/http/dto"
	"github.com/cafeops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var testActor = shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleAdmin}

// withActor simulates the auth middleware
func withActor(actor shared.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorKey, actor)
		c.Next()
	}
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type fakeLedger struct {
	adjustReq inventoryapp.AdjustStockRequest
	err       error
}

func (f *fakeLedger) AdjustStock(_ context.Context, _ shared.Actor, itemID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.StockChangeResponse, error) {
	f.adjustReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &inventoryapp.StockChangeResponse{
		Item:     inventoryapp.ItemResponse{ID: itemID, QuantityInStock: req.Quantity},
		Movement: inventoryapp.MovementResponse{InventoryItemID: itemID, MovementType: "manual_in", Quantity: req.Quantity},
	}, nil
}

func (f *fakeLedger) RecordMovement(context.Context, shared.Actor, uuid.UUID, inventoryapp.RecordMovementRequest) (*inventoryapp.StockChangeResponse, error) {
	return nil, f.err
}

type fakeItems struct {
	ItemUseCases
	filter inventoryapp.ItemListFilter
}

func (f *fakeItems) List(_ context.Context, actor shared.Actor, filter inventoryapp.ItemListFilter) ([]inventoryapp.ItemResponse, int64, error) {
	f.filter = filter
	return []inventoryapp.ItemResponse{{TenantID: actor.TenantID, Name: "Milk"}}, 41, nil
}

func (f *fakeItems) GetByID(context.Context, shared.Actor, uuid.UUID) (*inventoryapp.ItemResponse, error) {
	return nil, errors.New("connection reset by peer")
}

func TestInventoryHandler_AdjustStock(t *testing.T) {
	ledger := &fakeLedger{}
	h := NewInventoryHandler(nil, ledger, nil)
	engine := gin.New()
	engine.POST("/items/:id/adjust", withActor(testActor), h.AdjustStock)
	itemID := uuid.New()

	t.Run("posts the movement", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/items/"+itemID.String()+"/adjust", `{"quantity":"-2.5","reason":"Spilled"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, ledger.adjustReq.Quantity.Equal(decimal.RequireFromString("-2.5")))
		assert.Equal(t, "Spilled", ledger.adjustReq.Reason)
		assert.True(t, decode(t, w).Success)
	})

	t.Run("missing reason is a validation error", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/items/"+itemID.String()+"/adjust", `{"quantity":"1"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "reason", resp.Error.Fields[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/items/"+itemID.String()+"/adjust", `{"quantity":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decode(t, w).Error.Code)
	})

	t.Run("invalid item id", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/items/not-a-uuid/adjust", `{"quantity":"1","reason":"x"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w).Error.Code)
	})

	t.Run("insufficient stock carries details", func(t *testing.T) {
		ledger.err = shared.ErrInsufficientStock.
			WithDetail("available", "2").
			WithDetail("requested", "5")
		defer func() { ledger.err = nil }()

		w := serve(engine, http.MethodPost, "/items/"+itemID.String()+"/adjust", `{"quantity":"-5","reason":"Waste"}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
		assert.Equal(t, "2", resp.Error.Details["available"])
	})
}

func TestInventoryHandler_ListItemsDefaults(t *testing.T) {
	items := &fakeItems{}
	h := NewInventoryHandler(items, nil, nil)
	engine := gin.New()
	engine.GET("/items", withActor(testActor), h.ListItems)

	w := serve(engine, http.MethodGet, "/items?search=milk", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, items.filter.Page)
	assert.Equal(t, dto.DefaultPageSize, items.filter.PageSize)
	assert.Equal(t, "milk", items.filter.Search)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	w = serve(engine, http.MethodGet, "/items?page_size=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_UnexpectedError(t *testing.T) {
	h := NewInventoryHandler(&fakeItems{}, nil, nil)
	engine := gin.New()
	engine.GET("/items/:id", withActor(testActor), h.GetItem)

	w := serve(engine, http.MethodGet, "/items/"+uuid.NewString(), "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestHandler_RequiresActor(t *testing.T) {
	h := NewInventoryHandler(&fakeItems{}, nil, nil)
	engine := gin.New()
	engine.GET("/items", h.ListItems)

	w := serve(engine, http.MethodGet, "/items", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decode(t, w).Error.Code)
}

type fakeTransfers struct {
	TransferUseCases
	calls []string
}

func (f *fakeTransfers) Accept(_ context.Context, _ shared.Actor, id uuid.UUID) (*inventoryapp.TransferResponse, error) {
	f.calls = append(f.calls, "accept")
	return &inventoryapp.TransferResponse{ID: id, Status: "completed"}, nil
}

func (f *fakeTransfers) Reject(context.Context, shared.Actor, uuid.UUID) (*inventoryapp.TransferResponse, error) {
	f.calls = append(f.calls, "reject")
	return nil, shared.NewInvalidStateError("Only pending transfers can be rejected")
}

func (f *fakeTransfers) Create(context.Context, shared.Actor, inventoryapp.CreateTransferRequest) (*inventoryapp.TransferResponse, error) {
	f.calls = append(f.calls, "create")
	return nil, shared.ErrRelationshipRequired
}

func TestTransferHandler(t *testing.T) {
	transfers := &fakeTransfers{}
	h := NewTransferHandler(transfers)
	engine := gin.New()
	engine.Use(withActor(testActor))
	engine.POST("/transfers", h.Create)
	engine.POST("/transfers/:id/accept", h.Accept)
	engine.POST("/transfers/:id/reject", h.Reject)
	id := uuid.New()

	w := serve(engine, http.MethodPost, "/transfers/"+id.String()+"/accept", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)

	w = serve(engine, http.MethodPost, "/transfers/"+id.String()+"/reject", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decode(t, w).Error.Code)

	body := `{"to_business_id":"` + uuid.NewString() + `","items":[{"inventory_item_id":"` + uuid.NewString() + `","quantity":"1"}]}`
	w = serve(engine, http.MethodPost, "/transfers", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeRelationshipRequired, decode(t, w).Error.Code)

	w = serve(engine, http.MethodPost, "/transfers", `{"to_business_id":"`+uuid.NewString()+`","items":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, []string{"accept", "reject", "create"}, transfers.calls)
}

type fakeDirectory struct{}

func (fakeDirectory) Get(_ context.Context, id uuid.UUID) (*businessapp.BusinessResponse, error) {
	if id == testActor.TenantID {
		return &businessapp.BusinessResponse{ID: id, Name: "Corner Cafe", IsActive: true}, nil
	}
	return nil, shared.NewNotFoundError("Business")
}

func (fakeDirectory) List(context.Context) ([]businessapp.BusinessResponse, error) {
	return []businessapp.BusinessResponse{
		{ID: testActor.TenantID, Name: "Corner Cafe", IsActive: true},
		{ID: uuid.New(), Name: "Harbor Bistro"},
	}, nil
}

func TestBusinessHandler_Lookup(t *testing.T) {
	h := NewBusinessHandler(nil, fakeDirectory{})
	engine := gin.New()
	engine.Use(withActor(testActor))
	engine.GET("/businesses", h.List)
	engine.GET("/businesses/me", h.Current)
	engine.GET("/businesses/:id", h.Get)

	w := serve(engine, http.MethodGet, "/businesses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Harbor Bistro")

	w = serve(engine, http.MethodGet, "/businesses/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Corner Cafe")

	w = serve(engine, http.MethodGet, "/businesses/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decode(t, w).Error.Code)
}

type fakeAuditReader struct {
	filter shared.Filter
}

func (f *fakeAuditReader) FindForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]shared.AuditEntry, error) {
	f.filter = filter
	return []shared.AuditEntry{{TenantID: tenantID, Message: "Ana adjusted Milk by -2", OccurredAt: time.Now()}}, nil
}

func (f *fakeAuditReader) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return 1, nil
}

func TestAuditLogHandler(t *testing.T) {
	reader := &fakeAuditReader{}
	h := NewAuditLogHandler(reader)

	t.Run("filters by user", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/audit-logs", withActor(testActor), h.List)
		userID := uuid.New()

		w := serve(engine, http.MethodGet, "/audit-logs?user_id="+userID.String()+"&page=2", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, reader.filter.Filters["user_id"])
		assert.Equal(t, 2, reader.filter.Page)
		assert.Contains(t, w.Body.String(), "Ana adjusted Milk by -2")
	})

	t.Run("waiters are forbidden", func(t *testing.T) {
		waiter := shared.Actor{TenantID: uuid.New(), UserID: uuid.New(), Role: shared.RoleWaiter}
		engine := gin.New()
		engine.GET("/audit-logs", withActor(waiter), h.List)

		w := serve(engine, http.MethodGet, "/audit-logs", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSystemHandler_Ready(t *testing.T) {
	h := NewSystemHandler("cafeops", "test", map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})
	engine := gin.New()
	engine.GET("/health/ready", h.Ready)
	engine.GET("/system/info", h.Info)

	w := serve(engine, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])

	w = serve(engine, http.MethodGet, "/system/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"cafeops"`)
}

type fakeSuppliers struct {
	SupplierUseCases
	deleted []uuid.UUID
	err     error
}

func (f *fakeSuppliers) DeletePermanently(_ context.Context, _ shared.Actor, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSupplierHandler_DeletePermanently(t *testing.T) {
	suppliers := &fakeSuppliers{}
	engine := gin.New()
	engine.Use(withActor(testActor))
	engine.DELETE("/suppliers/:id/permanent", NewSupplierHandler(suppliers).DeletePermanently)

	id := uuid.New()
	w := serve(engine, http.MethodDelete, "/suppliers/"+id.String()+"/permanent", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{id}, suppliers.deleted)

	w = serve(engine, http.MethodDelete, "/suppliers/not-a-uuid/permanent", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	suppliers.err = shared.NewInvalidStateError("Supplier Dairy Co is referenced by 2 inventory items; deactivate it instead")
	w = serve(engine, http.MethodDelete, "/suppliers/"+id.String()+"/permanent", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decode(t, w).Error.Code)
}

var _ SupplierUseCases = (*partnerapp.SupplierService)(nil)
