package router

import (
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/interfaces/http/handler"
	"github.com/cafeops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every API handler
type Handlers struct {
	Inventory *handler.InventoryHandler
	Transfers *handler.TransferHandler
	Business  *handler.BusinessHandler
	Suppliers *handler.SupplierHandler
	Products  *handler.ProductHandler
	Modifiers *handler.ModifierHandler
	AuditLogs *handler.AuditLogHandler
}

// DomainGroups returns the route groups of the versioned API
func DomainGroups(h Handlers) []RouteRegistrar {
	inventory := NewDomainGroup("inventory", "/inventory")
	items := inventory.Group("items", "/items")
	items.GET("", h.Inventory.ListItems).
		POST("", h.Inventory.CreateItem).
		GET("/low-stock", h.Inventory.ListLowStock).
		GET("/:id", h.Inventory.GetItem).
		PUT("/:id", h.Inventory.UpdateItem).
		DELETE("/:id", h.Inventory.DeactivateItem).
		POST("/:id/adjust", h.Inventory.AdjustStock).
		POST("/:id/movements", h.Inventory.RecordMovement).
		GET("/:id/movements", h.Inventory.ItemHistory)
	inventory.Group("movements", "/movements").
		GET("", h.Inventory.ListMovements).
		GET("/:id", h.Inventory.GetMovement).
		POST("/:id/revert", h.Inventory.RevertMovement)
	inventory.Group("transfers", "/transfers").
		GET("", h.Transfers.List).
		POST("", h.Transfers.Create).
		GET("/:id", h.Transfers.Get).
		POST("/:id/accept", h.Transfers.Accept).
		POST("/:id/reject", h.Transfers.Reject).
		POST("/:id/cancel", h.Transfers.Cancel)

	businesses := NewDomainGroup("businesses", "/businesses").
		GET("", h.Business.List).
		GET("/me", h.Business.Current).
		GET("/:id", h.Business.Get)

	ownerOnly := middleware.RequireRoles("manage business relationships", shared.RoleOwner)
	relationships := NewDomainGroup("relationships", "/relationships").
		GET("", h.Business.ListActive).
		GET("/pending", h.Business.ListPending).
		POST("", ownerOnly, h.Business.RequestRelationship).
		POST("/:id/accept", ownerOnly, h.Business.AcceptRelationship).
		POST("/:id/reject", ownerOnly, h.Business.RejectRelationship)

	suppliers := NewDomainGroup("suppliers", "/suppliers").
		GET("", h.Suppliers.List).
		POST("", h.Suppliers.Create).
		GET("/:id", h.Suppliers.Get).
		PUT("/:id", h.Suppliers.Update).
		DELETE("/:id", h.Suppliers.Deactivate).
		DELETE("/:id/permanent", middleware.RequireRoles("delete suppliers permanently", shared.RoleOwner), h.Suppliers.DeletePermanently)

	products := NewDomainGroup("products", "/products").
		GET("", h.Products.List).
		POST("", h.Products.Create).
		GET("/:id", h.Products.Get).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Deactivate).
		PUT("/:id/ingredients", h.Products.ReplaceIngredients).
		GET("/:id/modifiers", h.Products.ListModifiers).
		POST("/:id/modifiers", h.Products.AssignModifier).
		DELETE("/:id/modifiers/:modifier_id", h.Products.UnassignModifier)

	modifierGroups := NewDomainGroup("modifier-groups", "/modifier-groups").
		GET("", h.Modifiers.ListGroups).
		POST("", h.Modifiers.CreateGroup).
		GET("/:id", h.Modifiers.GetGroup).
		PUT("/:id", h.Modifiers.UpdateGroup).
		GET("/:id/modifiers", h.Modifiers.ListGroupModifiers)

	modifiers := NewDomainGroup("modifiers", "/modifiers").
		POST("", h.Modifiers.Create).
		GET("/:id", h.Modifiers.Get).
		PUT("/:id", h.Modifiers.Update)

	auditLogs := NewDomainGroup("audit-logs", "/audit-logs").
		Use(middleware.RequireRoles("read the audit log", shared.RoleOwner, shared.RoleAdmin)).
		GET("", h.AuditLogs.List)

	return []RouteRegistrar{
		inventory, businesses, relationships, suppliers,
		products, modifierGroups, modifiers, auditLogs,
	}
}

// RegisterSystemRoutes mounts the unauthenticated health and info endpoints
func RegisterSystemRoutes(engine *gin.Engine, h *handler.SystemHandler) {
	engine.GET("/health/live", h.Live)
	engine.GET("/health/ready", h.Ready)
	engine.GET("/system/info", h.Info)
}
