// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	CatalogHandler *handler.CatalogHandler
	OrderHandler   *handler.OrderHandler
	DeviceHandler  *handler.DeviceHandler
	AdminHandler   *handler.AdminHandler
	ReportHandler  *handler.ReportHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{RouterParams: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.AuthHandler.Register)
		authGroup.POST("/login", r.AuthHandler.Login)
		authGroup.POST("/admin/login", r.AuthHandler.AdminLogin)
		authGroup.POST("/refresh", r.AuthHandler.RefreshToken)
		authGroup.POST("/logout", r.AuthHandler.Logout)
		authGroup.POST("/logout/all", r.AuthHandler.LogoutAllDevices, r.AuthMiddleware.Authenticate)
	}

	apiV1 := e.Group("/api/v1")

	// Public catalog
	apiV1.GET("/products", r.CatalogHandler.ListProducts)
	apiV1.GET("/products/:id", r.CatalogHandler.GetProduct)
	apiV1.GET("/categories", r.CatalogHandler.ListCategories)

	authed := apiV1.Group("", r.AuthMiddleware.Authenticate)

	authed.GET("/profile", r.ProfileHandler.GetProfile)
	authed.PUT("/profile", r.ProfileHandler.UpdateProfile)

	ordersGroup := authed.Group("/orders")
	{
		ordersGroup.POST("", r.OrderHandler.PlaceOrder)
		ordersGroup.GET("", r.OrderHandler.ListOrders)
		ordersGroup.GET("/:id", r.OrderHandler.GetOrder)
		ordersGroup.PUT("/:id/cancel", r.OrderHandler.CancelOrder)
		ordersGroup.GET("/:id/qr", r.OrderHandler.ReceiptQR)
	}

	devicesGroup := authed.Group("/devices")
	{
		devicesGroup.POST("", r.DeviceHandler.RegisterDevice)
		devicesGroup.GET("", r.DeviceHandler.GetUserDevices)
		devicesGroup.PUT("/:id/token", r.DeviceHandler.UpdateFCMToken)
		devicesGroup.DELETE("/:id", r.DeviceHandler.DeactivateDevice)
	}

	r.registerAdminRoutes(authed.Group("/admin", r.AuthMiddleware.RequireRole(entity.RoleAdmin)))
}

func (r *router) registerAdminRoutes(admin *echo.Group) {
	categories := admin.Group("/categories")
	{
		categories.GET("", r.AdminHandler.ListCategories)
		categories.POST("", r.AdminHandler.CreateCategory)
		categories.PUT("/:id", r.AdminHandler.UpdateCategory)
		categories.DELETE("/:id", r.AdminHandler.DeleteCategory)
	}

	products := admin.Group("/products")
	{
		products.GET("", r.AdminHandler.ListProducts)
		products.POST("", r.AdminHandler.CreateProduct)
		products.PUT("/:id", r.AdminHandler.UpdateProduct)
		products.DELETE("/:id", r.AdminHandler.DeleteProduct)
	}

	users := admin.Group("/users")
	{
		users.GET("", r.AdminHandler.ListUsers)
		users.GET("/stats", r.AdminHandler.UserStats)
		users.GET("/:id", r.AdminHandler.GetUser)
		users.PUT("/:id", r.AdminHandler.UpdateUser)
		users.DELETE("/:id", r.AdminHandler.DeactivateUser)
	}

	orders := admin.Group("/orders")
	{
		orders.PUT("/:id/status", r.OrderHandler.UpdateOrderStatus)
		orders.PUT("/:id/payment", r.OrderHandler.UpdatePaymentStatus)
	}

	reports := admin.Group("/reports")
	{
		reports.GET("/sales-by-category", r.ReportHandler.SalesByCategory)
		reports.GET("/top-selling-products", r.ReportHandler.TopSellingProducts)
		reports.GET("/worst-selling-products", r.ReportHandler.WorstSellingProducts)
	}
}
