package routes

import (
	"github.com/Govind-619/ScentSphere/controllers"
	"github.com/Govind-619/ScentSphere/metrics"
	"github.com/Govind-619/ScentSphere/middleware"
	"github.com/Govind-619/ScentSphere/services"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, h *controllers.Handler, secret string, profiles *services.ProfileService) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(secret, profiles), middleware.AdminMiddleware())
	{
		// Manual top-up review queue
		admin.GET("/transactions", h.ListTopUps)
		admin.GET("/transactions/export", h.ExportTopUps)
		admin.POST("/transactions/:id/process", h.ProcessTransaction)

		// Promo codes
		admin.GET("/promos", h.ListPromos)
		admin.POST("/promos", h.CreatePromo)
		admin.PATCH("/promos/:id", h.SetPromoActive)

		// Orders
		admin.GET("/orders", h.AdminListOrders)
		admin.GET("/orders/:id", h.AdminGetOrder)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.POST("/orders/:id/payment/review", h.ReviewOrderPayment)

		// Prometheus scrape endpoint
		admin.GET("/metrics", metrics.Handler())
	}
}
