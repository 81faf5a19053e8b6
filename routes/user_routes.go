package routes

import (
	"github.com/Govind-619/ScentSphere/controllers"
	"github.com/Govind-619/ScentSphere/middleware"
	"github.com/Govind-619/ScentSphere/services"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes the public catalog and customer routes
func initUserRoutes(router *gin.RouterGroup, h *controllers.Handler, secret string, profiles *services.ProfileService) {
	// Public catalog
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/brands", h.ListBrands)
	router.GET("/categories", h.ListCategories)

	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware(secret, profiles))
	{
		user.GET("/profile", h.GetProfile)

		// Cart
		cart := user.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.POST("", h.AddToCart)
			cart.PUT("/:item_id", h.UpdateCartItem)
			cart.DELETE("/:item_id", h.RemoveFromCart)
			cart.DELETE("", h.ClearCart)
		}

		user.POST("/promo/validate", h.ValidatePromo)

		// Orders
		orders := user.Group("/orders")
		{
			orders.POST("", h.CreateOrder)
			orders.POST("/quote", h.QuoteOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.POST("/:id/cancel", h.CancelOrder)
			orders.GET("/:id/invoice", h.DownloadInvoice)
			orders.POST("/:id/payment", h.InitiatePayment)
			orders.POST("/:id/payment/verify", h.VerifyPayment)
		}

		// Wallet
		wallet := user.Group("/wallet")
		{
			wallet.GET("", h.GetWalletBalance)
			wallet.GET("/transactions", h.GetWalletTransactions)
			wallet.POST("/topup", h.SubmitTopUp)
		}

		// Gift cards
		gifts := user.Group("/gift-cards")
		{
			gifts.GET("", h.ListGiftCards)
			gifts.POST("", h.PurchaseGiftCard)
			gifts.POST("/redeem", h.RedeemGiftCard)
		}

		// Favorites
		user.GET("/favorites", h.ListFavorites)
		user.POST("/favorites/:product_id", h.ToggleFavorite)
	}
}
