package routes

import (
	"net/http"

	"github.com/Govind-619/ScentSphere/controllers"
	"github.com/Govind-619/ScentSphere/metrics"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Options configures the router
type Options struct {
	JWTSecret     string
	SessionSecret string
	Secure        bool
	// AllowedOrigins may call the API with the session cookie
	AllowedOrigins []string
	// UploadDir is served at /uploads when proofs are kept on local disk
	UploadDir string
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(opts Options, svc controllers.Services) *gin.Engine {
	router := gin.New()
	router.Use(
		utils.RequestIDMiddleware(),
		utils.RecoveryMiddleware(),
		utils.LoggerMiddleware(),
		utils.CORSMiddleware(opts.AllowedOrigins),
		utils.SecurityHeadersMiddleware(),
		metrics.Middleware(),
	)

	// the session cookie holds the cart
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24 * 7,
		Path:     "/",
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("scentsphere", store))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	h := controllers.NewHandler(svc)
	api := router.Group("/v1")
	{
		initUserRoutes(api, h, opts.JWTSecret, svc.Profiles)
		initAdminRoutes(api, h, opts.JWTSecret, svc.Profiles)
	}

	return router
}
