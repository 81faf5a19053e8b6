package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Govind-619/ScentSphere/cache"
	"github.com/Govind-619/ScentSphere/config"
	"github.com/Govind-619/ScentSphere/controllers"
	"github.com/Govind-619/ScentSphere/routes"
	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/storage"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scentsphere",
	Short: "ScentSphere storefront API",
}

// scentsphere serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// scentsphere migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		fmt.Println("Running migrations...")
		return config.Migrate(db)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	// Initialize logger
	if err := utils.InitLogger("logs"); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.CloseLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		return err
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.LogError("Error connecting to database: %v", err)
		return err
	}
	if err := config.Migrate(db); err != nil {
		utils.LogError("Error migrating database: %v", err)
		return err
	}

	var store cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// catalog reads fall back to the database
			utils.LogError("Redis unavailable, catalog cache disabled: %v", err)
		} else {
			defer rdb.Close()
			store = rdb
		}
	}

	disk, err := storage.New(ctx, cfg)
	if err != nil {
		utils.LogError("Error configuring storage: %v", err)
		return err
	}

	var gateway services.PaymentGateway
	if rz := services.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret); rz != nil {
		gateway = rz
	} else {
		utils.LogInfo("Razorpay credentials not set, online payments disabled")
	}

	mailer := utils.NewMailer(utils.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	catalog := services.NewCatalogService(db, store, cfg.CatalogTTL)
	wallet := services.NewWalletService(db)
	promos := services.NewPromoService(db)
	svc := controllers.Services{
		Catalog:   catalog,
		Wallet:    wallet,
		Promos:    promos,
		GiftCodes: services.NewGiftCodeService(db, wallet, mailer),
		Orders: services.NewOrderService(db, wallet, promos, catalog, gateway, services.OrderConfig{
			ShippingFee:           cfg.ShippingFee,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			PriceTolerance:        cfg.PriceTolerance,
			CODLimit:              cfg.CODLimit,
		}),
		TopUps:    services.NewTopUpService(db),
		Favorites: services.NewFavoriteService(db),
		Profiles:  services.NewProfileService(db),
		Disk:      disk,
	}

	opts := routes.Options{
		JWTSecret:      cfg.JWTSecret,
		SessionSecret:  cfg.SessionSecret,
		Secure:         cfg.Env == "production",
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		opts.UploadDir = cfg.UploadDir
	}
	router := routes.SetupRouter(opts, svc)

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		return err
	}
	return nil
}
