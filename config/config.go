package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	JWTSecret  string
	Port       string
	Env        string

	SessionSecret  string
	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	CatalogTTL    time.Duration

	StorageDriver string
	UploadDir     string
	PublicURL     string
	S3Bucket      string
	S3Region      string
	S3Key         string
	S3Secret      string
	S3Endpoint    string
	S3URL         string

	RazorpayKey    string
	RazorpaySecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	PriceTolerance        decimal.Decimal
	CODLimit              decimal.Decimal
}

// LoadConfig loads configuration from environment variables.
// A missing .env file is only fatal outside production.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("ENV") != "production" && os.Getenv("ENV") != "test" {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
		log.Printf("No .env file found, using process environment")
	}

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "scentsphere"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),

		SessionSecret:  getEnv("SESSION_SECRET", "scentsphere-cart"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CatalogTTL:    time.Duration(getEnvInt("CATALOG_CACHE_SECONDS", 60)) * time.Second,

		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:8080"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Key:         os.Getenv("S3_KEY"),
		S3Secret:      os.Getenv("S3_SECRET"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3URL:         os.Getenv("S3_URL"),

		RazorpayKey:    os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		ShippingFee:           getEnvDecimal("SHIPPING_FEE", "50"),
		FreeShippingThreshold: getEnvDecimal("FREE_SHIPPING_THRESHOLD", "500"),
		PriceTolerance:        getEnvDecimal("PRICE_TOLERANCE", "0.01"),
		CODLimit:              getEnvDecimal("COD_LIMIT", "1000"),
	}

	return config, nil
}

// DSN builds the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// InitDB opens the database connection and stores it in DB
func InitDB(config *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = db
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if v, err := decimal.NewFromString(os.Getenv(key)); err == nil {
		return v
	}
	return decimal.RequireFromString(fallback)
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
