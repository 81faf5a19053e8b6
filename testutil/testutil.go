// Package testutil holds helpers shared by package tests: an in-memory
// database, seed data, JWTs and HTTP request helpers.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/ScentSphere/config"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JWTSecret signs tokens in tests
const JWTSecret = "test-secret"

// NewDB opens a migrated in-memory SQLite database private to the test.
// It holds a single connection, so concurrent transactions run one at a time.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// Money parses a decimal literal
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// AssertMoney compares amounts at two decimal places
func AssertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, Money(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

// CreateTestProfile creates a customer with the given wallet balance
func CreateTestProfile(t *testing.T, db *gorm.DB, id uint, balance string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:            id,
		Email:         fmt.Sprintf("user%d@example.com", id),
		FullName:      fmt.Sprintf("User %d", id),
		WalletBalance: Money(balance),
		Role:          models.RoleCustomer,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// CreateTestAdmin creates an admin profile
func CreateTestAdmin(t *testing.T, db *gorm.DB, id uint) *models.Profile {
	t.Helper()
	admin := &models.Profile{
		ID:       id,
		Email:    fmt.Sprintf("admin%d@example.com", id),
		FullName: "Store Admin",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// CreateTestProduct creates an active product with one variant per size
func CreateTestProduct(t *testing.T, db *gorm.DB, title string, variants ...models.Variant) *models.Product {
	t.Helper()
	suffix := uuid.NewString()[:8]
	brand := models.Brand{Name: "Brand " + suffix, Slug: "brand-" + suffix}
	require.NoError(t, db.Create(&brand).Error)
	category := models.Category{Name: "Category " + suffix, Slug: "category-" + suffix}
	require.NoError(t, db.Create(&category).Error)

	product := &models.Product{
		Title:      title,
		BrandID:    brand.ID,
		CategoryID: category.ID,
		ImageURLs:  models.StringList{"https://cdn.example.com/" + uuid.NewString() + ".jpg"},
		IsActive:   true,
		Variants:   variants,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// Variant builds a variant for CreateTestProduct
func Variant(size, price string, stock int) models.Variant {
	return models.Variant{SizeLabel: size, Price: Money(price), StockQuantity: stock}
}

// ReloadVariant reads a variant back from the database
func ReloadVariant(t *testing.T, db *gorm.DB, id uint) models.Variant {
	t.Helper()
	var v models.Variant
	require.NoError(t, db.First(&v, id).Error)
	return v
}

// Balance reads a wallet balance from the database
func Balance(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	var p models.Profile
	require.NoError(t, db.First(&p, userID).Error)
	return p.WalletBalance
}

// Transactions returns every ledger row of a user, oldest first
func Transactions(t *testing.T, db *gorm.DB, userID uint) []models.Transaction {
	t.Helper()
	var txns []models.Transaction
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&txns).Error)
	return txns
}

// ShippingInfo is a valid delivery address
func ShippingInfo() models.ShippingInfo {
	return models.ShippingInfo{
		FullName: "Asha Rao",
		Phone:    "+91 98765 43210",
		Line1:    "12 MG Road",
		City:     "Bengaluru",
		Country:  "India",
	}
}

// GetTestToken signs an identity-provider style token for a user
func GetTestToken(t *testing.T, userID uint, email string) string {
	t.Helper()
	signed, err := utils.GenerateToken(JWTSecret, userID, email, time.Hour)
	require.NoError(t, err)
	return signed
}

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Token   string
	Headers map[string]string
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Body       map[string]interface{}
	Raw        *httptest.ResponseRecorder
}

// MakeTestRequest sends a JSON request through router
func MakeTestRequest(t *testing.T, router http.Handler, req TestRequest) TestResponse {
	t.Helper()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	var responseBody map[string]interface{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
	}
	return TestResponse{StatusCode: w.Code, Body: responseBody, Raw: w}
}

// NewRouter returns a gin engine in test mode
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
