package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/testutil"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	secret string
	orders int
	err    error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.orders++
	return "order_" + receipt, nil
}

func (g *fakeGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return signPayment(g.secret, gatewayOrderID, paymentID) == signature
}

// signPayment computes the checkout signature Razorpay sends for a payment
func signPayment(secret, gatewayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func (g *fakeGateway) PublicKey() string { return "rzp_test_key" }

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Get(context.Context, string, interface{}) bool { return false }
func (c *recordingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (c *recordingCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return nil
}

var testOrderConfig = OrderConfig{
	ShippingFee:           decimal.NewFromInt(50),
	FreeShippingThreshold: decimal.NewFromInt(500),
	PriceTolerance:        decimal.RequireFromString("0.01"),
	CODLimit:              decimal.NewFromInt(1000),
}

type orderFixture struct {
	db      *gorm.DB
	orders  *OrderService
	promos  *PromoService
	gateway *fakeGateway
	cache   *recordingCache
	product *models.Product
	variant models.Variant
}

func newOrderFixture(t *testing.T, balance string, price string, stock int) *orderFixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, balance)
	product := testutil.CreateTestProduct(t, db, "Oud Royale", testutil.Variant("50ml", price, stock))

	store := &recordingCache{}
	gateway := &fakeGateway{secret: "gw-secret"}
	wallet := NewWalletService(db)
	promos := NewPromoService(db)
	catalog := NewCatalogService(db, store, time.Minute)
	return &orderFixture{
		db:      db,
		orders:  NewOrderService(db, wallet, promos, catalog, gateway, testOrderConfig),
		promos:  promos,
		gateway: gateway,
		cache:   store,
		product: product,
		variant: product.Variants[0],
	}
}

func (f *orderFixture) input(method string, quantity int) PlaceOrderInput {
	return PlaceOrderInput{
		UserID:        1,
		Items:         []OrderLine{{VariantID: f.variant.ID, Quantity: quantity}},
		PaymentMethod: method,
		ShippingInfo:  testutil.ShippingInfo(),
	}
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrderWithWallet(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)

	placed, err := f.orders.PlaceOrder(context.Background(), f.input(models.PaymentMethodWallet, 2))
	require.NoError(t, err)
	order := placed.Order

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	testutil.AssertMoney(t, "200", order.Subtotal)
	testutil.AssertMoney(t, "50", order.ShippingFee)
	testutil.AssertMoney(t, "250", order.TotalAmount)
	testutil.AssertMoney(t, "250", order.WalletAmount)
	testutil.AssertMoney(t, "0", order.PayableAmount)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Oud Royale", order.OrderItems[0].ProductName)
	testutil.AssertMoney(t, "100", order.OrderItems[0].UnitPrice)

	// wallet debit equals total minus other contributions, one row per debit
	testutil.AssertMoney(t, "250", testutil.Balance(t, f.db, 1))
	txns := testutil.Transactions(t, f.db, 1)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionTypePurchase, txns[0].Type)
	testutil.AssertMoney(t, order.WalletAmount.Neg().String(), txns[0].Amount)
	require.NotNil(t, txns[0].OrderID)
	assert.Equal(t, order.ID, *txns[0].OrderID)

	assert.Equal(t, 3, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
	assert.Contains(t, f.cache.deleted, productCacheKey(f.product.ID))
}

func TestPlaceOrderRepricesFromVariant(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)
	input := f.input(models.PaymentMethodWallet, 1)

	stale := testutil.Money("60.00")
	input.ClientTotal = &stale
	_, err := f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Zero(t, countOrders(t, f.db))

	current := testutil.Money("150.00")
	input.ClientTotal = &current
	placed, err := f.orders.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	testutil.AssertMoney(t, "150", placed.Order.TotalAmount)
}

func TestPlaceOrderPartialWalletWithCOD(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)
	input := f.input(models.PaymentMethodCOD, 2)
	input.WalletDeduction = testutil.Money("100")

	placed, err := f.orders.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	order := placed.Order
	testutil.AssertMoney(t, "100", order.WalletAmount)
	testutil.AssertMoney(t, "150", order.PayableAmount)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)

	testutil.AssertMoney(t, "400", testutil.Balance(t, f.db, 1))
	txns := testutil.Transactions(t, f.db, 1)
	require.Len(t, txns, 1)
	testutil.AssertMoney(t, "-100", txns[0].Amount)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newOrderFixture(t, "1000.00", "100.00", 2)

	_, err := f.orders.PlaceOrder(context.Background(), f.input(models.PaymentMethodWallet, 3))
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.True(t, utils.IsKind(err, utils.KindInsufficientStock))

	assert.Equal(t, 2, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
	assert.Zero(t, countOrders(t, f.db))
	testutil.AssertMoney(t, "1000", testutil.Balance(t, f.db, 1))
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	f := newOrderFixture(t, "1000.00", "100.00", 3)
	input := f.input(models.PaymentMethodWallet, 2)
	input.Items = append(input.Items, OrderLine{VariantID: f.variant.ID, Quantity: 2})

	_, err := f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, 3, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
}

func TestPlaceOrderInsufficientFundsRollsBack(t *testing.T) {
	f := newOrderFixture(t, "10.00", "100.00", 5)
	limit := 1
	promo := createPromo(t, f.db, models.PromoCode{Code: "TEN", DiscountType: models.DiscountTypeFixed, DiscountValue: testutil.Money("10"), UsageLimit: &limit})
	input := f.input(models.PaymentMethodWallet, 1)
	input.PromoCode = "TEN"

	_, err := f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	assert.Equal(t, 5, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
	assert.Zero(t, countOrders(t, f.db))
	var items int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)
	testutil.AssertMoney(t, "10", testutil.Balance(t, f.db, 1))
	assert.Empty(t, testutil.Transactions(t, f.db, 1))

	var reloaded models.PromoCode
	require.NoError(t, f.db.First(&reloaded, promo.ID).Error)
	assert.Equal(t, 0, reloaded.TimesUsed)
}

func TestPlaceOrderPromoUsageLimit(t *testing.T) {
	f := newOrderFixture(t, "1000.00", "100.00", 5)
	limit := 1
	promo := createPromo(t, f.db, models.PromoCode{Code: "ONCE", DiscountType: models.DiscountTypePercentage, DiscountValue: testutil.Money("10"), UsageLimit: &limit})
	input := f.input(models.PaymentMethodWallet, 1)
	input.PromoCode = "once"

	placed, err := f.orders.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	testutil.AssertMoney(t, "10", placed.Order.DiscountAmount)
	testutil.AssertMoney(t, "140", placed.Order.TotalAmount)
	assert.Equal(t, "ONCE", placed.Order.PromoCode)

	var reloaded models.PromoCode
	require.NoError(t, f.db.First(&reloaded, promo.ID).Error)
	assert.Equal(t, 1, reloaded.TimesUsed)

	_, err = f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, errors.Is(err, ErrPromoLimitReached))
	assert.EqualValues(t, 1, countOrders(t, f.db))
	assert.Equal(t, 4, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
}

func TestPlaceOrderManualTransferNeedsProof(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	input := f.input(models.PaymentMethodBankTransfer, 1)

	_, err := f.orders.PlaceOrder(context.Background(), input)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Zero(t, countOrders(t, f.db))

	input.ProofURL = "https://cdn.example.com/proofs/1/receipt.png"
	placed, err := f.orders.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusAwaitingVerification, placed.Order.PaymentStatus)
	assert.Equal(t, input.ProofURL, placed.Order.ProofURL)
}

func TestPlaceOrderWalletCoversManualTransfer(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)
	input := f.input(models.PaymentMethodMobileWallet, 1)
	input.WalletDeduction = testutil.Money("1000")

	placed, err := f.orders.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	testutil.AssertMoney(t, "150", placed.Order.WalletAmount)
	testutil.AssertMoney(t, "0", placed.Order.PayableAmount)
	assert.Equal(t, models.PaymentStatusPaid, placed.Order.PaymentStatus)
}

func TestPlaceOrderRejections(t *testing.T) {
	f := newOrderFixture(t, "5000.00", "600.00", 10)
	ctx := context.Background()

	input := f.input(models.PaymentMethodWallet, 1)
	input.UserID = 0
	_, err := f.orders.PlaceOrder(ctx, input)
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))

	_, err = f.orders.PlaceOrder(ctx, f.input("cheque", 1))
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodCOD, 2))
	assert.True(t, utils.IsKind(err, utils.KindValidation), "cash on delivery above the limit")

	input = f.input(models.PaymentMethodWallet, 0)
	_, err = f.orders.PlaceOrder(ctx, input)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	input = f.input(models.PaymentMethodWallet, 1)
	input.Items = nil
	_, err = f.orders.PlaceOrder(ctx, input)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	input = f.input(models.PaymentMethodWallet, 1)
	input.Items = []OrderLine{{VariantID: 9999, Quantity: 1}}
	_, err = f.orders.PlaceOrder(ctx, input)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	input = f.input(models.PaymentMethodWallet, 1)
	input.ShippingInfo = models.ShippingInfo{}
	_, err = f.orders.PlaceOrder(ctx, input)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	input = f.input(models.PaymentMethodCOD, 1)
	input.WalletDeduction = testutil.Money("-1")
	_, err = f.orders.PlaceOrder(ctx, input)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	require.NoError(t, f.db.Model(f.product).Update("is_active", false).Error)
	_, err = f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodWallet, 1))
	assert.True(t, errors.Is(err, ErrProductNotFound))

	assert.Zero(t, countOrders(t, f.db))
	assert.Equal(t, 10, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
}

func TestPlaceOrderFreeShipping(t *testing.T) {
	f := newOrderFixture(t, "5000.00", "250.00", 10)

	quote, err := f.orders.Quote(context.Background(), f.input(models.PaymentMethodWallet, 2))
	require.NoError(t, err)
	testutil.AssertMoney(t, "0", quote.ShippingFee)
	testutil.AssertMoney(t, "500", quote.TotalAmount)
	assert.Zero(t, countOrders(t, f.db))
}

func TestConcurrentOrdersForLastUnit(t *testing.T) {
	f := newOrderFixture(t, "5000.00", "100.00", 1)
	testutil.CreateTestProfile(t, f.db, 2, "5000.00")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, userID := range []uint{1, 2, 1, 2} {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			input := f.input(models.PaymentMethodWallet, 1)
			input.UserID = userID
			_, err := f.orders.PlaceOrder(context.Background(), input)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			}
		}(userID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
	assert.EqualValues(t, 1, countOrders(t, f.db))
}

func TestCancelOrderRestocksAndRefunds(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)
	ctx := context.Background()
	input := f.input(models.PaymentMethodCOD, 2)
	input.WalletDeduction = testutil.Money("100")

	placed, err := f.orders.PlaceOrder(ctx, input)
	require.NoError(t, err)

	cancelled, err := f.orders.CancelOrder(ctx, 1, placed.Order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)

	assert.Equal(t, 5, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
	testutil.AssertMoney(t, "500", testutil.Balance(t, f.db, 1))
	txns := testutil.Transactions(t, f.db, 1)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionTypeRefund, txns[1].Type)
	testutil.AssertMoney(t, "100", txns[1].Amount)

	_, err = f.orders.CancelOrder(ctx, 1, placed.Order.ID, "again")
	assert.True(t, errors.Is(err, ErrOrderNotPending))
	testutil.AssertMoney(t, "500", testutil.Balance(t, f.db, 1))

	_, err = f.orders.CancelOrder(ctx, 2, placed.Order.ID, "not mine")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestCancelUnpaidOrderHasNoRefund(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodCOD, 1))
	require.NoError(t, err)

	cancelled, err := f.orders.CancelOrder(ctx, 1, placed.Order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusUnpaid, cancelled.PaymentStatus)
	assert.Empty(t, testutil.Transactions(t, f.db, 1))
	assert.Equal(t, 5, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodCOD, 1))
	require.NoError(t, err)
	id := placed.Order.ID

	_, err = f.orders.UpdateOrderStatus(ctx, id, models.OrderStatusDelivered, "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	order, err := f.orders.UpdateOrderStatus(ctx, id, models.OrderStatusShipped, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	_, err = f.orders.UpdateOrderStatus(ctx, id, models.OrderStatusCancelled, "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	order, err = f.orders.UpdateOrderStatus(ctx, id, models.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	_, err = f.orders.UpdateOrderStatus(ctx, 9999, models.OrderStatusShipped, "")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestAdminCancelRefundsWallet(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodWallet, 1))
	require.NoError(t, err)

	order, err := f.orders.UpdateOrderStatus(ctx, placed.Order.ID, models.OrderStatusCancelled, "out of stock at warehouse")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, "out of stock at warehouse", order.CancelReason)
	testutil.AssertMoney(t, "500", testutil.Balance(t, f.db, 1))
}

func TestOnlinePaymentFlow(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodOnline, 1))
	require.NoError(t, err)
	order := placed.Order
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	assert.Equal(t, "rzp_test_key", placed.GatewayKey)
	require.NotEmpty(t, order.GatewayOrderID)

	_, err = f.orders.VerifyOnlinePayment(ctx, 1, order.ID, order.GatewayOrderID, "pay_1", "bad-signature")
	assert.True(t, errors.Is(err, ErrPaymentSignature))

	signature := signPayment("gw-secret", order.GatewayOrderID, "pay_1")
	paid, err := f.orders.VerifyOnlinePayment(ctx, 1, order.ID, order.GatewayOrderID, "pay_1", signature)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)

	again, err := f.orders.VerifyOnlinePayment(ctx, 1, order.ID, order.GatewayOrderID, "pay_1", signature)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, again.PaymentStatus)

	_, err = f.orders.VerifyOnlinePayment(ctx, 2, order.ID, order.GatewayOrderID, "pay_1", signature)
	assert.True(t, errors.Is(err, ErrPaymentNotFound))

	_, err = f.orders.InitiatePayment(ctx, 1, order.ID)
	assert.True(t, utils.IsKind(err, utils.KindAlreadyProcessed))
}

func TestRazorpayGatewayVerifiesSignature(t *testing.T) {
	assert.Nil(t, NewRazorpayGateway("", "secret"))

	gateway := NewRazorpayGateway("rzp_test_key", "rzp-secret")
	require.NotNil(t, gateway)
	assert.Equal(t, "rzp_test_key", gateway.PublicKey())

	signature := signPayment("rzp-secret", "order_abc", "pay_xyz")
	assert.True(t, gateway.VerifySignature("order_abc", "pay_xyz", signature))
	assert.False(t, gateway.VerifySignature("order_abc", "pay_other", signature))
	assert.False(t, gateway.VerifySignature("order_abc", "pay_xyz", signPayment("wrong", "order_abc", "pay_xyz")))
}

func TestOnlineOrderSurvivesGatewayFailure(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	ctx := context.Background()
	f.gateway.err = errors.New("gateway timeout")

	placed, err := f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodOnline, 1))
	require.NoError(t, err)
	assert.Empty(t, placed.Order.GatewayOrderID)

	f.gateway.err = nil
	retried, err := f.orders.InitiatePayment(ctx, 1, placed.Order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, retried.Order.GatewayOrderID)
}

func TestOnlinePaymentRequiresGateway(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	f.orders.gateway = nil

	_, err := f.orders.PlaceOrder(context.Background(), f.input(models.PaymentMethodOnline, 1))
	assert.True(t, errors.Is(err, ErrGatewayNotEnabled))
}

func TestListAndGetOrders(t *testing.T) {
	f := newOrderFixture(t, "1000.00", "100.00", 10)
	testutil.CreateTestProfile(t, f.db, 2, "1000.00")
	ctx := context.Background()

	for _, userID := range []uint{1, 1, 2} {
		input := f.input(models.PaymentMethodWallet, 1)
		input.UserID = userID
		_, err := f.orders.PlaceOrder(ctx, input)
		require.NoError(t, err)
	}

	page := utils.NewPage(1, 10)
	orders, err := f.orders.ListOrders(ctx, 1, "", page)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.EqualValues(t, 2, page.Total)
	require.NotEmpty(t, orders[0].OrderItems)

	all, err := f.orders.ListAllOrders(ctx, models.OrderStatusPending, utils.NewPage(1, 10))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	order, err := f.orders.GetOrder(ctx, 1, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), order.UserID)

	_, err = f.orders.GetOrder(ctx, 2, orders[0].ID)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func (f *orderFixture) transferOrder(t *testing.T, method, walletDeduction string) *models.Order {
	t.Helper()
	input := f.input(method, 1)
	input.ProofURL = "https://cdn.example.com/proofs/1/receipt.png"
	if walletDeduction != "" {
		input.WalletDeduction = testutil.Money(walletDeduction)
	}
	placed, err := f.orders.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusAwaitingVerification, placed.Order.PaymentStatus)
	return placed.Order
}

func TestReviewPaymentConfirmSettlesTransfer(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	admin := testutil.CreateTestAdmin(t, f.db, 100)
	ctx := context.Background()
	order := f.transferOrder(t, models.PaymentMethodBankTransfer, "")

	_, err := f.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped, "")
	assert.True(t, errors.Is(err, ErrProofNotReviewed))

	_, err = f.orders.ReviewPayment(ctx, &models.Profile{ID: 1}, order.ID, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrForbidden))

	review, err := f.orders.ReviewPayment(ctx, admin, order.ID, ActionConfirm, "transfer received")
	require.NoError(t, err)
	assert.False(t, review.AlreadyProcessed)
	assert.Equal(t, models.PaymentStatusPaid, review.Order.PaymentStatus)

	review, err = f.orders.ReviewPayment(ctx, admin, order.ID, ActionConfirm, "")
	require.NoError(t, err)
	assert.True(t, review.AlreadyProcessed)

	_, err = f.orders.ReviewPayment(ctx, admin, order.ID, ActionReject, "")
	assert.True(t, errors.Is(err, ErrPaymentReviewed))

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped, "")
	require.NoError(t, err)
	delivered, err := f.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, delivered.PaymentStatus)
	assert.Empty(t, testutil.Transactions(t, f.db, 1))
}

func TestCancelConfirmedTransferRefundsTotal(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	admin := testutil.CreateTestAdmin(t, f.db, 100)
	ctx := context.Background()
	order := f.transferOrder(t, models.PaymentMethodBankTransfer, "")

	_, err := f.orders.ReviewPayment(ctx, admin, order.ID, ActionConfirm, "")
	require.NoError(t, err)

	cancelled, err := f.orders.CancelOrder(ctx, 1, order.ID, "found it cheaper")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
	testutil.AssertMoney(t, "150", testutil.Balance(t, f.db, 1))
	assert.Equal(t, 5, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)
}

func TestReviewPaymentRejectCancelsOrder(t *testing.T) {
	f := newOrderFixture(t, "50.00", "100.00", 5)
	admin := testutil.CreateTestAdmin(t, f.db, 100)
	ctx := context.Background()
	order := f.transferOrder(t, models.PaymentMethodMobileWallet, "50")
	testutil.AssertMoney(t, "100", order.PayableAmount)
	testutil.AssertMoney(t, "0", testutil.Balance(t, f.db, 1))

	review, err := f.orders.ReviewPayment(ctx, admin, order.ID, ActionReject, "")
	require.NoError(t, err)
	assert.False(t, review.AlreadyProcessed)
	assert.Equal(t, models.OrderStatusCancelled, review.Order.Status)
	assert.Equal(t, models.PaymentStatusRejected, review.Order.PaymentStatus)
	assert.Equal(t, "Payment proof rejected", review.Order.CancelReason)
	testutil.AssertMoney(t, "50", testutil.Balance(t, f.db, 1))
	assert.Equal(t, 5, testutil.ReloadVariant(t, f.db, f.variant.ID).StockQuantity)

	review, err = f.orders.ReviewPayment(ctx, admin, order.ID, ActionReject, "")
	require.NoError(t, err)
	assert.True(t, review.AlreadyProcessed)
	testutil.AssertMoney(t, "50", testutil.Balance(t, f.db, 1))

	_, err = f.orders.ReviewPayment(ctx, admin, order.ID, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrPaymentReviewed))
}

func TestConfirmAfterCustomerCancelRefundsTransfer(t *testing.T) {
	f := newOrderFixture(t, "0.00", "100.00", 5)
	admin := testutil.CreateTestAdmin(t, f.db, 100)
	ctx := context.Background()
	order := f.transferOrder(t, models.PaymentMethodBankTransfer, "")

	cancelled, err := f.orders.CancelOrder(ctx, 1, order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusAwaitingVerification, cancelled.PaymentStatus)
	testutil.AssertMoney(t, "0", testutil.Balance(t, f.db, 1))

	review, err := f.orders.ReviewPayment(ctx, admin, order.ID, ActionConfirm, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, review.Order.PaymentStatus)
	testutil.AssertMoney(t, "150", testutil.Balance(t, f.db, 1))

	txns := testutil.Transactions(t, f.db, 1)
	require.Len(t, txns, 1)
	assert.Equal(t, models.TransactionTypeRefund, txns[0].Type)
	testutil.AssertMoney(t, "150", txns[0].Amount)

	_, err = f.orders.ReviewPayment(ctx, admin, order.ID, ActionConfirm, "")
	require.NoError(t, err)
	testutil.AssertMoney(t, "150", testutil.Balance(t, f.db, 1))
}

func TestReviewPaymentRequiresProofOrder(t *testing.T) {
	f := newOrderFixture(t, "500.00", "100.00", 5)
	admin := testutil.CreateTestAdmin(t, f.db, 100)
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.input(models.PaymentMethodWallet, 1))
	require.NoError(t, err)

	_, err = f.orders.ReviewPayment(ctx, admin, placed.Order.ID, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrNoPaymentProof))
	_, err = f.orders.ReviewPayment(ctx, admin, placed.Order.ID, "approve", "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = f.orders.ReviewPayment(ctx, admin, 9999, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}
