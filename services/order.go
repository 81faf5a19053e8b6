package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Govind-619/ScentSphere/metrics"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine is one requested variant and quantity
type OrderLine struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// PlaceOrderInput is everything the customer submits at checkout.
// Prices are never taken from the client; ClientTotal is only compared.
type PlaceOrderInput struct {
	UserID          uint
	Items           []OrderLine
	PromoCode       string
	PaymentMethod   string
	WalletDeduction decimal.Decimal
	ProofURL        string
	ShippingInfo    models.ShippingInfo
	ClientTotal     *decimal.Decimal
}

// OrderQuote is the server-side pricing of a checkout
type OrderQuote struct {
	Items          []models.OrderItem `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	ShippingFee    decimal.Decimal    `json:"shipping_fee"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	WalletAmount   decimal.Decimal    `json:"wallet_amount"`
	PayableAmount  decimal.Decimal    `json:"payable_amount"`
	PromoCode      string             `json:"promo_code,omitempty"`
	PaymentMethod  string             `json:"payment_method"`

	promo *models.PromoCode
}

// PlacedOrder is the result of a successful checkout
type PlacedOrder struct {
	Order *models.Order
	// GatewayKey is set for online payments so the client can open the widget
	GatewayKey string
}

// OrderConfig holds the pricing rules of checkout
type OrderConfig struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	PriceTolerance        decimal.Decimal
	CODLimit              decimal.Decimal
}

var validPaymentMethods = map[string]bool{
	models.PaymentMethodWallet:       true,
	models.PaymentMethodCOD:          true,
	models.PaymentMethodBankTransfer: true,
	models.PaymentMethodMobileWallet: true,
	models.PaymentMethodOnline:       true,
}

// allowed admin status changes
var orderTransitions = map[string][]string{
	models.OrderStatusPending: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

// OrderService places and manages orders. Stock, order rows, the wallet debit
// and the promo use are committed together or not at all.
type OrderService struct {
	db      *gorm.DB
	wallet  *WalletService
	promos  *PromoService
	catalog *CatalogService
	gateway PaymentGateway
	cfg     OrderConfig
}

func NewOrderService(db *gorm.DB, wallet *WalletService, promos *PromoService, catalog *CatalogService, gateway PaymentGateway, cfg OrderConfig) *OrderService {
	return &OrderService{
		db:      db,
		wallet:  wallet,
		promos:  promos,
		catalog: catalog,
		gateway: gateway,
		cfg:     cfg,
	}
}

// Quote prices a checkout without side effects
func (s *OrderService) Quote(ctx context.Context, input PlaceOrderInput) (*OrderQuote, error) {
	return s.quote(s.db.WithContext(ctx), input)
}

func (s *OrderService) quote(tx *gorm.DB, input PlaceOrderInput) (*OrderQuote, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthorized
	}
	lines, err := mergeLines(input.Items)
	if err != nil {
		return nil, err
	}

	items, err := priceLines(tx, lines)
	if err != nil {
		return nil, err
	}

	q := &OrderQuote{Items: items, PaymentMethod: input.PaymentMethod}
	for _, item := range items {
		q.Subtotal = q.Subtotal.Add(item.LineTotal)
	}

	if code := NormalizeCode(input.PromoCode); code != "" {
		promo, discount, err := s.promos.QuoteTx(tx, code, q.Subtotal)
		if err != nil {
			return nil, err
		}
		q.promo = promo
		q.PromoCode = promo.Code
		q.DiscountAmount = discount
	}

	afterDiscount := q.Subtotal.Sub(q.DiscountAmount)
	if s.cfg.FreeShippingThreshold.IsPositive() && afterDiscount.GreaterThanOrEqual(s.cfg.FreeShippingThreshold) {
		q.ShippingFee = decimal.Zero
	} else {
		q.ShippingFee = s.cfg.ShippingFee
	}
	q.TotalAmount = utils.Round2(afterDiscount.Add(q.ShippingFee))

	if input.ClientTotal != nil && input.ClientTotal.Sub(q.TotalAmount).Abs().GreaterThan(s.cfg.PriceTolerance) {
		return nil, utils.ValidationErr(fmt.Sprintf("Prices have changed since you added these items. The current total is %s, please review your cart.", utils.FormatMoney(q.TotalAmount)))
	}

	if err := s.splitPayment(q, input); err != nil {
		return nil, err
	}
	return q, nil
}

// splitPayment decides how much comes from the wallet and validates the rest
func (s *OrderService) splitPayment(q *OrderQuote, input PlaceOrderInput) error {
	method := input.PaymentMethod
	if !validPaymentMethods[method] {
		return utils.ValidationErr("Invalid payment method")
	}
	if input.WalletDeduction.IsNegative() {
		return utils.ValidationErr("Wallet deduction cannot be negative")
	}

	if method == models.PaymentMethodWallet {
		q.WalletAmount = q.TotalAmount
	} else {
		q.WalletAmount = utils.Round2(decimal.Min(input.WalletDeduction, q.TotalAmount))
	}
	q.PayableAmount = q.TotalAmount.Sub(q.WalletAmount)

	if !q.PayableAmount.IsPositive() {
		return nil
	}
	switch {
	case models.RequiresProof(method) && strings.TrimSpace(input.ProofURL) == "":
		return utils.ValidationErr("Please upload your payment proof for bank or mobile wallet transfers")
	case method == models.PaymentMethodCOD && q.PayableAmount.GreaterThan(s.cfg.CODLimit):
		return utils.ValidationErr(fmt.Sprintf("Cash on delivery is only available for orders up to %s", utils.FormatMoney(s.cfg.CODLimit)))
	case method == models.PaymentMethodOnline && s.gateway == nil:
		return ErrGatewayNotEnabled
	}
	return nil
}

func mergeLines(in []OrderLine) ([]OrderLine, error) {
	if len(in) == 0 {
		return nil, utils.ValidationErr("Your cart is empty")
	}
	qty := make(map[uint]int, len(in))
	for _, line := range in {
		if line.VariantID == 0 {
			return nil, utils.ValidationErr("Invalid item in cart")
		}
		if line.Quantity < 1 {
			return nil, utils.ValidationErr("Quantity must be at least 1")
		}
		qty[line.VariantID] += line.Quantity
	}
	lines := make([]OrderLine, 0, len(qty))
	for id, q := range qty {
		lines = append(lines, OrderLine{VariantID: id, Quantity: q})
	}
	// stable lock order across concurrent checkouts
	sort.Slice(lines, func(i, j int) bool { return lines[i].VariantID < lines[j].VariantID })
	return lines, nil
}

// priceLines loads the live variants and snapshots their prices
func priceLines(tx *gorm.DB, lines []OrderLine) ([]models.OrderItem, error) {
	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.VariantID
	}

	var variants []models.Variant
	if err := tx.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	byID := make(map[uint]models.Variant, len(variants))
	productIDs := make([]uint, 0, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
		productIDs = append(productIDs, v.ProductID)
	}

	var products []models.Product
	if err := tx.Where("id IN ? AND is_active = ?", productIDs, true).Find(&products).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	productByID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		v, ok := byID[line.VariantID]
		if !ok {
			return nil, ErrVariantNotFound
		}
		p, ok := productByID[v.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if v.StockQuantity < line.Quantity {
			return nil, outOfStock(p.Title, v.SizeLabel, v.StockQuantity, line.Quantity)
		}
		items = append(items, models.OrderItem{
			VariantID:   v.ID,
			ProductID:   p.ID,
			ProductName: p.Title,
			SizeLabel:   v.SizeLabel,
			Quantity:    line.Quantity,
			UnitPrice:   v.Price,
			LineTotal:   utils.Round2(v.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))),
		})
	}
	return items, nil
}

// PlaceOrder re-prices the checkout and commits stock, order, wallet debit and
// promo use in one transaction
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if err := utils.ValidateShippingInfo(input.ShippingInfo); err != nil {
		return nil, utils.ValidationErr(err.Error())
	}
	shipping := utils.CleanShippingInfo(input.ShippingInfo)

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q, err := s.quote(tx, input)
		if err != nil {
			return err
		}

		for _, item := range q.Items {
			if err := decrementStock(tx, item); err != nil {
				return err
			}
		}

		order = models.Order{
			UserID:         input.UserID,
			Status:         models.OrderStatusPending,
			Subtotal:       utils.Round2(q.Subtotal),
			DiscountAmount: q.DiscountAmount,
			ShippingFee:    q.ShippingFee,
			TotalAmount:    q.TotalAmount,
			WalletAmount:   q.WalletAmount,
			PayableAmount:  q.PayableAmount,
			PaymentMethod:  input.PaymentMethod,
			PaymentStatus:  initialPaymentStatus(q),
			PromoCode:      q.PromoCode,
			ShippingInfo:   shipping,
			OrderItems:     q.Items,
		}
		if models.RequiresProof(input.PaymentMethod) && q.PayableAmount.IsPositive() {
			order.ProofURL = input.ProofURL
		}
		if err := tx.Create(&order).Error; err != nil {
			return utils.UpstreamErr(err)
		}

		if q.WalletAmount.IsPositive() {
			if _, err := s.wallet.DebitTx(tx, input.UserID, q.WalletAmount, LedgerEntry{
				Type:        models.TransactionTypePurchase,
				Description: fmt.Sprintf("Payment for order #%d", order.ID),
				Reference:   orderReference(order.ID),
				OrderID:     &order.ID,
			}); err != nil {
				return err
			}
		}

		if q.promo != nil {
			if err := s.promos.RedeemTx(tx, q.promo.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result := "error"
		if appErr := utils.GetAppError(err); appErr != nil {
			result = string(appErr.Kind)
		}
		metrics.OrdersTotal.WithLabelValues(result).Inc()
		utils.LogInfo("Order placement failed for user %d: %v", input.UserID, err)
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues("placed").Inc()
	utils.LogInfo("Order placed: order %d, user %d, total %s, method %s", order.ID, order.UserID, utils.FormatMoney(order.TotalAmount), order.PaymentMethod)
	s.invalidate(ctx, order.OrderItems)

	placed := &PlacedOrder{Order: &order}
	if order.PaymentMethod == models.PaymentMethodOnline && order.PayableAmount.IsPositive() {
		if err := s.attachGatewayOrder(ctx, &order); err != nil {
			// the order stands; the client can retry through InitiatePayment
			utils.LogError("Failed to create gateway order for order %d: %v", order.ID, err)
		}
		placed.GatewayKey = s.gateway.PublicKey()
	}
	return placed, nil
}

func initialPaymentStatus(q *OrderQuote) string {
	switch {
	case !q.PayableAmount.IsPositive():
		return models.PaymentStatusPaid
	case models.RequiresProof(q.PaymentMethod):
		return models.PaymentStatusAwaitingVerification
	default:
		return models.PaymentStatusUnpaid
	}
}

func orderReference(id uint) string {
	return fmt.Sprintf("ORDER-%d", id)
}

func decrementStock(tx *gorm.DB, item models.OrderItem) error {
	res := tx.Model(&models.Variant{}).
		Where("id = ? AND stock_quantity >= ?", item.VariantID, item.Quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
	if res.Error != nil {
		return utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		var v models.Variant
		available := 0
		if err := tx.Select("stock_quantity").First(&v, item.VariantID).Error; err == nil {
			available = v.StockQuantity
		}
		return outOfStock(item.ProductName, item.SizeLabel, available, item.Quantity)
	}
	return nil
}

func restock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := tx.Model(&models.Variant{}).Where("id = ?", item.VariantID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
			return utils.UpstreamErr(err)
		}
	}
	return nil
}

func (s *OrderService) invalidate(ctx context.Context, items []models.OrderItem) {
	if s.catalog == nil {
		return
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	s.catalog.Invalidate(ctx, ids...)
}

func (s *OrderService) attachGatewayOrder(ctx context.Context, order *models.Order) error {
	gatewayID, err := s.gateway.CreateOrder(ctx, order.PayableAmount, orderReference(order.ID))
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Update("gateway_order_id", gatewayID).Error; err != nil {
		return err
	}
	order.GatewayOrderID = gatewayID
	return nil
}

// InitiatePayment creates a gateway order for an unpaid online order
func (s *OrderService) InitiatePayment(ctx context.Context, userID, orderID uint) (*PlacedOrder, error) {
	if s.gateway == nil {
		return nil, ErrGatewayNotEnabled
	}
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodOnline || order.Status == models.OrderStatusCancelled {
		return nil, utils.ValidationErr("This order does not accept online payment")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if err := s.attachGatewayOrder(ctx, order); err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return &PlacedOrder{Order: order, GatewayKey: s.gateway.PublicKey()}, nil
}

// VerifyOnlinePayment checks the gateway signature and marks the order paid.
// Verifying an already paid order succeeds without changes.
func (s *OrderService) VerifyOnlinePayment(ctx context.Context, userID, orderID uint, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrGatewayNotEnabled
	}
	if !s.gateway.VerifySignature(gatewayOrderID, paymentID, signature) {
		utils.LogError("Payment signature mismatch for order %d, user %d", orderID, userID)
		return nil, ErrPaymentSignature
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ? AND user_id = ? AND gateway_order_id = ?", orderID, userID, gatewayOrderID).
			First(&order).Error; err != nil {
			if isNotFound(err) {
				return ErrPaymentNotFound
			}
			return utils.UpstreamErr(err)
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ? AND status <> ?", order.ID, models.PaymentStatusUnpaid, models.OrderStatusCancelled).
			Update("payment_status", models.PaymentStatusPaid)
		if res.Error != nil {
			return utils.UpstreamErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotPending
		}
		order.PaymentStatus = models.PaymentStatusPaid
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Online payment %s verified for order %d", paymentID, order.ID)
	return &order, nil
}

// ListOrders returns a page of the user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uint, status string, page *utils.Pagination) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	page.SetTotal(total)

	var orders []models.Order
	if err := q.Preload("OrderItems").Order("created_at DESC, id DESC").
		Offset(page.Offset).Limit(page.Limit).Find(&orders).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return orders, nil
}

// ListAllOrders is the admin listing across users
func (s *OrderService) ListAllOrders(ctx context.Context, status string, page *utils.Pagination) ([]models.Order, error) {
	return s.ListOrders(ctx, 0, status, page)
}

// GetOrder returns one of the user's orders with its items. A zero userID
// skips the ownership check.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	q := s.db.WithContext(ctx).Preload("OrderItems").Where("id = ?", orderID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, utils.UpstreamErr(err)
	}
	return &order, nil
}

// CancelOrder cancels the user's own pending order
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint, reason string) (*models.Order, error) {
	return s.cancel(ctx, userID, orderID, reason)
}

func (s *OrderService) cancel(ctx context.Context, userID, orderID uint, reason string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockOrder(tx, userID, orderID, &order); err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}
		return s.cancelLocked(tx, &order, reason, "")
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Order %d cancelled", order.ID)
	s.invalidate(ctx, order.OrderItems)
	return &order, nil
}

func (s *OrderService) lockOrder(tx *gorm.DB, userID, orderID uint, order *models.Order) error {
	q := forUpdate(tx).Preload("OrderItems").Where("id = ?", orderID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(order).Error; err != nil {
		if isNotFound(err) {
			return ErrOrderNotFound
		}
		return utils.UpstreamErr(err)
	}
	return nil
}

// cancelLocked cancels a locked pending order, restocks it and returns what
// the store holds to the wallet. A paid order returns its total, anything
// else only the wallet part. An unreviewed transfer keeps its payment status
// so the proof can still be settled. paymentStatus overrides the result.
func (s *OrderService) cancelLocked(tx *gorm.DB, order *models.Order, reason, paymentStatus string) error {
	refund := order.WalletAmount
	if order.PaymentStatus == models.PaymentStatusPaid {
		refund = order.TotalAmount
	}
	if paymentStatus == "" {
		paymentStatus = order.PaymentStatus
		if refund.IsPositive() && order.PaymentStatus != models.PaymentStatusAwaitingVerification {
			paymentStatus = models.PaymentStatusRefunded
		}
	}
	reason = utils.SanitizeString(reason)

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_status = ?", order.ID, models.OrderStatusPending, order.PaymentStatus).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusCancelled,
			"cancel_reason":  reason,
			"payment_status": paymentStatus,
		})
	if res.Error != nil {
		return utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotPending
	}

	if err := restock(tx, order.OrderItems); err != nil {
		return err
	}
	if refund.IsPositive() {
		if _, err := s.wallet.CreditTx(tx, order.UserID, refund, LedgerEntry{
			Type:        models.TransactionTypeRefund,
			Description: fmt.Sprintf("Refund for cancelled order #%d", order.ID),
			Reference:   orderReference(order.ID),
			OrderID:     &order.ID,
		}); err != nil {
			return err
		}
	}
	order.Status = models.OrderStatusCancelled
	order.CancelReason = reason
	order.PaymentStatus = paymentStatus
	return nil
}

// PaymentReview is the outcome of an admin decision on an order's payment proof
type PaymentReview struct {
	Order *models.Order `json:"order"`
	// AlreadyProcessed is true when the same action had been applied before
	AlreadyProcessed bool `json:"already_processed"`
}

// ReviewPayment applies an admin decision to the transfer proof of a
// bank_transfer or mobile_wallet order. Confirming marks a live order paid;
// on an order cancelled before review the proven transfer goes to the wallet
// instead. Rejecting cancels a pending order. Repeating the decision already
// recorded is a no-op; the opposite decision fails.
func (s *OrderService) ReviewPayment(ctx context.Context, actor *models.Profile, orderID uint, action, note string) (*PaymentReview, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if action != ActionConfirm && action != ActionReject {
		return nil, utils.ValidationErr("Action must be confirm or reject")
	}

	var order models.Order
	result := &PaymentReview{Order: &order}
	restocked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockOrder(tx, 0, orderID, &order); err != nil {
			return err
		}
		if !models.RequiresProof(order.PaymentMethod) || order.ProofURL == "" {
			return ErrNoPaymentProof
		}

		if order.PaymentStatus != models.PaymentStatusAwaitingVerification {
			settled := order.PaymentStatus == models.PaymentStatusPaid || order.PaymentStatus == models.PaymentStatusRefunded
			if (action == ActionConfirm && settled) || (action == ActionReject && order.PaymentStatus == models.PaymentStatusRejected) {
				result.AlreadyProcessed = true
				return nil
			}
			return ErrPaymentReviewed
		}

		if action == ActionReject {
			if order.Status == models.OrderStatusPending {
				if note == "" {
					note = "Payment proof rejected"
				}
				restocked = true
				return s.cancelLocked(tx, &order, note, models.PaymentStatusRejected)
			}
			return s.settlePayment(tx, &order, models.PaymentStatusRejected)
		}

		if order.Status != models.OrderStatusCancelled {
			return s.settlePayment(tx, &order, models.PaymentStatusPaid)
		}
		if err := s.settlePayment(tx, &order, models.PaymentStatusRefunded); err != nil {
			return err
		}
		_, err := s.wallet.CreditTx(tx, order.UserID, order.PayableAmount, LedgerEntry{
			Type:        models.TransactionTypeRefund,
			Description: fmt.Sprintf("Refund of verified transfer for cancelled order #%d", order.ID),
			Reference:   orderReference(order.ID),
			OrderID:     &order.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyProcessed {
		utils.LogInfo("Payment proof for order %d already %s, no change", order.ID, order.PaymentStatus)
	} else {
		utils.LogInfo("Payment proof for order %d %s by admin %d: %s", order.ID, action, actor.ID, utils.SanitizeString(note))
		if restocked {
			s.invalidate(ctx, order.OrderItems)
		}
	}
	return result, nil
}

func (s *OrderService) settlePayment(tx *gorm.DB, order *models.Order, paymentStatus string) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, models.PaymentStatusAwaitingVerification).
		Update("payment_status", paymentStatus)
	if res.Error != nil {
		return utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPaymentReviewed
	}
	order.PaymentStatus = paymentStatus
	return nil
}

// UpdateOrderStatus moves an order along pending -> shipped -> delivered, or
// cancels a pending order with the same refund path as the customer
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status, note string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, 0, orderID)
	if err != nil {
		return nil, err
	}
	if !canTransition(order.Status, status) {
		return nil, utils.ValidationErr(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
	}
	if status == models.OrderStatusShipped && order.PaymentStatus == models.PaymentStatusAwaitingVerification {
		return nil, ErrProofNotReviewed
	}
	if status == models.OrderStatusCancelled {
		if note == "" {
			note = "Cancelled by store"
		}
		return s.cancel(ctx, 0, orderID, note)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.OrderStatusDelivered && order.PaymentMethod == models.PaymentMethodCOD && order.PaymentStatus == models.PaymentStatusUnpaid {
		updates["payment_status"] = models.PaymentStatusPaid
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ? AND status = ?", orderID, order.Status).Updates(updates)
	if res.Error != nil {
		return nil, utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotPending
	}
	utils.LogInfo("Order %d status changed from %s to %s", orderID, order.Status, status)
	return s.GetOrder(ctx, 0, orderID)
}

func canTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
