package services

import (
	"context"
	"strings"
	"time"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromoQuote is the result of evaluating a promo code against a cart total
type PromoQuote struct {
	Valid          bool            `json:"valid"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	Message        string          `json:"message"`
}

// CreatePromoInput is the admin payload for a new promo code
type CreatePromoInput struct {
	Code           string           `json:"code" binding:"required"`
	DiscountType   string           `json:"discount_type" binding:"required"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	UsageLimit     *int             `json:"usage_limit"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	IsActive       *bool            `json:"is_active"`
}

// PromoService evaluates and redeems promo codes
type PromoService struct {
	db  *gorm.DB
	now Clock
}

func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{db: db, now: time.Now}
}

// WithClock replaces the time source used for expiry checks
func (s *PromoService) WithClock(now Clock) *PromoService {
	s.now = now
	return s
}

// NormalizeCode trims and upper-cases a user supplied code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks code against cartTotal without consuming a use
func (s *PromoService) Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*PromoQuote, error) {
	promo, err := s.find(s.db.WithContext(ctx), code)
	if err != nil {
		return nil, err
	}
	discount, err := s.evaluate(promo, cartTotal)
	if err != nil {
		return nil, err
	}
	return &PromoQuote{
		Valid:          true,
		Code:           promo.Code,
		DiscountAmount: discount,
		FinalAmount:    utils.Round2(cartTotal.Sub(discount)),
		Message:        utils.MsgPromoApplied,
	}, nil
}

// QuoteTx evaluates code inside tx and returns the promo with its discount
func (s *PromoService) QuoteTx(tx *gorm.DB, code string, cartTotal decimal.Decimal) (*models.PromoCode, decimal.Decimal, error) {
	promo, err := s.find(tx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}
	discount, err := s.evaluate(promo, cartTotal)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return promo, discount, nil
}

// RedeemTx consumes one use of the promo inside tx. The limit is re-checked
// in the UPDATE itself so concurrent orders cannot exceed it.
func (s *PromoService) RedeemTx(tx *gorm.DB, promoID uint) error {
	res := tx.Model(&models.PromoCode{}).
		Where("id = ? AND is_active = ? AND (usage_limit IS NULL OR times_used < usage_limit)", promoID, true).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPromoLimitReached
	}
	return nil
}

func (s *PromoService) find(db *gorm.DB, code string) (*models.PromoCode, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, utils.ValidationErr("Promo code is required")
	}
	var promo models.PromoCode
	if err := db.Where("code = ? AND is_active = ?", code, true).First(&promo).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrPromoNotFound
		}
		return nil, utils.UpstreamErr(err)
	}
	return &promo, nil
}

func (s *PromoService) evaluate(promo *models.PromoCode, cartTotal decimal.Decimal) (decimal.Decimal, error) {
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(s.now()) {
		return decimal.Zero, ErrPromoExpired
	}
	if promo.UsageLimit != nil && promo.TimesUsed >= *promo.UsageLimit {
		return decimal.Zero, ErrPromoLimitReached
	}
	if cartTotal.LessThan(promo.MinOrderAmount) {
		return decimal.Zero, ErrPromoMinimum
	}
	return Discount(promo, cartTotal), nil
}

// Discount computes the discount a promo gives on cartTotal. The result never
// exceeds cartTotal.
func Discount(promo *models.PromoCode, cartTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch promo.DiscountType {
	case models.DiscountTypePercentage:
		discount = cartTotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
		if promo.MaxDiscount != nil && promo.MaxDiscount.IsPositive() && discount.GreaterThan(*promo.MaxDiscount) {
			discount = *promo.MaxDiscount
		}
	default:
		discount = promo.DiscountValue
	}
	discount = decimal.Min(discount, cartTotal)
	if discount.IsNegative() {
		return decimal.Zero
	}
	return utils.Round2(discount)
}

// CreatePromo validates and stores a new promo code
func (s *PromoService) CreatePromo(ctx context.Context, input CreatePromoInput) (*models.PromoCode, error) {
	code := NormalizeCode(input.Code)
	switch {
	case code == "":
		return nil, utils.ValidationErr("Promo code is required")
	case input.DiscountType != models.DiscountTypePercentage && input.DiscountType != models.DiscountTypeFixed:
		return nil, utils.ValidationErr("Discount type must be percentage or fixed")
	case !input.DiscountValue.IsPositive():
		return nil, utils.ValidationErr("Discount value must be greater than 0")
	case input.DiscountType == models.DiscountTypePercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)):
		return nil, utils.ValidationErr("Percentage discount cannot exceed 100")
	case input.MinOrderAmount.IsNegative():
		return nil, utils.ValidationErr("Minimum order amount cannot be negative")
	case input.UsageLimit != nil && *input.UsageLimit < 1:
		return nil, utils.ValidationErr("Usage limit must be at least 1")
	case input.ExpiresAt != nil && input.ExpiresAt.Before(s.now()):
		return nil, utils.ValidationErr("Expiry date must be in the future")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.PromoCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	if count > 0 {
		return nil, utils.ValidationErr("Promo code already exists")
	}

	promo := &models.PromoCode{
		Code:           code,
		DiscountType:   input.DiscountType,
		DiscountValue:  utils.Round2(input.DiscountValue),
		MinOrderAmount: utils.Round2(input.MinOrderAmount),
		MaxDiscount:    input.MaxDiscount,
		UsageLimit:     input.UsageLimit,
		ExpiresAt:      input.ExpiresAt,
		IsActive:       true,
	}
	if err := db.Create(promo).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	// is_active has a database default, so false must be written explicitly
	if input.IsActive != nil && !*input.IsActive {
		if err := s.SetPromoActive(ctx, promo.ID, false); err != nil {
			return nil, err
		}
		promo.IsActive = false
	}
	utils.LogInfo("Promo code %s created (%s %s)", promo.Code, promo.DiscountType, promo.DiscountValue.String())
	return promo, nil
}

// ListPromos returns a page of promo codes, newest first
func (s *PromoService) ListPromos(ctx context.Context, page *utils.Pagination) ([]models.PromoCode, error) {
	var total int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.PromoCode{}).Count(&total).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	page.SetTotal(total)

	var promos []models.PromoCode
	if err := db.Order("created_at DESC, id DESC").Offset(page.Offset).Limit(page.Limit).Find(&promos).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return promos, nil
}

// SetPromoActive enables or disables a promo code
func (s *PromoService) SetPromoActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.PromoCode{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPromoNotFound
	}
	return nil
}
