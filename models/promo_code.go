package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// PromoCode is a discount rule applied to an order subtotal.
// A nil UsageLimit means unlimited.
type PromoCode struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Code           string           `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType   string           `gorm:"not null" json:"discount_type"`
	DiscountValue  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	MinOrderAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"max_discount,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	TimesUsed      int              `gorm:"not null;default:0" json:"times_used"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	IsActive       bool             `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
