package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GiftCode is a single-use prepaid code redeemable for wallet credit
type GiftCode struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"uniqueIndex;not null" json:"code"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedBy      uint            `gorm:"index;not null" json:"created_by"`
	RecipientEmail string          `json:"recipient_email,omitempty"`
	Message        string          `json:"message,omitempty"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	RedeemedBy     *uint           `json:"redeemed_by,omitempty"`
	RedeemedAt     *time.Time      `json:"redeemed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
