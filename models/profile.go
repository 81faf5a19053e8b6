package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Profile holds the store-side state of an identity-provider user.
// The ID is the identity provider's user id.
type Profile struct {
	ID            uint            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Email         string          `gorm:"index;not null" json:"email"`
	FullName      string          `json:"full_name"`
	WalletBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;check:wallet_balance >= 0" json:"wallet_balance"`
	Role          string          `gorm:"not null;default:'customer'" json:"role"`
	IsBanned      bool            `gorm:"default:false" json:"is_banned"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsAdmin reports whether the profile has the admin role
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
