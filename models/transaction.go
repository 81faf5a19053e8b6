package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypePurchase = "purchase"
	TransactionTypeRefund   = "refund"
)

// Transaction status constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusConfirmed = "confirmed"
	TransactionStatusRejected  = "rejected"
)

// Transaction is an append-only wallet ledger entry.
// Amount is signed: positive credits the wallet, negative debits it.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Type        string          `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`
	Status      string          `gorm:"index;not null" json:"status"`
	ProofURL    string          `json:"proof_url,omitempty"`
	Reference   string          `gorm:"index" json:"reference,omitempty"`
	OrderID     *uint           `gorm:"index" json:"order_id,omitempty"`
	ReviewedBy  *uint           `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNote  string          `json:"review_note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsTerminal reports whether the transaction can no longer be reviewed
func (t Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusConfirmed || t.Status == TransactionStatusRejected
}
