package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodWallet       = "wallet"
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMobileWallet = "mobile_wallet"
	PaymentMethodOnline       = "online"
)

// Payment status constants
const (
	PaymentStatusUnpaid               = "unpaid"
	PaymentStatusAwaitingVerification = "awaiting_verification"
	PaymentStatusPaid                 = "paid"
	PaymentStatusRefunded             = "refunded"
	PaymentStatusRejected             = "rejected"
)

// RequiresProof reports whether the payment method needs an uploaded receipt
func RequiresProof(method string) bool {
	return method == PaymentMethodBankTransfer || method == PaymentMethodMobileWallet
}

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Value implements driver.Valuer
func (s ShippingInfo) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *ShippingInfo) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = ShippingInfo{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	default:
		return fmt.Errorf("models: cannot scan %T into ShippingInfo", value)
	}
}

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	Status         string          `gorm:"index;not null" json:"status"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_fee"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	WalletAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"wallet_amount"`
	PayableAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"payable_amount"`
	PaymentMethod  string          `gorm:"not null" json:"payment_method"`
	PaymentStatus  string          `gorm:"not null" json:"payment_status"`
	PromoCode      string          `json:"promo_code,omitempty"`
	ProofURL       string          `json:"proof_url,omitempty"`
	GatewayOrderID string          `gorm:"index" json:"gateway_order_id,omitempty"`
	ShippingInfo   ShippingInfo    `gorm:"type:text" json:"shipping_info"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	OrderItems     []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem is an immutable line snapshot taken at purchase time
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	VariantID   uint            `gorm:"index;not null" json:"variant_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeLabel   string          `json:"size_label"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}
