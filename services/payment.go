package services

import (
	"context"
	"fmt"

	"github.com/Govind-619/ScentSphere/utils"
	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
)

// PaymentGateway creates hosted payment orders and verifies their callbacks
type PaymentGateway interface {
	// CreateOrder registers amount with the gateway and returns its order id
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error)
	// VerifySignature checks the callback signature of a completed payment
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	// PublicKey is handed to the browser checkout widget
	PublicKey() string
}

// RazorpayGateway is a PaymentGateway backed by Razorpay
type RazorpayGateway struct {
	key    string
	secret string
	client *razorpay.Client
}

// NewRazorpayGateway returns nil when no credentials are configured
func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	if key == "" || secret == "" {
		return nil
	}
	return &RazorpayGateway{
		key:    key,
		secret: secret,
		client: razorpay.NewClient(key, secret),
	}
}

// CreateOrder creates a Razorpay order. Amounts are sent in paise.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	paise := utils.Round2(amount).Shift(2).IntPart()
	data := map[string]interface{}{
		"amount":          paise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
	}
	rzOrder, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay: create order: %w", err)
	}
	id, ok := rzOrder["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay: order response has no id")
	}
	return id, nil
}

// VerifySignature checks the checkout callback signature for order and payment id
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}, signature, g.secret)
}

func (g *RazorpayGateway) PublicKey() string {
	return g.key
}
