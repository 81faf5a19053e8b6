package services

import (
	"errors"
	"fmt"

	"github.com/Govind-619/ScentSphere/utils"
)

// Business-rule failures. Each carries a user-facing message.
var (
	ErrUnauthorized      = utils.UnauthorizedErr(utils.ErrUnauthorized)
	ErrForbidden         = utils.ForbiddenErr(utils.ErrForbidden)
	ErrProfileNotFound   = utils.NotFoundErr("Account not found")
	ErrInsufficientFunds = utils.NewAppError(utils.KindInsufficientFunds, "Insufficient wallet balance. Please top up your wallet or choose another payment method.", nil)
	ErrInsufficientStock = utils.NewAppError(utils.KindInsufficientStock, "Not enough stock for one of the items", nil)

	ErrPromoNotFound     = utils.NotFoundErr("Invalid or inactive promo code")
	ErrPromoExpired      = utils.NewAppError(utils.KindExpired, "Promo code has expired", nil)
	ErrPromoLimitReached = utils.NewAppError(utils.KindLimitReached, "Promo code usage limit reached", nil)
	ErrPromoMinimum      = utils.NewAppError(utils.KindMinimumNotMet, "Cart total is less than the minimum order amount for this promo code", nil)

	ErrGiftCodeNotFound = utils.NotFoundErr("Gift code not found")
	ErrAlreadyRedeemed  = utils.NewAppError(utils.KindAlreadyProcessed, "Gift code has already been redeemed", nil)
	ErrCodeGeneration   = errors.New("could not generate a unique gift code")

	ErrTransactionNotFound = utils.NotFoundErr("Transaction not found")
	ErrAlreadyProcessed    = utils.NewAppError(utils.KindAlreadyProcessed, "Transaction has already been processed", nil)

	ErrOrderNotFound     = utils.NotFoundErr("Order not found")
	ErrOrderNotPending   = utils.NewAppError(utils.KindAlreadyProcessed, "Order can no longer be changed", nil)
	ErrOrderAlreadyPaid  = utils.NewAppError(utils.KindAlreadyProcessed, "Order is already paid", nil)
	ErrPaymentReviewed   = utils.NewAppError(utils.KindAlreadyProcessed, "Payment proof has already been reviewed", nil)
	ErrNoPaymentProof    = utils.ValidationErr("This order has no payment proof to review")
	ErrProofNotReviewed  = utils.ValidationErr("Verify the payment proof before shipping this order")
	ErrProductNotFound   = utils.NotFoundErr("Product not found")
	ErrVariantNotFound   = utils.NotFoundErr("Product size not found")
	ErrPaymentNotFound   = utils.NotFoundErr("Payment not found")
	ErrPaymentSignature  = utils.ValidationErr("Payment verification failed")
	ErrGatewayNotEnabled = utils.ValidationErr("Online payment is not available")
)

func outOfStock(name, size string, available, requested int) error {
	return utils.NewAppError(utils.KindInsufficientStock,
		fmt.Sprintf("'%s' (%s) does not have enough stock. Available: %d, Requested: %d", name, size, available, requested), ErrInsufficientStock)
}
