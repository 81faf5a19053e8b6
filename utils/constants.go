package utils

// Application constants
const (
	// Application name
	AppName = "ScentSphere"

	// API version
	APIVersion = "v1"

	// Default pagination limit
	DefaultPaginationLimit = 12

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Maximum file size for uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	// Session key holding the serialized cart
	CartSessionKey = "cart"
)

// Error messages
const (
	ErrUnauthorized    = "Please login for access"
	ErrForbidden       = "Admin access required"
	ErrUserBanned      = "Your account has been suspended"
	ErrInvalidRequest  = "Invalid request"
	ErrInvalidFileType = "Invalid file type. Allowed types: jpg, jpeg, png, webp"
	ErrFileTooLarge    = "File size exceeds 5MB limit"
)

// Success messages
const (
	MsgOrderPlaced       = "Thank you for shopping with us! Your order has been placed successfully."
	MsgGiftCardPurchased = "Gift card purchased successfully"
	MsgGiftCardRedeemed  = "Gift card redeemed to your wallet"
	MsgPromoApplied      = "Promo code applied"
	MsgTopUpSubmitted    = "Top-up request submitted for review"
)
