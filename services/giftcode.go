package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/Govind-619/ScentSphere/metrics"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	giftCodePrefix   = "SCENT-"
	giftCodeLength   = 10
	giftCodeAttempts = 5
	// no 0/O or 1/I/L
	giftCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

var (
	MinGiftAmount = decimal.NewFromInt(1)
	MaxGiftAmount = decimal.NewFromInt(10000)
)

// GiftNotifier delivers a purchased gift code to its recipient
type GiftNotifier interface {
	SendGiftCard(to string, gift models.GiftCode, senderEmail string) error
}

// PurchaseGiftInput is a gift card purchase request
type PurchaseGiftInput struct {
	UserID         uint
	SenderEmail    string
	Amount         decimal.Decimal
	RecipientEmail string
	Message        string
}

// GiftCodeService issues gift codes against the purchaser's wallet and
// redeems them into the redeemer's wallet
type GiftCodeService struct {
	db       *gorm.DB
	wallet   *WalletService
	notifier GiftNotifier
	generate func() (string, error)
	now      Clock
}

func NewGiftCodeService(db *gorm.DB, wallet *WalletService, notifier GiftNotifier) *GiftCodeService {
	return &GiftCodeService{
		db:       db,
		wallet:   wallet,
		notifier: notifier,
		generate: GenerateGiftCode,
		now:      time.Now,
	}
}

// GenerateGiftCode returns a random code such as SCENT-7KQ2MZ9XHP
func GenerateGiftCode() (string, error) {
	size := big.NewInt(int64(len(giftCodeAlphabet)))
	b := make([]byte, giftCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = giftCodeAlphabet[n.Int64()]
	}
	return giftCodePrefix + string(b), nil
}

// Purchase debits the purchaser and issues an active gift code in one
// transaction. The recipient is emailed after commit.
func (s *GiftCodeService) Purchase(ctx context.Context, input PurchaseGiftInput) (*models.GiftCode, error) {
	amount := utils.Round2(input.Amount)
	if amount.LessThan(MinGiftAmount) || amount.GreaterThan(MaxGiftAmount) {
		return nil, utils.ValidationErr("Gift card amount must be between 1 and 10000")
	}
	if input.RecipientEmail != "" && !utils.ValidateEmail(input.RecipientEmail) {
		return nil, utils.ValidationErr("Invalid recipient email")
	}

	var gift models.GiftCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.uniqueCode(tx)
		if err != nil {
			return err
		}

		if _, err := s.wallet.DebitTx(tx, input.UserID, amount, LedgerEntry{
			Type:        models.TransactionTypePurchase,
			Description: "Gift card purchase",
			Reference:   code,
		}); err != nil {
			return err
		}

		gift = models.GiftCode{
			Code:           code,
			Amount:         amount,
			CreatedBy:      input.UserID,
			RecipientEmail: input.RecipientEmail,
			Message:        utils.SanitizeString(input.Message),
			IsActive:       true,
		}
		if err := tx.Create(&gift).Error; err != nil {
			return utils.UpstreamErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GiftCodes.WithLabelValues("issued").Inc()
	utils.LogInfo("Gift code %s issued by user %d for %s", gift.Code, input.UserID, utils.FormatMoney(amount))

	if gift.RecipientEmail != "" && s.notifier != nil {
		if err := s.notifier.SendGiftCard(gift.RecipientEmail, gift, input.SenderEmail); err != nil {
			utils.LogError("Failed to email gift code %s to %s: %v", gift.Code, gift.RecipientEmail, err)
		}
	}
	return &gift, nil
}

func (s *GiftCodeService) uniqueCode(tx *gorm.DB) (string, error) {
	for i := 0; i < giftCodeAttempts; i++ {
		code, err := s.generate()
		if err != nil {
			return "", utils.UpstreamErr(err)
		}
		var count int64
		if err := tx.Model(&models.GiftCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", utils.UpstreamErr(err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", utils.UpstreamErr(ErrCodeGeneration)
}

// Redeem credits the code's amount to userID and deactivates the code.
// Of two concurrent redemptions exactly one succeeds.
func (s *GiftCodeService) Redeem(ctx context.Context, userID uint, code string) (*models.GiftCode, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, utils.ValidationErr("Gift code is required")
	}

	var gift models.GiftCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("code = ?", code).First(&gift).Error; err != nil {
			if isNotFound(err) {
				return ErrGiftCodeNotFound
			}
			return utils.UpstreamErr(err)
		}
		if !gift.IsActive {
			return ErrAlreadyRedeemed
		}

		now := s.now()
		res := tx.Model(&models.GiftCode{}).
			Where("id = ? AND is_active = ?", gift.ID, true).
			Updates(map[string]interface{}{
				"is_active":   false,
				"redeemed_by": userID,
				"redeemed_at": now,
			})
		if res.Error != nil {
			return utils.UpstreamErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyRedeemed
		}

		if _, err := s.wallet.CreditTx(tx, userID, gift.Amount, LedgerEntry{
			Type:        models.TransactionTypeDeposit,
			Description: "Gift card redemption",
			Reference:   gift.Code,
		}); err != nil {
			return err
		}

		gift.IsActive = false
		gift.RedeemedBy = &userID
		gift.RedeemedAt = &now
		return nil
	})
	if err != nil {
		if utils.IsKind(err, utils.KindAlreadyProcessed) || utils.IsKind(err, utils.KindNotFound) {
			metrics.GiftCodes.WithLabelValues("rejected").Inc()
			utils.LogInfo("Gift code redemption rejected for user %d: %v", userID, err)
		}
		return nil, err
	}

	metrics.GiftCodes.WithLabelValues("redeemed").Inc()
	utils.LogInfo("Gift code %s redeemed by user %d for %s", gift.Code, userID, utils.FormatMoney(gift.Amount))
	return &gift, nil
}

// ListPurchased returns the gift codes bought by userID, newest first
func (s *GiftCodeService) ListPurchased(ctx context.Context, userID uint) ([]models.GiftCode, error) {
	var gifts []models.GiftCode
	if err := s.db.WithContext(ctx).Where("created_by = ?", userID).Order("created_at DESC, id DESC").Find(&gifts).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return gifts, nil
}
