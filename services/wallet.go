package services

import (
	"context"
	"fmt"

	"github.com/Govind-619/ScentSphere/metrics"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry describes the Transaction row written alongside a balance change
type LedgerEntry struct {
	Type        string
	Description string
	Reference   string
	OrderID     *uint
}

// WalletService owns Profile.WalletBalance. Every balance change it makes is
// paired with exactly one Transaction row in the same database transaction.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// Balance returns the current wallet balance of a user
func (s *WalletService) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("id", "wallet_balance").First(&profile, userID).Error; err != nil {
		if isNotFound(err) {
			return decimal.Zero, ErrProfileNotFound
		}
		return decimal.Zero, utils.UpstreamErr(err)
	}
	return profile.WalletBalance, nil
}

// ListTransactions returns a page of the user's ledger, newest first
func (s *WalletService) ListTransactions(ctx context.Context, userID uint, page *utils.Pagination) ([]models.Transaction, error) {
	var total int64
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	page.SetTotal(total)

	var txns []models.Transaction
	if err := q.Order("created_at DESC, id DESC").Offset(page.Offset).Limit(page.Limit).Find(&txns).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return txns, nil
}

// Debit removes amount from the user's wallet in its own transaction
func (s *WalletService) Debit(ctx context.Context, userID uint, amount decimal.Decimal, entry LedgerEntry) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = s.DebitTx(tx, userID, amount, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Credit adds amount to the user's wallet in its own transaction
func (s *WalletService) Credit(ctx context.Context, userID uint, amount decimal.Decimal, entry LedgerEntry) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = s.CreditTx(tx, userID, amount, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// DebitTx removes amount from the wallet inside tx. The balance check and the
// subtraction are one guarded statement, so concurrent debits cannot overdraw.
func (s *WalletService) DebitTx(tx *gorm.DB, userID uint, amount decimal.Decimal, entry LedgerEntry) (*models.Transaction, error) {
	amount = utils.Round2(amount)
	if !amount.IsPositive() {
		return nil, ErrInsufficientFunds
	}
	if err := lockProfile(tx, userID); err != nil {
		return nil, err
	}

	res := tx.Model(&models.Profile{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if res.Error != nil {
		return nil, utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		utils.LogInfo("Insufficient funds for user %d: debit %s (%s)", userID, utils.FormatMoney(amount), entry.Type)
		return nil, ErrInsufficientFunds
	}

	txn, err := writeLedger(tx, userID, amount.Neg(), entry)
	if err != nil {
		return nil, err
	}
	metrics.WalletMovements.WithLabelValues(entry.Type, "debit").Inc()
	return txn, nil
}

// CreditTx adds amount to the wallet inside tx
func (s *WalletService) CreditTx(tx *gorm.DB, userID uint, amount decimal.Decimal, entry LedgerEntry) (*models.Transaction, error) {
	amount = utils.Round2(amount)
	if !amount.IsPositive() {
		return nil, utils.ValidationErr("Amount must be greater than 0")
	}
	if err := lockProfile(tx, userID); err != nil {
		return nil, err
	}
	if err := addToBalance(tx, userID, amount); err != nil {
		return nil, err
	}

	txn, err := writeLedger(tx, userID, amount, entry)
	if err != nil {
		return nil, err
	}
	metrics.WalletMovements.WithLabelValues(entry.Type, "credit").Inc()
	return txn, nil
}

func lockProfile(tx *gorm.DB, userID uint) error {
	var profile models.Profile
	if err := forUpdate(tx).Select("id").First(&profile, userID).Error; err != nil {
		if isNotFound(err) {
			return ErrProfileNotFound
		}
		return utils.UpstreamErr(err)
	}
	return nil
}

// addToBalance credits without writing a ledger row. Callers must already own
// the Transaction row that accounts for the change.
func addToBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	res := tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if res.Error != nil {
		return utils.UpstreamErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func writeLedger(tx *gorm.DB, userID uint, signed decimal.Decimal, entry LedgerEntry) (*models.Transaction, error) {
	txn := &models.Transaction{
		UserID:      userID,
		Type:        entry.Type,
		Amount:      signed,
		Description: entry.Description,
		Status:      models.TransactionStatusConfirmed,
		Reference:   entry.Reference,
		OrderID:     entry.OrderID,
	}
	if err := tx.Create(txn).Error; err != nil {
		return nil, utils.UpstreamErr(fmt.Errorf("write ledger entry: %w", err))
	}
	return txn, nil
}
