package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/Govind-619/ScentSphere/metrics"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// Review actions
const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
)

var (
	MinTopUpAmount = decimal.NewFromInt(1)
	MaxTopUpAmount = decimal.NewFromInt(50000)
)

// ReviewResult reports the outcome of processing a top-up
type ReviewResult struct {
	Transaction *models.Transaction `json:"transaction"`
	// AlreadyProcessed is true when the same action had been applied before
	AlreadyProcessed bool `json:"already_processed"`
}

// TopUpService is the manual top-up review queue. A pending deposit moves to
// confirmed (wallet credited) or rejected exactly once.
type TopUpService struct {
	db  *gorm.DB
	now Clock
}

func NewTopUpService(db *gorm.DB) *TopUpService {
	return &TopUpService{db: db, now: time.Now}
}

// SubmitTopUp queues a pending deposit. The balance is not touched until an
// admin confirms it.
func (s *TopUpService) SubmitTopUp(ctx context.Context, userID uint, amount decimal.Decimal, proofURL string) (*models.Transaction, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	amount = utils.Round2(amount)
	if amount.LessThan(MinTopUpAmount) || amount.GreaterThan(MaxTopUpAmount) {
		return nil, utils.ValidationErr("Top-up amount must be between 1 and 50000")
	}
	if strings.TrimSpace(proofURL) == "" {
		return nil, utils.ValidationErr("Payment proof is required")
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Description: "Wallet top-up",
		Status:      models.TransactionStatusPending,
		ProofURL:    proofURL,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProfile(tx, userID); err != nil {
			return err
		}
		if err := tx.Create(txn).Error; err != nil {
			return utils.UpstreamErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Top-up request %d submitted by user %d for %s", txn.ID, userID, utils.FormatMoney(amount))
	return txn, nil
}

// List returns manual top-ups, optionally filtered by status, oldest first
func (s *TopUpService) List(ctx context.Context, status string, page *utils.Pagination) ([]models.Transaction, error) {
	q := s.topUps(s.db.WithContext(ctx), status)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	page.SetTotal(total)

	var txns []models.Transaction
	if err := q.Order("created_at ASC, id ASC").Offset(page.Offset).Limit(page.Limit).Find(&txns).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return txns, nil
}

// ListPending returns the open review queue
func (s *TopUpService) ListPending(ctx context.Context, page *utils.Pagination) ([]models.Transaction, error) {
	return s.List(ctx, models.TransactionStatusPending, page)
}

func (s *TopUpService) topUps(db *gorm.DB, status string) *gorm.DB {
	q := db.Model(&models.Transaction{}).Where("type = ? AND proof_url <> ''", models.TransactionTypeDeposit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q
}

// Process applies an admin decision to a pending top-up. Repeating the
// decision already recorded is a no-op; the opposite decision fails.
func (s *TopUpService) Process(ctx context.Context, actor *models.Profile, id uint, action, note string) (*ReviewResult, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var target string
	switch action {
	case ActionConfirm:
		target = models.TransactionStatusConfirmed
	case ActionReject:
		target = models.TransactionStatusRejected
	default:
		return nil, utils.ValidationErr("Action must be confirm or reject")
	}

	result := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := forUpdate(s.topUps(tx, "")).Where("id = ?", id).First(&txn).Error; err != nil {
			if isNotFound(err) {
				return ErrTransactionNotFound
			}
			return utils.UpstreamErr(err)
		}
		result.Transaction = &txn

		if txn.IsTerminal() {
			if txn.Status == target {
				result.AlreadyProcessed = true
				return nil
			}
			return ErrAlreadyProcessed
		}

		now := s.now()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", txn.ID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":      target,
				"reviewed_by": actor.ID,
				"reviewed_at": now,
				"review_note": utils.SanitizeString(note),
			})
		if res.Error != nil {
			return utils.UpstreamErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if target == models.TransactionStatusConfirmed {
			// the deposit row is the ledger entry for this credit
			if err := addToBalance(tx, txn.UserID, txn.Amount); err != nil {
				return err
			}
			metrics.WalletMovements.WithLabelValues(models.TransactionTypeDeposit, "credit").Inc()
		}

		txn.Status = target
		txn.ReviewedBy = &actor.ID
		txn.ReviewedAt = &now
		txn.ReviewNote = utils.SanitizeString(note)
		return nil
	})
	if err != nil {
		metrics.TopUpReviews.WithLabelValues(action, "error").Inc()
		return nil, err
	}

	if result.AlreadyProcessed {
		metrics.TopUpReviews.WithLabelValues(action, "noop").Inc()
		utils.LogInfo("Top-up %d already %s, no change", id, result.Transaction.Status)
	} else {
		metrics.TopUpReviews.WithLabelValues(action, "applied").Inc()
		utils.LogInfo("Top-up %d %s by admin %d", id, result.Transaction.Status, actor.ID)
	}
	return result, nil
}

// ExportXLSX renders top-ups with the given status as an Excel workbook
func (s *TopUpService) ExportXLSX(ctx context.Context, status string) ([]byte, error) {
	var txns []models.Transaction
	if err := s.topUps(s.db.WithContext(ctx), status).Order("created_at ASC, id ASC").Find(&txns).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Top-ups")
	if err != nil {
		return nil, err
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("SCENTSPHERE - Wallet Top-ups")
	filterRow := sheet.AddRow()
	if status == "" {
		filterRow.AddCell().SetString("Status: all")
	} else {
		filterRow.AddCell().SetString("Status: " + status)
	}
	sheet.AddRow()

	headers := []string{"ID", "User ID", "Amount", "Status", "Submitted", "Reviewed By", "Reviewed At", "Note", "Proof"}
	headerRow := sheet.AddRow()
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}

	total := decimal.Zero
	for _, txn := range txns {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(txn.ID))
		row.AddCell().SetInt(int(txn.UserID))
		row.AddCell().SetString(utils.FormatMoney(txn.Amount))
		row.AddCell().SetString(txn.Status)
		row.AddCell().SetString(txn.CreatedAt.Format("2006-01-02 15:04"))
		if txn.ReviewedBy != nil {
			row.AddCell().SetInt(int(*txn.ReviewedBy))
		} else {
			row.AddCell().SetString("")
		}
		if txn.ReviewedAt != nil {
			row.AddCell().SetString(txn.ReviewedAt.Format("2006-01-02 15:04"))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(txn.ReviewNote)
		row.AddCell().SetString(txn.ProofURL)
		total = total.Add(txn.Amount)
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Total")
	summaryRow.AddCell().SetString("")
	summaryRow.AddCell().SetString(utils.FormatMoney(total))
	summaryRow.Cells[0].SetStyle(style)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
