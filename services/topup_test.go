package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/testutil"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

const proofURL = "https://cdn.example.com/proofs/1/receipt.png"

func TestSubmitTopUpLeavesBalance(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, "10.00")
	topups := NewTopUpService(db)

	txn, err := topups.SubmitTopUp(context.Background(), 1, testutil.Money("250"), proofURL)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
	testutil.AssertMoney(t, "250", txn.Amount)
	testutil.AssertMoney(t, "10", testutil.Balance(t, db, 1))
}

func TestSubmitTopUpValidation(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, "0.00")
	topups := NewTopUpService(db)
	ctx := context.Background()

	_, err := topups.SubmitTopUp(ctx, 1, testutil.Money("100"), "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = topups.SubmitTopUp(ctx, 1, testutil.Money("0.5"), proofURL)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = topups.SubmitTopUp(ctx, 1, testutil.Money("50000.01"), proofURL)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = topups.SubmitTopUp(ctx, 0, testutil.Money("100"), proofURL)
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
	_, err = topups.SubmitTopUp(ctx, 77, testutil.Money("100"), proofURL)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestConfirmTopUpTwiceCreditsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, "10.00")
	admin := testutil.CreateTestAdmin(t, db, 100)
	topups := NewTopUpService(db)
	ctx := context.Background()

	txn, err := topups.SubmitTopUp(ctx, 1, testutil.Money("250"), proofURL)
	require.NoError(t, err)

	result, err := topups.Process(ctx, admin, txn.ID, ActionConfirm, "receipt matches")
	require.NoError(t, err)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, models.TransactionStatusConfirmed, result.Transaction.Status)
	require.NotNil(t, result.Transaction.ReviewedBy)
	assert.Equal(t, admin.ID, *result.Transaction.ReviewedBy)
	testutil.AssertMoney(t, "260", testutil.Balance(t, db, 1))

	result, err = topups.Process(ctx, admin, txn.ID, ActionConfirm, "")
	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
	testutil.AssertMoney(t, "260", testutil.Balance(t, db, 1))

	// the deposit row is the only ledger entry
	assert.Len(t, testutil.Transactions(t, db, 1), 1)

	_, err = topups.Process(ctx, admin, txn.ID, ActionReject, "")
	assert.True(t, errors.Is(err, ErrAlreadyProcessed))
	testutil.AssertMoney(t, "260", testutil.Balance(t, db, 1))
}

func TestRejectTopUp(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, "10.00")
	admin := testutil.CreateTestAdmin(t, db, 100)
	topups := NewTopUpService(db)
	ctx := context.Background()

	txn, err := topups.SubmitTopUp(ctx, 1, testutil.Money("250"), proofURL)
	require.NoError(t, err)

	result, err := topups.Process(ctx, admin, txn.ID, ActionReject, "blurry receipt")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRejected, result.Transaction.Status)
	assert.Equal(t, "blurry receipt", result.Transaction.ReviewNote)
	testutil.AssertMoney(t, "10", testutil.Balance(t, db, 1))

	_, err = topups.Process(ctx, admin, txn.ID, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrAlreadyProcessed))
	testutil.AssertMoney(t, "10", testutil.Balance(t, db, 1))
}

func TestProcessTopUpGuards(t *testing.T) {
	db := testutil.NewDB(t)
	customer := testutil.CreateTestProfile(t, db, 1, "10.00")
	admin := testutil.CreateTestAdmin(t, db, 100)
	topups := NewTopUpService(db)
	ctx := context.Background()

	txn, err := topups.SubmitTopUp(ctx, 1, testutil.Money("50"), proofURL)
	require.NoError(t, err)

	_, err = topups.Process(ctx, customer, txn.ID, ActionConfirm, "")
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
	_, err = topups.Process(ctx, nil, txn.ID, ActionConfirm, "")
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
	_, err = topups.Process(ctx, admin, txn.ID, "approve", "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	_, err = topups.Process(ctx, admin, 9999, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrTransactionNotFound))

	// ledger rows that are not manual top-ups are not reviewable
	wallet := NewWalletService(db)
	refund, err := wallet.Credit(ctx, 1, testutil.Money("5"), LedgerEntry{Type: models.TransactionTypeRefund})
	require.NoError(t, err)
	_, err = topups.Process(ctx, admin, refund.ID, ActionConfirm, "")
	assert.True(t, errors.Is(err, ErrTransactionNotFound))

	testutil.AssertMoney(t, "15", testutil.Balance(t, db, 1))
}

func TestConcurrentConfirmCreditsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, "0.00")
	admin := testutil.CreateTestAdmin(t, db, 100)
	topups := NewTopUpService(db)
	ctx := context.Background()

	txn, err := topups.SubmitTopUp(ctx, 1, testutil.Money("100"), proofURL)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		noops   int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := topups.Process(ctx, admin, txn.ID, ActionConfirm, "")
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if result.AlreadyProcessed {
				noops++
			} else {
				applied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Equal(t, 4, noops)
	testutil.AssertMoney(t, "100", testutil.Balance(t, db, 1))
}

func TestListAndExportTopUps(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateTestProfile(t, db, 1, "0.00")
	admin := testutil.CreateTestAdmin(t, db, 100)
	topups := NewTopUpService(db)
	ctx := context.Background()

	first, err := topups.SubmitTopUp(ctx, 1, testutil.Money("100"), proofURL)
	require.NoError(t, err)
	_, err = topups.SubmitTopUp(ctx, 1, testutil.Money("200"), proofURL)
	require.NoError(t, err)
	_, err = topups.Process(ctx, admin, first.ID, ActionConfirm, "")
	require.NoError(t, err)

	page := utils.NewPage(1, 10)
	pending, err := topups.ListPending(ctx, page)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	testutil.AssertMoney(t, "200", pending[0].Amount)
	assert.EqualValues(t, 1, page.Total)

	all, err := topups.List(ctx, "", utils.NewPage(1, 10))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	data, err := topups.ExportXLSX(ctx, "")
	require.NoError(t, err)
	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, "Top-ups", file.Sheets[0].Name)
	// title, filter, header, two rows, total
	assert.GreaterOrEqual(t, len(file.Sheets[0].Rows), 6)
}
