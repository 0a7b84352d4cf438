package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/internal/core/ports/mocks"
	"finledger/pkg/apperror"
	"finledger/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testFingerprint = "a3f1c2d4e5b6978012345678901234567890abcdefabcdefabcdefabcdef0123"

type ledgerFixture struct {
	txRepo     *mocks.MockTransactionRepository
	walletRepo *mocks.MockWalletRepository
	alertRepo  *mocks.MockAlertRepository
	fpSvc      *mocks.MockFingerprintService
	fraudSvc   *mocks.MockFraudService
	svc        *LedgerServiceImpl
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	ctrl := gomock.NewController(t)
	f := &ledgerFixture{
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		alertRepo:  mocks.NewMockAlertRepository(ctrl),
		fpSvc:      mocks.NewMockFingerprintService(ctrl),
		fraudSvc:   mocks.NewMockFraudService(ctrl),
	}
	f.svc = NewLedgerService(f.txRepo, f.walletRepo, f.alertRepo, f.fpSvc, f.fraudSvc, metrics.NewCollector(), zerolog.Nop())
	return f
}

func activeWallet(ownerID uuid.UUID, balance int64) *domain.Wallet {
	return &domain.Wallet{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     "main",
		Currency: "USD",
		Balance:  balance,
		Status:   domain.WalletStatusActive,
	}
}

// expectQuietAssessment wires the post-commit fraud pass for tests that
// don't care about it.
func (f *ledgerFixture) expectQuietAssessment(ownerID uuid.UUID) {
	f.txRepo.EXPECT().
		ListRecent(gomock.Any(), ownerID, gomock.Any(), fraudHistoryLimit).
		Return(nil, nil)
	f.fraudSvc.EXPECT().
		Assess(gomock.Any(), gomock.Any()).
		Return(domain.FraudAssessment{Score: 0, Severity: domain.FraudSeverityLow})
	f.txRepo.EXPECT().
		SetMetadata(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)
}

func TestLedgerService_CreateTransaction_Credit(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().
		Compute(ownerID, wallet.ID, domain.DirectionCredit, int64(500), gomock.Any()).
		Return(testFingerprint, nil)
	f.walletRepo.EXPECT().
		ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(500)).
		Return(&domain.Wallet{ID: wallet.ID, OwnerID: ownerID, Currency: "USD", Balance: 1500, Status: domain.WalletStatusActive}, nil)
	f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.expectQuietAssessment(ownerID)

	txn, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:     ownerID,
		Direction:   domain.DirectionCredit,
		Amount:      500,
		Description: "salary",
		Category:    "income",
	})

	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, testFingerprint, txn.Fingerprint)
	assert.Equal(t, "USD", txn.Currency)
	assert.Equal(t, wallet.ID, txn.WalletID)
	assert.False(t, txn.Reversed)
}

func TestLedgerService_CreateTransaction_DefaultsCategory(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil)
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(100)).Return(wallet, nil)
	f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.expectQuietAssessment(ownerID)

	txn, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionCredit,
		Amount:    100,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, txn.Category)
}

func TestLedgerService_CreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name     string
		req      ports.CreateTransactionRequest
		wantCode string
	}{
		{
			name:     "unknown direction",
			req:      ports.CreateTransactionRequest{Direction: "SIDEWAYS", Amount: 100},
			wantCode: "VAL_002",
		},
		{
			name:     "zero amount",
			req:      ports.CreateTransactionRequest{Direction: domain.DirectionCredit, Amount: 0},
			wantCode: "VAL_003",
		},
		{
			name:     "negative amount",
			req:      ports.CreateTransactionRequest{Direction: domain.DirectionDebit, Amount: -5},
			wantCode: "VAL_003",
		},
		{
			name: "occurred in the future",
			req: ports.CreateTransactionRequest{
				Direction:  domain.DirectionCredit,
				Amount:     100,
				OccurredAt: time.Now().UTC().Add(time.Hour),
			},
			wantCode: "VAL_005",
		},
		{
			name:     "unknown status",
			req:      ports.CreateTransactionRequest{Direction: domain.DirectionCredit, Amount: 100, Status: "MAYBE"},
			wantCode: "VAL_001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			tt.req.OwnerID = uuid.New()

			_, err := f.svc.CreateTransaction(context.Background(), tt.req)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestLedgerService_CreateTransaction_WalletNotFound(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(nil, nil)

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionCredit,
		Amount:    100,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RES_001", appErr.Code)
}

func TestLedgerService_CreateTransaction_ForeignWalletHidden(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	foreign := activeWallet(uuid.New(), 1000)

	f.walletRepo.EXPECT().GetByID(gomock.Any(), foreign.ID).Return(foreign, nil)

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		WalletID:  &foreign.ID,
		Direction: domain.DirectionCredit,
		Amount:    100,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RES_001", appErr.Code)
}

func TestLedgerService_CreateTransaction_InactiveWallet(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)
	wallet.Status = domain.WalletStatusFrozen

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionDebit,
		Amount:    100,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_002", appErr.Code)
}

func TestLedgerService_CreateTransaction_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 50)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionDebit,
		Amount:    100,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_001", appErr.Code)
}

func TestLedgerService_CreateTransaction_GuardRejected(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil)
	// Concurrent writer drained the wallet between read and update.
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(-800)).Return(nil, nil)

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionDebit,
		Amount:    800,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_003", appErr.Code)
}

func TestLedgerService_CreateTransaction_FingerprintCollisionRetried(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)
	second := "b" + testFingerprint[1:]

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	gomock.InOrder(
		f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil),
		f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(second, nil),
	)
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(200)).Return(wallet, nil)
	gomock.InOrder(
		f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ports.ErrDuplicateFingerprint),
		f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
	)
	f.expectQuietAssessment(ownerID)

	txn, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionCredit,
		Amount:    200,
	})

	require.NoError(t, err)
	assert.Equal(t, second, txn.Fingerprint)
}

func TestLedgerService_CreateTransaction_CompensatesOnLedgerFailure(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil)
	gomock.InOrder(
		f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(-300)).Return(wallet, nil),
		// The inverse delta restores the balance.
		f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(300)).Return(wallet, nil),
	)
	f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionDebit,
		Amount:    300,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INT_002", appErr.Code)
	assert.False(t, apperror.IsCompensationFailure(err))
}

func TestLedgerService_CreateTransaction_CompensationFailureIsFatal(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil)
	gomock.InOrder(
		f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(-300)).Return(wallet, nil),
		f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(300)).Return(nil, errors.New("connection lost")),
	)
	f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionDebit,
		Amount:    300,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FATAL_001", appErr.Code)
	assert.True(t, apperror.IsCompensationFailure(err))
}

func TestLedgerService_CreateTransaction_FlaggedRaisesAlert(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1_000_000)

	assessment := domain.FraudAssessment{
		Score:    80,
		Reasons:  []string{"high-value transaction", "late-night activity"},
		Flagged:  true,
		Severity: domain.FraudSeverityHigh,
	}

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil)
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(-90000)).Return(wallet, nil)
	f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.txRepo.EXPECT().ListRecent(gomock.Any(), ownerID, gomock.Any(), fraudHistoryLimit).Return(nil, nil)
	f.fraudSvc.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(assessment)
	f.txRepo.EXPECT().SetMetadata(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var captured *domain.FraudAlert
	f.alertRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alert *domain.FraudAlert) error {
			captured = alert
			return nil
		})

	txn, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionDebit,
		Amount:    90000,
	})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, txn.ID, captured.TransactionID)
	assert.Equal(t, 80, captured.Score)
	assert.Equal(t, domain.AlertStatusOpen, captured.Status)
	assert.Equal(t, assessment, txn.Metadata[domain.MetadataKeyFraud])
}

func TestLedgerService_CreateTransaction_AssessmentFailureDoesNotRollBack(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)

	f.walletRepo.EXPECT().GetByOwner(gomock.Any(), ownerID).Return(wallet, nil)
	f.fpSvc.EXPECT().Compute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testFingerprint, nil)
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(100)).Return(wallet, nil)
	f.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.txRepo.EXPECT().ListRecent(gomock.Any(), ownerID, gomock.Any(), fraudHistoryLimit).Return(nil, errors.New("db down"))

	txn, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		OwnerID:   ownerID,
		Direction: domain.DirectionCredit,
		Amount:    100,
	})

	require.NoError(t, err)
	require.NotNil(t, txn)
}

func TestLedgerService_ReverseTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)
	txn := &domain.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		WalletID:    wallet.ID,
		Direction:   domain.DirectionDebit,
		Amount:      400,
		Fingerprint: testFingerprint,
	}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	// Reversing a debit credits the amount back.
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(400)).Return(wallet, nil)
	f.txRepo.EXPECT().MarkReversed(gomock.Any(), txn.ID, gomock.Any()).Return(nil)

	reversed, err := f.svc.ReverseTransaction(context.Background(), ownerID, txn.ID)

	require.NoError(t, err)
	assert.True(t, reversed.Reversed)
	require.NotNil(t, reversed.ReversedAt)
	assert.Equal(t, testFingerprint, reversed.Fingerprint)
}

func TestLedgerService_ReverseTransaction_AlreadyReversed(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: ownerID, Direction: domain.DirectionDebit, Amount: 100, Reversed: true}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)

	_, err := f.svc.ReverseTransaction(context.Background(), ownerID, txn.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_004", appErr.Code)
}

func TestLedgerService_ReverseTransaction_InsufficientBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 50)
	// Reversing a credit deducts 400 from a wallet holding 50.
	txn := &domain.Transaction{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		WalletID:  wallet.ID,
		Direction: domain.DirectionCredit,
		Amount:    400,
	}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(-400)).Return(nil, nil)

	_, err := f.svc.ReverseTransaction(context.Background(), ownerID, txn.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_005", appErr.Code)
}

func TestLedgerService_ReverseTransaction_NotOwned(t *testing.T) {
	f := newLedgerFixture(t)
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: uuid.New(), Direction: domain.DirectionDebit, Amount: 100}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)

	_, err := f.svc.ReverseTransaction(context.Background(), uuid.New(), txn.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RES_001", appErr.Code)
}

func TestLedgerService_ReverseTransaction_CompensatesOnMarkFailure(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	wallet := activeWallet(ownerID, 1000)
	txn := &domain.Transaction{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		WalletID:  wallet.ID,
		Direction: domain.DirectionDebit,
		Amount:    400,
	}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	gomock.InOrder(
		f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(400)).Return(wallet, nil),
		// Re-apply the original delta when the flag cannot be persisted.
		f.walletRepo.EXPECT().ApplyDelta(gomock.Any(), wallet.ID, ownerID, int64(-400)).Return(wallet, nil),
	)
	f.txRepo.EXPECT().MarkReversed(gomock.Any(), txn.ID, gomock.Any()).Return(errors.New("update failed"))

	_, err := f.svc.ReverseTransaction(context.Background(), ownerID, txn.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INT_002", appErr.Code)
}

func TestLedgerService_UpdateTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: ownerID, Direction: domain.DirectionDebit, Amount: 100}
	desc := "groceries"
	patch := ports.TransactionPatch{Description: &desc}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.txRepo.EXPECT().
		UpdateEditable(gomock.Any(), txn.ID, patch).
		Return(&domain.Transaction{ID: txn.ID, OwnerID: ownerID, Description: desc}, nil)

	updated, err := f.svc.UpdateTransaction(context.Background(), ownerID, txn.ID, patch)

	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)
}

func TestLedgerService_UpdateTransaction_RejectsUnknownStatus(t *testing.T) {
	f := newLedgerFixture(t)
	bad := domain.TransactionStatus("MAYBE")

	_, err := f.svc.UpdateTransaction(context.Background(), uuid.New(), uuid.New(), ports.TransactionPatch{Status: &bad})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestLedgerService_UpdateTransaction_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.TransactionStatus
		to      domain.TransactionStatus
		allowed bool
	}{
		{"pending settles to completed", domain.TransactionStatusPending, domain.TransactionStatusCompleted, true},
		{"pending settles to failed", domain.TransactionStatusPending, domain.TransactionStatusFailed, true},
		{"pending cannot be cancelled", domain.TransactionStatusPending, domain.TransactionStatusCancelled, false},
		{"completed can be cancelled", domain.TransactionStatusCompleted, domain.TransactionStatusCancelled, true},
		{"completed cannot return to pending", domain.TransactionStatusCompleted, domain.TransactionStatusPending, false},
		{"failed is terminal", domain.TransactionStatusFailed, domain.TransactionStatusCompleted, false},
		{"cancelled cannot be reopened", domain.TransactionStatusCancelled, domain.TransactionStatusPending, false},
		{"same status is a no-op", domain.TransactionStatusFailed, domain.TransactionStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			ownerID := uuid.New()
			txn := &domain.Transaction{ID: uuid.New(), OwnerID: ownerID, Status: tt.from}
			status := tt.to
			patch := ports.TransactionPatch{Status: &status}

			f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
			if tt.allowed {
				f.txRepo.EXPECT().
					UpdateEditable(gomock.Any(), txn.ID, patch).
					Return(&domain.Transaction{ID: txn.ID, OwnerID: ownerID, Status: status}, nil)
			}

			updated, err := f.svc.UpdateTransaction(context.Background(), ownerID, txn.ID, patch)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, status, updated.Status)
				return
			}
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "LED_007", appErr.Code)
		})
	}
}

func TestLedgerService_VerifyTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: ownerID, Fingerprint: testFingerprint}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.fpSvc.EXPECT().Verify(txn).Return(true)
	f.txRepo.EXPECT().MarkVerified(gomock.Any(), txn.ID, gomock.Any()).Return(nil)

	verified, err := f.svc.VerifyTransaction(context.Background(), ownerID, txn.ID)

	require.NoError(t, err)
	assert.True(t, verified.Verified)
	require.NotNil(t, verified.VerifiedAt)
}

func TestLedgerService_VerifyTransaction_Idempotent(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	at := time.Now().UTC().Add(-time.Hour)
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: ownerID, Fingerprint: testFingerprint, Verified: true, VerifiedAt: &at}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)

	verified, err := f.svc.VerifyTransaction(context.Background(), ownerID, txn.ID)

	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, &at, verified.VerifiedAt)
}

func TestLedgerService_VerifyTransaction_MalformedFingerprint(t *testing.T) {
	f := newLedgerFixture(t)
	ownerID := uuid.New()
	txn := &domain.Transaction{ID: uuid.New(), OwnerID: ownerID, Fingerprint: "not-hex"}

	f.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	f.fpSvc.EXPECT().Verify(txn).Return(false)

	_, err := f.svc.VerifyTransaction(context.Background(), ownerID, txn.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INT_003", appErr.Code)
}
