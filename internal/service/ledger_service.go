package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"
	"finledger/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Fraud assessment window over the owner's history.
	fraudHistoryWindow = 24 * time.Hour
	fraudHistoryLimit  = 50

	// Bounded retries when the store rejects a fingerprint as duplicate.
	fingerprintRetries = 3
)

// LedgerServiceImpl implements ports.LedgerService.
//
// Balance mutation and record creation are two separate writes against the
// store, coordinated as a saga: the balance delta is applied first through
// the wallet repository's guarded atomic update, and if persisting the
// transaction record then fails, the inverse delta is applied as
// compensation. A failed compensation is surfaced as a distinct fatal
// condition because the store is then genuinely inconsistent.
type LedgerServiceImpl struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.WalletRepository
	alertRepo  ports.AlertRepository
	fpSvc      ports.FingerprintService
	fraudSvc   ports.FraudService
	collector  *metrics.Collector
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	alertRepo ports.AlertRepository,
	fpSvc ports.FingerprintService,
	fraudSvc ports.FraudService,
	collector *metrics.Collector,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:     txRepo,
		walletRepo: walletRepo,
		alertRepo:  alertRepo,
		fpSvc:      fpSvc,
		fraudSvc:   fraudSvc,
		collector:  collector,
		log:        log,
	}
}

// CreateTransaction validates the request, applies the balance delta and
// persists the ledger record, compensating the wallet if the second write
// fails. The fraud assessment runs after commit and never rolls back.
func (s *LedgerServiceImpl) CreateTransaction(ctx context.Context, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.createTransaction(ctx, req)
	if err != nil {
		s.collector.TransactionFailed()
		return nil, err
	}
	return txn, nil
}

func (s *LedgerServiceImpl) createTransaction(ctx context.Context, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
	if !domain.ValidDirection(req.Direction) {
		return nil, apperror.ErrInvalidDirection()
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	status := req.Status
	if status == "" {
		status = domain.TransactionStatusCompleted
	}
	if !domain.ValidTransactionStatus(status) {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction status %q", req.Status))
	}

	now := time.Now().UTC()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	if occurredAt.After(now) {
		return nil, apperror.ErrOccurredInFuture()
	}

	category := req.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	wallet, err := s.resolveWallet(ctx, req.OwnerID, req.WalletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}
	if !wallet.IsActive() {
		return nil, apperror.ErrWalletInactive()
	}

	currency := req.Currency
	if currency == "" {
		currency = wallet.Currency
	}
	if len(currency) != 3 {
		return nil, apperror.ErrInvalidCurrency()
	}

	// Pre-check only; the guarded update in ApplyDelta is authoritative.
	if req.Direction == domain.DirectionDebit && wallet.Balance < req.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	// The fingerprint is computed before the balance moves, so it never
	// describes a mutation that didn't materialize.
	fingerprint, err := s.fpSvc.Compute(req.OwnerID, wallet.ID, req.Direction, req.Amount, occurredAt)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		WalletID:    wallet.ID,
		Direction:   req.Direction,
		Amount:      req.Amount,
		Currency:    currency,
		Description: req.Description,
		Category:    category,
		Status:      status,
		Fingerprint: fingerprint,
		OccurredAt:  occurredAt,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	delta := txn.SignedDelta()
	updated, err := s.walletRepo.ApplyDelta(ctx, wallet.ID, req.OwnerID, delta)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("apply balance delta: %w", err))
	}
	if updated == nil {
		// Guard rejected: concurrent modification, status change or an
		// insufficient balance that slipped past the pre-check.
		return nil, apperror.ErrTransactionFailed()
	}

	if err := s.persistWithRetry(ctx, txn, req.OwnerID, wallet.ID, occurredAt); err != nil {
		return nil, s.compensate(ctx, wallet.ID, req.OwnerID, -delta, err)
	}

	s.collector.TransactionCreated(string(txn.Direction))
	s.collector.WalletBalance(updated.ID.String(), updated.Currency, updated.Balance)
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("direction", string(txn.Direction)).
		Int64("amount", txn.Amount).
		Int64("balance", updated.Balance).
		Msg("transaction committed")

	// Post-commit: a fraud hit raises an alert, never a rollback.
	s.attachFraudAssessment(ctx, txn)

	return txn, nil
}

// persistWithRetry inserts the record, regenerating the fingerprint a
// bounded number of times if the store reports a duplicate.
func (s *LedgerServiceImpl) persistWithRetry(ctx context.Context, txn *domain.Transaction, ownerID, walletID uuid.UUID, occurredAt time.Time) error {
	var err error
	for attempt := 0; attempt <= fingerprintRetries; attempt++ {
		if err = s.txRepo.Create(ctx, txn); err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrDuplicateFingerprint) {
			return err
		}
		s.log.Warn().
			Str("tx_id", txn.ID.String()).
			Int("attempt", attempt+1).
			Msg("fingerprint collision, regenerating")

		fingerprint, fpErr := s.fpSvc.Compute(ownerID, walletID, txn.Direction, txn.Amount, occurredAt)
		if fpErr != nil {
			return fpErr
		}
		txn.Fingerprint = fingerprint
	}
	return err
}

// compensate applies the inverse delta after a failed ledger write. If the
// compensation itself fails the store is inconsistent and the error is
// escalated to the distinct fatal condition.
func (s *LedgerServiceImpl) compensate(ctx context.Context, walletID, ownerID uuid.UUID, inverse int64, cause error) error {
	wallet, err := s.walletRepo.ApplyDelta(ctx, walletID, ownerID, inverse)
	if err != nil || wallet == nil {
		s.collector.CompensationFailed()
		s.log.Error().
			Err(err).
			Str("wallet_id", walletID.String()).
			Int64("inverse_delta", inverse).
			AnErr("cause", cause).
			Bool("inconsistent", true).
			Msg("compensation failed, wallet and ledger diverged")
		if err == nil {
			err = fmt.Errorf("compensating delta not applied")
		}
		return apperror.CompensationFailure(fmt.Errorf("%v (cause: %w)", err, cause))
	}

	s.log.Warn().
		Str("wallet_id", walletID.String()).
		Int64("inverse_delta", inverse).
		Err(cause).
		Msg("ledger write failed, balance compensated")
	return apperror.IntegrityFault(cause)
}

// attachFraudAssessment scores the committed transaction against the
// owner's recent window and attaches the result as metadata. Failures are
// logged and swallowed: the transaction is already committed.
func (s *LedgerServiceImpl) attachFraudAssessment(ctx context.Context, txn *domain.Transaction) {
	since := time.Now().UTC().Add(-fraudHistoryWindow)
	history, err := s.txRepo.ListRecent(ctx, txn.OwnerID, since, fraudHistoryLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("fraud history fetch failed, skipping assessment")
		return
	}

	// The candidate itself may already be in the window.
	recent := history[:0:0]
	for _, h := range history {
		if h.ID != txn.ID {
			recent = append(recent, h)
		}
	}

	assessment := s.fraudSvc.Assess(txn, recent)
	s.collector.FraudScore(assessment.Score)

	if txn.Metadata == nil {
		txn.Metadata = make(map[string]any, 1)
	}
	txn.Metadata[domain.MetadataKeyFraud] = assessment
	if err := s.txRepo.SetMetadata(ctx, txn.ID, txn.Metadata); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to attach fraud assessment")
	}

	if !assessment.Flagged {
		return
	}

	now := time.Now().UTC()
	alert := &domain.FraudAlert{
		ID:            uuid.New(),
		OwnerID:       txn.OwnerID,
		TransactionID: txn.ID,
		Score:         assessment.Score,
		Reasons:       assessment.Reasons,
		Severity:      assessment.Severity,
		Status:        domain.AlertStatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("failed to persist fraud alert")
		return
	}
	s.log.Warn().
		Str("tx_id", txn.ID.String()).
		Int("score", assessment.Score).
		Str("severity", string(assessment.Severity)).
		Msg("fraud alert raised")
}

// ReverseTransaction applies the exact inverse delta and marks the record
// reversed. The record is never deleted and its fingerprint never changes.
func (s *LedgerServiceImpl) ReverseTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Reversed {
		return nil, apperror.ErrAlreadyReversed()
	}

	inverse := txn.InverseDelta()
	updated, err := s.walletRepo.ApplyDelta(ctx, txn.WalletID, ownerID, inverse)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("apply reversal delta: %w", err))
	}
	if updated == nil {
		if inverse < 0 {
			// Reversing a credit deducts; the wallet cannot absorb it.
			return nil, apperror.ErrInsufficientBalanceForReversal()
		}
		return nil, apperror.ErrTransactionFailed()
	}

	now := time.Now().UTC()
	if err := s.txRepo.MarkReversed(ctx, txn.ID, now); err != nil {
		return nil, s.compensate(ctx, txn.WalletID, ownerID, -inverse, err)
	}

	txn.Reversed = true
	txn.ReversedAt = &now
	txn.UpdatedAt = now

	s.collector.TransactionReversed()
	s.collector.WalletBalance(updated.ID.String(), updated.Currency, updated.Balance)
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Int64("inverse_delta", inverse).
		Int64("balance", updated.Balance).
		Msg("transaction reversed")

	return txn, nil
}

// UpdateTransaction edits non-financial fields only. Amount, direction,
// wallet reference and fingerprint cannot change after creation, and a
// status edit must follow the lifecycle: PENDING settles, COMPLETED may be
// cancelled, FAILED and CANCELLED are terminal.
func (s *LedgerServiceImpl) UpdateTransaction(ctx context.Context, ownerID, transactionID uuid.UUID, patch ports.TransactionPatch) (*domain.Transaction, error) {
	if patch.Status != nil && !domain.ValidTransactionStatus(*patch.Status) {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction status %q", *patch.Status))
	}

	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !domain.ValidStatusTransition(txn.Status, *patch.Status) {
		return nil, apperror.ErrInvalidStatusTransition(string(txn.Status), string(*patch.Status))
	}

	updated, err := s.txRepo.UpdateEditable(ctx, transactionID, patch)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update transaction: %w", err))
	}
	if updated == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return updated, nil
}

// VerifyTransaction checks fingerprint well-formedness and stamps the
// verified flag. Repeat calls are no-ops once verified.
func (s *LedgerServiceImpl) VerifyTransaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Verified {
		return txn, nil
	}
	if !s.fpSvc.Verify(txn) {
		return nil, apperror.ErrFingerprintInvalid()
	}

	now := time.Now().UTC()
	if err := s.txRepo.MarkVerified(ctx, txn.ID, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark verified: %w", err))
	}
	txn.Verified = true
	txn.VerifiedAt = &now
	txn.UpdatedAt = now
	return txn, nil
}

func (s *LedgerServiceImpl) resolveWallet(ctx context.Context, ownerID uuid.UUID, walletID *uuid.UUID) (*domain.Wallet, error) {
	if walletID == nil {
		wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("resolve wallet by owner: %w", err))
		}
		return wallet, nil
	}

	wallet, err := s.walletRepo.GetByID(ctx, *walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve wallet by id: %w", err))
	}
	if wallet != nil && wallet.OwnerID != ownerID {
		return nil, nil
	}
	return wallet, nil
}

func (s *LedgerServiceImpl) getOwned(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil || txn.OwnerID != ownerID {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return txn, nil
}
