package service

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// CreateIfAbsent creates the owner's wallet, or returns the existing one
// untouched with created=false. The store's uniqueness on owner makes a
// concurrent double-create resolve to a single wallet.
func (s *WalletServiceImpl) CreateIfAbsent(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, bool, error) {
	if req.InitialBalance < 0 {
		return nil, false, apperror.Validation("initial balance must not be negative")
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, false, apperror.ErrInvalidCurrency()
	}
	name := req.Name
	if name == "" {
		name = "main"
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		Name:      name,
		Currency:  currency,
		Balance:   req.InitialBalance,
		Status:    domain.WalletStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, wasCreated, err := s.walletRepo.CreateIfAbsent(ctx, wallet)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}
	if wasCreated {
		s.log.Info().
			Str("wallet_id", created.ID.String()).
			Str("owner_id", req.OwnerID.String()).
			Str("currency", created.Currency).
			Msg("wallet created")
	}
	return created, wasCreated, nil
}

// Get returns the owner's wallet.
func (s *WalletServiceImpl) Get(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}
	return wallet, nil
}

// Update edits the wallet's profile fields. Balance is not editable here;
// it only moves through the ledger.
func (s *WalletServiceImpl) Update(ctx context.Context, ownerID uuid.UUID, patch ports.WalletPatch) (*domain.Wallet, error) {
	if patch.Currency != nil && len(*patch.Currency) != 3 {
		return nil, apperror.ErrInvalidCurrency()
	}
	if patch.Status != nil && !domain.ValidWalletStatus(*patch.Status) {
		return nil, apperror.Validation(fmt.Sprintf("unknown wallet status %q", *patch.Status))
	}

	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}

	updated, err := s.walletRepo.UpdateProfile(ctx, wallet.ID, ownerID, patch)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}
	if updated == nil {
		return nil, apperror.ErrNotFound("Wallet")
	}
	return updated, nil
}

// Delete removes the wallet only when its balance is zero and the ledger
// holds no record referencing it.
func (s *WalletServiceImpl) Delete(ctx context.Context, ownerID uuid.UUID) error {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("Wallet")
	}
	if wallet.Balance != 0 {
		return apperror.ErrWalletNotEmpty()
	}

	count, err := s.txRepo.CountByWallet(ctx, wallet.ID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("count transactions: %w", err))
	}
	if count > 0 {
		return apperror.ErrWalletNotEmpty()
	}

	if err := s.walletRepo.Delete(ctx, wallet.ID, ownerID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete wallet: %w", err))
	}
	s.log.Info().Str("wallet_id", wallet.ID.String()).Msg("wallet deleted")
	return nil
}
