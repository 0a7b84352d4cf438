package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"finledger/internal/core/domain"
	"finledger/internal/core/ports"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo   ports.UserRepository
	walletRepo ports.WalletRepository
	hasher     ports.PasswordHasher
	tokenSvc   ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	walletRepo ports.WalletRepository,
	hasher ports.PasswordHasher,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		hasher:     hasher,
		tokenSvc:   tokenSvc,
	}
}

// Register creates a new user account with a default wallet.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < minUsernameLen {
		return nil, apperror.Validation(fmt.Sprintf("username must be at least %d characters", minUsernameLen))
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, apperror.Validation("email address is not valid")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	// Every account starts with an active zero-balance wallet.
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		OwnerID:   user.ID,
		Name:      "main",
		Currency:  "USD",
		Balance:   0,
		Status:    domain.WalletStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, _, err := s.walletRepo.CreateIfAbsent(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	return user, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID, user.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
