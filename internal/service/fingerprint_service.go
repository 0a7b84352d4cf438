package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"finledger/internal/core/domain"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
)

const fingerprintNonceLen = 16

// SHA256FingerprintService implements ports.FingerprintService.
//
// The digest covers the transaction's financial identity (owner, wallet,
// direction, amount, occurrence time) plus a random nonce and the
// computation timestamp, so two otherwise identical transactions never
// collide. The nonce is not persisted: Verify asserts presence and
// well-formedness of the stored digest, not recompute-and-compare.
type SHA256FingerprintService struct{}

// NewFingerprintService creates a new SHA256FingerprintService.
func NewFingerprintService() *SHA256FingerprintService {
	return &SHA256FingerprintService{}
}

// Compute returns a 64-character lowercase hex SHA-256 digest.
// It fails only on malformed input and has no side effects.
func (s *SHA256FingerprintService) Compute(ownerID, walletID uuid.UUID, direction domain.Direction, amount int64, occurredAt time.Time) (string, error) {
	if ownerID == uuid.Nil || walletID == uuid.Nil {
		return "", apperror.Validation("missing owner or wallet identifier")
	}
	if !domain.ValidDirection(direction) {
		return "", apperror.ErrInvalidDirection()
	}
	if amount <= 0 {
		return "", apperror.ErrInvalidAmount()
	}

	nonce := make([]byte, fingerprintNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", apperror.InternalError(fmt.Errorf("generating fingerprint nonce: %w", err))
	}

	payload := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%d",
		ownerID, walletID, direction, amount,
		occurredAt.UTC().UnixNano(),
		hex.EncodeToString(nonce),
		time.Now().UTC().UnixNano(),
	)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether the transaction carries a well-formed fingerprint:
// exactly 64 lowercase hex characters.
func (s *SHA256FingerprintService) Verify(transaction *domain.Transaction) bool {
	if transaction == nil || len(transaction.Fingerprint) != sha256.Size*2 {
		return false
	}
	if transaction.Fingerprint != strings.ToLower(transaction.Fingerprint) {
		return false
	}
	_, err := hex.DecodeString(transaction.Fingerprint)
	return err == nil
}
