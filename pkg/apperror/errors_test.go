package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_001", "Insufficient funds", http.StatusPaymentRequired),
			expected: "[LED_001] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("bad payload"), "VAL_001", 400},
		{"InvalidDirection", ErrInvalidDirection(), "VAL_002", 400},
		{"InvalidAmount", ErrInvalidAmount(), "VAL_003", 400},
		{"InvalidCurrency", ErrInvalidCurrency(), "VAL_004", 400},
		{"OccurredInFuture", ErrOccurredInFuture(), "VAL_005", 400},
		{"ImmutableField", ErrImmutableField("amount"), "VAL_006", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientFunds", ErrInsufficientFunds(), "LED_001", 402},
		{"WalletInactive", ErrWalletInactive(), "LED_002", 409},
		{"TransactionFailed", ErrTransactionFailed(), "LED_003", 409},
		{"AlreadyReversed", ErrAlreadyReversed(), "LED_004", 409},
		{"InsufficientBalanceForReversal", ErrInsufficientBalanceForReversal(), "LED_005", 409},
		{"WalletNotEmpty", ErrWalletNotEmpty(), "LED_006", 409},
		{"InvalidStatusTransition", ErrInvalidStatusTransition("CANCELLED", "PENDING"), "LED_007", 409},
		{"NotFound", ErrNotFound("Wallet"), "RES_001", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestCompensationFailure_IsDistinct(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	fatal := CompensationFailure(inner)

	assert.Equal(t, "FATAL_001", fatal.Code)
	assert.True(t, IsCompensationFailure(fatal))
	assert.True(t, errors.Is(fatal, inner))

	// An ordinary integrity fault must not read as a compensation failure.
	assert.False(t, IsCompensationFailure(IntegrityFault(inner)))
	assert.False(t, IsCompensationFailure(nil))
}

func TestIntegrityErrors(t *testing.T) {
	assert.Equal(t, "INT_001", ErrFingerprintCollision().Code)
	fault := IntegrityFault(fmt.Errorf("insert failed"))
	assert.Equal(t, "INT_002", fault.Code)
	assert.Equal(t, 500, fault.HTTPStatus)
}

func TestAuthErrors(t *testing.T) {
	assert.Equal(t, "AUTH_001", ErrInvalidCredentials().Code)
	assert.Equal(t, "AUTH_002", ErrUsernameExists().Code)
	assert.Equal(t, "AUTH_003", ErrInvalidToken().Code)
	assert.Equal(t, 429, ErrRateLimitExceeded().HTTPStatus)
}
