package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) — caller's fault, nothing was mutated ----

func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidDirection() *AppError {
	return New("VAL_002", "Direction must be CREDIT or DEBIT", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_003", "Amount must be a positive number", http.StatusBadRequest)
}

func ErrInvalidCurrency() *AppError {
	return New("VAL_004", "Currency must be a 3-letter code", http.StatusBadRequest)
}

func ErrOccurredInFuture() *AppError {
	return New("VAL_005", "Occurrence time must not be in the future", http.StatusBadRequest)
}

func ErrImmutableField(field string) *AppError {
	return New("VAL_006", fmt.Sprintf("Field %q is immutable", field), http.StatusBadRequest)
}

// ---- Not found (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Ledger state conflicts (LED) — retryable after re-reading state ----

func ErrInsufficientFunds() *AppError {
	return New("LED_001", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrWalletInactive() *AppError {
	return New("LED_002", "Wallet is not active", http.StatusConflict)
}

func ErrTransactionFailed() *AppError {
	return New("LED_003", "Balance update not applied, wallet modified concurrently", http.StatusConflict)
}

func ErrAlreadyReversed() *AppError {
	return New("LED_004", "Transaction has already been reversed", http.StatusConflict)
}

func ErrInsufficientBalanceForReversal() *AppError {
	return New("LED_005", "Wallet balance cannot absorb the reversal", http.StatusConflict)
}

func ErrWalletNotEmpty() *AppError {
	return New("LED_006", "Wallet has a non-zero balance or referencing transactions", http.StatusConflict)
}

func ErrInvalidStatusTransition(from, to string) *AppError {
	return New("LED_007", fmt.Sprintf("Transaction status cannot move from %s to %s", from, to), http.StatusConflict)
}

// ---- Integrity faults (INT) ----

func ErrFingerprintCollision() *AppError {
	return New("INT_001", "Transaction fingerprint collision", http.StatusConflict)
}

func IntegrityFault(err error) *AppError {
	return Wrap("INT_002", "Ledger persistence failed after balance mutation", http.StatusInternalServerError, err)
}

func ErrFingerprintInvalid() *AppError {
	return New("INT_003", "Transaction fingerprint is missing or malformed", http.StatusConflict)
}

// ---- Compensation failure (FATAL) ----
//
// The compensating balance update itself failed: wallet and ledger are now
// inconsistent and need manual reconciliation. Must never be collapsed into
// a generic 500.

func CompensationFailure(err error) *AppError {
	return Wrap("FATAL_001", "Compensation failed, wallet and ledger are inconsistent", http.StatusInternalServerError, err)
}

// IsCompensationFailure reports whether err carries the FATAL_001 code.
func IsCompensationFailure(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "FATAL_001"
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrAdvisorUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Advisor backend unavailable", http.StatusServiceUnavailable, err)
}
