package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Username: "  alice  ",
		Email:    " alice@example.com ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateTransactionRequest{
		Direction:   "DEBIT",
		Amount:      1000,
		Description: "lunch <script>alert('x')</script> downtown",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Description, "&lt;script&gt;")
	assert.NotContains(t, req.Description, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	name := "  rainy day fund  "
	req := UpdateWalletRequest{Name: &name}
	SanitizeStruct(&req)

	assert.Equal(t, "rainy day fund", *req.Name)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := UpdateWalletRequest{}
	SanitizeStruct(&req)
	assert.Nil(t, req.Name)
	assert.Nil(t, req.Currency)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"groceries",
		"utility_bills",
		"rent-2026",
		"a.b.c",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"dining out",   // space
		"cat<egory>",   // angle brackets
		"rent;DROP",    // semicolon
		"",             // empty
		"food\nbudget", // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}
