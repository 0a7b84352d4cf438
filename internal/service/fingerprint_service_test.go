package service

import (
	"strings"
	"testing"
	"time"

	"finledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Compute_WellFormed(t *testing.T) {
	svc := NewFingerprintService()

	fp, err := svc.Compute(uuid.New(), uuid.New(), domain.DirectionCredit, 500, time.Now())
	require.NoError(t, err)

	assert.Len(t, fp, 64)
	assert.Equal(t, strings.ToLower(fp), fp)
	assert.True(t, svc.Verify(&domain.Transaction{Fingerprint: fp}))
}

func TestFingerprint_Compute_InvalidInput(t *testing.T) {
	svc := NewFingerprintService()
	owner, wallet := uuid.New(), uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		owner     uuid.UUID
		wallet    uuid.UUID
		direction domain.Direction
		amount    int64
	}{
		{"nil owner", uuid.Nil, wallet, domain.DirectionCredit, 100},
		{"nil wallet", owner, uuid.Nil, domain.DirectionCredit, 100},
		{"bad direction", owner, wallet, domain.Direction("TRANSFER"), 100},
		{"zero amount", owner, wallet, domain.DirectionDebit, 0},
		{"negative amount", owner, wallet, domain.DirectionDebit, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compute(tt.owner, tt.wallet, tt.direction, tt.amount, now)
			assert.Error(t, err)
		})
	}
}

// Identical inputs must still produce unique digests: the nonce and
// computation timestamp guarantee it.
func TestFingerprint_Uniqueness_10kIdenticalInputs(t *testing.T) {
	svc := NewFingerprintService()
	owner, wallet := uuid.New(), uuid.New()
	occurred := time.Now()

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		fp, err := svc.Compute(owner, wallet, domain.DirectionDebit, 1500, occurred)
		require.NoError(t, err)
		_, dup := seen[fp]
		require.False(t, dup, "duplicate fingerprint after %d iterations", i)
		seen[fp] = struct{}{}
	}
}

func TestFingerprint_Verify(t *testing.T) {
	svc := NewFingerprintService()

	tests := []struct {
		name        string
		transaction *domain.Transaction
		want        bool
	}{
		{"nil transaction", nil, false},
		{"empty fingerprint", &domain.Transaction{}, false},
		{"too short", &domain.Transaction{Fingerprint: "abc123"}, false},
		{"uppercase hex", &domain.Transaction{Fingerprint: strings.Repeat("AB", 32)}, false},
		{"non-hex characters", &domain.Transaction{Fingerprint: strings.Repeat("zz", 32)}, false},
		{"valid", &domain.Transaction{Fingerprint: strings.Repeat("ab12", 16)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Verify(tt.transaction))
		})
	}
}
