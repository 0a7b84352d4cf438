package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	c.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.TransactionCreated("CREDIT")
	c.TransactionCreated("CREDIT")
	c.TransactionCreated("DEBIT")
	c.TransactionFailed()
	c.TransactionReversed()
	c.CompensationFailed()

	body := scrape(t, c)
	assert.Contains(t, body, `ledger_transactions_created_total{direction="CREDIT"} 2`)
	assert.Contains(t, body, `ledger_transactions_created_total{direction="DEBIT"} 1`)
	assert.Contains(t, body, "ledger_transactions_failed_total 1")
	assert.Contains(t, body, "ledger_transactions_reversed_total 1")
	assert.Contains(t, body, "ledger_compensation_failures_total 1")
}

func TestCollector_FraudHistogramAndBalanceGauge(t *testing.T) {
	c := NewCollector()

	c.FraudScore(35)
	c.FraudScore(90)
	c.WalletBalance("6f1d9f9a-0000-4000-8000-000000000001", "INR", 100000)
	c.WalletBalance("6f1d9f9a-0000-4000-8000-000000000002", "INR", 250)

	body := scrape(t, c)
	assert.Contains(t, body, "ledger_fraud_score_distribution_count 2")
	// Same-currency wallets are distinct series, not a last-write-wins cell.
	assert.Contains(t, body, `ledger_wallet_balance{currency="INR",wallet_id="6f1d9f9a-0000-4000-8000-000000000001"} 100000`)
	assert.Contains(t, body, `ledger_wallet_balance{currency="INR",wallet_id="6f1d9f9a-0000-4000-8000-000000000002"} 250`)
}

func TestCollector_IsolatedRegistries(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.TransactionFailed()

	assert.Contains(t, scrape(t, a), "ledger_transactions_failed_total 1")
	assert.Contains(t, scrape(t, b), "ledger_transactions_failed_total 0")
}
