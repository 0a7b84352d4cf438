package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus instruments on a private registry.
type Collector struct {
	registry *prometheus.Registry

	transactionsCreated  *prometheus.CounterVec
	transactionsFailed   prometheus.Counter
	transactionsReversed prometheus.Counter
	compensationFailures prometheus.Counter
	fraudScores          prometheus.Histogram
	walletBalance        *prometheus.GaugeVec
}

// NewCollector creates a Collector with all instruments registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		transactionsCreated: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_created_total",
			Help: "Total number of committed ledger transactions",
		}, []string{"direction"}),
		transactionsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_failed_total",
			Help: "Total number of rejected or failed transaction attempts",
		}),
		transactionsReversed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_reversed_total",
			Help: "Total number of reversed transactions",
		}),
		compensationFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_compensation_failures_total",
			Help: "Compensating balance updates that failed, leaving the store inconsistent",
		}),
		fraudScores: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_fraud_score_distribution",
			Help:    "Distribution of fraud assessment scores",
			Buckets: []float64{0, 20, 40, 60, 80, 100},
		}),
		walletBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_wallet_balance",
			Help: "Last observed balance per wallet in minor units",
		}, []string{"wallet_id", "currency"}),
	}
}

// TransactionCreated records a committed transaction.
func (c *Collector) TransactionCreated(direction string) {
	c.transactionsCreated.WithLabelValues(direction).Inc()
}

// TransactionFailed records a rejected or failed attempt.
func (c *Collector) TransactionFailed() {
	c.transactionsFailed.Inc()
}

// TransactionReversed records a successful reversal.
func (c *Collector) TransactionReversed() {
	c.transactionsReversed.Inc()
}

// CompensationFailed records a failed compensating update. This series
// should page: each increment is a real data inconsistency.
func (c *Collector) CompensationFailed() {
	c.compensationFailures.Inc()
}

// FraudScore records an assessment score.
func (c *Collector) FraudScore(score int) {
	c.fraudScores.Observe(float64(score))
}

// WalletBalance records the post-update balance of a wallet. Labeled by
// wallet so same-currency wallets keep distinct series.
func (c *Collector) WalletBalance(walletID, currency string, balance int64) {
	c.walletBalance.WithLabelValues(walletID, currency).Set(float64(balance))
}

// Handler returns the /metrics HTTP handler for this registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
