package service

import (
	"fmt"
	"time"

	"finledger/internal/core/domain"
)

// Rule thresholds. Amounts are in minor currency units.
const (
	fraudFlagThreshold    = 50
	fraudHighSeverity     = 75
	fraudHighValueAmount  = 50000
	fraudSmallValueAmount = 100
	fraudCardTestingCount = 5
	fraudDuplicateWindow  = time.Hour
	fraudRecentCategories = 5
	fraudLateNightStart   = 23 // inclusive
	fraudLateNightEnd     = 5  // inclusive
	fraudMeanMultiplier   = 2
)

type fraudRule struct {
	name   string
	weight int
	detect func(candidate *domain.Transaction, history []domain.Transaction) (bool, string)
}

// HeuristicFraudService implements ports.FraudService with a fixed additive
// rule table. Assess is pure: deterministic given its inputs, no I/O.
type HeuristicFraudService struct {
	rules []fraudRule
}

// NewFraudService creates a HeuristicFraudService with the standard rules.
func NewFraudService() *HeuristicFraudService {
	return &HeuristicFraudService{
		rules: []fraudRule{
			{name: "amount_vs_mean", weight: 30, detect: detectAmountVsMean},
			{name: "high_value", weight: 25, detect: detectHighValue},
			{name: "duplicate", weight: 35, detect: detectDuplicate},
			{name: "late_night", weight: 15, detect: detectLateNight},
			{name: "card_testing", weight: 20, detect: detectCardTesting},
			{name: "unusual_category", weight: 10, detect: detectUnusualCategory},
		},
	}
}

// Assess scores the candidate against the owner's recent history.
// Weights are additive and the score is capped at 100; reasons preserve
// rule evaluation order for display.
func (s *HeuristicFraudService) Assess(candidate *domain.Transaction, recentHistory []domain.Transaction) domain.FraudAssessment {
	var score int
	var reasons []string

	for _, rule := range s.rules {
		if hit, reason := rule.detect(candidate, recentHistory); hit {
			score += rule.weight
			reasons = append(reasons, reason)
		}
	}
	if score > 100 {
		score = 100
	}

	severity := domain.FraudSeverityLow
	switch {
	case score >= fraudHighSeverity:
		severity = domain.FraudSeverityHigh
	case score >= fraudFlagThreshold:
		severity = domain.FraudSeverityMedium
	}

	return domain.FraudAssessment{
		Score:      score,
		Reasons:    reasons,
		Flagged:    score >= fraudFlagThreshold,
		Severity:   severity,
		AssessedAt: time.Now().UTC(),
	}
}

func detectAmountVsMean(candidate *domain.Transaction, history []domain.Transaction) (bool, string) {
	if len(history) == 0 {
		return false, ""
	}
	var sum int64
	for i := range history {
		sum += history[i].Amount
	}
	mean := sum / int64(len(history))
	if candidate.Amount > fraudMeanMultiplier*mean {
		return true, fmt.Sprintf("amount exceeds %dx the recent mean of %d", fraudMeanMultiplier, mean)
	}
	return false, ""
}

func detectHighValue(candidate *domain.Transaction, _ []domain.Transaction) (bool, string) {
	if candidate.Amount > fraudHighValueAmount {
		return true, "high-value transaction"
	}
	return false, ""
}

func detectDuplicate(candidate *domain.Transaction, history []domain.Transaction) (bool, string) {
	cutoff := candidate.OccurredAt.Add(-fraudDuplicateWindow)
	for i := range history {
		prior := &history[i]
		if prior.Amount == candidate.Amount &&
			prior.Category == candidate.Category &&
			!prior.OccurredAt.Before(cutoff) &&
			!prior.OccurredAt.After(candidate.OccurredAt) {
			return true, "duplicate: same amount and category within the last hour"
		}
	}
	return false, ""
}

func detectLateNight(candidate *domain.Transaction, _ []domain.Transaction) (bool, string) {
	hour := candidate.OccurredAt.Hour()
	if hour >= fraudLateNightStart || hour <= fraudLateNightEnd {
		return true, "late-night activity"
	}
	return false, ""
}

func detectCardTesting(candidate *domain.Transaction, history []domain.Transaction) (bool, string) {
	if candidate.Amount >= fraudSmallValueAmount {
		return false, ""
	}
	var small int
	for i := range history {
		if history[i].Amount < fraudSmallValueAmount {
			small++
		}
	}
	if small >= fraudCardTestingCount {
		return true, "card-testing pattern: repeated small-value transactions"
	}
	return false, ""
}

func detectUnusualCategory(candidate *domain.Transaction, history []domain.Transaction) (bool, string) {
	if len(history) == 0 {
		return false, ""
	}
	n := len(history)
	if n > fraudRecentCategories {
		n = fraudRecentCategories
	}
	// History is ordered newest first.
	for i := 0; i < n; i++ {
		if history[i].Category == candidate.Category {
			return false, ""
		}
	}
	return true, "category not seen in recent activity"
}
