package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finledger/internal/core/ports"
	"finledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Risk profiles derived from the owner's savings rate.
const (
	riskProfileCautious   = "cautious"
	riskProfileBalanced   = "balanced"
	riskProfileAggressive = "aggressive"
)

type advisorEntry struct {
	headline    string
	suggestions []string
}

// The heuristic report content: one entry per (kind, risk profile) pair.
var advisorTable = map[ports.ReportKind]map[string]advisorEntry{
	ports.ReportKindCareer: {
		riskProfileCautious: {
			headline: "Stabilize income before taking career risks",
			suggestions: []string{
				"Build an emergency fund covering 3-6 months of spending",
				"Invest in certifications that raise your market rate",
				"Negotiate your current compensation before switching roles",
			},
		},
		riskProfileBalanced: {
			headline: "Your finances can support a measured career move",
			suggestions: []string{
				"Set aside a transition buffer before changing roles",
				"Explore side projects that could become income streams",
				"Benchmark your salary against the market yearly",
			},
		},
		riskProfileAggressive: {
			headline: "Strong savings rate gives you career flexibility",
			suggestions: []string{
				"You can afford a sabbatical or retraining period",
				"Consider equity-heavy compensation at earlier-stage companies",
				"Allocate part of your surplus to professional development",
			},
		},
	},
	ports.ReportKindInvestment: {
		riskProfileCautious: {
			headline: "Prioritize liquidity and capital preservation",
			suggestions: []string{
				"Keep most savings in high-yield deposits or short bonds",
				"Automate a small recurring index fund contribution",
				"Avoid leveraged or illiquid products for now",
			},
		},
		riskProfileBalanced: {
			headline: "A classic diversified allocation fits your profile",
			suggestions: []string{
				"Split contributions between broad index funds and bonds",
				"Rebalance the portfolio once or twice a year",
				"Increase the equity share as your buffer grows",
			},
		},
		riskProfileAggressive: {
			headline: "Your surplus supports a growth-oriented portfolio",
			suggestions: []string{
				"Weight the portfolio toward global equity index funds",
				"Dollar-cost average to smooth out entry timing",
				"Cap any single speculative position at a small fraction",
			},
		},
	},
	ports.ReportKindStocks: {
		riskProfileCautious: {
			headline: "Favor broad funds over individual stock picks",
			suggestions: []string{
				"Prefer dividend aristocrats and large-cap value",
				"Limit single-stock exposure to money you can lose",
				"Use limit orders to control entry prices",
			},
		},
		riskProfileBalanced: {
			headline: "A core-satellite stock approach suits you",
			suggestions: []string{
				"Hold a broad index core with a few conviction picks",
				"Review positions quarterly, not daily",
				"Harvest losses against gains at year end",
			},
		},
		riskProfileAggressive: {
			headline: "You have room for higher-beta positions",
			suggestions: []string{
				"Growth and small-cap exposure fits your buffer",
				"Keep position sizing rules even in strong markets",
				"Write down a thesis before every purchase",
			},
		},
	},
}

// AdvisorServiceImpl implements ports.AdvisorService: a static heuristic
// report keyed by the owner's risk profile, optionally enriched with an
// LLM narrative and cached in Redis.
type AdvisorServiceImpl struct {
	txRepo   ports.TransactionRepository
	cache    ports.ReportCache
	narrator ports.NarrativeGenerator // nil = heuristic content only
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewAdvisorService creates a new AdvisorServiceImpl.
func NewAdvisorService(
	txRepo ports.TransactionRepository,
	cache ports.ReportCache,
	narrator ports.NarrativeGenerator,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *AdvisorServiceImpl {
	return &AdvisorServiceImpl{
		txRepo:   txRepo,
		cache:    cache,
		narrator: narrator,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Report returns the advisor report for the owner, serving from cache when
// a fresh copy exists.
func (s *AdvisorServiceImpl) Report(ctx context.Context, ownerID uuid.UUID, kind ports.ReportKind) (*ports.AdvisorReport, error) {
	profiles, ok := advisorTable[kind]
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown report kind %q", kind))
	}

	cacheKey := fmt.Sprintf("advisor:%s:%s", ownerID, kind)
	if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("report cache read failed")
	} else if cached != nil {
		var report ports.AdvisorReport
		if err := json.Unmarshal(cached, &report); err == nil {
			report.Cached = true
			return &report, nil
		}
		s.log.Warn().Str("key", cacheKey).Msg("discarding malformed cached report")
	}

	stats, err := s.txRepo.GetStats(ctx, ownerID, nil)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load stats: %w", err))
	}

	profile := riskProfileFor(stats)
	entry := profiles[profile]

	report := &ports.AdvisorReport{
		Kind:        kind,
		Headline:    entry.headline,
		Suggestions: entry.suggestions,
		RiskProfile: profile,
		GeneratedAt: time.Now().UTC(),
	}

	if s.narrator != nil {
		prompt := narrativePrompt(kind, profile, stats)
		narrative, err := s.narrator.Narrative(ctx, prompt)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("narrative generation failed, serving heuristic report")
		} else {
			report.Narrative = narrative
		}
	}

	payload, err := json.Marshal(report)
	if err == nil {
		if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("report cache write failed")
		}
	}

	return report, nil
}

// riskProfileFor maps the owner's all-time savings rate to a risk profile.
// No credits yet means no surplus to risk.
func riskProfileFor(stats *ports.TransactionStats) string {
	if stats == nil || stats.TotalCredited == 0 {
		return riskProfileCautious
	}
	rate := float64(stats.TotalCredited-stats.TotalDebited) / float64(stats.TotalCredited)
	switch {
	case rate < 0.1:
		return riskProfileCautious
	case rate < 0.35:
		return riskProfileBalanced
	default:
		return riskProfileAggressive
	}
}

func narrativePrompt(kind ports.ReportKind, profile string, stats *ports.TransactionStats) string {
	return fmt.Sprintf(
		"Write a short, practical paragraph of %s advice for someone with a %s risk profile. "+
			"They have recorded %d transactions, credited %d and debited %d in minor currency units. "+
			"Do not mention the raw numbers directly. Plain text only.",
		kind, profile, stats.TotalTransactions, stats.TotalCredited, stats.TotalDebited,
	)
}
