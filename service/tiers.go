package service

import (
	"fmt"

	"github.com/ericlagergren/decimal"
	"github.com/pkg/errors"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// TierRegistry is the single source of truth for partner tier thresholds and
// multipliers. Immutable after startup; every tier lookup in the system goes
// through it so rates never drift between components.
type TierRegistry struct {
	tiers  []*model.TierConfig
	byTier map[model.PartnerTier]*model.TierConfig
}

// NewTierRegistry validates the configured tier table and builds the registry.
// An empty table falls back to the built-in default tiers.
func NewTierRegistry(entries []*config.TierEntry) (*TierRegistry, error) {
	if len(entries) == 0 {
		entries = config.DefaultTierEntries()
	}

	tiers := make([]*model.TierConfig, 0, len(entries))
	byTier := make(map[model.PartnerTier]*model.TierConfig, len(entries))
	prevThreshold := -1.0
	for rank, entry := range entries {
		tier := model.PartnerTier(entry.Tier)
		if !tier.IsValid() {
			return nil, errors.Wrap(ErrUnknownTier, fmt.Sprintf("tier %q", entry.Tier))
		}
		if _, exists := byTier[tier]; exists {
			return nil, fmt.Errorf("duplicate tier %q in tier table", entry.Tier)
		}
		if entry.Threshold <= prevThreshold {
			return nil, fmt.Errorf("tier %q threshold must be strictly increasing", entry.Tier)
		}
		if rank == 0 && entry.Threshold != 0 {
			return nil, fmt.Errorf("first tier %q must start at threshold 0", entry.Tier)
		}
		if entry.ReferralDepth < 1 || entry.ReferralDepth > model.MaxReferralLevels {
			return nil, fmt.Errorf("tier %q referral depth must be within 1..%d", entry.Tier, model.MaxReferralLevels)
		}
		if entry.SelfMultiplier < 1.0 {
			return nil, fmt.Errorf("tier %q self multiplier must be at least 1", entry.Tier)
		}
		prevThreshold = entry.Threshold

		cfg := &model.TierConfig{
			Tier:           tier,
			Rank:           rank,
			Threshold:      conv.NewDecimalFromFloat(entry.Threshold),
			ReferralDepth:  entry.ReferralDepth,
			SelfMultiplier: conv.NewDecimalFromFloat(entry.SelfMultiplier),
			TeamBonusRate:  conv.NewDecimalFromFloat(entry.TeamBonusRate),
			UpgradeReward:  conv.NewDecimalFromFloat(entry.UpgradeReward),
		}
		if entry.AnnualDividendShare > 0 {
			cfg.AnnualDividendShare = conv.NewDecimalFromFloat(entry.AnnualDividendShare)
		}
		tiers = append(tiers, cfg)
		byTier[tier] = cfg
	}

	return &TierRegistry{tiers: tiers, byTier: byTier}, nil
}

// TierFor returns the highest tier whose threshold does not exceed the given
// cumulative contribution
func (r *TierRegistry) TierFor(cumulative *decimal.Big) *model.TierConfig {
	current := r.tiers[0]
	for _, tier := range r.tiers[1:] {
		if cumulative.Cmp(tier.Threshold) >= 0 {
			current = tier
		}
	}
	return current
}

// ConfigFor returns the benefit package of the given tier
func (r *TierRegistry) ConfigFor(tier model.PartnerTier) (*model.TierConfig, error) {
	cfg, ok := r.byTier[tier]
	if !ok {
		return nil, ErrUnknownTier
	}
	return cfg, nil
}

// Tiers returns the threshold-ordered tier table
func (r *TierRegistry) Tiers() []*model.TierConfig {
	return r.tiers
}
