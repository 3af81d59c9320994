package model

import (
	"time"

	"github.com/ericlagergren/decimal"
)

// PartnerTier defines the list of possible partner ranks
type PartnerTier string

const (
	// PartnerTierNormalUser default rank for every registered user
	PartnerTierNormalUser PartnerTier = "normal_user"
	// PartnerTierRegularPartner unlocked at the first cumulative contribution threshold
	PartnerTierRegularPartner PartnerTier = "regular_partner"
	// PartnerTierSeniorPartner unlocked at the second cumulative contribution threshold
	PartnerTierSeniorPartner PartnerTier = "senior_partner"
	// PartnerTierFoundingPartner highest rank, the only one carrying a dividend share
	PartnerTierFoundingPartner PartnerTier = "founding_partner"
)

func (t PartnerTier) String() string {
	return string(t)
}

func (t PartnerTier) IsValid() bool {
	switch t {
	case PartnerTierNormalUser,
		PartnerTierRegularPartner,
		PartnerTierSeniorPartner,
		PartnerTierFoundingPartner:
		return true
	default:
		return false
	}
}

// TierConfig holds the full benefit package of one partner tier.
// Loaded once at startup from the configuration file and validated by the
// tier registry; rank is the position in the threshold-ordered tier list.
type TierConfig struct {
	Tier                PartnerTier
	Rank                int
	Threshold           *decimal.Big
	ReferralDepth       int
	SelfMultiplier      *decimal.Big
	TeamBonusRate       *decimal.Big
	UpgradeReward       *decimal.Big
	AnnualDividendShare *decimal.Big
}

// HasTeamBonus reports whether the tier participates in team income
func (c *TierConfig) HasTeamBonus() bool {
	return c.TeamBonusRate != nil && c.TeamBonusRate.Sign() > 0
}

// TierPromotionStatus defines the lifecycle of a promotion event
type TierPromotionStatus string

const (
	TierPromotionStatusPending  TierPromotionStatus = "pending"
	TierPromotionStatusConsumed TierPromotionStatus = "consumed"
)

// TierPromotion is emitted by the contribution ledger when a balance change
// moves a user to a higher tier. One row per (user, tier), consumed exactly
// once by the auto operation scheduler.
type TierPromotion struct {
	ID         uint64              `gorm:"primary_key" json:"id"`
	UserID     uint64              `gorm:"column:user_id" json:"user_id"`
	Tier       PartnerTier         `gorm:"column:tier" json:"tier"`
	Status     TierPromotionStatus `gorm:"column:status" json:"status"`
	CreatedAt  time.Time           `gorm:"column:created_at" json:"created_at"`
	ConsumedAt *time.Time          `gorm:"column:consumed_at" json:"consumed_at"`
}

func (TierPromotion) TableName() string {
	return "tier_promotions"
}

// TierView is the API representation of one tier's benefit package
type TierView struct {
	Tier                PartnerTier `json:"tier"`
	Threshold           string      `json:"threshold"`
	ReferralDepth       int         `json:"referral_depth"`
	SelfMultiplier      string      `json:"self_contribution_multiplier"`
	TeamBonusRate       string      `json:"team_bonus_rate"`
	UpgradeReward       string      `json:"tier_upgrade_reward"`
	AnnualDividendShare string      `json:"annual_dividend_share,omitempty"`
}

// View maps a tier config to its API representation
func (c *TierConfig) View() TierView {
	view := TierView{
		Tier:           c.Tier,
		Threshold:      c.Threshold.String(),
		ReferralDepth:  c.ReferralDepth,
		SelfMultiplier: c.SelfMultiplier.String(),
		TeamBonusRate:  c.TeamBonusRate.String(),
		UpgradeReward:  c.UpgradeReward.String(),
	}
	if c.AnnualDividendShare != nil && c.AnnualDividendShare.Sign() > 0 {
		view.AnnualDividendShare = c.AnnualDividendShare.String()
	}
	return view
}
