package model

import (
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
)

// ContributionKind defines the closed list of contribution record kinds
type ContributionKind string

const (
	ContributionKind_TaskReward         ContributionKind = "task_reward"
	ContributionKind_Project            ContributionKind = "project"
	ContributionKind_ReferralCommission ContributionKind = "referral_commission"
	ContributionKind_TeamIncome         ContributionKind = "team_income"
	ContributionKind_Checkin            ContributionKind = "checkin"
	ContributionKind_AdminAdjustment    ContributionKind = "admin_adjustment"
	ContributionKind_Exchange           ContributionKind = "exchange"
)

func (k ContributionKind) String() string {
	return string(k)
}

func (k ContributionKind) IsValid() bool {
	switch k {
	case ContributionKind_TaskReward,
		ContributionKind_Project,
		ContributionKind_ReferralCommission,
		ContributionKind_TeamIncome,
		ContributionKind_Checkin,
		ContributionKind_AdminAdjustment,
		ContributionKind_Exchange:
		return true
	default:
		return false
	}
}

// IsEarning reports whether the kind increases cumulative contribution.
// Earning kinds only accept positive amounts.
func (k ContributionKind) IsEarning() bool {
	switch k {
	case ContributionKind_TaskReward,
		ContributionKind_Project,
		ContributionKind_ReferralCommission,
		ContributionKind_TeamIncome,
		ContributionKind_Checkin:
		return true
	default:
		return false
	}
}

// IsConsuming reports whether the kind spends from the remaining balance.
// Consuming kinds only accept negative amounts.
func (k ContributionKind) IsConsuming() bool {
	return k == ContributionKind_Exchange
}

// SelfMultiplied reports whether the user's own tier multiplier applies to
// the credited amount. Commission and team income are computed upstream from
// the raw base amount and are never multiplied again.
func (k ContributionKind) SelfMultiplied() bool {
	switch k {
	case ContributionKind_TaskReward,
		ContributionKind_Project,
		ContributionKind_Checkin:
		return true
	default:
		return false
	}
}

// ContributionRecord is the append-only audit trail of every unit movement.
// Rows are never mutated or deleted.
type ContributionRecord struct {
	ID              uint64            `gorm:"primary_key" json:"id"`
	RefID           string            `gorm:"column:ref_id" json:"ref_id"`
	UserID          uint64            `gorm:"column:user_id" json:"user_id"`
	Amount          *postgres.Decimal `gorm:"column:amount" sql:"type:decimal(36,18)" json:"-"`
	Kind            ContributionKind  `gorm:"column:kind" json:"kind"`
	SourceReference string            `gorm:"column:source_reference" json:"source_reference"`
	CreatedAt       time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (ContributionRecord) TableName() string {
	return "contribution_records"
}

// ContributionBalance is the running per-user balance derived from records
type ContributionBalance struct {
	UserID   uint64            `gorm:"column:user_id;primary_key" json:"user_id"`
	Earned   *postgres.Decimal `gorm:"column:cumulative_contribution" sql:"type:decimal(36,18)" json:"-"`
	Consumed *postgres.Decimal `gorm:"column:consumed_contribution" sql:"type:decimal(36,18)" json:"-"`

	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ContributionBalance) TableName() string {
	return "contribution_balances"
}

// NewContributionBalance returns a zeroed balance row for the given user
func NewContributionBalance(userID uint64) *ContributionBalance {
	return &ContributionBalance{
		UserID:   userID,
		Earned:   ZeroDBDecimal(),
		Consumed: ZeroDBDecimal(),
	}
}

// Cumulative returns the total units ever earned
func (b *ContributionBalance) Cumulative() *decimal.Big {
	if b.Earned == nil || b.Earned.V == nil {
		return conv.NewDecimalWithPrecision()
	}
	return conv.CloneToPrecision(b.Earned.V)
}

// Spent returns the total units ever consumed
func (b *ContributionBalance) Spent() *decimal.Big {
	if b.Consumed == nil || b.Consumed.V == nil {
		return conv.NewDecimalWithPrecision()
	}
	return conv.CloneToPrecision(b.Consumed.V)
}

// Remaining returns cumulative minus consumed. The ledger keeps this
// non-negative at all times.
func (b *ContributionBalance) Remaining() *decimal.Big {
	return conv.NewDecimalWithPrecision().Sub(b.Cumulative(), b.Spent())
}

// BalanceView is the API representation of a balance snapshot
type BalanceView struct {
	UserID      uint64      `json:"user_id"`
	Cumulative  string      `json:"cumulative_contribution"`
	Consumed    string      `json:"consumed_contribution"`
	Remaining   string      `json:"remaining_contribution"`
	PartnerTier PartnerTier `json:"partner_tier"`
}

// ContributionRecordView is the API representation of one ledger row
type ContributionRecordView struct {
	RefID           string           `json:"ref_id"`
	UserID          uint64           `json:"user_id"`
	Amount          string           `json:"amount"`
	Kind            ContributionKind `json:"kind"`
	SourceReference string           `json:"source_reference"`
	CreatedAt       time.Time        `json:"created_at"`
}

// View maps a ledger row to its API representation
func (r *ContributionRecord) View() ContributionRecordView {
	return ContributionRecordView{
		RefID:           r.RefID,
		UserID:          r.UserID,
		Amount:          FmtDecimal(r.Amount),
		Kind:            r.Kind,
		SourceReference: r.SourceReference,
		CreatedAt:       r.CreatedAt,
	}
}

// ContributionHistoryResponse is a paged list of ledger rows
type ContributionHistoryResponse struct {
	Records []ContributionRecordView `json:"records"`
	Meta    PagingMeta               `json:"meta"`
}
