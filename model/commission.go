package model

import (
	"time"

	"github.com/ericlagergren/decimal/sql/postgres"
)

// CommissionEntryKind separates per-level commissions from the single team
// bonus credit of an earning event
type CommissionEntryKind string

const (
	CommissionEntryKind_Level     CommissionEntryKind = "level_commission"
	CommissionEntryKind_TeamBonus CommissionEntryKind = "team_bonus"
)

// CommissionLedgerEntry is the append-only audit of every upstream payout.
// One row per credited ancestor per originating contribution.
type CommissionLedgerEntry struct {
	ID                 uint64              `gorm:"primary_key" json:"id"`
	RefID              string              `gorm:"column:ref_id" json:"ref_id"`
	BeneficiaryID      uint64              `gorm:"column:beneficiary_id" json:"beneficiary_id"`
	SourceUserID       uint64              `gorm:"column:source_user_id" json:"source_user_id"`
	Level              ReferralLevel       `gorm:"column:level" json:"level"`
	Kind               CommissionEntryKind `gorm:"column:kind" json:"kind"`
	RateApplied        *postgres.Decimal   `gorm:"column:rate_applied" sql:"type:decimal(36,18)" json:"-"`
	BaseAmount         *postgres.Decimal   `gorm:"column:base_amount" sql:"type:decimal(36,18)" json:"-"`
	CommissionAmount   *postgres.Decimal   `gorm:"column:commission_amount" sql:"type:decimal(36,18)" json:"-"`
	ContributionRecord uint64              `gorm:"column:originating_contribution_id" json:"originating_contribution_id"`
	CreatedAt          time.Time           `gorm:"column:created_at" json:"created_at"`
}

func (CommissionLedgerEntry) TableName() string {
	return "commission_ledger_entries"
}

// CommissionEntryView is the API representation of one payout row
type CommissionEntryView struct {
	RefID            string              `json:"ref_id"`
	BeneficiaryID    uint64              `json:"beneficiary_id"`
	SourceUserID     uint64              `json:"source_user_id"`
	Level            ReferralLevel       `json:"level"`
	Kind             CommissionEntryKind `json:"kind"`
	RateApplied      string              `json:"rate_applied"`
	BaseAmount       string              `json:"base_amount"`
	CommissionAmount string              `json:"commission_amount"`
	CreatedAt        time.Time           `json:"created_at"`
}

// CommissionHistoryResponse is a paged list of payout rows
type CommissionHistoryResponse struct {
	Entries []CommissionEntryView `json:"entries"`
	Meta    PagingMeta            `json:"meta"`
}

// View maps a ledger entry to its API representation
func (e *CommissionLedgerEntry) View() CommissionEntryView {
	return CommissionEntryView{
		RefID:            e.RefID,
		BeneficiaryID:    e.BeneficiaryID,
		SourceUserID:     e.SourceUserID,
		Level:            e.Level,
		Kind:             e.Kind,
		RateApplied:      FmtDecimal(e.RateApplied),
		BaseAmount:       FmtDecimal(e.BaseAmount),
		CommissionAmount: FmtDecimal(e.CommissionAmount),
		CreatedAt:        e.CreatedAt,
	}
}
