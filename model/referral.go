package model

import (
	"time"
)

// MaxReferralLevels caps how far up the referral chain commissions propagate
const MaxReferralLevels = 3

// ReferralLevel is the distance between an earner and an upstream referrer
type ReferralLevel int

func (r ReferralLevel) Int() int {
	return int(r)
}

const (
	ReferralLevel1 ReferralLevel = 1
	ReferralLevel2 ReferralLevel = 2
	ReferralLevel3 ReferralLevel = 3
)

// ReferralEdge records one referrer/referee link. Write-once: a referee has
// a single edge forever and the graph stays a forest. Ancestor levels are
// computed at commission time by walking the chain, never stored here.
type ReferralEdge struct {
	ID         uint64    `gorm:"primary_key" json:"id"`
	ReferrerID uint64    `gorm:"column:referrer_id" json:"referrer_id"`
	RefereeID  uint64    `gorm:"column:referee_id;unique" json:"referee_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ReferralEdge) TableName() string {
	return "referral_edges"
}

// ReferralAncestor is one entry of the resolved upstream chain
type ReferralAncestor struct {
	UserID uint64
	Level  ReferralLevel
}

// ReferralListEntry is one referee row in the referral listing response
type ReferralListEntry struct {
	Email        string      `gorm:"column:email" json:"email"`
	RegisterDate time.Time   `gorm:"column:register_date" json:"register_date"`
	Earnings     JSONDecimal `gorm:"column:earnings" sql:"type:decimal(36,18)" json:"earnings"`
}

// ReferralListResponse wraps a referral page with paging metadata
type ReferralListResponse struct {
	Data []ReferralListEntry `json:"data"`
	Meta PagingMeta          `json:"meta"`
}
