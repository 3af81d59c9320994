package model

import (
	"time"
)

type PendingRewardType string

const (
	PendingRewardType_NewUser PendingRewardType = "new_user"
	PendingRewardType_Wakeup  PendingRewardType = "wakeup"
	PendingRewardType_Badge   PendingRewardType = "badge"
	PendingRewardType_Upgrade PendingRewardType = "upgrade"
)

func (t PendingRewardType) IsValid() bool {
	switch t {
	case PendingRewardType_NewUser,
		PendingRewardType_Wakeup,
		PendingRewardType_Badge,
		PendingRewardType_Upgrade:
		return true
	default:
		return false
	}
}

type PendingRewardStatus string

const (
	PendingRewardStatus_Pending PendingRewardStatus = "pending"
	PendingRewardStatus_Granted PendingRewardStatus = "granted"
	PendingRewardStatus_Expired PendingRewardStatus = "expired"
)

// PendingReward is created by the scheduler rules (and at registration) and
// consumed exactly once. The idempotency key carries the rule identity so
// at-least-once scheduler triggers never produce duplicates.
type PendingReward struct {
	ID             uint64              `gorm:"primary_key" json:"id"`
	UserID         uint64              `gorm:"column:user_id" json:"user_id"`
	RewardType     PendingRewardType   `gorm:"column:reward_type" json:"reward_type"`
	Status         PendingRewardStatus `gorm:"column:status" json:"status"`
	IdempotencyKey string              `gorm:"column:idempotency_key;unique" json:"idempotency_key"`
	CreatedAt      time.Time           `gorm:"column:created_at" json:"created_at"`
	GrantedAt      *time.Time          `gorm:"column:granted_at" json:"granted_at"`
}

func (PendingReward) TableName() string {
	return "pending_rewards"
}

// NewPendingReward creates a pending row guarded by the given idempotency key
func NewPendingReward(userID uint64, rewardType PendingRewardType, key string) *PendingReward {
	return &PendingReward{
		UserID:         userID,
		RewardType:     rewardType,
		Status:         PendingRewardStatus_Pending,
		IdempotencyKey: key,
	}
}

// MarkGranted transitions the reward to granted. Returns false when the
// reward already left the pending state, making a repeat grant a no-op.
func (r *PendingReward) MarkGranted(at time.Time) bool {
	if r.Status != PendingRewardStatus_Pending {
		return false
	}
	r.Status = PendingRewardStatus_Granted
	r.GrantedAt = &at
	return true
}

// MarkExpired transitions the reward to expired, only from pending
func (r *PendingReward) MarkExpired() bool {
	if r.Status != PendingRewardStatus_Pending {
		return false
	}
	r.Status = PendingRewardStatus_Expired
	return true
}
