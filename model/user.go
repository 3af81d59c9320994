package model

import (
	"time"
)

// UserStatus defined the list of possible user statuses
type UserStatus string

const (
	// UserStatusActive when the user is active in the system
	UserStatusActive UserStatus = "active"
	// UserStatusBlocked when the user is blocked by the admin
	UserStatusBlocked UserStatus = "blocked"
)

func (u UserStatus) String() string {
	return string(u)
}

// User structure
type User struct {
	ID uint64 `sql:"type: bigint" gorm:"primary_key" json:"id"`

	Email        string      `gorm:"unique;" json:"email"`
	Nickname     string      `json:"nickname"`
	Status       UserStatus  `sql:"not null;type:user_status_t" json:"status"`
	PartnerTier  PartnerTier `gorm:"column:partner_tier" json:"partner_tier"`
	ReferralCode string      `gorm:"column:referral_code" json:"referral_code"`
	// ReferrerID points at the user who invited this one; nil for organic signups.
	// Write-once: the first referrer wins, mirrored by a referral_edges row.
	ReferrerID           *uint64    `gorm:"column:referrer_id" json:"referrer_id"`
	LastLoginAt          *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
	ConsecutiveLoginDays int        `gorm:"column:consecutive_login_days" json:"consecutive_login_days"`
	Dormant              bool       `gorm:"column:dormant" json:"dormant"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// NewUser creates a user record with the default rank and status
func NewUser(email, nickname, referralCode string, referrerID *uint64) *User {
	return &User{
		Email:        email,
		Nickname:     nickname,
		Status:       UserStatusActive,
		PartnerTier:  PartnerTierNormalUser,
		ReferralCode: referralCode,
		ReferrerID:   referrerID,
	}
}

// TopInviters response entry for the inviter leaderboard
type TopInviters struct {
	Level1Invited int       `gorm:"column:level1_invited" json:"level1_invited"`
	Email         string    `gorm:"column:email" json:"email"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}
