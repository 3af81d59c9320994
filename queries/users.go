package queries

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// GetUserByID loads a user by id
func (r *Repo) GetUserByID(userID uint64) (*model.User, error) {
	user := model.User{}
	db := r.ConnReader.First(&user, "id = ?", userID)
	if db.Error != nil {
		return nil, db.Error
	}
	return &user, nil
}

// GetUserByReferralCode loads a user by their invite code
func (r *Repo) GetUserByReferralCode(code string) (*model.User, error) {
	user := model.User{}
	db := r.ConnReader.First(&user, "referral_code = ?", code)
	if db.Error != nil {
		return nil, db.Error
	}
	return &user, nil
}

// GetUserByIDForUpdate loads a user inside the given transaction with a row
// lock, serializing login/streak updates per user
func GetUserByIDForUpdate(tx *gorm.DB, userID uint64) (*model.User, error) {
	user := model.User{}
	db := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID)
	if db.Error != nil {
		return nil, db.Error
	}
	return &user, nil
}

// GetReferrerID returns the referrer of the given user, nil when organic
func (r *Repo) GetReferrerID(userID uint64) (*uint64, error) {
	user := model.User{}
	db := r.ConnReader.Select("id, referrer_id").First(&user, "id = ?", userID)
	if db.Error != nil {
		return nil, db.Error
	}
	return user.ReferrerID, nil
}

// GetDormantCandidates lists active users whose last login is older than the
// cutoff and who are not yet flagged dormant. Users who never logged in are
// left to the new-user flow.
func (r *Repo) GetDormantCandidates(cutoff time.Time, limit int) ([]model.User, error) {
	users := make([]model.User, 0)
	db := r.ConnReader.
		Where("dormant = false").
		Where("last_login_at IS NOT NULL").
		Where("last_login_at < ?", cutoff).
		Limit(limit).
		Find(&users)
	if db.Error != nil {
		return nil, db.Error
	}
	return users, nil
}
