package queries

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// GetPendingRewards lists pending rows of the given types, oldest first
func (r *Repo) GetPendingRewards(types []model.PendingRewardType, limit int) ([]model.PendingReward, error) {
	rewards := make([]model.PendingReward, 0)
	db := r.ConnReader.
		Where("status = ?", model.PendingRewardStatus_Pending).
		Where("reward_type IN (?)", types).
		Order("created_at ASC").
		Limit(limit).
		Find(&rewards)
	if db.Error != nil {
		return nil, db.Error
	}
	return rewards, nil
}

// LockPendingReward re-reads one reward row inside the transaction with a row
// lock so concurrent grant attempts serialize on it
func LockPendingReward(tx *gorm.DB, id uint64) (*model.PendingReward, error) {
	reward := model.PendingReward{}
	db := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reward, "id = ?", id)
	if db.Error != nil {
		return nil, db.Error
	}
	return &reward, nil
}

// GetPendingTierPromotions lists unconsumed promotion events, oldest first
func (r *Repo) GetPendingTierPromotions(limit int) ([]model.TierPromotion, error) {
	promotions := make([]model.TierPromotion, 0)
	db := r.ConnReader.
		Where("status = ?", model.TierPromotionStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&promotions)
	if db.Error != nil {
		return nil, db.Error
	}
	return promotions, nil
}

// ConsumeTierPromotion flips a promotion to consumed, guarded by the pending
// state so a repeated scan skips it
func ConsumeTierPromotion(tx *gorm.DB, id uint64, at time.Time) (bool, error) {
	db := tx.Model(&model.TierPromotion{}).
		Where("id = ?", id).
		Where("status = ?", model.TierPromotionStatusPending).
		Updates(map[string]interface{}{
			"status":      model.TierPromotionStatusConsumed,
			"consumed_at": at,
		})
	if db.Error != nil {
		return false, db.Error
	}
	return db.RowsAffected == 1, nil
}
