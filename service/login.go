package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// OnUserLogin applies the login streak rule and clears dormancy. Runs in one
// transaction per login event; a same-day repeat login changes nothing.
func (service *Service) OnUserLogin(userID uint64, timestamp time.Time) (*model.User, error) {
	tx := service.repo.Conn.Begin()
	user, err := queries.GetUserByIDForUpdate(tx, userID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	streak := nextStreak(user.LastLoginAt, timestamp, user.ConsecutiveLoginDays)

	if streak != user.ConsecutiveLoginDays {
		for _, threshold := range service.cfg.Scheduler.StreakBadges {
			if streak != threshold {
				continue
			}
			badge := model.NewPendingReward(userID, model.PendingRewardType_Badge,
				fmt.Sprintf("badge:%d:%d", userID, threshold))
			// ON CONFLICT keeps a duplicate key from aborting the whole
			// transaction; an in-transaction error would sink the login
			// update below
			db := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(badge)
			if db.Error != nil {
				tx.Rollback()
				return nil, db.Error
			}
			if db.RowsAffected > 0 {
				log.Info().
					Str("section", "service").
					Str("action", "login_streak").
					Uint64("user_id", userID).
					Int("streak", streak).
					Msg("Login streak badge earned")
			}
		}
	}

	update := tx.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at":          timestamp,
			"consecutive_login_days": streak,
			"dormant":                false,
		})
	if update.Error != nil {
		tx.Rollback()
		return nil, update.Error
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	user.LastLoginAt = &timestamp
	user.ConsecutiveLoginDays = streak
	user.Dormant = false
	return user, nil
}

// nextStreak computes the consecutive login day count: unchanged for a
// same-day repeat, incremented when the previous login was exactly the prior
// calendar day, reset to 1 otherwise
func nextStreak(lastLogin *time.Time, now time.Time, current int) int {
	if lastLogin == nil || current < 1 {
		return 1
	}
	lastDay := truncateToDay(*lastLogin)
	nowDay := truncateToDay(now)
	switch {
	case nowDay.Equal(lastDay):
		return current
	case nowDay.Equal(lastDay.AddDate(0, 0, 1)):
		return current + 1
	default:
		return 1
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
