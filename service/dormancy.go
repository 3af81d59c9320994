package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// ScanDormancy marks users inactive past the configured window as dormant
// and queues their one-shot wakeup reward. Each user is handled in its own
// transaction so a single failure never stops the scan.
func (service *Service) ScanDormancy(now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, -service.cfg.Scheduler.DormancyDays)
	candidates, err := service.repo.GetDormantCandidates(cutoff, service.SchedulerBatchSize())
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, candidate := range candidates {
		flagged, err := service.markDormant(candidate.ID, cutoff)
		if err != nil {
			monitor.SchedulerItemFailures.WithLabelValues("dormancy_scan").Inc()
			log.Error().Err(err).
				Str("section", "service").
				Str("action", "dormancy_scan").
				Uint64("user_id", candidate.ID).
				Msg("Unable to mark user dormant")
			continue
		}
		if flagged {
			marked++
		}
	}
	return marked, nil
}

func (service *Service) markDormant(userID uint64, cutoff time.Time) (bool, error) {
	tx := service.repo.Conn.Begin()
	user, err := queries.GetUserByIDForUpdate(tx, userID)
	if err != nil {
		tx.Rollback()
		return false, err
	}
	// the user may have logged in, or been flagged by another scan, between
	// the candidate query and the lock
	if user.Dormant || user.LastLoginAt == nil || user.LastLoginAt.After(cutoff) {
		tx.Rollback()
		return false, nil
	}

	if err := tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("dormant", true).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	// keyed on the last login date: a user who wakes up and goes dormant
	// again later earns a fresh wakeup reward. ON CONFLICT keeps a duplicate
	// key from aborting the transaction.
	key := fmt.Sprintf("wakeup:%d:%s", userID, user.LastLoginAt.UTC().Format("2006-01-02"))
	reward := model.NewPendingReward(userID, model.PendingRewardType_Wakeup, key)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(reward).Error; err != nil {
		tx.Rollback()
		return false, err
	}
	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	return true, nil
}
