package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// PromoteTierRewards converts pending tier promotion events into upgrade
// pending rewards. Each promotion is consumed exactly once; the reward row
// itself is guarded by its idempotency key.
func (service *Service) PromoteTierRewards(limit int) (int, error) {
	promotions, err := service.repo.GetPendingTierPromotions(limit)
	if err != nil {
		return 0, err
	}
	handled := 0
	for _, promotion := range promotions {
		if err := service.consumePromotion(&promotion); err != nil {
			monitor.SchedulerItemFailures.WithLabelValues("tier_promotions").Inc()
			log.Error().Err(err).
				Str("section", "service").
				Str("action", "tier_promotion_reward").
				Uint64("user_id", promotion.UserID).
				Str("tier", promotion.Tier.String()).
				Msg("Unable to consume tier promotion")
			continue
		}
		handled++
	}
	return handled, nil
}

func (service *Service) consumePromotion(promotion *model.TierPromotion) error {
	tx := service.repo.Conn.Begin()
	consumed, err := queries.ConsumeTierPromotion(tx, promotion.ID, time.Now())
	if err != nil {
		tx.Rollback()
		return err
	}
	if !consumed {
		tx.Rollback()
		return nil
	}
	reward := model.NewPendingReward(promotion.UserID, model.PendingRewardType_Upgrade,
		fmt.Sprintf("upgrade:%d:%s", promotion.UserID, promotion.Tier))
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(reward).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// GrantPendingRewards grants queued rewards of every type exactly once.
// Each row is handled in its own transaction; a failure on one user never
// aborts the batch.
func (service *Service) GrantPendingRewards(limit int) (int, error) {
	types := []model.PendingRewardType{
		model.PendingRewardType_NewUser,
		model.PendingRewardType_Wakeup,
		model.PendingRewardType_Badge,
		model.PendingRewardType_Upgrade,
	}
	rewards, err := service.repo.GetPendingRewards(types, limit)
	if err != nil {
		return 0, err
	}

	granted := 0
	for _, reward := range rewards {
		if err := service.grantPendingReward(reward.ID); err != nil {
			monitor.SchedulerItemFailures.WithLabelValues("pending_rewards").Inc()
			log.Error().Err(err).
				Str("section", "service").
				Str("action", "grant_pending_reward").
				Uint64("user_id", reward.UserID).
				Str("reward_type", string(reward.RewardType)).
				Str("key", reward.IdempotencyKey).
				Msg("Unable to grant pending reward")
			continue
		}
		granted++
	}
	return granted, nil
}

func (service *Service) grantPendingReward(rewardID uint64) error {
	tx := service.repo.Conn.Begin()
	reward, err := queries.LockPendingReward(tx, rewardID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if !reward.MarkGranted(time.Now()) {
		// someone else got here first
		tx.Rollback()
		return nil
	}

	amount, err := service.rewardAmount(reward)
	if err != nil {
		tx.Rollback()
		return err
	}
	if amount.Sign() > 0 {
		reference := fmt.Sprintf("reward:%s", reward.IdempotencyKey)
		if _, err := service.recordContribution(tx, reward.UserID, amount, model.ContributionKind_AdminAdjustment, reference); err != nil {
			tx.Rollback()
			return err
		}
	}

	update := tx.Model(&model.PendingReward{}).
		Where("id = ?", reward.ID).
		Where("status = ?", model.PendingRewardStatus_Pending).
		Updates(map[string]interface{}{
			"status":     reward.Status,
			"granted_at": reward.GrantedAt,
		})
	if update.Error != nil {
		tx.Rollback()
		return update.Error
	}
	if update.RowsAffected != 1 {
		tx.Rollback()
		return nil
	}
	return tx.Commit().Error
}

// rewardAmount resolves the grantable units of one reward from configuration
// and, for upgrades, from the tier table
func (service *Service) rewardAmount(reward *model.PendingReward) (*decimal.Big, error) {
	switch reward.RewardType {
	case model.PendingRewardType_NewUser:
		return conv.NewDecimalFromFloat(service.cfg.Rewards.NewUser), nil
	case model.PendingRewardType_Wakeup:
		return conv.NewDecimalFromFloat(service.cfg.Rewards.Wakeup), nil
	case model.PendingRewardType_Badge:
		threshold := keySuffix(reward.IdempotencyKey)
		amount, ok := service.cfg.Rewards.Badge[threshold]
		if !ok {
			return conv.NewDecimalWithPrecision(), nil
		}
		return conv.NewDecimalFromFloat(amount), nil
	case model.PendingRewardType_Upgrade:
		tier := model.PartnerTier(keySuffix(reward.IdempotencyKey))
		tierCfg, err := service.registry.ConfigFor(tier)
		if err != nil {
			return nil, err
		}
		return conv.CloneToPrecision(tierCfg.UpgradeReward), nil
	default:
		return nil, fmt.Errorf("unhandled reward type %q", reward.RewardType)
	}
}

// keySuffix returns the rule-specific tail of an idempotency key,
// e.g. "7" from "badge:42:7"
func keySuffix(key string) string {
	parts := strings.Split(key, ":")
	return parts[len(parts)-1]
}
