package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/jackc/pgconn"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// RecordContribution appends one record to the audit trail and moves the
// running balance, all inside a single transaction. The whole call is
// rejected when the remaining contribution would go negative.
func (service *Service) RecordContribution(userID uint64, amount *decimal.Big, kind model.ContributionKind, reference string) (*model.ContributionRecord, error) {
	tx := service.repo.Conn.Begin()
	record, err := service.recordContribution(tx, userID, amount, kind, reference)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return record, nil
}

// recordContribution is the transactional core of the ledger. The caller
// owns the transaction. Lock order is user row first, balance row second,
// the same in every code path that touches both.
func (service *Service) recordContribution(tx *gorm.DB, userID uint64, amount *decimal.Big, kind model.ContributionKind, reference string) (*model.ContributionRecord, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if amount == nil || amount.IsNaN(0) || amount.IsInf(0) || amount.Sign() == 0 {
		return nil, ErrInvalidAmount
	}
	if kind.IsEarning() && amount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if kind.IsConsuming() && amount.Sign() > 0 {
		return nil, ErrInvalidAmount
	}

	user, err := queries.GetUserByIDForUpdate(tx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := queries.GetBalanceForUpdate(tx, userID)
	if err != nil {
		return nil, err
	}

	credited := conv.CloneToPrecision(amount)
	if kind.SelfMultiplied() {
		tierCfg, err := service.registry.ConfigFor(user.PartnerTier)
		if err != nil {
			return nil, err
		}
		credited = conv.RoundToPrecision(conv.NewDecimalWithPrecision().Mul(credited, tierCfg.SelfMultiplier))
	}

	earned := balance.Cumulative()
	consumed := balance.Spent()
	if credited.Sign() > 0 {
		earned.Add(earned, credited)
	} else {
		consumed.Add(consumed, conv.Neg(credited))
	}
	if conv.NewDecimalWithPrecision().Sub(earned, consumed).Sign() < 0 {
		return nil, ErrInsufficientBalance
	}

	record := &model.ContributionRecord{
		RefID:           xid.New().String(),
		UserID:          userID,
		Amount:          model.NewDBDecimal(credited),
		Kind:            kind,
		SourceReference: reference,
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}

	update := tx.Model(&model.ContributionBalance{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"cumulative_contribution": model.NewDBDecimal(earned),
			"consumed_contribution":   model.NewDBDecimal(consumed),
			"updated_at":              time.Now(),
		})
	if update.Error != nil {
		return nil, update.Error
	}

	if credited.Sign() > 0 {
		if err := service.rederiveTier(tx, user, earned); err != nil {
			return nil, err
		}
	}

	monitor.ContributionsRecorded.WithLabelValues(kind.String()).Inc()
	return record, nil
}

// rederiveTier checks the user's tier against the new cumulative total and
// promotes when a higher threshold was crossed. The promotion event row is
// guarded by a (user_id, tier) unique constraint; ON CONFLICT makes a
// concurrent writer emitting the same promotion a no-op instead of an
// aborted transaction.
func (service *Service) rederiveTier(tx *gorm.DB, user *model.User, cumulative *decimal.Big) error {
	currentCfg, err := service.registry.ConfigFor(user.PartnerTier)
	if err != nil {
		return err
	}
	newCfg := service.registry.TierFor(cumulative)
	if newCfg.Rank <= currentCfg.Rank {
		return nil
	}

	if err := tx.Model(&model.User{}).Where("id = ?", user.ID).Update("partner_tier", newCfg.Tier).Error; err != nil {
		return err
	}
	promotion := &model.TierPromotion{
		UserID: user.ID,
		Tier:   newCfg.Tier,
		Status: model.TierPromotionStatusPending,
	}
	db := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(promotion)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return nil
	}
	log.Info().
		Str("section", "service").
		Str("action", "tier_promotion").
		Uint64("user_id", user.ID).
		Str("tier", newCfg.Tier.String()).
		Msg("User promoted to a higher partner tier")
	return nil
}

// ProjectContribution computes the score of one project engagement:
// difficulty * quality * participation * 10. A scoring formula only; the
// caller records the result separately.
func (service *Service) ProjectContribution(difficulty, quality, participationRate float64) (*decimal.Big, error) {
	if difficulty < 0.1 || difficulty > 3.0 {
		return nil, ErrInvalidScoreInput
	}
	if quality < 0 || quality > 10 {
		return nil, ErrInvalidScoreInput
	}
	if participationRate < 0 || participationRate > 1 {
		return nil, ErrInvalidScoreInput
	}
	score := conv.NewDecimalFromFloat(difficulty)
	score.Mul(score, conv.NewDecimalFromFloat(quality))
	score.Mul(score, conv.NewDecimalFromFloat(participationRate))
	score.Mul(score, conv.NewDecimalFromFloat(10))
	return conv.RoundToPrecision(score), nil
}

// Balance returns a read-only balance snapshot with the user's current tier
func (service *Service) Balance(userID uint64) (*model.BalanceView, error) {
	balance, err := service.repo.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	tier := service.registry.TierFor(balance.Cumulative()).Tier
	return &model.BalanceView{
		UserID:      userID,
		Cumulative:  balance.Cumulative().String(),
		Consumed:    balance.Spent().String(),
		Remaining:   balance.Remaining().String(),
		PartnerTier: tier,
	}, nil
}

// Checkin grants the daily check-in contribution once per calendar day. The
// pre-read is the fast path for a same-day repeat; the real guard is the
// partial unique index on the per-day source reference, which turns a
// concurrent duplicate into a no-op.
func (service *Service) Checkin(userID uint64, at time.Time) (*model.ContributionRecord, error) {
	reference := fmt.Sprintf("checkin:%s", at.UTC().Format("2006-01-02"))
	exists, err := service.repo.HasContributionWithReference(userID, model.ContributionKind_Checkin, reference)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	amount := conv.NewDecimalFromFloat(service.cfg.Rewards.Checkin)
	if amount.Sign() <= 0 {
		return nil, nil
	}
	record, err := service.OnContributionEarned(userID, amount, model.ContributionKind_Checkin, reference)
	if err != nil {
		if isUniqueViolation(err) {
			// a concurrent check-in for the same day won the insert
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// isUniqueViolation reports whether the error is a postgres unique
// constraint conflict
func isUniqueViolation(err error) bool {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code == "23505"
	}
	return false
}
