package service

import (
	"fmt"

	"github.com/ericlagergren/decimal"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
)

// ancestorTier pairs one resolved ancestor with its current tier benefits
type ancestorTier struct {
	userID uint64
	level  model.ReferralLevel
	tier   *model.TierConfig
}

// commissionCredit is one planned upstream payout of an earning event
type commissionCredit struct {
	beneficiaryID uint64
	level         model.ReferralLevel
	kind          model.CommissionEntryKind
	contribution  model.ContributionKind
	rate          *decimal.Big
	amount        *decimal.Big
}

// OnContributionEarned is the entry point for every earning event: it
// records the base contribution and propagates commissions up the referral
// chain. The base record always happens, independent of referral status.
func (service *Service) OnContributionEarned(userID uint64, amount *decimal.Big, kind model.ContributionKind, reference string) (*model.ContributionRecord, error) {
	if !kind.IsEarning() {
		return nil, ErrInvalidKind
	}

	record, err := service.RecordContribution(userID, amount, kind, reference)
	if err != nil {
		return nil, err
	}
	service.propagateCommissions(userID, record, amount, kind)
	return record, nil
}

// propagateCommissions pays the upstream credits of an already committed
// base record. The base contribution is never rolled back from here;
// propagation failures are logged for manual reconciliation.
func (service *Service) propagateCommissions(userID uint64, record *model.ContributionRecord, amount *decimal.Big, kind model.ContributionKind) {
	// commission does not cascade off commission: only first-party earnings
	// propagate upstream
	if kind == model.ContributionKind_ReferralCommission || kind == model.ContributionKind_TeamIncome {
		return
	}

	ancestors, err := service.resolveAncestorTiers(userID)
	if err != nil {
		service.logPartialCommissionFailure(userID, record, err)
		return
	}

	plan := service.buildCommissionPlan(amount, ancestors)
	service.applyCommissionPlan(userID, record, amount, plan)
}

// resolveAncestorTiers loads the upstream chain and derives each ancestor's
// tier from its cumulative balance through the registry
func (service *Service) resolveAncestorTiers(userID uint64) ([]ancestorTier, error) {
	chain, err := service.Ancestors(userID, model.MaxReferralLevels)
	if err != nil {
		return nil, err
	}
	ancestors := make([]ancestorTier, 0, len(chain))
	for _, ancestor := range chain {
		balance, err := service.repo.GetBalance(ancestor.UserID)
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, ancestorTier{
			userID: ancestor.UserID,
			level:  ancestor.Level,
			tier:   service.registry.TierFor(balance.Cumulative()),
		})
	}
	return ancestors, nil
}

// buildCommissionPlan computes every upstream credit of one earning event
// in ascending level order. Level credits use the fixed per-level rates with
// a hard cutoff when the chain level exceeds the ancestor's referral depth.
// The team bonus goes to the single nearest ancestor whose tier defines one,
// planned right next to that ancestor's level credit.
func (service *Service) buildCommissionPlan(amount *decimal.Big, ancestors []ancestorTier) []commissionCredit {
	plan := make([]commissionCredit, 0, len(ancestors)+1)
	bonusPlanned := false

	for _, ancestor := range ancestors {
		if ancestor.level.Int() <= ancestor.tier.ReferralDepth {
			rate := service.cfg.ReferralConfig.RateForLevel(ancestor.level.Int())
			if rate.Sign() > 0 {
				plan = append(plan, commissionCredit{
					beneficiaryID: ancestor.userID,
					level:         ancestor.level,
					kind:          model.CommissionEntryKind_Level,
					contribution:  model.ContributionKind_ReferralCommission,
					rate:          rate,
					amount:        conv.RoundToPrecision(conv.NewDecimalWithPrecision().Mul(amount, rate)),
				})
			}
		}

		if !bonusPlanned && ancestor.tier.HasTeamBonus() {
			rate := conv.CloneToPrecision(ancestor.tier.TeamBonusRate)
			plan = append(plan, commissionCredit{
				beneficiaryID: ancestor.userID,
				level:         ancestor.level,
				kind:          model.CommissionEntryKind_TeamBonus,
				contribution:  model.ContributionKind_TeamIncome,
				rate:          rate,
				amount:        conv.RoundToPrecision(conv.NewDecimalWithPrecision().Mul(amount, rate)),
			})
			bonusPlanned = true
		}
	}

	return plan
}

// applyCommissionPlan credits each planned payout in ascending level order.
// Every credit runs in its own transaction: a pure addition cannot fail on
// balance grounds, so any failure here is unexpected, logged for manual
// reconciliation and never rolls back the base record or other credits.
func (service *Service) applyCommissionPlan(sourceUserID uint64, base *model.ContributionRecord, baseAmount *decimal.Big, plan []commissionCredit) {
	for _, credit := range plan {
		if err := service.applyCommissionCredit(sourceUserID, base, baseAmount, credit); err != nil {
			monitor.PartialCommissionFailures.Inc()
			log.Error().Err(err).
				Str("section", "service").
				Str("action", "commission_credit").
				Uint64("source_user_id", sourceUserID).
				Uint64("beneficiary_id", credit.beneficiaryID).
				Int("level", credit.level.Int()).
				Str("ref_id", base.RefID).
				Msg("PartialCommissionFailure: unable to credit ancestor")
		}
	}
}

func (service *Service) applyCommissionCredit(sourceUserID uint64, base *model.ContributionRecord, baseAmount *decimal.Big, credit commissionCredit) error {
	reference := fmt.Sprintf("%s:%s", credit.kind, base.RefID)

	tx := service.repo.Conn.Begin()
	record, err := service.recordContribution(tx, credit.beneficiaryID, credit.amount, credit.contribution, reference)
	if err != nil {
		tx.Rollback()
		return err
	}
	entry := &model.CommissionLedgerEntry{
		RefID:              xid.New().String(),
		BeneficiaryID:      credit.beneficiaryID,
		SourceUserID:       sourceUserID,
		Level:              credit.level,
		Kind:               credit.kind,
		RateApplied:        model.NewDBDecimal(credit.rate),
		BaseAmount:         model.NewDBDecimal(baseAmount),
		CommissionAmount:   record.Amount,
		ContributionRecord: base.ID,
	}
	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	monitor.CommissionsPaid.WithLabelValues(string(credit.kind), fmt.Sprintf("%d", credit.level.Int())).Inc()
	return nil
}

func (service *Service) logPartialCommissionFailure(userID uint64, base *model.ContributionRecord, err error) {
	monitor.PartialCommissionFailures.Inc()
	log.Error().Err(err).
		Str("section", "service").
		Str("action", "commission_propagation").
		Uint64("source_user_id", userID).
		Str("ref_id", base.RefID).
		Msg("PartialCommissionFailure: unable to resolve upstream chain")
}
