package service

import (
	"context"
	"fmt"

	"github.com/ericlagergren/decimal"
	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// ExchangeResult captures one completed unit-to-currency exchange
type ExchangeResult struct {
	Record      *model.ContributionRecord `json:"record"`
	Instant     string                    `json:"instant"`
	Bonus       string                    `json:"bonus"`
	Total       string                    `json:"total"`
	Currency    string                    `json:"currency"`
	LockPeriod  model.LockPeriod          `json:"lock_period,omitempty"`
	WalletRefID string                    `json:"wallet_ref_id,omitempty"`
}

// ExchangeUnits converts units into currency at the fixed rate, with an
// optional time-locked bonus. The unit debit commits first; the wallet
// credit instruction is published after and retried manually on failure,
// never the other way around.
func (service *Service) ExchangeUnits(ctx context.Context, userID uint64, units *decimal.Big, lockPeriod model.LockPeriod) (*ExchangeResult, error) {
	if units == nil || units.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	breakdown, err := service.value.TotalValue(units, lockPeriod)
	if err != nil {
		return nil, err
	}

	record, err := service.RecordContribution(userID, conv.Neg(units), model.ContributionKind_Exchange,
		fmt.Sprintf("exchange:%s", lockPeriod))
	if err != nil {
		return nil, err
	}

	result := &ExchangeResult{
		Record:     record,
		Instant:    breakdown.Instant.String(),
		Bonus:      breakdown.Bonus.String(),
		Total:      breakdown.Total.String(),
		Currency:   service.value.Currency(),
		LockPeriod: lockPeriod,
	}

	walletRef, err := service.wallet.Credit(ctx, userID, breakdown.Total.String(), service.value.Currency(), record.RefID, lockPeriod)
	if err != nil {
		// units are already debited; the instruction is re-sent during
		// manual reconciliation keyed by the record ref
		log.Error().Err(err).
			Str("section", "service").
			Str("action", "exchange").
			Uint64("user_id", userID).
			Str("ref_id", record.RefID).
			Str("total", result.Total).
			Msg("Wallet credit instruction failed after unit debit")
		return result, err
	}
	result.WalletRefID = walletRef
	return result, nil
}
