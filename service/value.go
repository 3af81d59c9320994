package service

import (
	"github.com/ericlagergren/decimal"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// ValueModel maps contribution units to currency. Pure and side-effect free:
// every other component uses it for display and calculation only, never for
// balance mutation.
type ValueModel struct {
	unitValue *decimal.Big
	currency  string
	lockBonus map[model.LockPeriod]*decimal.Big
}

// ValueBreakdown is the result of a total value calculation
type ValueBreakdown struct {
	Instant *decimal.Big
	Bonus   *decimal.Big
	Total   *decimal.Big
}

// NewValueModel builds the value model from configuration, loaded once at startup
func NewValueModel(cfg config.ValueConfig) *ValueModel {
	lockBonus := make(map[model.LockPeriod]*decimal.Big, len(cfg.LockBonus))
	for key, rate := range cfg.LockBonus {
		period := model.LockPeriod(key)
		if !period.IsValid() {
			continue
		}
		lockBonus[period] = conv.NewDecimalFromFloat(rate)
	}
	return &ValueModel{
		unitValue: cfg.GetUnitValue(),
		currency:  cfg.Currency,
		lockBonus: lockBonus,
	}
}

// UnitValue returns the fixed exchange rate: currency per contribution unit
func (v *ValueModel) UnitValue() *decimal.Big {
	return conv.CloneToPrecision(v.unitValue)
}

// Currency returns the currency symbol used by wallet instructions
func (v *ValueModel) Currency() string {
	return v.currency
}

// InstantValue converts units to currency at the fixed rate
func (v *ValueModel) InstantValue(units *decimal.Big) (*decimal.Big, error) {
	if units == nil || units.IsNaN(0) || units.IsInf(0) || units.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	return conv.RoundToPrecision(conv.NewDecimalWithPrecision().Mul(units, v.unitValue)), nil
}

// LockBonusRate returns the bonus rate of a lock period. Unknown periods are
// a hard failure, never a silent default.
func (v *ValueModel) LockBonusRate(period model.LockPeriod) (*decimal.Big, error) {
	rate, ok := v.lockBonus[period]
	if !ok {
		return nil, ErrUnknownLockPeriod
	}
	return conv.CloneToPrecision(rate), nil
}

// TotalValue computes the instant, bonus and total currency value of the
// given units. An empty lock period means no lock and a zero bonus.
func (v *ValueModel) TotalValue(units *decimal.Big, lockPeriod model.LockPeriod) (*ValueBreakdown, error) {
	instant, err := v.InstantValue(units)
	if err != nil {
		return nil, err
	}
	bonus := conv.NewDecimalWithPrecision()
	if lockPeriod != "" {
		rate, err := v.LockBonusRate(lockPeriod)
		if err != nil {
			return nil, err
		}
		bonus = conv.RoundToPrecision(conv.NewDecimalWithPrecision().Mul(instant, rate))
	}
	total := conv.RoundToPrecision(conv.NewDecimalWithPrecision().Add(instant, bonus))
	return &ValueBreakdown{Instant: instant, Bonus: bonus, Total: total}, nil
}
