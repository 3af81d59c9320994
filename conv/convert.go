package conv

import "github.com/ericlagergren/decimal"

var zeroRounded decimal.Big

func init() {
	zeroRounded = decimal.Big{}
	zeroRounded.Context = decimal.Context128
	zeroRounded.Context.RoundingMode = decimal.ToZero
	zeroRounded.Quantize(8)
}

// NewDecimalWithPrecision returns a new zero decimal preconfigured with the
// precision context used for all contribution unit and currency amounts
func NewDecimalWithPrecision() *decimal.Big {
	z := zeroRounded
	return &z
}

// NewDecimalFromFloat converts a float configuration value into a decimal
// amount with the standard precision context
func NewDecimalFromFloat(value float64) *decimal.Big {
	return NewDecimalWithPrecision().SetFloat64(value)
}

// NewDecimalFromString parses a decimal amount from its string form.
// The second return value is false when the string is not a valid number.
func NewDecimalFromString(value string) (*decimal.Big, bool) {
	dec, ok := NewDecimalWithPrecision().SetString(value)
	if !ok || dec.IsNaN(0) || dec.IsInf(0) {
		return nil, false
	}
	return dec, true
}

// CloneToPrecision copies the given amount into a new decimal quantized to
// the standard precision
func CloneToPrecision(amount *decimal.Big) *decimal.Big {
	dec := &decimal.Big{}
	dec.Context = decimal.Context128
	dec.Context.RoundingMode = decimal.ToZero
	dec.Copy(amount)
	dec.Quantize(8)
	return dec
}

// RoundToPrecision quantizes the given amount in place to the standard precision
func RoundToPrecision(amount *decimal.Big) *decimal.Big {
	amount.Context = decimal.Context128
	amount.Context.RoundingMode = decimal.ToZero
	amount.Quantize(8)

	return amount
}

// Neg returns a negated copy of the given amount at standard precision
func Neg(amount *decimal.Big) *decimal.Big {
	return NewDecimalWithPrecision().Neg(amount)
}
