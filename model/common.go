package model

import (
	"encoding/json"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"
	"gitlab.com/lingzhi-platform/contribution_api/conv"
)

type PagingMeta struct {
	Page   int                    `json:"page"`
	Count  int64                  `json:"count"`
	Limit  int                    `json:"limit"`
	Order  string                 `json:"order"`
	Filter map[string]interface{} `json:"filter"`
}

type JSONDecimal struct {
	postgres.Decimal
}

func (d JSONDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(FmtDecimal(&d.Decimal))
}

// FmtDecimal renders a nullable database decimal as a plain string amount
func FmtDecimal(dec *postgres.Decimal) string {
	if dec == nil || dec.V == nil {
		return "0"
	}
	return conv.CloneToPrecision(dec.V).String()
}

// NewDBDecimal wraps an amount into the nullable column representation
func NewDBDecimal(amount *decimal.Big) *postgres.Decimal {
	return &postgres.Decimal{V: conv.CloneToPrecision(amount)}
}

// ZeroDBDecimal returns a zero amount column value
func ZeroDBDecimal() *postgres.Decimal {
	return &postgres.Decimal{V: conv.NewDecimalWithPrecision()}
}
