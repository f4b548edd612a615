package common

import (
	decimal2 "github.com/govalues/decimal"
)

// DecimalScale is the fixed scale the row codec stores decimals with.
const DecimalScale = 2

type Decimal struct {
	decimal2.Decimal
}

func (dec *Decimal) Equal(o *Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) == 0
}

func (dec *Decimal) String() string {
	return dec.Decimal.String()
}

func (dec *Decimal) Less(o *Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) < 0
}

// WholeFrac splits the decimal into integer and fractional parts at
// DecimalScale. The pair orders the same way the decimal does, which is
// what the key encoder relies on.
func (dec *Decimal) WholeFrac() (int64, int64, bool) {
	return dec.Decimal.Int64(DecimalScale)
}

func DecimalFromWholeFrac(whole, frac int64) (Decimal, error) {
	d, err := decimal2.NewFromInt64(whole, frac, DecimalScale)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Decimal: d}, nil
}

func DecimalFromFloat(f float64) (Decimal, error) {
	d, err := decimal2.NewFromFloat64(f)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Decimal: d.Round(DecimalScale)}, nil
}
