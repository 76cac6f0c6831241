package shared

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places every monetary comparison is rounded to
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount half away from zero to two decimals
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// MoneyEqual compares two amounts after rounding both to two decimals
func MoneyEqual(a, b decimal.Decimal) bool {
	return Round2(a).Equal(Round2(b))
}

// MoneyGreater reports a > b after rounding both to two decimals
func MoneyGreater(a, b decimal.Decimal) bool {
	return Round2(a).GreaterThan(Round2(b))
}

// MoneyLess reports a < b after rounding both to two decimals
func MoneyLess(a, b decimal.Decimal) bool {
	return Round2(a).LessThan(Round2(b))
}

// MoneyPositive reports whether the rounded amount is strictly positive
func MoneyPositive(d decimal.Decimal) bool {
	return Round2(d).IsPositive()
}

// Percent returns base × rate / 100 without rounding
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

// SumMoney adds amounts and rounds the result
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round2(total)
}

// MinMoney returns the smaller of two amounts
func MinMoney(a, b decimal.Decimal) decimal.Decimal {
	if MoneyLess(b, a) {
		return Round2(b)
	}
	return Round2(a)
}

// FloorZero clamps negative amounts to zero
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ValidatePercentage checks that a rate lies within [0, 100]
func ValidatePercentage(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return NewDomainError(CodeInvalidInput, field+" must be between 0 and 100")
	}
	return nil
}
