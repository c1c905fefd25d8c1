package models

import "github.com/shopspring/decimal"

func init() {
	// the front-end reads amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Round2 rounds a monetary amount to 2 decimal places (half to even).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// WholeUnits converts a fractional line quantity into whole stock units.
func WholeUnits(d decimal.Decimal) int {
	return int(d.RoundBank(0).IntPart())
}
