package normalize

import (
	"fmt"
	"math/big"
)

// OctaDecimals is the number of decimal places of the native token: one token
// is 10^8 octas.
const OctaDecimals = 8

// ParseBaseUnits parses a decimal base-unit amount string into a big.Int.
// Empty strings parse as zero.
func ParseBaseUnits(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid base-unit amount: %s", value)
	}
	return parsed, nil
}

// SplitUnits divides a base-unit amount into whole tokens and the fractional
// remainder in base units. The division is integer-exact for any magnitude.
func SplitUnits(amount *big.Int, decimals uint8) (*big.Int, *big.Int) {
	if amount == nil {
		return big.NewInt(0), big.NewInt(0)
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(amount, denom, new(big.Int))
	return quo, rem
}

// ToTokens converts a base-unit amount to whole-token units. The quotient and
// remainder are computed with integer arithmetic; floating point enters only
// when combining the two at the end.
func ToTokens(amount *big.Int, decimals uint8) float64 {
	quo, rem := SplitUnits(amount, decimals)
	whole, _ := new(big.Float).SetInt(quo).Float64()
	frac, _ := new(big.Float).SetInt(rem).Float64()
	denom := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	scaled, _ := new(big.Float).Quo(new(big.Float).SetFloat64(frac), denom).Float64()
	return whole + scaled
}
