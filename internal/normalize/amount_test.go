package normalize

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBaseUnits(t *testing.T) {
	val, err := ParseBaseUnits("300000000")
	require.NoError(t, err)
	require.Equal(t, "300000000", val.String())

	val, err = ParseBaseUnits("")
	require.NoError(t, err)
	require.Equal(t, int64(0), val.Int64())

	_, err = ParseBaseUnits("not-a-number")
	require.Error(t, err)
}

func TestSplitUnitsExactAtLargeMagnitude(t *testing.T) {
	// 2^63 + 7 does not fit in int64; the split must stay integer-exact.
	amount, ok := new(big.Int).SetString("9223372036854775815", 10)
	require.True(t, ok)

	quo, rem := SplitUnits(amount, OctaDecimals)
	require.Equal(t, "92233720368", quo.String())
	require.Equal(t, "54775815", rem.String())

	// Recombining quotient and remainder reproduces the input exactly.
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(OctaDecimals), nil)
	recombined := new(big.Int).Mul(quo, denom)
	recombined.Add(recombined, rem)
	require.Equal(t, amount.String(), recombined.String())
}

func TestToTokens(t *testing.T) {
	require.Equal(t, 3.0, ToTokens(big.NewInt(300000000), OctaDecimals))
	require.Equal(t, 0.5, ToTokens(big.NewInt(50000000), OctaDecimals))
	require.Equal(t, 0.0, ToTokens(nil, OctaDecimals))
	require.InDelta(t, 1.23456789, ToTokens(big.NewInt(123456789), OctaDecimals), 1e-12)
}
