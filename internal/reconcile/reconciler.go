package reconcile

import (
	"math/big"
)

// syncLagPercent is the tolerance below which a difference between the coin
// store and fungible-asset store readings is treated as sync lag rather than
// genuinely separate funds.
const syncLagPercent = 1

// Combine merges the two storage readings for one logical balance. Inputs
// and output are base-unit integers.
//
// Decision table, evaluated in order:
//  1. both zero: zero
//  2. exactly one zero: the nonzero one
//  3. equal: either (the stores are synced)
//  4. relative difference below the sync-lag tolerance: the larger one
//  5. otherwise: the sum (genuinely separate balances)
func Combine(coinBalance, faBalance *big.Int) *big.Int {
	coin := orZero(coinBalance)
	fa := orZero(faBalance)

	switch {
	case coin.Sign() == 0 && fa.Sign() == 0:
		return big.NewInt(0)
	case coin.Sign() == 0:
		return new(big.Int).Set(fa)
	case fa.Sign() == 0:
		return new(big.Int).Set(coin)
	}

	cmp := coin.Cmp(fa)
	if cmp == 0 {
		return new(big.Int).Set(coin)
	}

	larger, smaller := coin, fa
	if cmp < 0 {
		larger, smaller = fa, coin
	}

	// diff/larger*100 < syncLagPercent, kept in integer arithmetic:
	// diff*100 < larger*syncLagPercent.
	diff := new(big.Int).Sub(larger, smaller)
	scaled := new(big.Int).Mul(diff, big.NewInt(100))
	limit := new(big.Int).Mul(larger, big.NewInt(syncLagPercent))
	if scaled.Cmp(limit) < 0 {
		return new(big.Int).Set(larger)
	}

	return new(big.Int).Add(coin, fa)
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return big.NewInt(0)
	}
	return value
}
