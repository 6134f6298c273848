package reconcile

import (
	"context"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"raffleScope/internal/model"
	"raffleScope/internal/normalize"
)

// CoinSource reads the legacy coin store balance in base units.
type CoinSource interface {
	CoinBalance(ctx context.Context, address, coinType string) (*big.Int, error)
}

// FASource reads the fungible-asset store balance in base units.
type FASource interface {
	FungibleAssetBalance(ctx context.Context, owner, assetType string) (*big.Int, error)
}

// Reconciler fetches both storage readings for an account and combines them.
// A failing source degrades to a zero reading rather than failing the whole
// fetch; both fetches run concurrently.
type Reconciler struct {
	coin      CoinSource
	fa        FASource
	coinType  string
	assetType string
	logger    *zap.Logger
}

// NewReconciler builds a Reconciler over the two balance sources. coinType is
// the legacy coin type tag, assetType the fungible-asset metadata address for
// the same logical asset.
func NewReconciler(coin CoinSource, fa FASource, coinType, assetType string, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		coin:      coin,
		fa:        fa,
		coinType:  coinType,
		assetType: assetType,
		logger:    logger,
	}
}

// Balance returns the reconciled balance reading for an address.
func (r *Reconciler) Balance(ctx context.Context, address string) model.BalanceReading {
	coinBalance := big.NewInt(0)
	faBalance := big.NewInt(0)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		val, err := r.coin.CoinBalance(groupCtx, address, r.coinType)
		if err != nil {
			r.logger.Warn("coin store read failed", zap.String("address", address), zap.Error(err))
			return nil
		}
		coinBalance = val
		return nil
	})
	group.Go(func() error {
		val, err := r.fa.FungibleAssetBalance(groupCtx, address, r.assetType)
		if err != nil {
			r.logger.Warn("fungible asset read failed", zap.String("address", address), zap.Error(err))
			return nil
		}
		faBalance = val
		return nil
	})
	group.Wait()

	total := Combine(coinBalance, faBalance)
	return model.BalanceReading{
		CoinBalance:  coinBalance.String(),
		FABalance:    faBalance.String(),
		TotalBalance: total.String(),
		Display:      normalize.ToTokens(total, normalize.OctaDecimals),
	}
}
