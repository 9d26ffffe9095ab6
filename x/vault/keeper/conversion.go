package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// IdleBalance returns the pool asset balance sitting in the module account,
// net of fees already owed to the flash facility collector.
func (k *Keeper) IdleBalance(ctx sdk.Context, pool *types.Pool) math.LegacyDec {
	coin := k.bankKeeper.GetBalance(ctx, k.ModuleAddress(), pool.AssetDenom)
	return math.LegacyNewDecFromInt(coin.Amount)
}

// InvestedValue returns the marked value of capital deployed to the
// strategy, zero when no strategy is wired.
func (k *Keeper) InvestedValue(ctx sdk.Context, poolID string) math.LegacyDec {
	if k.strategyKeeper == nil {
		return math.LegacyZeroDec()
	}
	return k.strategyKeeper.InvestedValue(ctx, poolID)
}

// AccountedAssets returns the asset value backing share pricing: the
// accounted base plus the portion of harvested profit released by the
// recognition cooldown.
func (k *Keeper) AccountedAssets(ctx sdk.Context, pool *types.Pool) math.LegacyDec {
	cp := k.GetCheckpoint(ctx, pool.PoolID)
	return pool.TotalAssets.Add(cp.RecognizedProfit(ctx.BlockTime().Unix()))
}

// SharePrice returns the current price of one share in pool assets.
// Shares and value reserved for claimable redemptions are carved out of
// both sides so settling a claim cannot move the price for everyone else.
func (k *Keeper) SharePrice(ctx sdk.Context, pool *types.Pool) math.LegacyDec {
	agg := k.GetAggregate(ctx, pool.PoolID)
	return pool.SharePrice(k.AccountedAssets(ctx, pool), agg.TotalClaimableShares, agg.TotalClaimableValue)
}

// ConvertToShares prices an asset amount in shares at the current price.
func (k *Keeper) ConvertToShares(ctx sdk.Context, pool *types.Pool, assets math.LegacyDec) math.LegacyDec {
	return types.ConvertToShares(assets, k.SharePrice(ctx, pool))
}

// ConvertToAssets prices a share amount in assets at the current price.
func (k *Keeper) ConvertToAssets(ctx sdk.Context, pool *types.Pool, shares math.LegacyDec) math.LegacyDec {
	return types.ConvertToAssets(shares, k.SharePrice(ctx, pool))
}

// ensureIdle makes sure at least amount of pool assets sit idle in the
// module account, pulling the shortfall back from the strategy if needed.
func (k *Keeper) ensureIdle(ctx sdk.Context, pool *types.Pool, amount math.LegacyDec) error {
	idle := k.IdleBalance(ctx, pool)
	if idle.GTE(amount) {
		return nil
	}
	shortfall := amount.Sub(idle)
	if k.strategyKeeper != nil {
		recovered, err := k.strategyKeeper.Liquidate(ctx, pool.PoolID, shortfall)
		if err == nil && idle.Add(recovered).GTE(amount) {
			return nil
		}
	}
	return types.ErrInsufficientLiquidity.Wrapf("idle %s, need %s", idle.String(), amount.String())
}

// sendToPool moves assets from an account into pool custody.
func (k *Keeper) sendToPool(ctx sdk.Context, pool *types.Pool, from sdk.AccAddress, amount math.LegacyDec) error {
	coins := sdk.NewCoins(sdk.NewCoin(pool.AssetDenom, amount.TruncateInt()))
	return k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, coins)
}

// sendFromPool moves assets out of pool custody to an account.
func (k *Keeper) sendFromPool(ctx sdk.Context, pool *types.Pool, to sdk.AccAddress, amount math.LegacyDec) error {
	coins := sdk.NewCoins(sdk.NewCoin(pool.AssetDenom, amount.TruncateInt()))
	return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins)
}
