package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// PendingFees returns the performance and management fees that would be
// taken by a collection right now, together with the recognized profit since
// the last collection. Fees are capped at the profit so a collection can
// never push the share price below the last collection mark.
func (k *Keeper) PendingFees(ctx sdk.Context, pool *types.Pool) (perfFee, mgmtFee, profit math.LegacyDec) {
	now := ctx.BlockTime().Unix()
	cp := k.GetCheckpoint(ctx, pool.PoolID)
	fees := k.GetFees(ctx, pool.PoolID)
	agg := k.GetAggregate(ctx, pool.PoolID)

	perfFee = math.LegacyZeroDec()
	mgmtFee = math.LegacyZeroDec()
	profit = math.LegacyZeroDec()

	supply := pool.TotalShares.Sub(agg.TotalClaimableShares)
	if !supply.IsPositive() {
		return perfFee, mgmtFee, profit
	}

	price := k.SharePrice(ctx, pool)
	gainPerShare := price.Sub(cp.SharePrice)
	if gainPerShare.IsPositive() {
		profit = gainPerShare.MulTruncate(supply)
	}
	if !profit.IsPositive() {
		return perfFee, mgmtFee, math.LegacyZeroDec()
	}

	perfFee = types.ApplyBps(profit, fees.PerformanceBps)

	elapsed := now - cp.FeesCollectedAt
	if elapsed > 0 && fees.ManagementBps > 0 {
		annual := types.ApplyBps(pool.TotalAssets, fees.ManagementBps)
		mgmtFee = annual.MulTruncate(math.LegacyNewDec(elapsed).QuoTruncate(math.LegacyNewDec(types.SecondsPerYear)))
	}

	// total fee never exceeds the recognized profit
	if perfFee.Add(mgmtFee).GT(profit) {
		if perfFee.GT(profit) {
			perfFee = profit
			mgmtFee = math.LegacyZeroDec()
		} else {
			mgmtFee = profit.Sub(perfFee)
		}
	}
	return perfFee, mgmtFee, profit
}

// CollectFees mints fee shares to the pool's fee recipient against profit
// recognized since the last collection. No-op when there is no recognized
// profit or no recipient configured. Caller needs the operator role.
func (k *Keeper) CollectFees(ctx sdk.Context, caller, poolID string) (feeShares, feeValue math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !k.checkRole(ctx, caller, types.RoleOperator) {
		return zero, zero, types.ErrUnauthorized.Wrap("collect fees requires operator")
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	if err := k.acquireLock(ctx, poolID); err != nil {
		return zero, zero, err
	}
	defer k.releaseLock(ctx, poolID)

	perfFee, mgmtFee, profit := k.PendingFees(ctx, pool)
	feeValue = perfFee.Add(mgmtFee)
	if !profit.IsPositive() || !feeValue.IsPositive() || pool.FeeRecipient == "" {
		return zero, zero, nil
	}

	price := k.SharePrice(ctx, pool)
	feeShares = types.ConvertToShares(feeValue, price)
	if !feeShares.IsPositive() {
		return zero, zero, nil
	}

	k.mintShares(ctx, pool, pool.FeeRecipient, feeShares)
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	cp := k.GetCheckpoint(ctx, poolID)
	cp.SharePrice = k.SharePrice(ctx, pool)
	cp.FeesCollectedAt = ctx.BlockTime().Unix()
	k.SetCheckpoint(ctx, cp)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCollectFees,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyReceiver, pool.FeeRecipient),
			sdk.NewAttribute(types.AttributeKeyShares, feeShares.String()),
			sdk.NewAttribute(types.AttributeKeyFee, feeValue.String()),
			sdk.NewAttribute(types.AttributeKeyProfit, profit.String()),
		),
	)

	k.logger.Info("collected fees",
		"pool", poolID,
		"fee_shares", feeShares.String(),
		"fee_value", feeValue.String(),
		"profit", profit.String(),
	)
	return feeShares, feeValue, nil
}

// Harvest marks the pool to market against idle balance plus strategy value.
// Gains enter the recognition cooldown; losses hit the accounted base
// immediately, consuming unrecognized profit first. Matured profit is folded
// into the accounted base. Harvest is the pool's liquidity event: it also
// promotes queued redemption requests past the lock.
func (k *Keeper) Harvest(ctx sdk.Context, poolID string) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	now := ctx.BlockTime().Unix()
	cp := k.GetCheckpoint(ctx, poolID)

	// fold profit released by the cooldown into the accounted base
	recognized := cp.RecognizedProfit(now)
	if recognized.IsPositive() {
		pool.TotalAssets = pool.TotalAssets.Add(recognized)
		cp.PendingProfit = cp.PendingProfit.Sub(recognized)
	}
	cp.HarvestedAt = now

	realValue := k.IdleBalance(ctx, pool).Add(k.InvestedValue(ctx, poolID))
	mark := pool.TotalAssets.Add(cp.PendingProfit)
	gain := realValue.Sub(mark)

	switch {
	case gain.IsPositive():
		cp.PendingProfit = cp.PendingProfit.Add(gain)
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeHarvest,
				sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
				sdk.NewAttribute(types.AttributeKeyProfit, gain.String()),
			),
		)
	case gain.IsNegative():
		loss := gain.Neg()
		absorbed := types.MinDec(loss, cp.PendingProfit)
		cp.PendingProfit = cp.PendingProfit.Sub(absorbed)
		remainder := loss.Sub(absorbed)
		if remainder.IsPositive() {
			pool.TotalAssets = types.ClampNonNegative(pool.TotalAssets.Sub(remainder))
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeHarvest,
				sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
				sdk.NewAttribute(types.AttributeKeyLoss, loss.String()),
			),
		)
	}

	cp.LiquidityEventAt = now
	pool.UpdatedAt = now
	k.SetPool(ctx, pool)
	k.SetCheckpoint(ctx, cp)

	if err := k.promoteClaimable(ctx, pool, cp); err != nil {
		return err
	}

	// sample price history after settlement moves
	pool = k.GetPool(ctx, poolID)
	k.AddPricePoint(ctx, &types.PricePoint{
		PoolID:      poolID,
		SharePrice:  k.SharePrice(ctx, pool),
		TotalAssets: pool.TotalAssets,
		TotalShares: pool.TotalShares,
		Timestamp:   now,
	})
	return nil
}
