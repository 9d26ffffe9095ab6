package keeper

import (
	"bytes"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// MaxFlashLoan returns the largest loan currently available: the facility
// limit capped by idle liquidity not reserved for claimable redemptions.
func (k *Keeper) MaxFlashLoan(ctx sdk.Context, poolID, denom string) math.LegacyDec {
	pool := k.GetPool(ctx, poolID)
	if pool == nil || denom != pool.AssetDenom {
		return math.LegacyZeroDec()
	}
	fs := k.GetFlashState(ctx, poolID)
	agg := k.GetAggregate(ctx, poolID)
	lendable := types.ClampNonNegative(k.IdleBalance(ctx, pool).Sub(agg.TotalClaimableValue))
	return types.MinDec(fs.MaxLoan, lendable)
}

// FlashFee quotes the fee for a loan of the given size.
func (k *Keeper) FlashFee(ctx sdk.Context, poolID string, amount math.LegacyDec) math.LegacyDec {
	fees := k.GetFees(ctx, poolID)
	return types.ApplyBps(amount, fees.FlashBps)
}

// FlashLoan lends idle pool assets to the borrower for the duration of its
// callback. The loan runs on a branched context that only commits when the
// callback returns the acknowledgement constant and principal plus fee are
// back in custody; any failure discards every interim write.
func (k *Keeper) FlashLoan(ctx sdk.Context, poolID string, borrower types.FlashBorrower, borrowerAddr sdk.AccAddress, denom string, amount math.LegacyDec, data []byte) (fee math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !amount.IsPositive() {
		return zero, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, types.ErrPoolNotFound
	}
	if denom != pool.AssetDenom {
		return zero, types.ErrInvalidDenom.Wrapf("pool lends %s", pool.AssetDenom)
	}
	if pool.Status != types.PoolStatusActive {
		return zero, types.ErrPoolPaused
	}
	fs := k.GetFlashState(ctx, poolID)
	if !fs.MaxLoan.IsPositive() {
		return zero, types.ErrFlashDisabled
	}
	maxLoan := k.MaxFlashLoan(ctx, poolID, denom)
	if amount.GT(maxLoan) {
		return zero, types.ErrMaxLoanExceeded.Wrapf("max %s", maxLoan.String())
	}
	fee = k.FlashFee(ctx, poolID, amount)

	cacheCtx, write := ctx.CacheContext()
	if err := k.acquireLock(cacheCtx, poolID); err != nil {
		return zero, err
	}

	before := k.IdleBalance(cacheCtx, pool)
	if err := k.sendFromPool(cacheCtx, pool, borrowerAddr, amount); err != nil {
		return zero, err
	}

	ack, err := borrower.OnFlashLoan(cacheCtx, borrowerAddr.String(), denom, amount, fee, data)
	if err != nil {
		return zero, types.ErrFlashNotPaid.Wrap(err.Error())
	}
	if !bytes.Equal(ack, types.FlashAck) {
		return zero, types.ErrFlashAck
	}

	after := k.IdleBalance(cacheCtx, pool)
	if after.LT(before.Add(fee)) {
		return zero, types.ErrFlashNotPaid.Wrapf("balance %s, need %s", after.String(), before.Add(fee).String())
	}

	k.releaseLock(cacheCtx, poolID)

	fs.TotalLent = fs.TotalLent.Add(amount)
	fs.ClaimableFees = fs.ClaimableFees.Add(fee)
	k.SetFlashState(cacheCtx, fs)

	// the fee lands in custody and accrues to holders immediately
	pool = k.GetPool(cacheCtx, poolID)
	pool.TotalAssets = pool.TotalAssets.Add(fee)
	pool.UpdatedAt = cacheCtx.BlockTime().Unix()
	k.SetPool(cacheCtx, pool)

	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlashLoan,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyCaller, borrowerAddr.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
		),
	)

	k.logger.Info("flash loan settled",
		"pool", poolID,
		"borrower", borrowerAddr.String(),
		"amount", amount.String(),
		"fee", fee.String(),
	)
	return fee, nil
}
