package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// Redeem burns shares from owner and pays out pool assets to the receiver.
// Shares covered by a claimable redemption request settle first, at the
// lower of the locked request price and the current price; any remainder
// settles at the current price. The exit fee is taken from the payout and
// stays in the pool. minAssets of zero disables the slippage check.
func (k *Keeper) Redeem(ctx sdk.Context, caller sdk.AccAddress, poolID string, shares math.LegacyDec, receiver, owner string, minAssets math.LegacyDec) (assets, fee math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if owner == "" {
		owner = caller.String()
	}
	if receiver == "" {
		receiver = owner
	}
	if caller.String() != owner {
		if err := k.spendAllowance(ctx, poolID, owner, caller.String(), shares); err != nil {
			return zero, zero, err
		}
	}
	return k.redeemShares(ctx, caller.String(), poolID, shares, receiver, owner, minAssets)
}

// Withdraw is the asset-quoted exit: shares are burned (grossed up for the
// exit fee) so the receiver gets approximately amount of assets. maxShares
// of zero disables the slippage check.
func (k *Keeper) Withdraw(ctx sdk.Context, caller sdk.AccAddress, poolID string, amount math.LegacyDec, receiver, owner string, maxShares math.LegacyDec) (assets, shares, fee math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !amount.IsPositive() {
		return zero, zero, zero, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, zero, types.ErrPoolNotFound
	}
	if owner == "" {
		owner = caller.String()
	}
	if receiver == "" {
		receiver = owner
	}

	price := k.SharePrice(ctx, pool)
	if !price.IsPositive() {
		return zero, zero, zero, types.ErrInternal.Wrap("zero share price")
	}
	shares = amount.Quo(price)
	if !k.IsFeeExempt(ctx, poolID, owner) {
		fees := k.GetFees(ctx, poolID)
		shares = types.GrossUpBps(shares, fees.ExitBps)
	}
	if maxShares.IsPositive() && shares.GT(maxShares) {
		return zero, zero, zero, types.ErrSlippageExceeded.Wrapf("cost %s shares, cap %s", shares.String(), maxShares.String())
	}
	if caller.String() != owner {
		if err := k.spendAllowance(ctx, poolID, owner, caller.String(), shares); err != nil {
			return zero, zero, zero, err
		}
	}

	assets, fee, err = k.redeemShares(ctx, caller.String(), poolID, shares, receiver, owner, amount)
	return assets, shares, fee, err
}

// redeemShares is the shared exit path for Redeem, Withdraw and ClaimRedeem.
// Allowance checks happen before entry.
func (k *Keeper) redeemShares(ctx sdk.Context, caller, poolID string, shares math.LegacyDec, receiver, owner string, minAssets math.LegacyDec) (assets, fee math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !shares.IsPositive() {
		return zero, zero, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	if receiver == k.ModuleAddress().String() {
		return zero, zero, types.ErrInvalidReceiver
	}
	// one smallest share unit always survives so the price stays anchored
	if pool.TotalShares.Sub(shares).LT(types.MinShareSupply) {
		return zero, zero, types.ErrInvalidAmount.Wrap("redemption would drain the share supply")
	}
	if err := k.acquireLock(ctx, poolID); err != nil {
		return zero, zero, err
	}
	defer k.releaseLock(ctx, poolID)

	price := k.SharePrice(ctx, pool)
	req := k.GetRequest(ctx, poolID, owner)
	agg := k.GetAggregate(ctx, poolID)

	claimShares := zero
	reqPrice := price
	if req != nil {
		claimShares = types.MinDec(shares, req.ClaimableShares)
		reqPrice = req.SharePrice
	}
	freeShares := shares.Sub(claimShares)

	// shares still parked in a request cannot double as free shares
	balance := k.GetShareBalance(ctx, poolID, owner)
	reserved := zero
	if req != nil {
		reserved = req.TotalShares().Sub(claimShares)
	}
	if balance.Sub(reserved).LT(shares) {
		return zero, zero, types.ErrInsufficientShares.Wrapf("free balance %s, need %s", balance.Sub(reserved).String(), shares.String())
	}

	claimPrice := types.MinDec(price, reqPrice)
	grossValue := types.ConvertToAssets(claimShares, claimPrice).Add(types.ConvertToAssets(freeShares, price))
	fee = zero
	if !k.IsFeeExempt(ctx, poolID, owner) {
		fees := k.GetFees(ctx, poolID)
		fee = types.ApplyBps(grossValue, fees.ExitBps)
	}
	assets = grossValue.Sub(fee)
	if !assets.IsPositive() {
		return zero, zero, types.ErrZeroShares.Wrap("payout rounds to zero")
	}
	if minAssets.IsPositive() && assets.LT(minAssets) {
		return zero, zero, types.ErrSlippageExceeded.Wrapf("got %s, want at least %s", assets.String(), minAssets.String())
	}

	if err := k.ensureIdle(ctx, pool, assets); err != nil {
		return zero, zero, err
	}
	if err := k.burnShares(ctx, pool, owner, shares); err != nil {
		return zero, zero, err
	}

	recvAddr, err := sdk.AccAddressFromBech32(receiver)
	if err != nil {
		return zero, zero, err
	}
	if err := k.sendFromPool(ctx, pool, recvAddr, assets); err != nil {
		return zero, zero, err
	}

	// release the claimed slice of the request and its reserved value
	if req != nil && claimShares.IsPositive() {
		req.ClaimableShares = req.ClaimableShares.Sub(claimShares)
		req.UpdatedAt = ctx.BlockTime().Unix()
		k.SetRequest(ctx, req)

		agg.TotalPendingShares = types.ClampNonNegative(agg.TotalPendingShares.Sub(claimShares))
		agg.TotalClaimableShares = types.ClampNonNegative(agg.TotalClaimableShares.Sub(claimShares))
		agg.TotalClaimableValue = types.ClampNonNegative(agg.TotalClaimableValue.Sub(types.ConvertToAssets(claimShares, reqPrice)))
		k.SetAggregate(ctx, agg)
	}

	pool.TotalAssets = types.ClampNonNegative(pool.TotalAssets.Sub(assets))
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyCaller, caller),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, assets.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeySharePrice, price.String()),
		),
	)

	k.logger.Info("redeem",
		"pool", poolID,
		"owner", owner,
		"shares", shares.String(),
		"assets", assets.String(),
	)
	return assets, fee, nil
}
