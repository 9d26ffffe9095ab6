package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// RequestRedeem queues shares for asynchronous redemption at the current
// share price. An existing request is increased and its locked price blended
// share-weighted with the current price; decreases are not allowed, only
// cancellation. Shares are not escrowed but are reserved against free use.
func (k *Keeper) RequestRedeem(ctx sdk.Context, caller sdk.AccAddress, poolID string, shares math.LegacyDec, owner string) (*types.RedemptionRequest, error) {
	if shares.IsNegative() {
		return nil, types.ErrRequestDecrease
	}
	if !shares.IsPositive() {
		return nil, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pool.Status != types.PoolStatusActive {
		return nil, types.ErrPoolPaused
	}
	if owner == "" {
		owner = caller.String()
	}
	if caller.String() != owner {
		if err := k.spendAllowance(ctx, poolID, owner, caller.String(), shares); err != nil {
			return nil, err
		}
	}
	if err := k.acquireLock(ctx, poolID); err != nil {
		return nil, err
	}
	defer k.releaseLock(ctx, poolID)

	req := k.GetRequest(ctx, poolID, owner)
	balance := k.GetShareBalance(ctx, poolID, owner)
	reserved := math.LegacyZeroDec()
	if req != nil {
		reserved = req.TotalShares()
	}
	if balance.Sub(reserved).LT(shares) {
		return nil, types.ErrInsufficientShares.Wrapf("free balance %s, requested %s", balance.Sub(reserved).String(), shares.String())
	}

	now := ctx.BlockTime().Unix()
	price := k.SharePrice(ctx, pool)
	agg := k.GetAggregate(ctx, poolID)
	if req == nil {
		req = types.NewRedemptionRequest(poolID, owner, shares, price, now)
	} else {
		oldPrice := req.SharePrice
		req.Increase(shares, price, now)
		if req.ClaimableShares.IsPositive() {
			// keep the reserve consistent with the re-blended price
			delta := req.ClaimableShares.Mul(req.SharePrice.Sub(oldPrice))
			agg.TotalClaimableValue = types.ClampNonNegative(agg.TotalClaimableValue.Add(delta))
		}
	}
	k.SetRequest(ctx, req)

	agg.TotalPendingShares = agg.TotalPendingShares.Add(shares)
	k.SetAggregate(ctx, agg)

	cp := k.GetCheckpoint(ctx, poolID)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRequestRedeem,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyShares, req.TotalShares().String()),
			sdk.NewAttribute(types.AttributeKeySharePrice, req.SharePrice.String()),
		),
	)

	k.logger.Info("redemption requested",
		"pool", poolID,
		"owner", owner,
		"shares", shares.String(),
		"request_price", req.SharePrice.String(),
		"claimable_after", req.RequestedAt+cp.RedemptionLock,
	)
	return req, nil
}

// RequestWithdraw is the asset-quoted request: the share amount is derived
// from the current price before queuing.
func (k *Keeper) RequestWithdraw(ctx sdk.Context, caller sdk.AccAddress, poolID string, amount math.LegacyDec, owner string) (*types.RedemptionRequest, error) {
	if !amount.IsPositive() {
		return nil, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	shares := k.ConvertToShares(ctx, pool, amount)
	if !shares.IsPositive() {
		return nil, types.ErrZeroShares
	}
	return k.RequestRedeem(ctx, caller, poolID, shares, owner)
}

// CancelRedeemRequest removes an owner's request. If the share price rose
// since the request was locked, the owner pays the pool's opportunity cost:
// shares worth the gain are burned, so cancelling is never a free option on
// price movement.
func (k *Keeper) CancelRedeemRequest(ctx sdk.Context, caller sdk.AccAddress, poolID, owner string) (released, burned math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if owner == "" {
		owner = caller.String()
	}
	if caller.String() != owner && !k.checkRole(ctx, caller.String(), types.RoleOperator) {
		return zero, zero, types.ErrUnauthorized.Wrap("only the owner or an operator may cancel")
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	req := k.GetRequest(ctx, poolID, owner)
	if req == nil {
		return zero, zero, types.ErrRequestNotFound
	}
	if err := k.acquireLock(ctx, poolID); err != nil {
		return zero, zero, err
	}
	defer k.releaseLock(ctx, poolID)

	released = req.TotalShares()
	price := k.SharePrice(ctx, pool)

	burned = zero
	if price.GT(req.SharePrice) && price.IsPositive() {
		// burn = shares * (P' - P) / P', the gain the pool carried for free
		gainRatio := price.Sub(req.SharePrice).QuoTruncate(price)
		burned = released.MulTruncate(gainRatio)
	}
	if burned.IsPositive() {
		if err := k.burnShares(ctx, pool, owner, burned); err != nil {
			return zero, zero, err
		}
	}

	agg := k.GetAggregate(ctx, poolID)
	agg.TotalPendingShares = types.ClampNonNegative(agg.TotalPendingShares.Sub(released))
	agg.TotalClaimableShares = types.ClampNonNegative(agg.TotalClaimableShares.Sub(req.ClaimableShares))
	agg.TotalClaimableValue = types.ClampNonNegative(agg.TotalClaimableValue.Sub(types.ConvertToAssets(req.ClaimableShares, req.SharePrice)))
	k.SetAggregate(ctx, agg)

	req.PendingShares = zero
	req.ClaimableShares = zero
	k.SetRequest(ctx, req) // deletes the drained request

	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCancelRequest,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyShares, released.String()),
			sdk.NewAttribute(types.AttributeKeyBurned, burned.String()),
		),
	)

	k.logger.Info("redemption request cancelled",
		"pool", poolID,
		"owner", owner,
		"released", released.String(),
		"burned", burned.String(),
	)
	return released, burned, nil
}

// ClaimRedeem settles the owner's full claimable position through the
// shared redemption path, at the lower of the locked and current prices.
func (k *Keeper) ClaimRedeem(ctx sdk.Context, caller sdk.AccAddress, poolID, owner, receiver string, minAssets math.LegacyDec) (assets, shares math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if owner == "" {
		owner = caller.String()
	}
	if receiver == "" {
		receiver = owner
	}
	req := k.GetRequest(ctx, poolID, owner)
	if req == nil {
		return zero, zero, types.ErrRequestNotFound
	}
	if !req.ClaimableShares.IsPositive() {
		return zero, zero, types.ErrNothingClaimable
	}
	shares = req.ClaimableShares
	if caller.String() != owner {
		if err := k.spendAllowance(ctx, poolID, owner, caller.String(), shares); err != nil {
			return zero, zero, err
		}
	}
	assets, _, err = k.redeemShares(ctx, caller.String(), poolID, shares, receiver, owner, minAssets)
	if err != nil {
		return zero, zero, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimRedeem,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, assets.String()),
		),
	)
	return assets, shares, nil
}

// promoteClaimable moves requests past the redemption lock from pending to
// claimable, reserving their value at the locked request price so later price
// moves cannot grow their payout.
func (k *Keeper) promoteClaimable(ctx sdk.Context, pool *types.Pool, cp *types.Checkpoint) error {
	now := ctx.BlockTime().Unix()
	agg := k.GetAggregate(ctx, pool.PoolID)

	promoted := 0
	for _, req := range k.GetPoolRequests(ctx, pool.PoolID) {
		if !req.ClaimableAt(now, cp.RedemptionLock) {
			continue
		}
		shares := req.PendingShares
		// reserve at the locked request price; claims settle at the
		// lower of this and the price at claim time
		reserve := types.ConvertToAssets(shares, req.SharePrice)

		req.ClaimableShares = req.ClaimableShares.Add(shares)
		req.PendingShares = math.LegacyZeroDec()
		req.UpdatedAt = now
		k.SetRequest(ctx, req)

		agg.TotalClaimableShares = agg.TotalClaimableShares.Add(shares)
		agg.TotalClaimableValue = agg.TotalClaimableValue.Add(reserve)
		promoted++
	}
	if promoted > 0 {
		k.SetAggregate(ctx, agg)
		k.logger.Info("promoted redemption requests",
			"pool", pool.PoolID,
			"count", promoted,
		)
	}
	return nil
}
