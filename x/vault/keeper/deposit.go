package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// validateEntry runs the checks shared by Deposit and Mint.
func (k *Keeper) validateEntry(ctx sdk.Context, pool *types.Pool, receiver string, amount math.LegacyDec) error {
	if pool.Status != types.PoolStatusActive {
		return types.ErrPoolPaused
	}
	if pool.TotalAssets.LT(pool.MinLiquidity) {
		return types.ErrNotSeeded
	}
	if receiver == k.ModuleAddress().String() {
		return types.ErrInvalidReceiver
	}
	if pool.TotalAssets.Add(amount).GT(pool.MaxTotalAssets) {
		return types.ErrCapExceeded.Wrapf("cap %s", pool.MaxTotalAssets.String())
	}
	return nil
}

// Deposit moves amount of pool assets from the depositor into custody and
// mints shares to the receiver at the current share price, net of the entry
// fee. minShares of zero disables the slippage check.
func (k *Keeper) Deposit(ctx sdk.Context, depositor sdk.AccAddress, poolID string, amount math.LegacyDec, receiver string, minShares math.LegacyDec) (shares, fee math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !amount.IsPositive() {
		return zero, zero, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	if receiver == "" {
		receiver = depositor.String()
	}
	if err := k.validateEntry(ctx, pool, receiver, amount); err != nil {
		return zero, zero, err
	}
	if err := k.acquireLock(ctx, poolID); err != nil {
		return zero, zero, err
	}
	defer k.releaseLock(ctx, poolID)

	fee = zero
	if fees := k.GetFees(ctx, poolID); !k.IsFeeExempt(ctx, poolID, depositor.String()) {
		fee = types.ApplyBps(amount, fees.EntryBps)
	}
	net := amount.Sub(fee)

	price := k.SharePrice(ctx, pool)
	shares = types.ConvertToShares(net, price)
	if !shares.IsPositive() {
		return zero, zero, types.ErrZeroShares
	}
	if minShares.IsPositive() && shares.LT(minShares) {
		return zero, zero, types.ErrSlippageExceeded.Wrapf("got %s, want at least %s", shares.String(), minShares.String())
	}

	if err := k.sendToPool(ctx, pool, depositor, amount); err != nil {
		return zero, zero, err
	}

	// entry fee stays in the pool and accrues to existing holders
	k.mintShares(ctx, pool, receiver, shares)
	pool.TotalAssets = pool.TotalAssets.Add(amount)
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyDepositor, depositor.String()),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeySharePrice, price.String()),
		),
	)

	k.logger.Info("deposit",
		"pool", poolID,
		"depositor", depositor.String(),
		"amount", amount.String(),
		"shares", shares.String(),
	)
	return shares, fee, nil
}

// Mint is the share-quoted deposit: the depositor pays whatever assets are
// needed (grossed up for the entry fee) so the receiver gets exactly shares.
// maxAssets of zero disables the slippage check.
func (k *Keeper) Mint(ctx sdk.Context, depositor sdk.AccAddress, poolID string, shares math.LegacyDec, receiver string, maxAssets math.LegacyDec) (assets, fee math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !shares.IsPositive() {
		return zero, zero, types.ErrInvalidAmount
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	if receiver == "" {
		receiver = depositor.String()
	}

	price := k.SharePrice(ctx, pool)
	net := shares.Mul(price)
	assets = net
	if fees := k.GetFees(ctx, poolID); !k.IsFeeExempt(ctx, poolID, depositor.String()) {
		assets = types.GrossUpBps(net, fees.EntryBps)
	}
	fee = assets.Sub(net)

	if err := k.validateEntry(ctx, pool, receiver, assets); err != nil {
		return zero, zero, err
	}
	if maxAssets.IsPositive() && assets.GT(maxAssets) {
		return zero, zero, types.ErrSlippageExceeded.Wrapf("cost %s, cap %s", assets.String(), maxAssets.String())
	}
	if err := k.acquireLock(ctx, poolID); err != nil {
		return zero, zero, err
	}
	defer k.releaseLock(ctx, poolID)

	if err := k.sendToPool(ctx, pool, depositor, assets); err != nil {
		return zero, zero, err
	}

	k.mintShares(ctx, pool, receiver, shares)
	pool.TotalAssets = pool.TotalAssets.Add(assets)
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyDepositor, depositor.String()),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
			sdk.NewAttribute(types.AttributeKeyAmount, assets.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeySharePrice, price.String()),
		),
	)

	k.logger.Info("mint",
		"pool", poolID,
		"depositor", depositor.String(),
		"assets", assets.String(),
		"shares", shares.String(),
	)
	return assets, fee, nil
}

// SeedLiquidity bootstraps an empty pool: the admin deposits the seed at
// unit price with no fees, the deposit cap is set and the pool activates.
func (k *Keeper) SeedLiquidity(ctx sdk.Context, caller sdk.AccAddress, poolID string, amount, cap math.LegacyDec) (shares math.LegacyDec, err error) {
	zero := math.LegacyZeroDec()
	if !k.checkRole(ctx, caller.String(), types.RoleAdmin) {
		return zero, types.ErrUnauthorized.Wrap("seed requires admin")
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, types.ErrPoolNotFound
	}
	if pool.TotalShares.IsPositive() {
		return zero, types.ErrAlreadySeeded
	}
	if amount.LT(pool.MinLiquidity) {
		return zero, types.ErrInvalidAmount.Wrapf("seed %s below minimum %s", amount.String(), pool.MinLiquidity.String())
	}
	if cap.LT(amount) {
		return zero, types.ErrInvalidAmount.Wrap("cap below seed")
	}
	if err := k.sendToPool(ctx, pool, caller, amount); err != nil {
		return zero, err
	}

	shares = amount // unit price bootstrap
	k.mintShares(ctx, pool, caller.String(), shares)
	pool.TotalAssets = amount
	pool.MaxTotalAssets = cap
	pool.Status = types.PoolStatusActive
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSeedLiquidity,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute(types.AttributeKeyDepositor, caller.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyCap, cap.String()),
		),
	)

	k.logger.Info("seeded pool",
		"pool", poolID,
		"amount", amount.String(),
		"cap", cap.String(),
	)
	return shares, nil
}
