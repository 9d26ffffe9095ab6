package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// CreatePool registers a new paused pool awaiting seed liquidity.
func (k *Keeper) CreatePool(ctx sdk.Context, caller, poolID, assetDenom, feeRecipient string) (*types.Pool, error) {
	if !k.checkRole(ctx, caller, types.RoleAdmin) {
		return nil, types.ErrUnauthorized.Wrap("create pool requires admin")
	}
	if k.GetPool(ctx, poolID) != nil {
		return nil, types.ErrPoolExists
	}
	now := ctx.BlockTime().Unix()
	pool := types.NewPool(poolID, assetDenom, now)
	pool.FeeRecipient = feeRecipient
	k.SetPool(ctx, pool)
	k.SetCheckpoint(ctx, types.NewCheckpoint(poolID, now))
	k.SetFees(ctx, poolID, types.DefaultFees())
	k.SetAggregate(ctx, types.NewRequestAggregate(poolID))
	k.SetFlashState(ctx, types.NewFlashState(poolID))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
			sdk.NewAttribute("asset_denom", assetDenom),
		),
	)
	k.logger.Info("created pool", "pool", poolID, "denom", assetDenom)
	return pool, nil
}

// UpdateFees replaces a pool's fee schedule. Requires the manager role and a
// schedule within MaxFees.
func (k *Keeper) UpdateFees(ctx sdk.Context, caller, poolID string, fees types.Fees) error {
	if !k.checkRole(ctx, caller, types.RoleManager) {
		return types.ErrUnauthorized.Wrap("set fees requires manager")
	}
	if k.GetPool(ctx, poolID) == nil {
		return types.ErrPoolNotFound
	}
	if err := fees.Validate(); err != nil {
		return err
	}
	k.SetFees(ctx, poolID, fees)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetFees,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
		),
	)
	k.logger.Info("fee schedule updated", "pool", poolID)
	return nil
}

// Pause halts deposits and new redemption requests. The deposit cap is
// stashed and zeroed so an unpause restores the previous capacity.
func (k *Keeper) Pause(ctx sdk.Context, caller, poolID string) error {
	if !k.checkRole(ctx, caller, types.RoleManager) {
		return types.ErrUnauthorized.Wrap("pause requires manager")
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if pool.Status == types.PoolStatusPaused {
		return nil
	}
	pool.Status = types.PoolStatusPaused
	pool.PausedCap = pool.MaxTotalAssets
	pool.MaxTotalAssets = math.LegacyZeroDec()
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePause,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
		),
	)
	k.logger.Info("pool paused", "pool", poolID)
	return nil
}

// Unpause reactivates a paused pool, restoring the stashed deposit cap.
func (k *Keeper) Unpause(ctx sdk.Context, caller, poolID string) error {
	if !k.checkRole(ctx, caller, types.RoleManager) {
		return types.ErrUnauthorized.Wrap("unpause requires manager")
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if pool.Status == types.PoolStatusActive {
		return nil
	}
	pool.Status = types.PoolStatusActive
	pool.MaxTotalAssets = pool.PausedCap
	pool.PausedCap = math.LegacyZeroDec()
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnpause,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
		),
	)
	k.logger.Info("pool unpaused", "pool", poolID)
	return nil
}

// UpdateParams applies partial parameter changes carried by a
// MsgSetVaultParams. Requires the admin role.
func (k *Keeper) UpdateParams(ctx sdk.Context, caller string, msg *types.MsgSetVaultParams) error {
	if !k.checkRole(ctx, caller, types.RoleAdmin) {
		return types.ErrUnauthorized.Wrap("set params requires admin")
	}
	pool := k.GetPool(ctx, msg.PoolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	cp := k.GetCheckpoint(ctx, msg.PoolID)

	if msg.MaxTotalAssets != "" {
		capacity, err := math.LegacyNewDecFromStr(msg.MaxTotalAssets)
		if err != nil || capacity.IsNegative() {
			return types.ErrInvalidAmount.Wrap("max_total_assets")
		}
		pool.MaxTotalAssets = capacity
	}
	if msg.MinLiquidity != "" {
		minLiq, err := math.LegacyNewDecFromStr(msg.MinLiquidity)
		if err != nil || minLiq.IsNegative() {
			return types.ErrInvalidAmount.Wrap("min_liquidity")
		}
		pool.MinLiquidity = minLiq
	}
	if msg.ProfitCooldown > 0 {
		cp.ProfitCooldown = msg.ProfitCooldown
	}
	if msg.RedemptionLock > 0 {
		cp.RedemptionLock = msg.RedemptionLock
	}
	if msg.MaxFlashLoan != "" {
		maxLoan, err := math.LegacyNewDecFromStr(msg.MaxFlashLoan)
		if err != nil || maxLoan.IsNegative() {
			return types.ErrInvalidAmount.Wrap("max_flash_loan")
		}
		fs := k.GetFlashState(ctx, msg.PoolID)
		fs.MaxLoan = maxLoan
		k.SetFlashState(ctx, fs)
	}
	if msg.FeeRecipient != "" {
		pool.FeeRecipient = msg.FeeRecipient
	}

	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)
	k.SetCheckpoint(ctx, cp)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetParams,
			sdk.NewAttribute(types.AttributeKeyPoolID, msg.PoolID),
		),
	)
	k.logger.Info("pool params updated", "pool", msg.PoolID)
	return nil
}

// UpdateFeeExemption toggles an address's entry/exit fee exemption.
// Requires the manager role.
func (k *Keeper) UpdateFeeExemption(ctx sdk.Context, caller, poolID, addr string, exempt bool) error {
	if !k.checkRole(ctx, caller, types.RoleManager) {
		return types.ErrUnauthorized.Wrap("fee exemption requires manager")
	}
	if k.GetPool(ctx, poolID) == nil {
		return types.ErrPoolNotFound
	}
	k.SetFeeExemption(ctx, poolID, addr, exempt)
	k.logger.Info("fee exemption updated", "pool", poolID, "address", addr, "exempt", exempt)
	return nil
}

// Invest deploys idle capital to the strategy, keeping claimable redemption
// reserves in custody. Requires the operator role.
func (k *Keeper) Invest(ctx sdk.Context, caller, poolID string, amount math.LegacyDec) error {
	if !k.checkRole(ctx, caller, types.RoleOperator) {
		return types.ErrUnauthorized.Wrap("invest requires operator")
	}
	if k.strategyKeeper == nil {
		return types.ErrInternal.Wrap("no strategy wired")
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	agg := k.GetAggregate(ctx, poolID)
	deployable := types.ClampNonNegative(k.IdleBalance(ctx, pool).Sub(agg.TotalClaimableValue))
	if amount.GT(deployable) {
		return types.ErrInsufficientLiquidity.Wrapf("deployable %s", deployable.String())
	}
	if err := k.strategyKeeper.Invest(ctx, poolID, amount); err != nil {
		return err
	}
	cp := k.GetCheckpoint(ctx, poolID)
	cp.InvestedAt = ctx.BlockTime().Unix()
	k.SetCheckpoint(ctx, cp)
	k.logger.Info("capital deployed", "pool", poolID, "amount", amount.String())
	return nil
}
