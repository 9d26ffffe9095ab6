package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// MsgServer defines the vault MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func parseDec(s string) (math.LegacyDec, error) {
	if s == "" {
		return math.LegacyZeroDec(), nil
	}
	return math.LegacyNewDecFromStr(s)
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool, err := m.keeper.CreatePool(sdkCtx, msg.Authority, msg.PoolID, msg.AssetDenom, msg.FeeRecipient)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{PoolID: pool.PoolID}, nil
}

// SeedLiquidity handles MsgSeedLiquidity
func (m *MsgServer) SeedLiquidity(ctx context.Context, msg *types.MsgSeedLiquidity) (*types.MsgSeedLiquidityResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := parseDec(msg.Amount)
	if err != nil {
		return nil, err
	}
	seedCap, err := parseDec(msg.Cap)
	if err != nil {
		return nil, err
	}
	caller, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, err
	}
	shares, err := m.keeper.SeedLiquidity(sdkCtx, caller, msg.PoolID, amount, seedCap)
	if err != nil {
		return nil, err
	}
	return &types.MsgSeedLiquidityResponse{Shares: shares.String()}, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := parseDec(msg.Amount)
	if err != nil {
		return nil, err
	}
	minShares, err := parseDec(msg.MinShares)
	if err != nil {
		return nil, err
	}
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, err
	}
	shares, fee, err := m.keeper.Deposit(sdkCtx, depositor, msg.PoolID, amount, msg.Receiver, minShares)
	if err != nil {
		return nil, err
	}
	pool := m.keeper.GetPool(sdkCtx, msg.PoolID)
	return &types.MsgDepositResponse{
		Shares:     shares.String(),
		Fee:        fee.String(),
		SharePrice: m.keeper.SharePrice(sdkCtx, pool).String(),
	}, nil
}

// Mint handles MsgMint
func (m *MsgServer) Mint(ctx context.Context, msg *types.MsgMint) (*types.MsgMintResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	shares, err := parseDec(msg.Shares)
	if err != nil {
		return nil, err
	}
	maxAssets, err := parseDec(msg.MaxAssets)
	if err != nil {
		return nil, err
	}
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, err
	}
	assets, fee, err := m.keeper.Mint(sdkCtx, depositor, msg.PoolID, shares, msg.Receiver, maxAssets)
	if err != nil {
		return nil, err
	}
	pool := m.keeper.GetPool(sdkCtx, msg.PoolID)
	return &types.MsgMintResponse{
		Assets:     assets.String(),
		Fee:        fee.String(),
		SharePrice: m.keeper.SharePrice(sdkCtx, pool).String(),
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := parseDec(msg.Amount)
	if err != nil {
		return nil, err
	}
	maxShares, err := parseDec(msg.MaxShares)
	if err != nil {
		return nil, err
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, err
	}
	assets, shares, fee, err := m.keeper.Withdraw(sdkCtx, caller, msg.PoolID, amount, msg.Receiver, msg.Owner, maxShares)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{
		Assets: assets.String(),
		Shares: shares.String(),
		Fee:    fee.String(),
	}, nil
}

// Redeem handles MsgRedeem
func (m *MsgServer) Redeem(ctx context.Context, msg *types.MsgRedeem) (*types.MsgRedeemResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	shares, err := parseDec(msg.Shares)
	if err != nil {
		return nil, err
	}
	minAssets, err := parseDec(msg.MinAssets)
	if err != nil {
		return nil, err
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, err
	}
	assets, fee, err := m.keeper.Redeem(sdkCtx, caller, msg.PoolID, shares, msg.Receiver, msg.Owner, minAssets)
	if err != nil {
		return nil, err
	}
	return &types.MsgRedeemResponse{
		Assets: assets.String(),
		Fee:    fee.String(),
	}, nil
}

// RequestRedeem handles MsgRequestRedeem
func (m *MsgServer) RequestRedeem(ctx context.Context, msg *types.MsgRequestRedeem) (*types.MsgRequestRedeemResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	shares, err := parseDec(msg.Shares)
	if err != nil {
		return nil, err
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, err
	}
	req, err := m.keeper.RequestRedeem(sdkCtx, caller, msg.PoolID, shares, msg.Owner)
	if err != nil {
		return nil, err
	}
	cp := m.keeper.GetCheckpoint(sdkCtx, msg.PoolID)
	return &types.MsgRequestRedeemResponse{
		PendingShares: req.PendingShares.String(),
		RequestPrice:  req.SharePrice.String(),
		ClaimableAt:   req.RequestedAt + cp.RedemptionLock,
	}, nil
}

// RequestWithdraw handles MsgRequestWithdraw
func (m *MsgServer) RequestWithdraw(ctx context.Context, msg *types.MsgRequestWithdraw) (*types.MsgRequestWithdrawResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	amount, err := parseDec(msg.Amount)
	if err != nil {
		return nil, err
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, err
	}
	req, err := m.keeper.RequestWithdraw(sdkCtx, caller, msg.PoolID, amount, msg.Owner)
	if err != nil {
		return nil, err
	}
	cp := m.keeper.GetCheckpoint(sdkCtx, msg.PoolID)
	return &types.MsgRequestWithdrawResponse{
		PendingShares: req.PendingShares.String(),
		RequestPrice:  req.SharePrice.String(),
		ClaimableAt:   req.RequestedAt + cp.RedemptionLock,
	}, nil
}

// CancelRedeemRequest handles MsgCancelRedeemRequest
func (m *MsgServer) CancelRedeemRequest(ctx context.Context, msg *types.MsgCancelRedeemRequest) (*types.MsgCancelRedeemRequestResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, err
	}
	released, burned, err := m.keeper.CancelRedeemRequest(sdkCtx, caller, msg.PoolID, msg.Owner)
	if err != nil {
		return nil, err
	}
	return &types.MsgCancelRedeemRequestResponse{
		SharesReleased: released.String(),
		SharesBurned:   burned.String(),
	}, nil
}

// ClaimRedeem handles MsgClaimRedeem
func (m *MsgServer) ClaimRedeem(ctx context.Context, msg *types.MsgClaimRedeem) (*types.MsgClaimRedeemResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	minAssets, err := parseDec(msg.MinAssets)
	if err != nil {
		return nil, err
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, err
	}
	assets, shares, err := m.keeper.ClaimRedeem(sdkCtx, caller, msg.PoolID, msg.Owner, msg.Receiver, minAssets)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRedeemResponse{
		Assets: assets.String(),
		Shares: shares.String(),
	}, nil
}

// ApproveShares handles MsgApproveShares
func (m *MsgServer) ApproveShares(ctx context.Context, msg *types.MsgApproveShares) (*types.MsgApproveSharesResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	shares, err := parseDec(msg.Shares)
	if err != nil {
		return nil, err
	}
	if shares.IsNegative() {
		return nil, types.ErrInvalidAmount
	}
	if m.keeper.GetPool(sdkCtx, msg.PoolID) == nil {
		return nil, types.ErrPoolNotFound
	}
	m.keeper.SetAllowance(sdkCtx, msg.PoolID, msg.Owner, msg.Spender, shares)
	return &types.MsgApproveSharesResponse{Shares: shares.String()}, nil
}

// SetFees handles MsgSetFees
func (m *MsgServer) SetFees(ctx context.Context, msg *types.MsgSetFees) (*types.MsgSetFeesResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdateFees(sdkCtx, msg.Authority, msg.PoolID, msg.Fees()); err != nil {
		return nil, err
	}
	return &types.MsgSetFeesResponse{}, nil
}

// CollectFees handles MsgCollectFees
func (m *MsgServer) CollectFees(ctx context.Context, msg *types.MsgCollectFees) (*types.MsgCollectFeesResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	feeShares, feeValue, err := m.keeper.CollectFees(sdkCtx, msg.Caller, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCollectFeesResponse{
		FeeShares: feeShares.String(),
		FeeValue:  feeValue.String(),
	}, nil
}

// Pause handles MsgPause
func (m *MsgServer) Pause(ctx context.Context, msg *types.MsgPause) (*types.MsgPauseResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.Pause(sdkCtx, msg.Authority, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgPauseResponse{}, nil
}

// Unpause handles MsgUnpause
func (m *MsgServer) Unpause(ctx context.Context, msg *types.MsgUnpause) (*types.MsgUnpauseResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.Unpause(sdkCtx, msg.Authority, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgUnpauseResponse{}, nil
}

// SetVaultParams handles MsgSetVaultParams
func (m *MsgServer) SetVaultParams(ctx context.Context, msg *types.MsgSetVaultParams) (*types.MsgSetVaultParamsResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdateParams(sdkCtx, msg.Authority, msg); err != nil {
		return nil, err
	}
	return &types.MsgSetVaultParamsResponse{}, nil
}

// SetFeeExemption handles MsgSetFeeExemption
func (m *MsgServer) SetFeeExemption(ctx context.Context, msg *types.MsgSetFeeExemption) (*types.MsgSetFeeExemptionResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdateFeeExemption(sdkCtx, msg.Authority, msg.PoolID, msg.Address, msg.Exempt); err != nil {
		return nil, err
	}
	return &types.MsgSetFeeExemptionResponse{}, nil
}
