package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// QueryServer defines the vault QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Pool returns a pool by ID
func (q *QueryServer) Pool(ctx context.Context, poolID string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	return pool, nil
}

// Pools returns all pools with pagination
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	allPools := q.keeper.GetAllPools(sdkCtx)

	total := uint64(len(allPools))
	if offset >= total {
		return []*types.Pool{}, total, nil
	}
	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}
	return allPools[offset:end], total, nil
}

// SharePrice returns the current share price for a pool
func (q *QueryServer) SharePrice(ctx context.Context, poolID string) (math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.LegacyZeroDec(), types.ErrPoolNotFound
	}
	return q.keeper.SharePrice(sdkCtx, pool), nil
}

// Balance returns an owner's share balance and its current asset value
func (q *QueryServer) Balance(ctx context.Context, poolID, owner string) (shares, value math.LegacyDec, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.LegacyZeroDec(), math.LegacyZeroDec(), types.ErrPoolNotFound
	}
	shares = q.keeper.GetShareBalance(sdkCtx, poolID, owner)
	value = q.keeper.ConvertToAssets(sdkCtx, pool, shares)
	return shares, value, nil
}

// Request returns an owner's redemption request
func (q *QueryServer) Request(ctx context.Context, poolID, owner string) (*types.RedemptionRequest, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	req := q.keeper.GetRequest(sdkCtx, poolID, owner)
	if req == nil {
		return nil, types.ErrRequestNotFound
	}
	return req, nil
}

// Queue returns the pool's aggregate redemption queue state
func (q *QueryServer) Queue(ctx context.Context, poolID string) (*types.RequestAggregate, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, poolID) == nil {
		return nil, types.ErrPoolNotFound
	}
	return q.keeper.GetAggregate(sdkCtx, poolID), nil
}

// Fees returns a pool's fee schedule and pending collection amounts
func (q *QueryServer) Fees(ctx context.Context, poolID string) (types.Fees, math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.Fees{}, math.LegacyZeroDec(), types.ErrPoolNotFound
	}
	fees := q.keeper.GetFees(sdkCtx, poolID)
	perf, mgmt, _ := q.keeper.PendingFees(sdkCtx, pool)
	return fees, perf.Add(mgmt), nil
}

// Checkpoint returns a pool's accounting checkpoint
func (q *QueryServer) Checkpoint(ctx context.Context, poolID string) (*types.Checkpoint, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, poolID) == nil {
		return nil, types.ErrPoolNotFound
	}
	return q.keeper.GetCheckpoint(sdkCtx, poolID), nil
}

// FlashState returns a pool's flash facility counters
func (q *QueryServer) FlashState(ctx context.Context, poolID string) (*types.FlashState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, poolID) == nil {
		return nil, types.ErrPoolNotFound
	}
	return q.keeper.GetFlashState(sdkCtx, poolID), nil
}

// PriceHistory returns price samples for a pool
func (q *QueryServer) PriceHistory(ctx context.Context, poolID string, fromTime, toTime int64) ([]*types.PricePoint, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if q.keeper.GetPool(sdkCtx, poolID) == nil {
		return nil, types.ErrPoolNotFound
	}
	return q.keeper.GetPriceHistory(sdkCtx, poolID, fromTime, toTime), nil
}

// PreviewDeposit quotes the shares a deposit of amount would mint right now.
func (q *QueryServer) PreviewDeposit(ctx context.Context, poolID string, amount math.LegacyDec) (math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.LegacyZeroDec(), types.ErrPoolNotFound
	}
	fees := q.keeper.GetFees(sdkCtx, poolID)
	net := amount.Sub(types.ApplyBps(amount, fees.EntryBps))
	return q.keeper.ConvertToShares(sdkCtx, pool, net), nil
}

// PreviewRedeem quotes the assets a redemption of shares would pay right
// now, ignoring any claimable request pricing.
func (q *QueryServer) PreviewRedeem(ctx context.Context, poolID string, shares math.LegacyDec) (math.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := q.keeper.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.LegacyZeroDec(), types.ErrPoolNotFound
	}
	gross := q.keeper.ConvertToAssets(sdkCtx, pool, shares)
	fees := q.keeper.GetFees(sdkCtx, poolID)
	return gross.Sub(types.ApplyBps(gross, fees.ExitBps)), nil
}
