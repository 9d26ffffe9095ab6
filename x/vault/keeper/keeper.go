package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// StrategyKeeper defines the expected interface for the strategy that
// deploys idle pool capital. InvestedValue is marked-to-market; Liquidate
// returns up to the requested amount of assets to the pool account.
type StrategyKeeper interface {
	InvestedValue(ctx sdk.Context, poolID string) math.LegacyDec
	Invest(ctx sdk.Context, poolID string, amount math.LegacyDec) error
	Liquidate(ctx sdk.Context, poolID string, amount math.LegacyDec) (math.LegacyDec, error)
}

// RoleKeeper defines the expected interface for privilege checks.
// Roles are ordered: admin implies manager implies operator.
type RoleKeeper interface {
	HasRole(ctx sdk.Context, addr string, role string) bool
}

// Keeper manages the vault module state
type Keeper struct {
	cdc            codec.BinaryCodec
	storeKey       storetypes.StoreKey
	bankKeeper     BankKeeper
	strategyKeeper StrategyKeeper
	roleKeeper     RoleKeeper
	logger         log.Logger
	authority      string
}

// NewKeeper creates a new vault keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	strategyKeeper StrategyKeeper,
	roleKeeper RoleKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:            cdc,
		storeKey:       storeKey,
		bankKeeper:     bankKeeper,
		strategyKeeper: strategyKeeper,
		roleKeeper:     roleKeeper,
		authority:      authority,
		logger:         logger.With("module", "x/vault"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ModuleAddress returns the vault custody account address.
func (k *Keeper) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// checkRole reports whether addr holds at least the given role. The
// authority address always passes.
func (k *Keeper) checkRole(ctx sdk.Context, addr, role string) bool {
	if addr == k.authority {
		return true
	}
	if k.roleKeeper == nil {
		return false
	}
	return k.roleKeeper.HasRole(ctx, addr, role)
}

// ============ Pool Operations ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(types.PoolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	bz := store.Get(types.PoolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Share Ledger Operations ============

// GetShareBalance returns an owner's share balance in a pool.
func (k *Keeper) GetShareBalance(ctx sdk.Context, poolID, owner string) math.LegacyDec {
	store := k.GetStore(ctx)
	bz := store.Get(types.ShareKey(poolID, owner))
	if bz == nil {
		return math.LegacyZeroDec()
	}
	var bal math.LegacyDec
	if err := json.Unmarshal(bz, &bal); err != nil {
		return math.LegacyZeroDec()
	}
	return bal
}

func (k *Keeper) setShareBalance(ctx sdk.Context, poolID, owner string, bal math.LegacyDec) {
	store := k.GetStore(ctx)
	key := types.ShareKey(poolID, owner)
	if !bal.IsPositive() {
		store.Delete(key)
		return
	}
	bz, _ := json.Marshal(bal)
	store.Set(key, bz)
}

// mintShares credits shares to owner and grows the pool supply.
func (k *Keeper) mintShares(ctx sdk.Context, pool *types.Pool, owner string, shares math.LegacyDec) {
	bal := k.GetShareBalance(ctx, pool.PoolID, owner)
	k.setShareBalance(ctx, pool.PoolID, owner, bal.Add(shares))
	pool.TotalShares = pool.TotalShares.Add(shares)
}

// burnShares debits shares from owner and shrinks the pool supply.
func (k *Keeper) burnShares(ctx sdk.Context, pool *types.Pool, owner string, shares math.LegacyDec) error {
	bal := k.GetShareBalance(ctx, pool.PoolID, owner)
	if bal.LT(shares) {
		return types.ErrInsufficientShares
	}
	k.setShareBalance(ctx, pool.PoolID, owner, bal.Sub(shares))
	pool.TotalShares = pool.TotalShares.Sub(shares)
	return nil
}

// GetAllowance returns the share allowance granted by owner to spender.
func (k *Keeper) GetAllowance(ctx sdk.Context, poolID, owner, spender string) math.LegacyDec {
	store := k.GetStore(ctx)
	bz := store.Get(types.AllowanceKey(poolID, owner, spender))
	if bz == nil {
		return math.LegacyZeroDec()
	}
	var amt math.LegacyDec
	if err := json.Unmarshal(bz, &amt); err != nil {
		return math.LegacyZeroDec()
	}
	return amt
}

// SetAllowance stores a share allowance, deleting zero grants.
func (k *Keeper) SetAllowance(ctx sdk.Context, poolID, owner, spender string, amt math.LegacyDec) {
	store := k.GetStore(ctx)
	key := types.AllowanceKey(poolID, owner, spender)
	if !amt.IsPositive() {
		store.Delete(key)
		return
	}
	bz, _ := json.Marshal(amt)
	store.Set(key, bz)
}

// spendAllowance consumes part of an allowance, failing if it is too small.
func (k *Keeper) spendAllowance(ctx sdk.Context, poolID, owner, spender string, amt math.LegacyDec) error {
	if spender == owner {
		return nil
	}
	allowed := k.GetAllowance(ctx, poolID, owner, spender)
	if allowed.LT(amt) {
		return types.ErrInsufficientAllowance
	}
	k.SetAllowance(ctx, poolID, owner, spender, allowed.Sub(amt))
	return nil
}

// ============ Fee Schedule Operations ============

// SetFees saves a pool's fee schedule
func (k *Keeper) SetFees(ctx sdk.Context, poolID string, fees types.Fees) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(fees)
	store.Set(types.FeesKey(poolID), bz)
}

// GetFees retrieves a pool's fee schedule, falling back to defaults
func (k *Keeper) GetFees(ctx sdk.Context, poolID string) types.Fees {
	store := k.GetStore(ctx)
	bz := store.Get(types.FeesKey(poolID))
	if bz == nil {
		return types.DefaultFees()
	}
	var fees types.Fees
	if err := json.Unmarshal(bz, &fees); err != nil {
		return types.DefaultFees()
	}
	return fees
}

// SetFeeExemption marks an address exempt (or not) from entry and exit fees.
func (k *Keeper) SetFeeExemption(ctx sdk.Context, poolID, addr string, exempt bool) {
	store := k.GetStore(ctx)
	key := types.ExemptionKey(poolID, addr)
	if exempt {
		store.Set(key, []byte{1})
	} else {
		store.Delete(key)
	}
}

// IsFeeExempt reports whether an address skips entry and exit fees.
func (k *Keeper) IsFeeExempt(ctx sdk.Context, poolID, addr string) bool {
	return k.GetStore(ctx).Has(types.ExemptionKey(poolID, addr))
}

// ============ Checkpoint Operations ============

// SetCheckpoint saves a pool's accounting checkpoint
func (k *Keeper) SetCheckpoint(ctx sdk.Context, cp *types.Checkpoint) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(cp)
	store.Set(types.CheckpointKey(cp.PoolID), bz)
}

// GetCheckpoint retrieves a pool's accounting checkpoint
func (k *Keeper) GetCheckpoint(ctx sdk.Context, poolID string) *types.Checkpoint {
	store := k.GetStore(ctx)
	bz := store.Get(types.CheckpointKey(poolID))
	if bz == nil {
		return types.NewCheckpoint(poolID, ctx.BlockTime().Unix())
	}
	var cp types.Checkpoint
	if err := json.Unmarshal(bz, &cp); err != nil {
		return types.NewCheckpoint(poolID, ctx.BlockTime().Unix())
	}
	return &cp
}

// ============ Redemption Request Operations ============

// SetRequest saves a redemption request, deleting drained requests
func (k *Keeper) SetRequest(ctx sdk.Context, req *types.RedemptionRequest) {
	store := k.GetStore(ctx)
	key := types.RequestKey(req.PoolID, req.Owner)
	if req.IsZero() {
		store.Delete(key)
		return
	}
	bz, _ := json.Marshal(req)
	store.Set(key, bz)
}

// GetRequest retrieves an owner's redemption request
func (k *Keeper) GetRequest(ctx sdk.Context, poolID, owner string) *types.RedemptionRequest {
	store := k.GetStore(ctx)
	bz := store.Get(types.RequestKey(poolID, owner))
	if bz == nil {
		return nil
	}
	var req types.RedemptionRequest
	if err := json.Unmarshal(bz, &req); err != nil {
		return nil
	}
	return &req
}

// GetPoolRequests returns all live requests for a pool
func (k *Keeper) GetPoolRequests(ctx sdk.Context, poolID string) []*types.RedemptionRequest {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.RequestIterKey(poolID))
	defer iterator.Close()

	var reqs []*types.RedemptionRequest
	for ; iterator.Valid(); iterator.Next() {
		var req types.RedemptionRequest
		if err := json.Unmarshal(iterator.Value(), &req); err != nil {
			continue
		}
		reqs = append(reqs, &req)
	}
	return reqs
}

// SetAggregate saves a pool's queue aggregate
func (k *Keeper) SetAggregate(ctx sdk.Context, agg *types.RequestAggregate) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(agg)
	store.Set(types.AggregateKey(agg.PoolID), bz)
}

// GetAggregate retrieves a pool's queue aggregate
func (k *Keeper) GetAggregate(ctx sdk.Context, poolID string) *types.RequestAggregate {
	store := k.GetStore(ctx)
	bz := store.Get(types.AggregateKey(poolID))
	if bz == nil {
		return types.NewRequestAggregate(poolID)
	}
	var agg types.RequestAggregate
	if err := json.Unmarshal(bz, &agg); err != nil {
		return types.NewRequestAggregate(poolID)
	}
	return &agg
}

// ============ Flash Facility Operations ============

// SetFlashState saves a pool's flash facility state
func (k *Keeper) SetFlashState(ctx sdk.Context, fs *types.FlashState) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(fs)
	store.Set(types.FlashKey(fs.PoolID), bz)
}

// GetFlashState retrieves a pool's flash facility state
func (k *Keeper) GetFlashState(ctx sdk.Context, poolID string) *types.FlashState {
	store := k.GetStore(ctx)
	bz := store.Get(types.FlashKey(poolID))
	if bz == nil {
		return types.NewFlashState(poolID)
	}
	var fs types.FlashState
	if err := json.Unmarshal(bz, &fs); err != nil {
		return types.NewFlashState(poolID)
	}
	return &fs
}

// ============ Price History Operations ============

// AddPricePoint records a share-price sample
func (k *Keeper) AddPricePoint(ctx sdk.Context, pt *types.PricePoint) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pt)
	store.Set(types.PriceHistoryKey(pt.PoolID, pt.Timestamp), bz)
}

// GetPriceHistory retrieves price samples for a pool in [fromTime, toTime];
// zero bounds are open.
func (k *Keeper) GetPriceHistory(ctx sdk.Context, poolID string, fromTime, toTime int64) []*types.PricePoint {
	store := k.GetStore(ctx)
	prefix := append(append(types.PriceHistoryPrefix, []byte(poolID)...), '/')
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var points []*types.PricePoint
	for ; iterator.Valid(); iterator.Next() {
		var pt types.PricePoint
		if err := json.Unmarshal(iterator.Value(), &pt); err != nil {
			continue
		}
		if (fromTime == 0 || pt.Timestamp >= fromTime) && (toTime == 0 || pt.Timestamp <= toTime) {
			points = append(points, &pt)
		}
	}
	return points
}

// ============ Operation Lock ============

// acquireLock sets a pool's re-entrancy flag, failing if already held.
// Guards against nested state-changing entry from a flash-loan callback.
func (k *Keeper) acquireLock(ctx sdk.Context, poolID string) error {
	store := k.GetStore(ctx)
	key := types.OperationLockKey(poolID)
	if store.Has(key) {
		return types.ErrReentrancy
	}
	store.Set(key, []byte{1})
	return nil
}

// releaseLock clears a pool's re-entrancy flag.
func (k *Keeper) releaseLock(ctx sdk.Context, poolID string) {
	k.GetStore(ctx).Delete(types.OperationLockKey(poolID))
}
