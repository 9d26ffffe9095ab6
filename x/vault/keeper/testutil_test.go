package keeper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

var (
	testAdmin    = sdk.AccAddress([]byte("admin_______________"))
	testAlice    = sdk.AccAddress([]byte("alice_______________"))
	testBob      = sdk.AccAddress([]byte("bob_________________"))
	testRecip    = sdk.AccAddress([]byte("fee_recipient_______"))
	testBorrower = sdk.AccAddress([]byte("borrower____________"))
)

const (
	testPool  = "usd-vault"
	testDenom = "uusd"
)

// mockBankKeeper keeps balances inside the same multistore as the keeper so
// branched contexts roll balances back the way the real bank module does.
type mockBankKeeper struct {
	storeKey storetypes.StoreKey
}

var bankPrefix = []byte{0xF0}

func (m *mockBankKeeper) balanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(bankPrefix, []byte(addr.String()+"/"+denom)...)
}

func (m *mockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	bz := sdkCtx.KVStore(m.storeKey).Get(m.balanceKey(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	var amt math.Int
	if err := json.Unmarshal(bz, &amt); err != nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	return sdk.NewCoin(denom, amt)
}

func (m *mockBankKeeper) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	bz, _ := json.Marshal(coin.Amount)
	sdkCtx.KVStore(m.storeKey).Set(m.balanceKey(addr, coin.Denom), bz)
}

func (m *mockBankKeeper) send(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		fromBal := m.GetBalance(ctx, from, coin.Denom)
		if fromBal.Amount.LT(coin.Amount) {
			return types.ErrInsufficientLiquidity.Wrap("mock bank")
		}
		m.setBalance(ctx, from, sdk.NewCoin(coin.Denom, fromBal.Amount.Sub(coin.Amount)))
		toBal := m.GetBalance(ctx, to, coin.Denom)
		m.setBalance(ctx, to, sdk.NewCoin(coin.Denom, toBal.Amount.Add(coin.Amount)))
	}
	return nil
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, sender sdk.AccAddress, _ string, amt sdk.Coins) error {
	return m.send(ctx, sender, moduleAddr(), amt)
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, _ string, recipient sdk.AccAddress, amt sdk.Coins) error {
	return m.send(ctx, moduleAddr(), recipient, amt)
}

func moduleAddr() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// mockStrategyKeeper keeps its invested marks in the multistore too.
type mockStrategyKeeper struct {
	storeKey storetypes.StoreKey
	bank     *mockBankKeeper
}

var strategyPrefix = []byte{0xF1}

func (m *mockStrategyKeeper) InvestedValue(ctx sdk.Context, poolID string) math.LegacyDec {
	bz := ctx.KVStore(m.storeKey).Get(append(strategyPrefix, []byte(poolID)...))
	if bz == nil {
		return math.LegacyZeroDec()
	}
	var v math.LegacyDec
	if err := json.Unmarshal(bz, &v); err != nil {
		return math.LegacyZeroDec()
	}
	return v
}

func (m *mockStrategyKeeper) setInvested(ctx sdk.Context, poolID string, v math.LegacyDec) {
	bz, _ := json.Marshal(v)
	ctx.KVStore(m.storeKey).Set(append(strategyPrefix, []byte(poolID)...), bz)
}

func (m *mockStrategyKeeper) Invest(ctx sdk.Context, poolID string, amount math.LegacyDec) error {
	coins := sdk.NewCoins(sdk.NewCoin(testDenom, amount.TruncateInt()))
	if err := m.bank.send(ctx, moduleAddr(), sdk.AccAddress([]byte("strategy____________")), coins); err != nil {
		return err
	}
	m.setInvested(ctx, poolID, m.InvestedValue(ctx, poolID).Add(amount))
	return nil
}

func (m *mockStrategyKeeper) Liquidate(ctx sdk.Context, poolID string, amount math.LegacyDec) (math.LegacyDec, error) {
	invested := m.InvestedValue(ctx, poolID)
	recovered := invested
	if amount.LT(invested) {
		recovered = amount
	}
	if !recovered.IsPositive() {
		return math.LegacyZeroDec(), nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(testDenom, recovered.TruncateInt()))
	if err := m.bank.send(ctx, sdk.AccAddress([]byte("strategy____________")), moduleAddr(), coins); err != nil {
		return math.LegacyZeroDec(), err
	}
	m.setInvested(ctx, poolID, invested.Sub(recovered))
	return recovered, nil
}

// mockRoleKeeper grants roles with the admin > manager > operator ordering.
type mockRoleKeeper struct {
	roles map[string]string
}

func roleRank(role string) int {
	switch role {
	case types.RoleAdmin:
		return 3
	case types.RoleManager:
		return 2
	case types.RoleOperator:
		return 1
	}
	return 0
}

func (m *mockRoleKeeper) HasRole(ctx sdk.Context, addr, role string) bool {
	held, ok := m.roles[addr]
	if !ok {
		return false
	}
	return roleRank(held) >= roleRank(role)
}

type testEnv struct {
	keeper   *Keeper
	ctx      sdk.Context
	bank     *mockBankKeeper
	strategy *mockStrategyKeeper
	roles    *mockRoleKeeper
}

// setupKeeper wires a keeper against an in-memory IAVL store.
func setupKeeper(tb testing.TB) *testEnv {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(1_700_000_000, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	bank := &mockBankKeeper{storeKey: storeKey}
	strategy := &mockStrategyKeeper{storeKey: storeKey, bank: bank}
	roles := &mockRoleKeeper{roles: map[string]string{
		testAdmin.String(): types.RoleAdmin,
	}}

	k := NewKeeper(cdc, storeKey, bank, strategy, roles, testAdmin.String(), log.NewNopLogger())

	return &testEnv{keeper: k, ctx: ctx, bank: bank, strategy: strategy, roles: roles}
}

// fund credits an account with pool assets.
func (e *testEnv) fund(addr sdk.AccAddress, amount int64) {
	bal := e.bank.GetBalance(e.ctx, addr, testDenom)
	e.bank.setBalance(e.ctx, addr, sdk.NewCoin(testDenom, bal.Amount.Add(math.NewInt(amount))))
}

// advance moves block time forward.
func (e *testEnv) advance(seconds int64) {
	e.ctx = e.ctx.WithBlockTime(e.ctx.BlockTime().Add(time.Duration(seconds) * time.Second))
}

// seedPool creates and seeds a pool ready for deposits: seeded with 1000
// assets, cap 1,000,000, fees zeroed except where a test sets them.
func (e *testEnv) seedPool(tb testing.TB) *types.Pool {
	tb.Helper()

	if _, err := e.keeper.CreatePool(e.ctx, testAdmin.String(), testPool, testDenom, testRecip.String()); err != nil {
		tb.Fatalf("create pool: %v", err)
	}
	e.keeper.SetFees(e.ctx, testPool, types.Fees{})

	e.fund(testAdmin, 1_000)
	if _, err := e.keeper.SeedLiquidity(e.ctx, testAdmin, testPool, dec("1000"), dec("1000000")); err != nil {
		tb.Fatalf("seed pool: %v", err)
	}
	return e.keeper.GetPool(e.ctx, testPool)
}

func dec(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

// decApprox reports whether two decimals differ by no more than tolerance.
func decApprox(a, b, tolerance math.LegacyDec) bool {
	diff := a.Sub(b)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	return !diff.GT(tolerance)
}
