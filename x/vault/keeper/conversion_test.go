package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/rivervault/x/vault/types"
)

// raisePrice pushes extra assets into custody and harvests them with a zero
// cooldown so the gain is recognized immediately.
func (e *testEnv) raisePrice(tb testing.TB, extra int64) {
	tb.Helper()
	cp := e.keeper.GetCheckpoint(e.ctx, testPool)
	cp.ProfitCooldown = 0
	e.keeper.SetCheckpoint(e.ctx, cp)
	e.fund(moduleAddr(), extra)
	if err := e.keeper.Harvest(e.ctx, testPool); err != nil {
		tb.Fatalf("harvest: %v", err)
	}
}

// TestSharePriceLifecycle walks the bootstrap scenario: unit price on seed,
// dilution-correct second deposit after a gain, and a queued redemption that
// settles at its locked price even though the price kept rising.
func TestSharePriceLifecycle(t *testing.T) {
	env := setupKeeper(t)

	if _, err := env.keeper.CreatePool(env.ctx, testAdmin.String(), testPool, testDenom, testRecip.String()); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	env.keeper.SetFees(env.ctx, testPool, types.Fees{})

	env.fund(testAdmin, 100)
	if _, err := env.keeper.SeedLiquidity(env.ctx, testAdmin, testPool, dec("100"), dec("1000000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pool := env.keeper.GetPool(env.ctx, testPool)
	if !env.keeper.SharePrice(env.ctx, pool).Equal(math.LegacyOneDec()) {
		t.Errorf("expected unit price after seed, got %s", env.keeper.SharePrice(env.ctx, pool).String())
	}
	if !pool.TotalShares.Equal(dec("100")) {
		t.Errorf("expected supply 100, got %s", pool.TotalShares.String())
	}

	// 10% gain, recognized immediately
	env.raisePrice(t, 10)
	pool = env.keeper.GetPool(env.ctx, testPool)
	if !decApprox(env.keeper.SharePrice(env.ctx, pool), dec("1.1"), dec("0.0001")) {
		t.Fatalf("expected price 1.1, got %s", env.keeper.SharePrice(env.ctx, pool).String())
	}

	// second deposit mints at 1.1
	env.fund(testAlice, 50)
	shares, _, err := env.keeper.Deposit(env.ctx, testAlice, testPool, dec("50"), "", math.LegacyZeroDec())
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !decApprox(shares, dec("45.454545"), dec("0.001")) {
		t.Errorf("expected ~45.4545 shares, got %s", shares.String())
	}

	// queue 20 shares at 1.1
	if _, err := env.keeper.RequestRedeem(env.ctx, testAlice, testPool, dec("20"), ""); err != nil {
		t.Fatalf("request: %v", err)
	}

	// price rises further while the request waits out the lock
	env.advance(types.DefaultRedemptionLock + 1)
	env.raisePrice(t, 30)

	req := env.keeper.GetRequest(env.ctx, testPool, testAlice.String())
	if req == nil || !req.ClaimableShares.Equal(dec("20")) {
		t.Fatalf("expected 20 claimable shares, got %+v", req)
	}

	pool = env.keeper.GetPool(env.ctx, testPool)
	priceBefore := env.keeper.SharePrice(env.ctx, pool)
	if !priceBefore.GT(dec("1.1")) {
		t.Fatalf("expected price above 1.1 before claim, got %s", priceBefore.String())
	}

	assets, claimed, err := env.keeper.ClaimRedeem(env.ctx, testAlice, testPool, "", "", math.LegacyZeroDec())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.Equal(dec("20")) {
		t.Errorf("expected 20 shares claimed, got %s", claimed.String())
	}
	// settles at the locked 1.1, not the higher current price
	if !decApprox(assets, dec("22"), dec("0.01")) {
		t.Errorf("expected ~22 assets at locked price, got %s", assets.String())
	}

	// settling a claim must not move the price for everyone else
	pool = env.keeper.GetPool(env.ctx, testPool)
	priceAfter := env.keeper.SharePrice(env.ctx, pool)
	if !decApprox(priceAfter, priceBefore, dec("0.001")) {
		t.Errorf("claim moved price from %s to %s", priceBefore.String(), priceAfter.String())
	}
}

// TestDepositRedeemNeverProfits checks the rounding direction: an immediate
// round trip can only lose dust, never gain it.
func TestDepositRedeemNeverProfits(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	env.raisePrice(t, 37) // awkward price 1.037

	testCases := []struct {
		name   string
		amount string
	}{
		{"small deposit", "7"},
		{"odd deposit", "333"},
		{"large deposit", "100000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount := dec(tc.amount)
			env.fund(testAlice, amount.TruncateInt64())

			shares, _, err := env.keeper.Deposit(env.ctx, testAlice, testPool, amount, "", math.LegacyZeroDec())
			if err != nil {
				t.Fatalf("deposit: %v", err)
			}
			assets, _, err := env.keeper.Redeem(env.ctx, testAlice, testPool, shares, "", "", math.LegacyZeroDec())
			if err != nil {
				t.Fatalf("redeem: %v", err)
			}
			if assets.GT(amount) {
				t.Errorf("round trip profited: in %s, out %s", amount.String(), assets.String())
			}
		})
	}
}

// TestSharePriceExcludesClaimable locks value for a claimable request and
// checks the live price carves both sides out.
func TestSharePriceExcludesClaimable(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)

	env.fund(testAlice, 500)
	if _, _, err := env.keeper.Deposit(env.ctx, testAlice, testPool, dec("500"), "", math.LegacyZeroDec()); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := env.keeper.RequestRedeem(env.ctx, testAlice, testPool, dec("200"), ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	env.advance(types.DefaultRedemptionLock + 1)
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("harvest: %v", err)
	}

	agg := env.keeper.GetAggregate(env.ctx, testPool)
	if !agg.TotalClaimableShares.Equal(dec("200")) {
		t.Fatalf("expected 200 claimable, got %s", agg.TotalClaimableShares.String())
	}

	// (1500 - 200) / (1500 - 200) == 1 at unit price
	pool := env.keeper.GetPool(env.ctx, testPool)
	if !decApprox(env.keeper.SharePrice(env.ctx, pool), math.LegacyOneDec(), dec("0.0001")) {
		t.Errorf("expected unit price with claimable carved out, got %s", env.keeper.SharePrice(env.ctx, pool).String())
	}
}

// TestConvertZeroPrice guards the degenerate conversion cases.
func TestConvertZeroPrice(t *testing.T) {
	if !types.ConvertToShares(dec("100"), math.LegacyZeroDec()).IsZero() {
		t.Error("expected zero shares at zero price")
	}
	if !types.ConvertToAssets(dec("100"), math.LegacyZeroDec()).IsZero() {
		t.Error("expected zero assets at zero price")
	}
}
