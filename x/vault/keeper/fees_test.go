package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/rivervault/x/vault/types"
)

func TestCollectFeesNoProfitNoOp(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	env.keeper.SetFees(env.ctx, testPool, types.Fees{PerformanceBps: 2000, ManagementBps: 200})

	feeShares, feeValue, err := env.keeper.CollectFees(env.ctx, testAdmin.String(), testPool)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !feeShares.IsZero() || !feeValue.IsZero() {
		t.Errorf("expected no-op without profit, got shares=%s value=%s", feeShares.String(), feeValue.String())
	}
	if bal := env.keeper.GetShareBalance(env.ctx, testPool, testRecip.String()); !bal.IsZero() {
		t.Errorf("expected no recipient shares, got %s", bal.String())
	}
}

func TestPerformanceFeeOnProfit(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	env.keeper.SetFees(env.ctx, testPool, types.Fees{PerformanceBps: 2000}) // 20%

	env.raisePrice(t, 100) // 1000 -> 1100, price 1.1

	pool := env.keeper.GetPool(env.ctx, testPool)
	priceBefore := env.keeper.SharePrice(env.ctx, pool)

	feeShares, feeValue, err := env.keeper.CollectFees(env.ctx, testAdmin.String(), testPool)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	// profit 100, 20% performance fee
	if !decApprox(feeValue, dec("20"), dec("0.01")) {
		t.Errorf("expected fee value ~20, got %s", feeValue.String())
	}
	if !decApprox(feeShares, dec("20").Quo(dec("1.1")), dec("0.01")) {
		t.Errorf("expected ~18.18 fee shares, got %s", feeShares.String())
	}
	if bal := env.keeper.GetShareBalance(env.ctx, testPool, testRecip.String()); !bal.Equal(feeShares) {
		t.Errorf("recipient balance %s != minted %s", bal.String(), feeShares.String())
	}

	// dilution keeps the price between the old mark and the pre-fee price
	pool = env.keeper.GetPool(env.ctx, testPool)
	priceAfter := env.keeper.SharePrice(env.ctx, pool)
	if priceAfter.GT(priceBefore) {
		t.Errorf("fee collection raised the price: %s -> %s", priceBefore.String(), priceAfter.String())
	}
	if priceAfter.LT(math.LegacyOneDec()) {
		t.Errorf("fee collection pushed price below the last mark: %s", priceAfter.String())
	}

	// immediate second collection finds nothing
	feeShares, feeValue, err = env.keeper.CollectFees(env.ctx, testAdmin.String(), testPool)
	if err != nil {
		t.Fatalf("second collect: %v", err)
	}
	if !feeShares.IsZero() || !feeValue.IsZero() {
		t.Errorf("expected second collection to be a no-op, got shares=%s value=%s", feeShares.String(), feeValue.String())
	}
}

func TestCollectFeesRequiresOperator(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	env.raisePrice(t, 100)

	if _, _, err := env.keeper.CollectFees(env.ctx, testAlice.String(), testPool); err == nil {
		t.Error("expected role failure for non-operator")
	}

	env.roles.roles[testAlice.String()] = types.RoleOperator
	if _, _, err := env.keeper.CollectFees(env.ctx, testAlice.String(), testPool); err != nil {
		t.Errorf("operator should collect: %v", err)
	}
}

func TestProfitLinearization(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)

	cp := env.keeper.GetCheckpoint(env.ctx, testPool)
	cp.ProfitCooldown = 1000
	env.keeper.SetCheckpoint(env.ctx, cp)

	env.fund(moduleAddr(), 100)
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("harvest: %v", err)
	}

	pool := env.keeper.GetPool(env.ctx, testPool)

	// t=0: nothing recognized yet
	if !decApprox(env.keeper.SharePrice(env.ctx, pool), math.LegacyOneDec(), dec("0.0001")) {
		t.Errorf("expected unit price at harvest, got %s", env.keeper.SharePrice(env.ctx, pool).String())
	}

	// halfway through the cooldown: half the gain
	env.advance(500)
	if !decApprox(env.keeper.SharePrice(env.ctx, pool), dec("1.05"), dec("0.0001")) {
		t.Errorf("expected 1.05 at half cooldown, got %s", env.keeper.SharePrice(env.ctx, pool).String())
	}

	// past the cooldown: fully recognized
	env.advance(600)
	if !decApprox(env.keeper.SharePrice(env.ctx, pool), dec("1.1"), dec("0.0001")) {
		t.Errorf("expected 1.1 after cooldown, got %s", env.keeper.SharePrice(env.ctx, pool).String())
	}

	// a later harvest folds the matured profit into the accounted base
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("fold harvest: %v", err)
	}
	pool = env.keeper.GetPool(env.ctx, testPool)
	if !pool.TotalAssets.Equal(dec("1100")) {
		t.Errorf("expected folded base 1100, got %s", pool.TotalAssets.String())
	}
	cp = env.keeper.GetCheckpoint(env.ctx, testPool)
	if !cp.PendingProfit.IsZero() {
		t.Errorf("expected no pending profit after fold, got %s", cp.PendingProfit.String())
	}
}

func TestLossConsumesPendingProfitFirst(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)

	cp := env.keeper.GetCheckpoint(env.ctx, testPool)
	cp.ProfitCooldown = 100_000
	env.keeper.SetCheckpoint(env.ctx, cp)

	env.fund(moduleAddr(), 100)
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("gain harvest: %v", err)
	}

	// 30 of the gain evaporates before recognition
	bal := env.bank.GetBalance(env.ctx, moduleAddr(), testDenom)
	env.bank.setBalance(env.ctx, moduleAddr(), bal.SubAmount(math.NewInt(30)))
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("loss harvest: %v", err)
	}

	pool := env.keeper.GetPool(env.ctx, testPool)
	cp = env.keeper.GetCheckpoint(env.ctx, testPool)
	if !pool.TotalAssets.Equal(dec("1000")) {
		t.Errorf("expected base untouched at 1000, got %s", pool.TotalAssets.String())
	}
	if !decApprox(cp.PendingProfit, dec("70"), dec("0.0001")) {
		t.Errorf("expected pending profit 70 after absorbing loss, got %s", cp.PendingProfit.String())
	}

	// a loss beyond pending profit hits the base immediately
	bal = env.bank.GetBalance(env.ctx, moduleAddr(), testDenom)
	env.bank.setBalance(env.ctx, moduleAddr(), bal.SubAmount(math.NewInt(100)))
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("deep loss harvest: %v", err)
	}
	pool = env.keeper.GetPool(env.ctx, testPool)
	cp = env.keeper.GetCheckpoint(env.ctx, testPool)
	if !cp.PendingProfit.IsZero() {
		t.Errorf("expected pending profit drained, got %s", cp.PendingProfit.String())
	}
	if !pool.TotalAssets.Equal(dec("970")) {
		t.Errorf("expected base 970 after deep loss, got %s", pool.TotalAssets.String())
	}
}

func TestFeeScheduleValidation(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)

	err := env.keeper.UpdateFees(env.ctx, testAdmin.String(), testPool, types.Fees{PerformanceBps: 6000})
	if err == nil {
		t.Error("expected rejection above MaxFees")
	}

	err = env.keeper.UpdateFees(env.ctx, testAdmin.String(), testPool, types.Fees{PerformanceBps: 1500, ExitBps: 50})
	if err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
	fees := env.keeper.GetFees(env.ctx, testPool)
	if fees.PerformanceBps != 1500 || fees.ExitBps != 50 {
		t.Errorf("schedule not persisted: %+v", fees)
	}
}
