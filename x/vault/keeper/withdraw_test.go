package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/rivervault/x/vault/types"
)

func TestWithdrawGrossesUpExitFee(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	depositAlice(t, env, "1000")

	env.raisePrice(t, 500) // 2000 -> 2500, price 1.25
	env.keeper.SetFees(env.ctx, testPool, types.Fees{ExitBps: 50})

	assets, shares, fee, err := env.keeper.Withdraw(env.ctx, testAlice, testPool, dec("100"), "", "", math.LegacyZeroDec())
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	// 100 assets at price 1.25 is 80 shares, grossed up for the 50 bps
	// exit fee: 80 / 0.995
	if !decApprox(shares, dec("80.402010050251256281"), dec("0.000001")) {
		t.Errorf("expected ~80.402 shares burned, got %s", shares.String())
	}
	if !fee.IsPositive() {
		t.Errorf("expected a positive exit fee, got %s", fee.String())
	}
	// the receiver nets the quoted amount, never less
	if assets.LT(dec("100")) {
		t.Errorf("payout %s below the quoted 100", assets.String())
	}
	if !decApprox(assets, dec("100"), dec("0.000001")) {
		t.Errorf("expected payout ~100, got %s", assets.String())
	}

	if bal := env.keeper.GetShareBalance(env.ctx, testPool, testAlice.String()); !decApprox(bal, dec("1000").Sub(shares), dec("0.000001")) {
		t.Errorf("expected balance %s, got %s", dec("1000").Sub(shares).String(), bal.String())
	}
}

func TestWithdrawMaxSharesCap(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	depositAlice(t, env, "1000")

	env.raisePrice(t, 500) // price 1.25
	env.keeper.SetFees(env.ctx, testPool, types.Fees{ExitBps: 50})

	// the fee gross-up pushes the cost past 80 shares
	_, _, _, err := env.keeper.Withdraw(env.ctx, testAlice, testPool, dec("100"), "", "", dec("80"))
	if !errors.Is(err, types.ErrSlippageExceeded) {
		t.Errorf("expected ErrSlippageExceeded at cap 80, got %v", err)
	}

	if _, _, _, err := env.keeper.Withdraw(env.ctx, testAlice, testPool, dec("100"), "", "", dec("81")); err != nil {
		t.Errorf("cap 81 covers the grossed-up cost: %v", err)
	}
}

func TestWithdrawFeeExempt(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	depositAlice(t, env, "1000")

	env.raisePrice(t, 500) // price 1.25
	env.keeper.SetFees(env.ctx, testPool, types.Fees{ExitBps: 50})
	env.keeper.SetFeeExemption(env.ctx, testPool, testAlice.String(), true)

	assets, shares, fee, err := env.keeper.Withdraw(env.ctx, testAlice, testPool, dec("100"), "", "", math.LegacyZeroDec())
	if err != nil {
		t.Fatalf("exempt withdraw: %v", err)
	}
	if !fee.IsZero() {
		t.Errorf("expected zero fee for exempt owner, got %s", fee.String())
	}
	if !shares.Equal(dec("80")) {
		t.Errorf("expected exactly 80 shares without gross-up, got %s", shares.String())
	}
	if !assets.Equal(dec("100")) {
		t.Errorf("expected exactly 100 assets, got %s", assets.String())
	}
}

func TestWithdrawValidation(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	depositAlice(t, env, "100")

	if _, _, _, err := env.keeper.Withdraw(env.ctx, testAlice, testPool, dec("0"), "", "", math.LegacyZeroDec()); !errors.Is(err, types.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero amount, got %v", err)
	}
	if _, _, _, err := env.keeper.Withdraw(env.ctx, testAlice, "no-such-pool", dec("10"), "", "", math.LegacyZeroDec()); !errors.Is(err, types.ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
}
