package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// repayingBorrower returns principal plus fee and the acknowledgement.
type repayingBorrower struct {
	env *testEnv
}

func (b *repayingBorrower) OnFlashLoan(ctx sdk.Context, initiator, denom string, amount, fee math.LegacyDec, data []byte) ([]byte, error) {
	repay := sdk.NewCoins(sdk.NewCoin(denom, amount.Add(fee).TruncateInt()))
	if err := b.env.bank.send(ctx, testBorrower, moduleAddr(), repay); err != nil {
		return nil, err
	}
	return types.FlashAck, nil
}

// badAckBorrower repays in full but returns the wrong acknowledgement.
type badAckBorrower struct {
	env *testEnv
}

func (b *badAckBorrower) OnFlashLoan(ctx sdk.Context, initiator, denom string, amount, fee math.LegacyDec, data []byte) ([]byte, error) {
	repay := sdk.NewCoins(sdk.NewCoin(denom, amount.Add(fee).TruncateInt()))
	if err := b.env.bank.send(ctx, testBorrower, moduleAddr(), repay); err != nil {
		return nil, err
	}
	return []byte("thanks"), nil
}

// thiefBorrower acknowledges but keeps the principal.
type thiefBorrower struct{}

func (b *thiefBorrower) OnFlashLoan(ctx sdk.Context, initiator, denom string, amount, fee math.LegacyDec, data []byte) ([]byte, error) {
	return types.FlashAck, nil
}

// reentrantBorrower tries to deposit into the lending pool from inside the
// callback, records the result, then repays honestly.
type reentrantBorrower struct {
	env      *testEnv
	innerErr error
}

func (b *reentrantBorrower) OnFlashLoan(ctx sdk.Context, initiator, denom string, amount, fee math.LegacyDec, data []byte) ([]byte, error) {
	_, _, b.innerErr = b.env.keeper.Deposit(ctx, testBorrower, testPool, amount, "", math.LegacyZeroDec())
	repay := sdk.NewCoins(sdk.NewCoin(denom, amount.Add(fee).TruncateInt()))
	if err := b.env.bank.send(ctx, testBorrower, moduleAddr(), repay); err != nil {
		return nil, err
	}
	return types.FlashAck, nil
}

func enableFlash(env *testEnv, maxLoan string) {
	fs := env.keeper.GetFlashState(env.ctx, testPool)
	fs.MaxLoan = dec(maxLoan)
	env.keeper.SetFlashState(env.ctx, fs)
	env.keeper.SetFees(env.ctx, testPool, types.Fees{FlashBps: 100}) // 1%
}

func TestFlashLoanRepaid(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	enableFlash(env, "10000")
	env.fund(testBorrower, 5) // the fee

	borrower := &repayingBorrower{env: env}
	fee, err := env.keeper.FlashLoan(env.ctx, testPool, borrower, testBorrower, testDenom, dec("500"), nil)
	if err != nil {
		t.Fatalf("flash loan: %v", err)
	}
	if !fee.Equal(dec("5")) {
		t.Errorf("expected fee 5, got %s", fee.String())
	}

	// fee stays in custody and accrues to the pool
	if bal := env.bank.GetBalance(env.ctx, moduleAddr(), testDenom); !bal.Amount.Equal(math.NewInt(1005)) {
		t.Errorf("expected module balance 1005, got %s", bal.Amount.String())
	}
	pool := env.keeper.GetPool(env.ctx, testPool)
	if !pool.TotalAssets.Equal(dec("1005")) {
		t.Errorf("expected accounted assets 1005, got %s", pool.TotalAssets.String())
	}
	fs := env.keeper.GetFlashState(env.ctx, testPool)
	if !fs.TotalLent.Equal(dec("500")) || !fs.ClaimableFees.Equal(dec("5")) {
		t.Errorf("facility state not updated: %+v", fs)
	}
	if bal := env.bank.GetBalance(env.ctx, testBorrower, testDenom); !bal.Amount.IsZero() {
		t.Errorf("expected borrower drained of the fee, got %s", bal.Amount.String())
	}
}

func TestFlashLoanBadAck(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	enableFlash(env, "10000")
	env.fund(testBorrower, 5)

	_, err := env.keeper.FlashLoan(env.ctx, testPool, &badAckBorrower{env: env}, testBorrower, testDenom, dec("500"), nil)
	if !errors.Is(err, types.ErrFlashAck) {
		t.Fatalf("expected ErrFlashAck, got %v", err)
	}
	// even the honest repayment is discarded with the branch
	if bal := env.bank.GetBalance(env.ctx, moduleAddr(), testDenom); !bal.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected module balance restored to 1000, got %s", bal.Amount.String())
	}
	if bal := env.bank.GetBalance(env.ctx, testBorrower, testDenom); !bal.Amount.Equal(math.NewInt(5)) {
		t.Errorf("expected borrower balance restored to 5, got %s", bal.Amount.String())
	}
}

func TestFlashLoanNotRepaidRollsBack(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	enableFlash(env, "10000")

	_, err := env.keeper.FlashLoan(env.ctx, testPool, &thiefBorrower{}, testBorrower, testDenom, dec("500"), nil)
	if !errors.Is(err, types.ErrFlashNotPaid) {
		t.Fatalf("expected ErrFlashNotPaid, got %v", err)
	}

	// nothing moved: not the principal, not the facility stats, not the lock
	if bal := env.bank.GetBalance(env.ctx, moduleAddr(), testDenom); !bal.Amount.Equal(math.NewInt(1000)) {
		t.Errorf("expected module balance 1000, got %s", bal.Amount.String())
	}
	if bal := env.bank.GetBalance(env.ctx, testBorrower, testDenom); !bal.Amount.IsZero() {
		t.Errorf("expected borrower to keep nothing, got %s", bal.Amount.String())
	}
	fs := env.keeper.GetFlashState(env.ctx, testPool)
	if !fs.TotalLent.IsZero() || !fs.ClaimableFees.IsZero() {
		t.Errorf("facility state leaked through rollback: %+v", fs)
	}

	// pool is usable again right away
	env.fund(testAlice, 100)
	if _, _, err := env.keeper.Deposit(env.ctx, testAlice, testPool, dec("100"), "", math.LegacyZeroDec()); err != nil {
		t.Errorf("deposit after failed loan: %v", err)
	}
}

func TestFlashLoanBlocksReentrancy(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	enableFlash(env, "10000")
	env.fund(testBorrower, 5)

	borrower := &reentrantBorrower{env: env}
	if _, err := env.keeper.FlashLoan(env.ctx, testPool, borrower, testBorrower, testDenom, dec("500"), nil); err != nil {
		t.Fatalf("flash loan: %v", err)
	}
	if !errors.Is(borrower.innerErr, types.ErrReentrancy) {
		t.Errorf("expected ErrReentrancy inside the callback, got %v", borrower.innerErr)
	}
	// the lock does not outlive the loan
	env.fund(testAlice, 100)
	if _, _, err := env.keeper.Deposit(env.ctx, testAlice, testPool, dec("100"), "", math.LegacyZeroDec()); err != nil {
		t.Errorf("deposit after loan: %v", err)
	}
}

func TestFlashLoanLimits(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)

	// facility disabled until a max loan is set
	_, err := env.keeper.FlashLoan(env.ctx, testPool, &thiefBorrower{}, testBorrower, testDenom, dec("100"), nil)
	if !errors.Is(err, types.ErrFlashDisabled) {
		t.Errorf("expected ErrFlashDisabled, got %v", err)
	}

	enableFlash(env, "10000")

	// only idle liquidity is lendable
	if max := env.keeper.MaxFlashLoan(env.ctx, testPool, testDenom); !max.Equal(dec("1000")) {
		t.Errorf("expected max loan 1000, got %s", max.String())
	}
	_, err = env.keeper.FlashLoan(env.ctx, testPool, &thiefBorrower{}, testBorrower, testDenom, dec("1001"), nil)
	if !errors.Is(err, types.ErrMaxLoanExceeded) {
		t.Errorf("expected ErrMaxLoanExceeded, got %v", err)
	}

	if max := env.keeper.MaxFlashLoan(env.ctx, testPool, "wrongdenom"); !max.IsZero() {
		t.Errorf("expected zero max for a foreign denom, got %s", max.String())
	}
	_, err = env.keeper.FlashLoan(env.ctx, testPool, &thiefBorrower{}, testBorrower, "wrongdenom", dec("100"), nil)
	if !errors.Is(err, types.ErrInvalidDenom) {
		t.Errorf("expected ErrInvalidDenom, got %v", err)
	}
}

// TestFlashLoanRespectsClaimableReserve locks value for a matured redemption
// and checks the facility refuses to lend it out.
func TestFlashLoanRespectsClaimableReserve(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	enableFlash(env, "10000")

	env.fund(testAlice, 500)
	if _, _, err := env.keeper.Deposit(env.ctx, testAlice, testPool, dec("500"), "", math.LegacyZeroDec()); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := env.keeper.RequestRedeem(env.ctx, testAlice, testPool, dec("400"), ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	env.advance(types.DefaultRedemptionLock + 1)
	if err := env.keeper.Harvest(env.ctx, testPool); err != nil {
		t.Fatalf("harvest: %v", err)
	}

	// idle 1500 minus the 400 reserved for claims
	if max := env.keeper.MaxFlashLoan(env.ctx, testPool, testDenom); !max.Equal(dec("1100")) {
		t.Errorf("expected max loan 1100, got %s", max.String())
	}
}
