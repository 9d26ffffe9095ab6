package api

import (
	"strings"
	"testing"

	"cosmossdk.io/math"
)

func dec(t *testing.T, s string) math.LegacyDec {
	t.Helper()
	d, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestMockDepositMintsAtPrice(t *testing.T) {
	s := NewMockVaultService()

	// Seeded pool: 1,050,000 assets over 1,000,000 shares, price 1.05,
	// entry fee 50 bps
	result, err := s.Deposit("usd-vault", "alice", dec(t, "1050"))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	// 1050 minus 0.5% fee = 1044.75 assets, at price 1.05 -> 995 shares
	shares := dec(t, result.Shares)
	want := dec(t, "995")
	if !shares.Sub(want).Abs().LTE(dec(t, "0.000001")) {
		t.Errorf("expected ~995 shares, got %s", result.Shares)
	}

	balance, err := s.GetUserBalance("usd-vault", "alice")
	if err != nil {
		t.Fatalf("balance query failed: %v", err)
	}
	if balance.Shares != result.Shares {
		t.Errorf("balance %s does not match minted shares %s", balance.Shares, result.Shares)
	}
}

func TestMockRedeemRoundTrip(t *testing.T) {
	s := NewMockVaultService()

	deposit, err := s.Deposit("usd-vault", "alice", dec(t, "1000"))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	redeem, err := s.Redeem("usd-vault", "alice", dec(t, deposit.Shares))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	// Round trip pays entry and exit fees, so alice gets back less than 1000
	amount := dec(t, redeem.Amount)
	if amount.GTE(dec(t, "1000")) {
		t.Errorf("round trip should cost fees, got back %s", redeem.Amount)
	}
	if amount.LT(dec(t, "990")) {
		t.Errorf("fees too large for round trip, got back %s", redeem.Amount)
	}
}

func TestMockRedeemInsufficientShares(t *testing.T) {
	s := NewMockVaultService()

	_, err := s.Redeem("usd-vault", "nobody", dec(t, "10"))
	if err == nil {
		t.Fatal("expected error for redeem without balance")
	}
}

func TestMockRequestLocksPrice(t *testing.T) {
	s := NewMockVaultService()

	deposit, err := s.Deposit("usd-vault", "alice", dec(t, "1000"))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	price, err := s.GetSharePrice("usd-vault")
	if err != nil {
		t.Fatalf("price query failed: %v", err)
	}

	result, err := s.RequestRedeem("usd-vault", "alice", dec(t, deposit.Shares))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if result.SharePrice != price.SharePrice {
		t.Errorf("request locked price %s, expected current price %s", result.SharePrice, price.SharePrice)
	}

	// Claiming inside the redemption lock must fail
	_, err = s.ClaimRedeem("usd-vault", "alice")
	if err == nil || !strings.Contains(err.Error(), "redemption lock") {
		t.Errorf("expected redemption lock error, got %v", err)
	}
}

func TestMockCancelAtFlatPriceBurnsNothing(t *testing.T) {
	s := NewMockVaultService()

	deposit, err := s.Deposit("usd-vault", "alice", dec(t, "1000"))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := s.RequestRedeem("usd-vault", "alice", dec(t, deposit.Shares)); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	result, err := s.CancelRequest("usd-vault", "alice")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if !dec(t, result.BurnedShares).IsZero() {
		t.Errorf("price did not move, expected zero burn, got %s", result.BurnedShares)
	}
	if result.ReturnedShares != deposit.Shares {
		t.Errorf("expected full return %s, got %s", deposit.Shares, result.ReturnedShares)
	}

	// Request is gone
	if _, err := s.GetUserRequest("usd-vault", "alice"); err == nil {
		t.Error("expected request to be deleted after cancel")
	}
}

func TestMockCancelBurnsWhenPriceRises(t *testing.T) {
	s := NewMockVaultService()

	deposit, err := s.Deposit("usd-vault", "alice", dec(t, "1000"))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := s.RequestRedeem("usd-vault", "alice", dec(t, deposit.Shares)); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Simulate strategy profit: grow pool assets by 10%
	s.mu.Lock()
	p := s.pools["usd-vault"]
	p.totalAssets = p.totalAssets.MulTruncate(dec(t, "1.1"))
	s.mu.Unlock()

	result, err := s.CancelRequest("usd-vault", "alice")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	burned := dec(t, result.BurnedShares)
	if !burned.IsPositive() {
		t.Fatalf("expected positive burn after price rise, got %s", result.BurnedShares)
	}

	// Burned fraction equals the relative price gain: (P' - P) / P'
	total := dec(t, deposit.Shares)
	fraction := burned.Quo(total)
	want := dec(t, "0.1").Quo(dec(t, "1.1"))
	if !fraction.Sub(want).Abs().LTE(dec(t, "0.0001")) {
		t.Errorf("expected burn fraction ~%s, got %s", want, fraction)
	}
}
