package types

import (
	"testing"

	"cosmossdk.io/math"
)

func d(s string) math.LegacyDec {
	return math.LegacyMustNewDecFromStr(s)
}

func TestFeesValidate(t *testing.T) {
	testCases := []struct {
		name    string
		fees    Fees
		wantErr bool
	}{
		{"zero schedule", Fees{}, false},
		{"default schedule", DefaultFees(), false},
		{"at ceiling", MaxFees, false},
		{"performance over", Fees{PerformanceBps: 5001}, true},
		{"management over", Fees{ManagementBps: 501}, true},
		{"entry over", Fees{EntryBps: 201}, true},
		{"exit over", Fees{ExitBps: 201}, true},
		{"flash over", Fees{FlashBps: 101}, true},
		{"negative", Fees{PerformanceBps: -1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fees.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSharePriceCarvesOutClaimable(t *testing.T) {
	pool := NewPool("p", "uusd", 0)
	pool.TotalShares = d("1000")

	testCases := []struct {
		name            string
		accountedAssets string
		claimableShares string
		claimableValue  string
		want            string
	}{
		{"plain", "1100", "0", "0", "1.1"},
		{"claimable carved out", "1100", "100", "110", "1.1"},
		{"reserve above value", "1000", "100", "200", "0.888888888888888888"},
		{"reserve exceeds assets", "100", "100", "200", "0"},
		{"all shares claimable", "1000", "1000", "1000", "1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := pool.SharePrice(d(tc.accountedAssets), d(tc.claimableShares), d(tc.claimableValue))
			if !got.Equal(d(tc.want)) {
				t.Errorf("SharePrice() = %s, want %s", got.String(), tc.want)
			}
		})
	}
}

func TestSharePriceUnitAtZeroSupply(t *testing.T) {
	pool := NewPool("p", "uusd", 0)
	if got := pool.SharePrice(math.LegacyZeroDec(), math.LegacyZeroDec(), math.LegacyZeroDec()); !got.Equal(math.LegacyOneDec()) {
		t.Errorf("expected unit price on empty pool, got %s", got.String())
	}
}

func TestConversionRoundsDown(t *testing.T) {
	price := d("1.1")
	shares := ConvertToShares(d("100"), price)
	// 100/1.1 truncated, so converting back can only lose dust
	back := ConvertToAssets(shares, price)
	if back.GT(d("100")) {
		t.Errorf("round trip gained value: %s", back.String())
	}
	if d("100").Sub(back).GT(d("0.00000000000000001")) {
		t.Errorf("round trip lost more than dust: %s", back.String())
	}
}

func TestRecognizedProfit(t *testing.T) {
	cp := NewCheckpoint("p", 1000)
	cp.PendingProfit = d("100")
	cp.ProfitCooldown = 200

	testCases := []struct {
		name string
		now  int64
		want string
	}{
		{"before harvest", 900, "0"},
		{"at harvest", 1000, "0"},
		{"quarter", 1050, "25"},
		{"half", 1100, "50"},
		{"at cooldown", 1200, "100"},
		{"past cooldown", 5000, "100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cp.RecognizedProfit(tc.now); !got.Equal(d(tc.want)) {
				t.Errorf("RecognizedProfit(%d) = %s, want %s", tc.now, got.String(), tc.want)
			}
		})
	}

	cp.ProfitCooldown = 0
	if got := cp.RecognizedProfit(1000); !got.Equal(d("100")) {
		t.Errorf("expected immediate recognition with zero cooldown, got %s", got.String())
	}
}

func TestRequestIncreaseBlendsPrice(t *testing.T) {
	req := NewRedemptionRequest("p", "owner", d("100"), d("1"), 1000)

	req.Increase(d("50"), d("1.2"), 2000)

	// (100*1 + 50*1.2) / 150
	want := d("160").QuoTruncate(d("150"))
	if !req.SharePrice.Equal(want) {
		t.Errorf("blended price %s, want %s", req.SharePrice.String(), want.String())
	}
	if !req.PendingShares.Equal(d("150")) {
		t.Errorf("pending %s, want 150", req.PendingShares.String())
	}
	if req.RequestedAt != 2000 {
		t.Errorf("expected lock reset to 2000, got %d", req.RequestedAt)
	}
}

func TestRequestClaimableAt(t *testing.T) {
	req := NewRedemptionRequest("p", "owner", d("10"), d("1"), 1000)

	if req.ClaimableAt(1000+DefaultRedemptionLock-1, DefaultRedemptionLock) {
		t.Error("claimable before the lock expired")
	}
	if !req.ClaimableAt(1000+DefaultRedemptionLock, DefaultRedemptionLock) {
		t.Error("not claimable at lock expiry")
	}

	req.PendingShares = math.LegacyZeroDec()
	if req.ClaimableAt(1000+DefaultRedemptionLock, DefaultRedemptionLock) {
		t.Error("claimable with nothing pending")
	}
}

func TestApplyAndGrossUpBps(t *testing.T) {
	// a 1% fee on the grossed-up amount recovers the net
	net := d("990")
	gross := GrossUpBps(net, 100)
	if !gross.Equal(d("1000")) {
		t.Errorf("GrossUpBps(990, 100) = %s, want 1000", gross.String())
	}
	if fee := ApplyBps(gross, 100); !fee.Equal(d("10")) {
		t.Errorf("ApplyBps(1000, 100) = %s, want 10", fee.String())
	}

	if !ApplyBps(d("1000"), 0).IsZero() {
		t.Error("expected zero fee at zero bps")
	}
	if !GrossUpBps(net, 0).Equal(net) {
		t.Error("expected identity gross-up at zero bps")
	}
	if !ApplyBps(d("-5"), 100).IsZero() {
		t.Error("expected zero fee on a negative amount")
	}
}

func TestClampNonNegative(t *testing.T) {
	if !ClampNonNegative(d("-3")).IsZero() {
		t.Error("expected negative clamped to zero")
	}
	if !ClampNonNegative(d("3")).Equal(d("3")) {
		t.Error("expected positive passthrough")
	}
}
