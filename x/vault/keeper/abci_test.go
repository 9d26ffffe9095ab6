package keeper

import (
	"testing"

	"github.com/openalpha/rivervault/x/vault/types"
)

func TestEndBlockerPromotesMaturedRequests(t *testing.T) {
	env := setupKeeper(t)
	env.seedPool(t)
	depositAlice(t, env, "1000")

	if _, err := env.keeper.RequestRedeem(env.ctx, testAlice, testPool, dec("100"), ""); err != nil {
		t.Fatalf("request: %v", err)
	}
	env.advance(types.DefaultRedemptionLock + 1)

	if err := env.keeper.EndBlocker(env.ctx); err != nil {
		t.Fatalf("end blocker: %v", err)
	}

	req := env.keeper.GetRequest(env.ctx, testPool, testAlice.String())
	if req == nil {
		t.Fatal("expected request to survive promotion")
	}
	if !req.ClaimableShares.Equal(dec("100")) {
		t.Errorf("expected 100 claimable after the lock, got %s", req.ClaimableShares.String())
	}
	if !req.PendingShares.IsZero() {
		t.Errorf("expected no pending shares left, got %s", req.PendingShares.String())
	}

	found := false
	for _, ev := range env.ctx.EventManager().Events() {
		if ev.Type == types.EventTypeEndBlock {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected a %s event", types.EventTypeEndBlock)
	}
}

func TestEndBlockerSkipsEmptyPools(t *testing.T) {
	env := setupKeeper(t)
	if _, err := env.keeper.CreatePool(env.ctx, testAdmin.String(), testPool, testDenom, testRecip.String()); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	// no shares issued yet: the pass must not touch the unseeded pool
	if err := env.keeper.EndBlocker(env.ctx); err != nil {
		t.Fatalf("end blocker on empty pool: %v", err)
	}
}
