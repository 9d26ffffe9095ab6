package app

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	vaultkeeper "github.com/openalpha/rivervault/x/vault/keeper"
	vaulttypes "github.com/openalpha/rivervault/x/vault/types"
)

// idleStrategyAdapter is the no-strategy deployment: every pool asset stays
// in module custody, so invested value is always zero and there is nothing
// to liquidate. A yield strategy module can replace it without touching the
// vault keeper.
type idleStrategyAdapter struct{}

func newIdleStrategyAdapter() vaultkeeper.StrategyKeeper {
	return idleStrategyAdapter{}
}

func (idleStrategyAdapter) InvestedValue(ctx sdk.Context, poolID string) math.LegacyDec {
	return math.LegacyZeroDec()
}

func (idleStrategyAdapter) Invest(ctx sdk.Context, poolID string, amount math.LegacyDec) error {
	return vaulttypes.ErrInternal.Wrap("no strategy configured")
}

func (idleStrategyAdapter) Liquidate(ctx sdk.Context, poolID string, amount math.LegacyDec) (math.LegacyDec, error) {
	return math.LegacyZeroDec(), nil
}

// authorityRoleAdapter grants every privilege tier to the configured
// authority address and nothing to anyone else. Per-address role grants
// belong to a dedicated access-control module.
type authorityRoleAdapter struct {
	authority string
}

func newAuthorityRoleAdapter(authority string) vaultkeeper.RoleKeeper {
	return authorityRoleAdapter{authority: authority}
}

func (a authorityRoleAdapter) HasRole(ctx sdk.Context, addr, role string) bool {
	return addr == a.authority
}
