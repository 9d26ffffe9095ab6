package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/rivervault/x/vault/types"
)

// EndBlocker runs the per-block vault maintenance: every pool is marked to
// market, matured profit folds into the accounted base, and redemption
// requests past the lock are promoted to claimable.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	blockHeight := ctx.BlockHeight()
	start := time.Now()

	harvested := 0
	for _, pool := range k.GetAllPools(ctx) {
		if !pool.TotalShares.IsPositive() {
			continue
		}
		if err := k.Harvest(ctx, pool.PoolID); err != nil {
			k.logger.Error("harvest failed",
				"pool", pool.PoolID,
				"error", err,
			)
			continue
		}
		harvested++
	}

	totalDuration := time.Since(start)

	k.logger.Debug("vault EndBlocker completed",
		"block", blockHeight,
		"total_ms", totalDuration.Milliseconds(),
		"pools_harvested", harvested,
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEndBlock,
			sdk.NewAttribute("block_height", math.NewInt(blockHeight).String()),
			sdk.NewAttribute("duration_ms", math.NewInt(totalDuration.Milliseconds()).String()),
			sdk.NewAttribute("pools_harvested", math.NewInt(int64(harvested)).String()),
		),
	)

	return nil
}
