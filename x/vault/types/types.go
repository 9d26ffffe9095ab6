package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "vault"
	StoreKey   = ModuleName
)

// Pool status
const (
	PoolStatusActive = "active"
	PoolStatusPaused = "paused"
)

// Privilege tiers checked through the role keeper
const (
	RoleOperator = "operator"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Default pool parameters
var (
	DefaultMinLiquidity     = math.LegacyMustNewDecFromStr("100") // seed floor in asset units
	DefaultProfitCooldown   = int64(24 * 60 * 60)                 // 1 day
	DefaultRedemptionLock   = int64(3 * 24 * 60 * 60)             // T+3
	SecondsPerYear          = int64(365 * 24 * 60 * 60)
	MinShareSupply          = math.LegacySmallestDec()            // supply floor after any burn
)

// Fees holds the vault fee schedule in basis points.
type Fees struct {
	PerformanceBps int64 `json:"performance_bps"`
	ManagementBps  int64 `json:"management_bps"`
	EntryBps       int64 `json:"entry_bps"`
	ExitBps        int64 `json:"exit_bps"`
	FlashBps       int64 `json:"flash_bps"`
}

// MaxFees is the admin-configured ceiling for every fee rate.
var MaxFees = Fees{
	PerformanceBps: 5000, // 50%
	ManagementBps:  500,  // 5% annual
	EntryBps:       200,  // 2%
	ExitBps:        200,  // 2%
	FlashBps:       100,  // 1%
}

// Validate checks the schedule against MaxFees.
func (f Fees) Validate() error {
	switch {
	case f.PerformanceBps < 0 || f.PerformanceBps > MaxFees.PerformanceBps:
		return ErrFeeTooHigh.Wrap("performance fee")
	case f.ManagementBps < 0 || f.ManagementBps > MaxFees.ManagementBps:
		return ErrFeeTooHigh.Wrap("management fee")
	case f.EntryBps < 0 || f.EntryBps > MaxFees.EntryBps:
		return ErrFeeTooHigh.Wrap("entry fee")
	case f.ExitBps < 0 || f.ExitBps > MaxFees.ExitBps:
		return ErrFeeTooHigh.Wrap("exit fee")
	case f.FlashBps < 0 || f.FlashBps > MaxFees.FlashBps:
		return ErrFeeTooHigh.Wrap("flash fee")
	}
	return nil
}

// DefaultFees returns a conservative default schedule.
func DefaultFees() Fees {
	return Fees{
		PerformanceBps: 2000,
		ManagementBps:  200,
		EntryBps:       0,
		ExitBps:        50,
		FlashBps:       9,
	}
}

// Pool is the custody pool aggregate root. TotalAssets is the accounted value
// under management (idle balance plus invested value, excluding profit still
// inside the recognition cooldown); TotalShares is the full share supply,
// including shares reserved by redemption requests.
type Pool struct {
	PoolID     string `json:"pool_id"`
	AssetDenom string `json:"asset_denom"`
	Status     string `json:"status"`

	TotalAssets math.LegacyDec `json:"total_assets"`
	TotalShares math.LegacyDec `json:"total_shares"`

	MaxTotalAssets math.LegacyDec `json:"max_total_assets"`
	PausedCap      math.LegacyDec `json:"paused_cap"` // cap saved across a pause
	MinLiquidity   math.LegacyDec `json:"min_liquidity"`

	FeeRecipient string `json:"fee_recipient,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPool creates a paused, uncapped pool awaiting seed liquidity.
func NewPool(poolID, assetDenom string, now int64) *Pool {
	return &Pool{
		PoolID:         poolID,
		AssetDenom:     assetDenom,
		Status:         PoolStatusPaused,
		TotalAssets:    math.LegacyZeroDec(),
		TotalShares:    math.LegacyZeroDec(),
		MaxTotalAssets: math.LegacyZeroDec(),
		PausedCap:      math.LegacyZeroDec(),
		MinLiquidity:   DefaultMinLiquidity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SharePrice returns the assets redeemable per share, excluding shares and
// value already reserved for claimable redemptions. The accounted assets are
// passed in because profit recognition is time-dependent. Returns unit price
// at zero accounted supply (1:1 bootstrap).
func (p *Pool) SharePrice(accountedAssets, claimableShares, claimableValue math.LegacyDec) math.LegacyDec {
	supply := p.TotalShares.Sub(claimableShares)
	if !supply.IsPositive() {
		return math.LegacyOneDec()
	}
	assets := accountedAssets.Sub(claimableValue)
	if assets.IsNegative() {
		return math.LegacyZeroDec()
	}
	return assets.QuoTruncate(supply)
}

// ConvertToShares converts an asset amount to shares at the given price,
// flooring so rounding always favours the pool.
func ConvertToShares(assets, price math.LegacyDec) math.LegacyDec {
	if !price.IsPositive() {
		return math.LegacyZeroDec()
	}
	return assets.QuoTruncate(price)
}

// ConvertToAssets converts a share amount to assets at the given price,
// flooring so rounding always favours the pool.
func ConvertToAssets(shares, price math.LegacyDec) math.LegacyDec {
	return shares.MulTruncate(price)
}

// Checkpoint records the last accounted marks used to linearize profit
// recognition and fee accrual.
type Checkpoint struct {
	PoolID string `json:"pool_id"`

	SharePrice    math.LegacyDec `json:"share_price"`    // price at last fee collection
	PendingProfit math.LegacyDec `json:"pending_profit"` // harvested but not yet recognized

	ProfitCooldown int64 `json:"profit_cooldown"` // seconds over which a spike is recognized
	RedemptionLock int64 `json:"redemption_lock"` // seconds before a request may become claimable

	HarvestedAt      int64 `json:"harvested_at"`
	InvestedAt       int64 `json:"invested_at"`
	LiquidityEventAt int64 `json:"liquidity_event_at"`
	FeesCollectedAt  int64 `json:"fees_collected_at"`
}

// NewCheckpoint returns the bootstrap checkpoint at unit price.
func NewCheckpoint(poolID string, now int64) *Checkpoint {
	return &Checkpoint{
		PoolID:          poolID,
		SharePrice:      math.LegacyOneDec(),
		PendingProfit:   math.LegacyZeroDec(),
		ProfitCooldown:  DefaultProfitCooldown,
		RedemptionLock:  DefaultRedemptionLock,
		HarvestedAt:     now,
		FeesCollectedAt: now,
	}
}

// RecognizedProfit returns the portion of PendingProfit released by the
// cooldown at the given time. With a zero cooldown the full pending profit is
// recognized immediately.
func (c *Checkpoint) RecognizedProfit(now int64) math.LegacyDec {
	if !c.PendingProfit.IsPositive() {
		return math.LegacyZeroDec()
	}
	if c.ProfitCooldown <= 0 {
		return c.PendingProfit
	}
	elapsed := now - c.HarvestedAt
	if elapsed <= 0 {
		return math.LegacyZeroDec()
	}
	if elapsed >= c.ProfitCooldown {
		return c.PendingProfit
	}
	ratio := math.LegacyNewDec(elapsed).QuoTruncate(math.LegacyNewDec(c.ProfitCooldown))
	return c.PendingProfit.MulTruncate(ratio)
}

// RedemptionRequest is a per-owner queued redemption. PendingShares have been
// requested but carry no price protection yet; ClaimableShares passed the lock
// and settle at min(request price, current price). SharePrice is the
// share-weighted average price across increases.
type RedemptionRequest struct {
	PoolID          string         `json:"pool_id"`
	Owner           string         `json:"owner"`
	PendingShares   math.LegacyDec `json:"pending_shares"`
	ClaimableShares math.LegacyDec `json:"claimable_shares"`
	SharePrice      math.LegacyDec `json:"share_price"`
	RequestedAt     int64          `json:"requested_at"`
	UpdatedAt       int64          `json:"updated_at"`
}

// NewRedemptionRequest opens a request at the current share price.
func NewRedemptionRequest(poolID, owner string, shares, price math.LegacyDec, now int64) *RedemptionRequest {
	return &RedemptionRequest{
		PoolID:          poolID,
		Owner:           owner,
		PendingShares:   shares,
		ClaimableShares: math.LegacyZeroDec(),
		SharePrice:      price,
		RequestedAt:     now,
		UpdatedAt:       now,
	}
}

// TotalShares returns pending plus claimable shares.
func (r *RedemptionRequest) TotalShares() math.LegacyDec {
	return r.PendingShares.Add(r.ClaimableShares)
}

// IsZero reports whether the request holds no live shares.
func (r *RedemptionRequest) IsZero() bool {
	return !r.TotalShares().IsPositive()
}

// Increase grows the request and blends its locked price with the current
// price, weighted by old shares versus the increase. The request timestamp
// resets so the lock applies to the whole blended position.
func (r *RedemptionRequest) Increase(shares, currentPrice math.LegacyDec, now int64) {
	old := r.TotalShares()
	total := old.Add(shares)
	weighted := r.SharePrice.Mul(old).Add(currentPrice.Mul(shares))
	r.SharePrice = weighted.QuoTruncate(total)
	r.PendingShares = r.PendingShares.Add(shares)
	r.RequestedAt = now
	r.UpdatedAt = now
}

// ClaimableAt reports whether the request's age exceeds the lock at the
// given liquidity-event time.
func (r *RedemptionRequest) ClaimableAt(eventTime, lockDuration int64) bool {
	return r.PendingShares.IsPositive() && eventTime >= r.RequestedAt+lockDuration
}

// RequestAggregate is the pool-wide redemption queue summary.
// TotalPendingShares counts every live request share; TotalClaimableShares is
// the subset past the lock; TotalClaimableValue is the asset value reserved
// for them at their locked request prices.
type RequestAggregate struct {
	PoolID               string         `json:"pool_id"`
	TotalPendingShares   math.LegacyDec `json:"total_pending_shares"`
	TotalClaimableShares math.LegacyDec `json:"total_claimable_shares"`
	TotalClaimableValue  math.LegacyDec `json:"total_claimable_value"`
}

// NewRequestAggregate returns an empty queue summary.
func NewRequestAggregate(poolID string) *RequestAggregate {
	return &RequestAggregate{
		PoolID:               poolID,
		TotalPendingShares:   math.LegacyZeroDec(),
		TotalClaimableShares: math.LegacyZeroDec(),
		TotalClaimableValue:  math.LegacyZeroDec(),
	}
}

// FlashState tracks the flash-loan facility counters. Outstanding principal
// is always zero at the boundary of an operation; loans settle atomically.
type FlashState struct {
	PoolID        string         `json:"pool_id"`
	MaxLoan       math.LegacyDec `json:"max_loan"`
	TotalLent     math.LegacyDec `json:"total_lent"`
	ClaimableFees math.LegacyDec `json:"claimable_fees"`
}

// NewFlashState returns a facility with lending disabled (zero max loan).
func NewFlashState(poolID string) *FlashState {
	return &FlashState{
		PoolID:        poolID,
		MaxLoan:       math.LegacyZeroDec(),
		TotalLent:     math.LegacyZeroDec(),
		ClaimableFees: math.LegacyZeroDec(),
	}
}

// PricePoint is a share-price history sample recorded at liquidity events.
type PricePoint struct {
	PoolID      string         `json:"pool_id"`
	SharePrice  math.LegacyDec `json:"share_price"`
	TotalAssets math.LegacyDec `json:"total_assets"`
	TotalShares math.LegacyDec `json:"total_shares"`
	Timestamp   int64          `json:"timestamp"`
}
