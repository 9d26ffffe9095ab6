package types

import (
	"time"

	"cosmossdk.io/math"
)

// VaultService defines the interface for vault operations exposed over HTTP
type VaultService interface {
	// Pool queries
	GetPools() ([]*PoolInfo, error)
	GetPool(poolID string) (*PoolInfo, error)
	GetSharePrice(poolID string) (*SharePriceInfo, error)
	GetPriceHistory(poolID string, limit int) ([]*PricePoint, error)
	GetFees(poolID string) (*FeeInfo, error)

	// User queries
	GetUserBalance(poolID, user string) (*UserBalance, error)
	GetUserRequest(poolID, user string) (*RequestInfo, error)
	GetPendingRequests(poolID string) ([]*RequestInfo, error)

	// Estimates
	EstimateDeposit(poolID string, amount math.LegacyDec) (*DepositEstimate, error)
	EstimateRedeem(poolID string, shares math.LegacyDec) (*RedeemEstimate, error)

	// Transactions
	Deposit(poolID, user string, amount math.LegacyDec) (*DepositResult, error)
	Redeem(poolID, user string, shares math.LegacyDec) (*RedeemResult, error)
	RequestRedeem(poolID, user string, shares math.LegacyDec) (*RequestResult, error)
	CancelRequest(poolID, user string) (*CancelResult, error)
	ClaimRedeem(poolID, user string) (*ClaimResult, error)
}

// Data types for the vault service

type PoolInfo struct {
	PoolID          string `json:"pool_id"`
	Denom           string `json:"denom"`
	Status          string `json:"status"` // "active", "paused"
	TotalAssets     string `json:"total_assets"`
	TotalShares     string `json:"total_shares"`
	SharePrice      string `json:"share_price"`
	PendingProfit   string `json:"pending_profit"`
	MaxTotalAssets  string `json:"max_total_assets"`
	MinLiquidity    string `json:"min_liquidity"`
	ProfitCooldown  int64  `json:"profit_cooldown_seconds"`
	RedemptionLock  int64  `json:"redemption_lock_seconds"`
	PendingShares   string `json:"pending_shares"`
	ClaimableShares string `json:"claimable_shares"`
	ClaimableValue  string `json:"claimable_value"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

type SharePriceInfo struct {
	PoolID     string `json:"pool_id"`
	SharePrice string `json:"share_price"`
	Timestamp  int64  `json:"timestamp"`
}

type PricePoint struct {
	Timestamp  int64  `json:"timestamp"`
	SharePrice string `json:"share_price"`
}

type FeeInfo struct {
	PoolID         string `json:"pool_id"`
	PerformanceBps int64  `json:"performance_bps"`
	ManagementBps  int64  `json:"management_bps"`
	EntryBps       int64  `json:"entry_bps"`
	ExitBps        int64  `json:"exit_bps"`
	FlashBps       int64  `json:"flash_bps"`
	FeeRecipient   string `json:"fee_recipient,omitempty"`
}

type UserBalance struct {
	PoolID string `json:"pool_id"`
	User   string `json:"user"`
	Shares string `json:"shares"`
	Value  string `json:"value"`
}

type RequestInfo struct {
	PoolID          string `json:"pool_id"`
	Owner           string `json:"owner"`
	TotalShares     string `json:"total_shares"`
	ClaimableShares string `json:"claimable_shares"`
	SharePrice      string `json:"share_price"` // price locked at request time
	RequestedAt     int64  `json:"requested_at"`
	ClaimableAt     int64  `json:"claimable_at"`
	Status          string `json:"status"` // "pending", "claimable"
}

type DepositEstimate struct {
	PoolID          string `json:"pool_id"`
	Amount          string `json:"amount"`
	EntryFee        string `json:"entry_fee"`
	EstimatedShares string `json:"estimated_shares"`
	SharePrice      string `json:"share_price"`
}

type RedeemEstimate struct {
	PoolID          string `json:"pool_id"`
	Shares          string `json:"shares"`
	ExitFee         string `json:"exit_fee"`
	EstimatedAmount string `json:"estimated_amount"`
	SharePrice      string `json:"share_price"`
}

type DepositResult struct {
	PoolID     string `json:"pool_id"`
	User       string `json:"user"`
	Amount     string `json:"amount"`
	Shares     string `json:"shares"`
	SharePrice string `json:"share_price"`
	Timestamp  int64  `json:"timestamp"`
}

type RedeemResult struct {
	PoolID     string `json:"pool_id"`
	User       string `json:"user"`
	Shares     string `json:"shares"`
	Amount     string `json:"amount"`
	SharePrice string `json:"share_price"`
	Timestamp  int64  `json:"timestamp"`
}

type RequestResult struct {
	PoolID      string `json:"pool_id"`
	User        string `json:"user"`
	Shares      string `json:"shares"`
	SharePrice  string `json:"share_price"`
	ClaimableAt int64  `json:"claimable_at"`
}

type CancelResult struct {
	PoolID         string `json:"pool_id"`
	User           string `json:"user"`
	ReturnedShares string `json:"returned_shares"`
	BurnedShares   string `json:"burned_shares"`
	Timestamp      int64  `json:"timestamp"`
}

type ClaimResult struct {
	PoolID    string `json:"pool_id"`
	User      string `json:"user"`
	Shares    string `json:"shares"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// NowMillis returns the current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
