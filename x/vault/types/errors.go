package types

import (
	"cosmossdk.io/errors"
)

// x/vault module errors
var (
	// invalid amounts and parameters
	ErrInvalidAmount    = errors.Register(ModuleName, 1, "amount must be positive")
	ErrZeroShares       = errors.Register(ModuleName, 2, "computed shares round to zero")
	ErrSlippageExceeded = errors.Register(ModuleName, 3, "output below caller minimum")
	ErrFeeTooHigh       = errors.Register(ModuleName, 4, "fee exceeds maximum")
	ErrInvalidDenom     = errors.Register(ModuleName, 5, "denom does not match pool asset")

	// capacity and liquidity
	ErrCapExceeded           = errors.Register(ModuleName, 6, "deposit exceeds pool capacity")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 7, "insufficient idle liquidity")
	ErrMaxLoanExceeded       = errors.Register(ModuleName, 8, "loan exceeds facility limit")
	ErrNotSeeded             = errors.Register(ModuleName, 9, "pool below minimum seed liquidity")
	ErrAlreadySeeded         = errors.Register(ModuleName, 10, "pool already seeded")

	// authorization
	ErrUnauthorized          = errors.Register(ModuleName, 11, "caller lacks required role")
	ErrInsufficientAllowance = errors.Register(ModuleName, 12, "insufficient share allowance")
	ErrInvalidReceiver       = errors.Register(ModuleName, 13, "receiver may not be the vault")

	// state
	ErrPoolNotFound       = errors.Register(ModuleName, 14, "pool not found")
	ErrPoolPaused         = errors.Register(ModuleName, 15, "pool is paused")
	ErrPoolExists         = errors.Register(ModuleName, 16, "pool already exists")
	ErrInsufficientShares = errors.Register(ModuleName, 17, "insufficient share balance")

	// redemption queue
	ErrRequestNotFound  = errors.Register(ModuleName, 18, "no redemption request for owner")
	ErrNothingClaimable = errors.Register(ModuleName, 19, "no claimable shares")
	ErrRequestDecrease  = errors.Register(ModuleName, 20, "requests may only be increased or cancelled")

	// flash loans
	ErrFlashAck      = errors.Register(ModuleName, 21, "borrower callback returned bad acknowledgement")
	ErrFlashNotPaid  = errors.Register(ModuleName, 22, "loan principal plus fee not returned")
	ErrFlashDisabled = errors.Register(ModuleName, 23, "flash facility disabled")

	// integrity
	ErrReentrancy = errors.Register(ModuleName, 24, "operation already in progress")
	ErrInternal   = errors.Register(ModuleName, 25, "internal accounting violation")
)
