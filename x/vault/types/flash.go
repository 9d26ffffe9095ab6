package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// FlashAck is the acknowledgement a borrower callback must return for the
// loan to settle. Any other value aborts and rolls back the operation.
var FlashAck = []byte("vault.FlashBorrower.onFlashLoan")

// FlashBorrower is implemented by modules that take flash loans. The
// callback runs on a branched context: repayment of principal plus fee must
// be visible on it before returning, or the whole loan is discarded.
type FlashBorrower interface {
	OnFlashLoan(ctx sdk.Context, initiator, denom string, amount, fee math.LegacyDec, data []byte) ([]byte, error)
}
