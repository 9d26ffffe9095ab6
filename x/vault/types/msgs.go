package types

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePool          = "create_pool"
	TypeMsgSeedLiquidity       = "seed_liquidity"
	TypeMsgDeposit             = "deposit"
	TypeMsgMint                = "mint"
	TypeMsgWithdraw            = "withdraw"
	TypeMsgRedeem              = "redeem"
	TypeMsgRequestRedeem       = "request_redeem"
	TypeMsgRequestWithdraw     = "request_withdraw"
	TypeMsgCancelRedeemRequest = "cancel_redeem_request"
	TypeMsgClaimRedeem         = "claim_redeem"
	TypeMsgApproveShares       = "approve_shares"
	TypeMsgSetFees             = "set_fees"
	TypeMsgCollectFees         = "collect_fees"
	TypeMsgPause               = "pause"
	TypeMsgUnpause             = "unpause"
	TypeMsgSetVaultParams      = "set_vault_params"
	TypeMsgSetFeeExemption     = "set_fee_exemption"
)

// MsgCreatePool defines the CreatePool message
type MsgCreatePool struct {
	Authority    string `json:"authority"`
	PoolID       string `json:"pool_id"`
	AssetDenom   string `json:"asset_denom"`
	FeeRecipient string `json:"fee_recipient,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	// "/" is the store key separator; a pool id containing it could
	// collide with another pool's composite keys
	if msg.PoolID == "" || strings.Contains(msg.PoolID, "/") {
		return ErrPoolNotFound
	}
	if err := sdk.ValidateDenom(msg.AssetDenom); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Authority: %s, PoolID: %s, AssetDenom: %s}", msg.Authority, msg.PoolID, msg.AssetDenom)
}

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgSeedLiquidity defines the SeedLiquidity message
type MsgSeedLiquidity struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
	Amount    string `json:"amount"`
	Cap       string `json:"cap"`
}

// Route implements sdk.Msg
func (msg MsgSeedLiquidity) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSeedLiquidity) Type() string { return TypeMsgSeedLiquidity }

// ValidateBasic implements sdk.Msg
func (msg MsgSeedLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSeedLiquidity) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSeedLiquidity) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSeedLiquidity) Reset() { *msg = MsgSeedLiquidity{} }

// String implements proto.Message
func (msg MsgSeedLiquidity) String() string {
	return fmt.Sprintf("MsgSeedLiquidity{Authority: %s, PoolID: %s, Amount: %s}", msg.Authority, msg.PoolID, msg.Amount)
}

// MsgSeedLiquidityResponse defines the SeedLiquidity response
type MsgSeedLiquidityResponse struct {
	Shares string `json:"shares"`
}

// MsgDeposit defines the Deposit message
type MsgDeposit struct {
	Depositor string `json:"depositor"`
	PoolID    string `json:"pool_id"`
	Amount    string `json:"amount"`
	Receiver  string `json:"receiver,omitempty"`
	MinShares string `json:"min_shares,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgDeposit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeposit) Type() string { return TypeMsgDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Depositor)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeposit) Reset() { *msg = MsgDeposit{} }

// String implements proto.Message
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Depositor: %s, PoolID: %s, Amount: %s}", msg.Depositor, msg.PoolID, msg.Amount)
}

// MsgDepositResponse defines the Deposit response
type MsgDepositResponse struct {
	Shares     string `json:"shares"`
	Fee        string `json:"fee"`
	SharePrice string `json:"share_price"`
}

// MsgMint defines the Mint message (deposit quoted in shares)
type MsgMint struct {
	Depositor string `json:"depositor"`
	PoolID    string `json:"pool_id"`
	Shares    string `json:"shares"`
	Receiver  string `json:"receiver,omitempty"`
	MaxAssets string `json:"max_assets,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgMint) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgMint) Type() string { return TypeMsgMint }

// ValidateBasic implements sdk.Msg
func (msg MsgMint) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Shares == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgMint) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Depositor)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgMint) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgMint) Reset() { *msg = MsgMint{} }

// String implements proto.Message
func (msg MsgMint) String() string {
	return fmt.Sprintf("MsgMint{Depositor: %s, PoolID: %s, Shares: %s}", msg.Depositor, msg.PoolID, msg.Shares)
}

// MsgMintResponse defines the Mint response
type MsgMintResponse struct {
	Assets     string `json:"assets"`
	Fee        string `json:"fee"`
	SharePrice string `json:"share_price"`
}

// MsgWithdraw defines the Withdraw message (exit quoted in assets)
type MsgWithdraw struct {
	Caller    string `json:"caller"`
	PoolID    string `json:"pool_id"`
	Amount    string `json:"amount"`
	Receiver  string `json:"receiver,omitempty"`
	Owner     string `json:"owner,omitempty"`
	MaxShares string `json:"max_shares,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Caller: %s, PoolID: %s, Amount: %s}", msg.Caller, msg.PoolID, msg.Amount)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	Assets string `json:"assets"`
	Shares string `json:"shares"`
	Fee    string `json:"fee"`
}

// MsgRedeem defines the Redeem message (exit quoted in shares)
type MsgRedeem struct {
	Caller    string `json:"caller"`
	PoolID    string `json:"pool_id"`
	Shares    string `json:"shares"`
	Receiver  string `json:"receiver,omitempty"`
	Owner     string `json:"owner,omitempty"`
	MinAssets string `json:"min_assets,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgRedeem) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRedeem) Type() string { return TypeMsgRedeem }

// ValidateBasic implements sdk.Msg
func (msg MsgRedeem) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Shares == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRedeem) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRedeem) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRedeem) Reset() { *msg = MsgRedeem{} }

// String implements proto.Message
func (msg MsgRedeem) String() string {
	return fmt.Sprintf("MsgRedeem{Caller: %s, PoolID: %s, Shares: %s}", msg.Caller, msg.PoolID, msg.Shares)
}

// MsgRedeemResponse defines the Redeem response
type MsgRedeemResponse struct {
	Assets string `json:"assets"`
	Fee    string `json:"fee"`
}

// MsgRequestRedeem defines the RequestRedeem message
type MsgRequestRedeem struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
	Shares string `json:"shares"`
	Owner  string `json:"owner,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgRequestRedeem) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRequestRedeem) Type() string { return TypeMsgRequestRedeem }

// ValidateBasic implements sdk.Msg
func (msg MsgRequestRedeem) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Shares == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRequestRedeem) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRequestRedeem) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRequestRedeem) Reset() { *msg = MsgRequestRedeem{} }

// String implements proto.Message
func (msg MsgRequestRedeem) String() string {
	return fmt.Sprintf("MsgRequestRedeem{Caller: %s, PoolID: %s, Shares: %s}", msg.Caller, msg.PoolID, msg.Shares)
}

// MsgRequestRedeemResponse defines the RequestRedeem response
type MsgRequestRedeemResponse struct {
	PendingShares string `json:"pending_shares"`
	RequestPrice  string `json:"request_price"`
	ClaimableAt   int64  `json:"claimable_at"`
}

// MsgRequestWithdraw defines the RequestWithdraw message. The asset amount
// is converted to shares at the current price before joining the queue.
type MsgRequestWithdraw struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
	Amount string `json:"amount"`
	Owner  string `json:"owner,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgRequestWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRequestWithdraw) Type() string { return TypeMsgRequestWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgRequestWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Amount == "" {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRequestWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRequestWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRequestWithdraw) Reset() { *msg = MsgRequestWithdraw{} }

// String implements proto.Message
func (msg MsgRequestWithdraw) String() string {
	return fmt.Sprintf("MsgRequestWithdraw{Caller: %s, PoolID: %s, Amount: %s}", msg.Caller, msg.PoolID, msg.Amount)
}

// MsgRequestWithdrawResponse defines the RequestWithdraw response
type MsgRequestWithdrawResponse struct {
	PendingShares string `json:"pending_shares"`
	RequestPrice  string `json:"request_price"`
	ClaimableAt   int64  `json:"claimable_at"`
}

// MsgCancelRedeemRequest defines the CancelRedeemRequest message
type MsgCancelRedeemRequest struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
	Owner  string `json:"owner,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgCancelRedeemRequest) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCancelRedeemRequest) Type() string { return TypeMsgCancelRedeemRequest }

// ValidateBasic implements sdk.Msg
func (msg MsgCancelRedeemRequest) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCancelRedeemRequest) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCancelRedeemRequest) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCancelRedeemRequest) Reset() { *msg = MsgCancelRedeemRequest{} }

// String implements proto.Message
func (msg MsgCancelRedeemRequest) String() string {
	return fmt.Sprintf("MsgCancelRedeemRequest{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgCancelRedeemRequestResponse defines the CancelRedeemRequest response
type MsgCancelRedeemRequestResponse struct {
	SharesReleased string `json:"shares_released"`
	SharesBurned   string `json:"shares_burned"`
}

// MsgClaimRedeem defines the ClaimRedeem message
type MsgClaimRedeem struct {
	Caller    string `json:"caller"`
	PoolID    string `json:"pool_id"`
	Owner     string `json:"owner,omitempty"`
	Receiver  string `json:"receiver,omitempty"`
	MinAssets string `json:"min_assets,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgClaimRedeem) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimRedeem) Type() string { return TypeMsgClaimRedeem }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimRedeem) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimRedeem) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimRedeem) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimRedeem) Reset() { *msg = MsgClaimRedeem{} }

// String implements proto.Message
func (msg MsgClaimRedeem) String() string {
	return fmt.Sprintf("MsgClaimRedeem{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgClaimRedeemResponse defines the ClaimRedeem response
type MsgClaimRedeemResponse struct {
	Assets string `json:"assets"`
	Shares string `json:"shares"`
}

// MsgApproveShares defines the ApproveShares message
type MsgApproveShares struct {
	Owner   string `json:"owner"`
	PoolID  string `json:"pool_id"`
	Spender string `json:"spender"`
	Shares  string `json:"shares"`
}

// Route implements sdk.Msg
func (msg MsgApproveShares) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgApproveShares) Type() string { return TypeMsgApproveShares }

// ValidateBasic implements sdk.Msg
func (msg MsgApproveShares) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Spender); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgApproveShares) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgApproveShares) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgApproveShares) Reset() { *msg = MsgApproveShares{} }

// String implements proto.Message
func (msg MsgApproveShares) String() string {
	return fmt.Sprintf("MsgApproveShares{Owner: %s, Spender: %s, Shares: %s}", msg.Owner, msg.Spender, msg.Shares)
}

// MsgApproveSharesResponse defines the ApproveShares response
type MsgApproveSharesResponse struct {
	Shares string `json:"shares"`
}

// MsgSetFees defines the SetFees message
type MsgSetFees struct {
	Authority      string `json:"authority"`
	PoolID         string `json:"pool_id"`
	PerformanceBps int64  `json:"performance_bps"`
	ManagementBps  int64  `json:"management_bps"`
	EntryBps       int64  `json:"entry_bps"`
	ExitBps        int64  `json:"exit_bps"`
	FlashBps       int64  `json:"flash_bps"`
}

// Route implements sdk.Msg
func (msg MsgSetFees) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetFees) Type() string { return TypeMsgSetFees }

// ValidateBasic implements sdk.Msg
func (msg MsgSetFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return msg.Fees().Validate()
}

// Fees returns the schedule carried by the message.
func (msg MsgSetFees) Fees() Fees {
	return Fees{
		PerformanceBps: msg.PerformanceBps,
		ManagementBps:  msg.ManagementBps,
		EntryBps:       msg.EntryBps,
		ExitBps:        msg.ExitBps,
		FlashBps:       msg.FlashBps,
	}
}

// GetSigners implements sdk.Msg
func (msg MsgSetFees) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetFees) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetFees) Reset() { *msg = MsgSetFees{} }

// String implements proto.Message
func (msg MsgSetFees) String() string {
	return fmt.Sprintf("MsgSetFees{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgSetFeesResponse defines the SetFees response
type MsgSetFeesResponse struct{}

// MsgCollectFees defines the CollectFees message
type MsgCollectFees struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgCollectFees) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCollectFees) Type() string { return TypeMsgCollectFees }

// ValidateBasic implements sdk.Msg
func (msg MsgCollectFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCollectFees) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCollectFees) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCollectFees) Reset() { *msg = MsgCollectFees{} }

// String implements proto.Message
func (msg MsgCollectFees) String() string {
	return fmt.Sprintf("MsgCollectFees{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgCollectFeesResponse defines the CollectFees response
type MsgCollectFeesResponse struct {
	FeeShares string `json:"fee_shares"`
	FeeValue  string `json:"fee_value"`
}

// MsgPause defines the Pause message
type MsgPause struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgPause) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgPause) Type() string { return TypeMsgPause }

// ValidateBasic implements sdk.Msg
func (msg MsgPause) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgPause) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgPause) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgPause) Reset() { *msg = MsgPause{} }

// String implements proto.Message
func (msg MsgPause) String() string {
	return fmt.Sprintf("MsgPause{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgPauseResponse defines the Pause response
type MsgPauseResponse struct{}

// MsgUnpause defines the Unpause message
type MsgUnpause struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgUnpause) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUnpause) Type() string { return TypeMsgUnpause }

// ValidateBasic implements sdk.Msg
func (msg MsgUnpause) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUnpause) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUnpause) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUnpause) Reset() { *msg = MsgUnpause{} }

// String implements proto.Message
func (msg MsgUnpause) String() string {
	return fmt.Sprintf("MsgUnpause{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgUnpauseResponse defines the Unpause response
type MsgUnpauseResponse struct{}

// MsgSetVaultParams defines the SetVaultParams message. Empty string fields
// leave the corresponding parameter unchanged.
type MsgSetVaultParams struct {
	Authority      string `json:"authority"`
	PoolID         string `json:"pool_id"`
	MaxTotalAssets string `json:"max_total_assets,omitempty"`
	MinLiquidity   string `json:"min_liquidity,omitempty"`
	ProfitCooldown int64  `json:"profit_cooldown,omitempty"`
	RedemptionLock int64  `json:"redemption_lock,omitempty"`
	MaxFlashLoan   string `json:"max_flash_loan,omitempty"`
	FeeRecipient   string `json:"fee_recipient,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgSetVaultParams) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetVaultParams) Type() string { return TypeMsgSetVaultParams }

// ValidateBasic implements sdk.Msg
func (msg MsgSetVaultParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.ProfitCooldown < 0 || msg.RedemptionLock < 0 {
		return ErrInvalidAmount.Wrap("durations must be non-negative")
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetVaultParams) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetVaultParams) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetVaultParams) Reset() { *msg = MsgSetVaultParams{} }

// String implements proto.Message
func (msg MsgSetVaultParams) String() string {
	return fmt.Sprintf("MsgSetVaultParams{Authority: %s, PoolID: %s}", msg.Authority, msg.PoolID)
}

// MsgSetVaultParamsResponse defines the SetVaultParams response
type MsgSetVaultParamsResponse struct{}

// MsgSetFeeExemption defines the SetFeeExemption message
type MsgSetFeeExemption struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
	Address   string `json:"address"`
	Exempt    bool   `json:"exempt"`
}

// Route implements sdk.Msg
func (msg MsgSetFeeExemption) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetFeeExemption) Type() string { return TypeMsgSetFeeExemption }

// ValidateBasic implements sdk.Msg
func (msg MsgSetFeeExemption) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Address); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetFeeExemption) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetFeeExemption) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetFeeExemption) Reset() { *msg = MsgSetFeeExemption{} }

// String implements proto.Message
func (msg MsgSetFeeExemption) String() string {
	return fmt.Sprintf("MsgSetFeeExemption{Authority: %s, PoolID: %s, Address: %s, Exempt: %t}", msg.Authority, msg.PoolID, msg.Address, msg.Exempt)
}

// MsgSetFeeExemptionResponse defines the SetFeeExemption response
type MsgSetFeeExemptionResponse struct{}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgCreatePool{}
	_ sdk.Msg = &MsgSeedLiquidity{}
	_ sdk.Msg = &MsgDeposit{}
	_ sdk.Msg = &MsgMint{}
	_ sdk.Msg = &MsgWithdraw{}
	_ sdk.Msg = &MsgRedeem{}
	_ sdk.Msg = &MsgRequestRedeem{}
	_ sdk.Msg = &MsgRequestWithdraw{}
	_ sdk.Msg = &MsgCancelRedeemRequest{}
	_ sdk.Msg = &MsgClaimRedeem{}
	_ sdk.Msg = &MsgApproveShares{}
	_ sdk.Msg = &MsgSetFees{}
	_ sdk.Msg = &MsgCollectFees{}
	_ sdk.Msg = &MsgPause{}
	_ sdk.Msg = &MsgUnpause{}
	_ sdk.Msg = &MsgSetVaultParams{}
	_ sdk.Msg = &MsgSetFeeExemption{}
)
