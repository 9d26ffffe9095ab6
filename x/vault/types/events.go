package types

// Event types
const (
	EventTypeCreatePool    = "create_pool"
	EventTypeSeedLiquidity = "seed_liquidity"
	EventTypeDeposit       = "vault_deposit"
	EventTypeWithdraw      = "vault_withdraw"
	EventTypeRequestRedeem = "request_redeem"
	EventTypeCancelRequest = "cancel_redeem_request"
	EventTypeClaimRedeem   = "claim_redeem"
	EventTypeHarvest       = "vault_harvest"
	EventTypeCollectFees   = "collect_fees"
	EventTypeFlashLoan     = "flash_loan"
	EventTypePause         = "vault_pause"
	EventTypeUnpause       = "vault_unpause"
	EventTypeSetFees       = "set_fees"
	EventTypeSetParams     = "set_vault_params"
	EventTypeEndBlock      = "vault_endblock"
)

// Event attribute keys
const (
	AttributeKeyPoolID      = "pool_id"
	AttributeKeyDepositor   = "depositor"
	AttributeKeyOwner       = "owner"
	AttributeKeyReceiver    = "receiver"
	AttributeKeyCaller      = "caller"
	AttributeKeyAmount      = "amount"
	AttributeKeyShares      = "shares"
	AttributeKeyFee         = "fee"
	AttributeKeySharePrice  = "share_price"
	AttributeKeyBurned      = "burned"
	AttributeKeyProfit      = "profit"
	AttributeKeyLoss        = "loss"
	AttributeKeyTotalAssets = "total_assets"
	AttributeKeyTotalShares = "total_shares"
	AttributeKeyCap         = "cap"
)
