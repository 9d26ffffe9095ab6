package cli

import (
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/rivervault/x/vault/types"
)

const (
	flagReceiver  = "receiver"
	flagOwner     = "owner"
	flagMinShares = "min-shares"
	flagMinAssets = "min-assets"
	flagMaxShares = "max-shares"
	flagMaxAssets = "max-assets"
)

// GetTxCmd returns the transaction commands for the vault module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "vault",
		Short:                      "Vault module transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdDeposit(),
		CmdMint(),
		CmdWithdraw(),
		CmdRedeem(),
		CmdRequestRedeem(),
		CmdRequestWithdraw(),
		CmdCancelRedeemRequest(),
		CmdClaimRedeem(),
		CmdApproveShares(),
	)

	return cmd
}

// CmdDeposit returns the command to deposit assets into a pool
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [pool-id] [amount]",
		Short: "Deposit assets into a vault pool for shares",
		Long: `Deposit assets into a vault pool and receive shares at the
current share price, net of the entry fee.

Examples:
  rivervaultd tx vault deposit usd-vault 1000 --from alice
  rivervaultd tx vault deposit usd-vault 1000 --min-shares 990 --from alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			receiver, _ := cmd.Flags().GetString(flagReceiver)
			minShares, _ := cmd.Flags().GetString(flagMinShares)

			msg := &types.MsgDeposit{
				Depositor: clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
				Amount:    args[1],
				Receiver:  receiver,
				MinShares: minShares,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagReceiver, "", "account to credit the shares to")
	cmd.Flags().String(flagMinShares, "", "abort unless at least this many shares are minted")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdMint returns the command to mint an exact share amount
func CmdMint() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint [pool-id] [shares]",
		Short: "Deposit whatever assets are needed for an exact share amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			receiver, _ := cmd.Flags().GetString(flagReceiver)
			maxAssets, _ := cmd.Flags().GetString(flagMaxAssets)

			msg := &types.MsgMint{
				Depositor: clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
				Shares:    args[1],
				Receiver:  receiver,
				MaxAssets: maxAssets,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagReceiver, "", "account to credit the shares to")
	cmd.Flags().String(flagMaxAssets, "", "abort if the deposit would cost more than this")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to withdraw an exact asset amount
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id] [amount]",
		Short: "Burn shares for an exact asset amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			receiver, _ := cmd.Flags().GetString(flagReceiver)
			owner, _ := cmd.Flags().GetString(flagOwner)
			maxShares, _ := cmd.Flags().GetString(flagMaxShares)

			msg := &types.MsgWithdraw{
				Caller:    clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
				Amount:    args[1],
				Receiver:  receiver,
				Owner:     owner,
				MaxShares: maxShares,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagReceiver, "", "account to pay the assets to")
	cmd.Flags().String(flagOwner, "", "share owner, when spending an allowance")
	cmd.Flags().String(flagMaxShares, "", "abort if the withdrawal would burn more shares than this")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRedeem returns the command to redeem an exact share amount
func CmdRedeem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem [pool-id] [shares]",
		Short: "Burn an exact share amount for assets",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			receiver, _ := cmd.Flags().GetString(flagReceiver)
			owner, _ := cmd.Flags().GetString(flagOwner)
			minAssets, _ := cmd.Flags().GetString(flagMinAssets)

			msg := &types.MsgRedeem{
				Caller:    clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
				Shares:    args[1],
				Receiver:  receiver,
				Owner:     owner,
				MinAssets: minAssets,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagReceiver, "", "account to pay the assets to")
	cmd.Flags().String(flagOwner, "", "share owner, when spending an allowance")
	cmd.Flags().String(flagMinAssets, "", "abort unless at least this many assets are paid out")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRequestRedeem returns the command to queue a redemption
func CmdRequestRedeem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request-redeem [pool-id] [shares]",
		Short: "Queue shares for redemption at the current share price",
		Long: `Queue shares for asynchronous redemption. The request locks the
current share price; after the redemption lock expires it becomes claimable
and settles at the lower of the locked and then-current prices.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			owner, _ := cmd.Flags().GetString(flagOwner)

			msg := &types.MsgRequestRedeem{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Shares: args[1],
				Owner:  owner,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagOwner, "", "share owner, when spending an allowance")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRequestWithdraw returns the command to queue an asset-quoted redemption
func CmdRequestWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request-withdraw [pool-id] [amount]",
		Short: "Queue an asset amount for redemption at the current share price",
		Long: `Queue an asset-quoted redemption. The amount is converted to
shares at the current share price and joins the queue like request-redeem.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			owner, _ := cmd.Flags().GetString(flagOwner)

			msg := &types.MsgRequestWithdraw{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Amount: args[1],
				Owner:  owner,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagOwner, "", "share owner, when spending an allowance")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCancelRedeemRequest returns the command to cancel a queued redemption
func CmdCancelRedeemRequest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel-redeem [pool-id]",
		Short: "Cancel a queued redemption request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			owner, _ := cmd.Flags().GetString(flagOwner)

			msg := &types.MsgCancelRedeemRequest{
				Caller: clientCtx.GetFromAddress().String(),
				PoolID: args[0],
				Owner:  owner,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagOwner, "", "request owner, for an operator cancel")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimRedeem returns the command to settle a claimable redemption
func CmdClaimRedeem() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-redeem [pool-id]",
		Short: "Settle the claimable part of a redemption request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}
			receiver, _ := cmd.Flags().GetString(flagReceiver)
			owner, _ := cmd.Flags().GetString(flagOwner)
			minAssets, _ := cmd.Flags().GetString(flagMinAssets)

			msg := &types.MsgClaimRedeem{
				Caller:    clientCtx.GetFromAddress().String(),
				PoolID:    args[0],
				Receiver:  receiver,
				Owner:     owner,
				MinAssets: minAssets,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(flagReceiver, "", "account to pay the assets to")
	cmd.Flags().String(flagOwner, "", "request owner, when spending an allowance")
	cmd.Flags().String(flagMinAssets, "", "abort unless at least this many assets are paid out")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdApproveShares returns the command to grant a share allowance
func CmdApproveShares() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [pool-id] [spender] [shares]",
		Short: "Allow another account to redeem shares on your behalf",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgApproveShares{
				Owner:   clientCtx.GetFromAddress().String(),
				PoolID:  args[0],
				Spender: args[1],
				Shares:  args[2],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
