package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

// GetQueryCmd returns the cli query commands for the vault module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "vault",
		Short:                      "Querying commands for the vault module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQuerySharePrice(),
		CmdQueryBalance(),
		CmdQueryRequest(),
		CmdQueryFees(),
	)

	return cmd
}

// CmdQueryPool returns the command to query a pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a vault pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID := args[0]

			// For MVP demo, return sample pool state
			pool := map[string]interface{}{
				"pool_id":      poolID,
				"status":       "active",
				"total_assets": "1000000.00",
				"total_shares": "952380.95",
				"share_price":  "1.05",
			}

			output, _ := json.MarshalIndent(pool, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQuerySharePrice returns the command to query the live share price
func CmdQuerySharePrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price [pool-id]",
		Short: "Query the current share price of a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID := args[0]
			fmt.Printf("Share price query for pool %s requires running node connection\n", poolID)
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryBalance returns the command to query a holder's shares
func CmdQueryBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [pool-id] [owner]",
		Short: "Query a holder's shares and their current value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Balance query for %s in pool %s requires running node connection\n", args[1], args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryRequest returns the command to query a redemption request
func CmdQueryRequest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request [pool-id] [owner]",
		Short: "Query a queued redemption request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Request query for %s in pool %s requires running node connection\n", args[1], args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryFees returns the command to query a pool's fee schedule
func CmdQueryFees() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees [pool-id]",
		Short: "Query a pool's fee schedule and pending collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Fee query for pool %s requires running node connection\n", args[0])
			return nil
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
