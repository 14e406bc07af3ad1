package cmd

import (
	"github.com/tokenized/settlement/internal/settlement"

	"github.com/spf13/cobra"
)

var cmdSend = &cobra.Command{
	Use:   "send <account> <receiver> <asset> <amount>",
	Short: "Sends an asset from the account to the receiver",
	RunE: func(c *cobra.Command, args []string) error {
		return runOperation(c, settlement.FunctionSend, args)
	},
}

var cmdExchange = &cobra.Command{
	Use:   "exchange <account> <receiver> <send asset> <receive asset> <amount>",
	Short: "Exchanges an asset for another from the contract reserves, less the exchange fee",
	RunE: func(c *cobra.Command, args []string) error {
		return runOperation(c, settlement.FunctionExchange, args)
	},
}

var cmdSwap = &cobra.Command{
	Use:   "swap <account> <receiver> <send asset> <receive asset> <amount>",
	Short: "Swaps an asset for another from the contract reserves, less the swap fee",
	RunE: func(c *cobra.Command, args []string) error {
		return runOperation(c, settlement.FunctionSwap, args)
	},
}

var cmdLoad = &cobra.Command{
	Use:   "load <account> <asset> <amount>",
	Short: "Loads an asset from the account into the contract reserves",
	RunE: func(c *cobra.Command, args []string) error {
		return runOperation(c, settlement.FunctionLoad, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{cmdSend, cmdExchange, cmdSwap, cmdLoad} {
		c.Flags().StringSlice(FlagProof, nil,
			"Proof from the authorize command, when the account is an address")
	}
}
