package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	FlagProof   = "proof"
	FlagMetrics = "metrics"
)

var settlementCmd = &cobra.Command{
	Use:   "settlement",
	Short: "Settlement CLI",
}

func Execute(buildVersion, buildDate, buildUser string) {
	settlementCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints the build version",
		Run: func(c *cobra.Command, args []string) {
			fmt.Printf("Build %s (%s on %s)\n", buildVersion, buildUser, buildDate)
		},
	})

	settlementCmd.AddCommand(cmdGen)
	settlementCmd.AddCommand(cmdDerive)
	settlementCmd.AddCommand(cmdAddress)
	settlementCmd.AddCommand(cmdAuthorize)
	settlementCmd.AddCommand(cmdSend)
	settlementCmd.AddCommand(cmdExchange)
	settlementCmd.AddCommand(cmdSwap)
	settlementCmd.AddCommand(cmdLoad)
	settlementCmd.AddCommand(cmdIssue)
	settlementCmd.AddCommand(cmdBalance)
	settlementCmd.AddCommand(cmdQuote)
	settlementCmd.Execute()
}

func init() {
	settlementCmd.PersistentFlags().Bool(FlagMetrics, false, "Print operation metrics on exit")
}
