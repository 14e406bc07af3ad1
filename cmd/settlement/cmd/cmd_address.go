package cmd

import (
	"fmt"

	"github.com/tokenized/settlement/cmd/settlement/bootstrap"

	"github.com/spf13/cobra"
)

var cmdAddress = &cobra.Command{
	Use:   "address",
	Short: "Prints the contract address that holds the reserves",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)

		key := bootstrap.NewContractKey(ctx, cfg)
		fmt.Printf("Contract : %s\n", key.Address().String())
		return nil
	},
}
