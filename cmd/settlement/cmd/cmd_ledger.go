package cmd

import (
	"fmt"

	"github.com/tokenized/settlement/internal/settlement"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdIssue = &cobra.Command{
	Use:   "issue <asset> <address> <amount>",
	Short: "Credits new supply of an asset to an address",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("Incorrect argument count")
		}

		asset := parseAsset(args[0])
		address, err := bitcoin.DecodeAddress(args[1])
		if err != nil {
			return errors.Wrap(err, "address")
		}
		amount, err := protocol.ParseAmount(args[2])
		if err != nil {
			return errors.Wrap(err, "amount")
		}

		env := newEnvironment()
		if err := env.ledger.Issue(env.ctx, asset, address, amount); err != nil {
			return err
		}

		supply, err := env.ledger.Supply(env.ctx, asset)
		if err != nil {
			return err
		}

		fmt.Printf("Issued %s of %s to %s\n", amount, asset, address)
		fmt.Printf("Supply : %s\n", supply)
		return nil
	},
}

var cmdBalance = &cobra.Command{
	Use:   "balance <asset> [address]",
	Short: "Prints the balance of an address, or of the contract reserves",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		env := newEnvironment()
		asset := parseAsset(args[0])

		address := env.engine.ContractAddress()
		if len(args) == 2 {
			var err error
			address, err = bitcoin.DecodeAddress(args[1])
			if err != nil {
				return errors.Wrap(err, "address")
			}
		}

		balance, err := env.engine.ReadBalance(env.ctx, asset, address)
		if err != nil {
			return err
		}

		fmt.Printf("%s : %s %s\n", address, balance, asset)
		return nil
	},
}

var cmdQuote = &cobra.Command{
	Use:   "quote <exchange|swap> <amount>",
	Short: "Prints what the receiver is paid for an exchange or swap",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		amount, err := protocol.ParseAmount(args[1])
		if err != nil {
			return errors.Wrap(err, "amount")
		}

		env := newEnvironment()
		payout, err := env.engine.Quote(args[0], amount)
		if err != nil {
			if errors.Cause(err) == settlement.ErrFeeExceedsAmount {
				fmt.Printf("Fee exceeds amount\n")
				return nil
			}
			return err
		}

		fmt.Printf("Payout : %s\n", payout)
		return nil
	},
}
