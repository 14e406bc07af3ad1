package cmd

import (
	"fmt"

	"github.com/tokenized/settlement/pkg/bitcoin"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdGen = &cobra.Command{
	Use:   "gen",
	Short: "Generates a private key",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 0 {
			return errors.New("Incorrect argument count")
		}

		key, err := bitcoin.GenerateKey()
		if err != nil {
			fmt.Printf("Failed to generate key : %s\n", err)
			return nil
		}

		fmt.Printf("Key : %s\n", key.String())
		fmt.Printf("PubKey : %s\n", key.PublicKey().String())
		fmt.Printf("Addr : %s\n", key.Address().String())
		return nil
	},
}
