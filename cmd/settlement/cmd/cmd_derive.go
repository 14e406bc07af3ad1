package cmd

import (
	"fmt"
	"strconv"

	"github.com/tokenized/settlement/pkg/bitcoin"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdDerive = &cobra.Command{
	Use:   "derive [xkey index]",
	Short: "Derives an account key from an extended key, or generates an extended key",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			xkey, err := bitcoin.GenerateBIP32Key()
			if err != nil {
				fmt.Printf("Failed to generate extended key : %s\n", err)
				return nil
			}
			fmt.Printf("XKey : %s\n", xkey.String())
			return nil
		}

		if len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		xkey, err := bitcoin.BIP32KeyFromStr(args[0])
		if err != nil {
			fmt.Printf("Failed to parse extended key : %s\n", err)
			return nil
		}

		index, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			fmt.Printf("Failed to parse index : %s\n", err)
			return nil
		}

		child, err := xkey.ChildKey(uint32(index))
		if err != nil {
			fmt.Printf("Failed to derive child : %s\n", err)
			return nil
		}

		key, err := child.Key()
		if err != nil {
			fmt.Printf("Failed to create key : %s\n", err)
			return nil
		}

		fmt.Printf("XKey : %s\n", child.String())
		fmt.Printf("Key : %s\n", key.String())
		fmt.Printf("Public Key : %s\n", key.PublicKey().String())
		fmt.Printf("Address : %s\n", key.Address().String())
		return nil
	},
}
