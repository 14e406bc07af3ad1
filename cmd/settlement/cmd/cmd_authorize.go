package cmd

import (
	"fmt"

	"github.com/tokenized/settlement/cmd/settlement/bootstrap"
	"github.com/tokenized/settlement/internal/authority"
	"github.com/tokenized/settlement/pkg/bitcoin"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdAuthorize = &cobra.Command{
	Use:   "authorize <key> <function> <args...>",
	Short: "Signs a proof authorizing one call",
	Long: "Signs a proof authorizing one call. The arguments are those of the matching " +
		"command after the account. The proof is given to that command with --proof.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("Incorrect argument count")
		}

		key, err := bitcoin.DecodeKeyString(args[0])
		if err != nil {
			return errors.Wrap(err, "key")
		}

		req, err := parseRequest(args[1], args[2:])
		if err != nil {
			return err
		}

		ctx := bootstrap.NewContextWithDevelopmentLogger()
		cfg := bootstrap.NewConfigFromEnv(ctx)
		contract := bootstrap.NewContractKey(ctx, cfg).Address()

		scope := req.scope(contract)
		proof, err := authority.Sign(key, scope)
		if err != nil {
			return errors.Wrap(err, "sign")
		}

		fmt.Printf("Account : %s\n", key.Address().String())
		fmt.Printf("Scope : %s\n", scope)
		fmt.Printf("Proof : %s\n", proof.String())
		return nil
	},
}
