package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/tokenized/settlement/cmd/settlement/bootstrap"
	"github.com/tokenized/settlement/internal/authority"
	"github.com/tokenized/settlement/internal/holdings"
	"github.com/tokenized/settlement/internal/settlement"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// environment is the engine and ledger built from the configuration.
type environment struct {
	ctx      context.Context
	engine   *settlement.Engine
	ledger   *holdings.Ledger
	registry *prometheus.Registry
}

func newEnvironment() *environment {
	ctx := bootstrap.NewContextWithDevelopmentLogger()
	cfg := bootstrap.NewConfigFromEnv(ctx)
	masterDB := bootstrap.NewMasterDB(ctx, cfg)

	registry := prometheus.NewRegistry()
	engine, ledger := bootstrap.NewEngine(ctx, cfg, masterDB,
		settlement.WithMetrics(settlement.NewMetrics(registry)))

	return &environment{
		ctx:      ctx,
		engine:   engine,
		ledger:   ledger,
		registry: registry,
	}
}

// accountProofs returns the account acting in a request and its proofs. The account is either a
//   key, which signs a proof here, or an address with proofs given by --proof.
func accountProofs(c *cobra.Command, account string,
	scope protocol.AuthScope) (bitcoin.RawAddress, []*authority.Proof, error) {

	if key, err := bitcoin.DecodeKeyString(account); err == nil {
		proof, err := authority.Sign(key, scope)
		if err != nil {
			return bitcoin.RawAddress{}, nil, errors.Wrap(err, "sign")
		}
		return key.Address(), []*authority.Proof{proof}, nil
	}

	address, err := bitcoin.DecodeAddress(account)
	if err != nil {
		return bitcoin.RawAddress{}, nil, errors.Wrap(err, "account is neither a key or address")
	}

	texts, _ := c.Flags().GetStringSlice(FlagProof)
	var proofs []*authority.Proof
	for _, text := range texts {
		proof, err := authority.DecodeProof(text)
		if err != nil {
			return bitcoin.RawAddress{}, nil, errors.Wrap(err, "proof")
		}
		proofs = append(proofs, proof)
	}

	return address, proofs, nil
}

// runOperation parses and executes a mutating operation. args are the account followed by the
//   request arguments.
func runOperation(c *cobra.Command, function string, args []string) error {
	if len(args) == 0 {
		return errors.New("Missing account")
	}

	req, err := parseRequest(function, args[1:])
	if err != nil {
		return err
	}

	env := newEnvironment()
	defer printMetrics(c, env.registry)

	account, proofs, err := accountProofs(c, args[0], req.scope(env.engine.ContractAddress()))
	if err != nil {
		return err
	}
	ctx := authority.ContextWithProofs(env.ctx, proofs...)

	switch function {
	case settlement.FunctionSend:
		err = env.engine.Send(ctx, account, req.receiver, req.sendAsset, req.amount)
	case settlement.FunctionExchange:
		err = env.engine.Exchange(ctx, account, req.receiver, req.sendAsset, req.receiveAsset,
			req.amount)
	case settlement.FunctionSwap:
		err = env.engine.Swap(ctx, account, req.receiver, req.sendAsset, req.receiveAsset,
			req.amount)
	case settlement.FunctionLoad:
		err = env.engine.LoadTokensIntoContract(ctx, req.sendAsset, account, req.amount)
	}
	if err != nil {
		if code := settlement.RejectionCode(err); code != protocol.RejectionCodeOK {
			fmt.Printf("Rejected (%d) : %s\n", code, err)
			return nil
		}
		return err
	}

	fmt.Printf("Settled %s\n", req.scope(env.engine.ContractAddress()))
	return nil
}

func printMetrics(c *cobra.Command, registry *prometheus.Registry) {
	if show, _ := c.Flags().GetBool(FlagMetrics); !show {
		return
	}

	families, err := registry.Gather()
	if err != nil {
		fmt.Printf("Failed to gather metrics : %s\n", err)
		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			var labels []string
			for _, label := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", label.GetName(), label.GetValue()))
			}

			switch {
			case metric.GetCounter() != nil:
				fmt.Printf("%s{%s} %v\n", family.GetName(), strings.Join(labels, ","),
					metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Printf("%s{%s} count %d sum %v\n", family.GetName(),
					strings.Join(labels, ","), metric.GetHistogram().GetSampleCount(),
					metric.GetHistogram().GetSampleSum())
			}
		}
	}
}
