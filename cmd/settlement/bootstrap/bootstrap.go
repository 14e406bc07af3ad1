package bootstrap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tokenized/settlement/internal/authority"
	"github.com/tokenized/settlement/internal/holdings"
	"github.com/tokenized/settlement/internal/platform/config"
	"github.com/tokenized/settlement/internal/platform/db"
	"github.com/tokenized/settlement/internal/settlement"
	"github.com/tokenized/settlement/pkg/bitcoin"

	"github.com/tokenized/pkg/logger"
)

// NewContextWithDevelopmentLogger returns a context logging in the format, and to the file, named
//   by the environment.
func NewContextWithDevelopmentLogger() context.Context {
	ctx := context.Background()

	logCfg, err := config.LogEnvironment()
	if err != nil {
		logCfg = &config.LogConfig{Format: "text"}
	}

	var logConfig *logger.Config
	if strings.ToUpper(logCfg.Format) == "TEXT" {
		logConfig = logger.NewDevelopmentConfig()
		logConfig.IsText = true
	} else {
		logConfig = logger.NewDevelopmentConfig()
	}

	if len(logCfg.File) > 0 {
		logConfig.Main.AddFile(logCfg.File)
	}

	logConfig.EnableSubSystem(settlement.SubSystem)
	logConfig.EnableSubSystem(holdings.SubSystem)
	logConfig.EnableSubSystem(authority.SubSystem)

	ctx = logger.ContextWithLogConfig(ctx, logConfig)
	if err != nil {
		logger.Warn(ctx, "Parsing log config : %s", err)
	}

	return ctx
}

func NewConfigFromEnv(ctx context.Context) *config.Config {
	cfg, err := config.Environment()
	if err != nil {
		logger.Fatal(ctx, "Parsing Config : %s", err)
	}

	// Mask sensitive values
	cfgSafe := config.SafeConfig(*cfg)
	cfgJSON, err := json.MarshalIndent(cfgSafe, "", "    ")
	if err != nil {
		logger.Fatal(ctx, "Marshalling Config to JSON : %s", err)
	}
	logger.Verbose(ctx, "Config : %v", string(cfgJSON))

	return cfg
}

func NewMasterDB(ctx context.Context, cfg *config.Config) *db.DB {
	masterDB, err := db.New(&db.StorageConfig{
		Region:    cfg.Region,
		AccessKey: cfg.AccessKeyID,
		Secret:    cfg.SecretAccessKey,
		Bucket:    cfg.Bucket,
		Root:      cfg.Root,
	})
	if err != nil {
		logger.Fatal(ctx, "Register DB : %s", err)
	}

	return masterDB
}

func NewContractKey(ctx context.Context, cfg *config.Config) bitcoin.Key {
	if len(cfg.PrivateKey) == 0 {
		logger.Fatal(ctx, "Missing contract key (NODE_PRIV_KEY)")
	}

	key, err := bitcoin.DecodeKeyString(cfg.PrivateKey)
	if err != nil {
		logger.Fatal(ctx, "Invalid contract key : %s", err)
	}

	return key
}

func NewFees(ctx context.Context, cfg *config.Config) settlement.Fees {
	exchange, err := config.ParseFee(settlement.FunctionExchange, cfg.ExchangeFee)
	if err != nil {
		logger.Fatal(ctx, "Invalid fee : %s", err)
	}

	swap, err := config.ParseFee(settlement.FunctionSwap, cfg.SwapFee)
	if err != nil {
		logger.Fatal(ctx, "Invalid fee : %s", err)
	}

	return settlement.Fees{
		Exchange: exchange.Value,
		Swap:     swap.Value,
	}
}

// NewEngine returns an engine on the holdings stored in masterDB. Each operation is applied
//   completely or not at all.
func NewEngine(ctx context.Context, cfg *config.Config, masterDB *db.DB,
	opts ...settlement.Option) (*settlement.Engine, *holdings.Ledger) {

	key := NewContractKey(ctx, cfg)
	fees := NewFees(ctx, cfg)

	ledger := holdings.NewLedger(masterDB, key.Address())
	authorizer := authority.NewSignatureAuthority(masterDB)

	opts = append([]settlement.Option{settlement.WithExecutor(ledger)}, opts...)
	engine := settlement.NewEngine(key.Address(), authorizer, ledger, fees, opts...)

	logger.Verbose(ctx, "Contract %s : exchange fee %s, swap fee %s", key.Address(),
		fees.Exchange, fees.Swap)

	return engine, ledger
}
