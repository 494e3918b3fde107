package setup

import (
	"context"

	"github.com/openweb3-io/cryptocapital/config"
	"github.com/openweb3-io/cryptocapital/factory"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type ContextKey string

const (
	ContextConfig  ContextKey = "config"
	ContextFactory ContextKey = "factory"
)

func WrapConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ContextConfig, cfg)
}

func UnwrapConfig(ctx context.Context) *config.Config {
	return ctx.Value(ContextConfig).(*config.Config)
}

func WrapFactory(ctx context.Context, f *factory.Factory) context.Context {
	return context.WithValue(ctx, ContextFactory, f)
}

// UnwrapFactory returns the wrapped factory, or a default one.
func UnwrapFactory(ctx context.Context) *factory.Factory {
	if f, ok := ctx.Value(ContextFactory).(*factory.Factory); ok {
		return f
	}
	return factory.NewFactory()
}

type Args struct {
	ConfigPath string
	Endpoint   string
	Debug      bool
}

func AddArgs(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a YAML config file. Optional.")
	cmd.PersistentFlags().String("endpoint", "", "Service URL, overrides the config. Optional.")
	cmd.PersistentFlags().Bool("debug", false, "Log at debug level.")
}

func ArgsFromCmd(cmd *cobra.Command) (*Args, error) {
	path, _ := cmd.Flags().GetString("config")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	debug, _ := cmd.Flags().GetBool("debug")
	return &Args{
		ConfigPath: path,
		Endpoint:   endpoint,
		Debug:      debug,
	}, nil
}

func LoadConfig(args *Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	if args.Endpoint != "" {
		cfg.Endpoint = args.Endpoint
	}
	if args.Debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return cfg, nil
}

func AddOperationFlags(cmd *cobra.Command) {
	cmd.Flags().String("account", "", "Account number (TRANSFER, STATEMENT, ACCOUNT).")
	cmd.Flags().String("beneficiary", "", "Beneficiary account (TRANSFER).")
	cmd.Flags().String("currency", "", "Currency code (TRANSFER).")
	cmd.Flags().String("amount", "", "Decimal amount (TRANSFER).")
}

// OperationFromArgs parses the operation name and collects its params from flags. Unset
// flags are left out so that validation names the missing field.
func OperationFromArgs(cmd *cobra.Command, name string) (types.Operation, types.Params, error) {
	op, err := types.ParseOperation(name)
	if err != nil {
		return "", nil, err
	}

	params := types.Params{}
	flags := map[string]string{
		"account":     types.FieldAccountNumber,
		"beneficiary": types.FieldBeneficiary,
		"currency":    types.FieldCurrency,
	}
	for flag, field := range flags {
		if value, _ := cmd.Flags().GetString(flag); value != "" {
			params[field] = value
		}
	}
	if raw, _ := cmd.Flags().GetString("amount"); raw != "" {
		if amount, err := types.NewAmountFromStr(raw); err == nil {
			params[types.FieldAmount] = amount
		} else {
			params[types.FieldAmount] = raw
		}
	}
	return op, params, nil
}
