package main

import (
	"os"

	"github.com/openweb3-io/cryptocapital/cmd/cryptocap/setup"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:          "cryptocap",
		Short:        "Sign and send requests to the CryptoCapital API",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			args, err := setup.ArgsFromCmd(cmd)
			if err != nil {
				return err
			}
			cfg, err := setup.LoadConfig(args)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"endpoint": cfg.Endpoint,
				"driver":   cfg.Transport.Driver,
			}).Debug("config")

			cmd.SetContext(setup.WrapConfig(cmd.Context(), cfg))
			return nil
		},
	}
	setup.AddArgs(cmd)

	cmd.AddCommand(CmdKeygen())
	cmd.AddCommand(CmdSign())
	cmd.AddCommand(CmdSubmit())
	cmd.AddCommand(CmdListen())
	cmd.AddCommand(CmdConfig())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
