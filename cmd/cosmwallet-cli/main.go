// cosmwallet-cli manages BIP-39 wallets and signs Cosmos SDK bank and
// staking transactions, optionally broadcasting them to a node.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/cosmwallet/config"
	klog "github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

var version = "0.1.0"

// app is the state shared by every subcommand once config is loaded.
type app struct {
	flags   *config.Flags
	cfg     *config.Config
	network types.Network
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cosmwallet-cli",
		Short:         "HD wallet and transaction signer for Cosmos SDK chains",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	a.flags = config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringVar(&passwordFile, "password-file", "", "Read the wallet password from this file")

	root.AddCommand(
		a.walletCmd(),
		a.addressCmd(),
		a.accountCmd(),
		a.balanceCmd(),
		a.sendCmd(),
		a.delegateCmd(),
		a.unbondCmd(),
		a.redelegateCmd(),
		a.broadcastCmd(),
		a.decodeCmd(),
		a.envCmd(),
	)
	return root
}

// load resolves configuration and initializes logging.
func (a *app) load() error {
	cfg, err := config.Load(a.flags)
	if err != nil {
		return err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	network, err := cfg.ChainNetwork()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.network = network

	klog.CLI.Debug().
		Str("network", cfg.Network).
		Str("chain_id", cfg.Node.ChainID).
		Str("datadir", cfg.DataDir).
		Msg("Config loaded")
	return nil
}

func (a *app) envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the COSMWALLET_* environment variables",
		Args:  cobra.NoArgs,
		// Works without a valid config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			return config.EnvUsage()
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if types.IsUserInputError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
