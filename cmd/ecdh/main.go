package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecdh/internal/config"
	"github.com/smallyu/go-ecdh/internal/crypto/curves"
)

var log = logging.Logger("ecdh-cli")

var (
	configPath string
	curveName  string
	logLevel   string
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ecdh",
		Short:        "Elliptic curve key establishment over prime fields",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logging.LevelFromString(logLevel)
			if err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			logging.SetAllLoggers(lvl)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file (defaults to $"+config.EnvConfigPath+")")
	flags.StringVar(&curveName, "curve", "", "named curve, overrides the configuration")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(curvesCmd(), keygenCmd(), exchangeCmd(), benchCmd())
	return root
}

// loadConfig returns the configuration file if one is given, the defaults
// otherwise. --curve overrides the configured curve.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, config.ErrNoConfig):
		cfg = config.Default()
	case err != nil:
		return nil, err
	default:
		log.Debugf("loaded configuration from %s", configPath)
	}

	if curveName != "" {
		cfg.Curve = config.CurveConfig{Name: curveName}
	}
	return cfg, nil
}

func curvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List the named curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range curves.Names() {
				c, err := curves.ByName(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-16s %4d-bit field, %4d-bit order\n", name, c.P().BitLen(), c.N().BitLen())
			}
			return nil
		},
	}
}
