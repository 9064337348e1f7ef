// Package cli implements the warburtonsd command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"warburtonsos/internal/config"
	"warburtonsos/internal/logging"
)

// RootOptions holds global flags and the state loaded before each command.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "text" | "json"

	cfg    *config.Config
	logger *zap.Logger
}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "warburtonsd",
		Short: "Warburtons OS desktop server",
		Long: `warburtonsd serves the Warburtons OS desktop: production schedule,
holiday planner, engineering repairs, profit & loss, inventory, KPI and
user management apps over a JSON API, plus printable reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Encoding, opts.Verbose)
			if err != nil {
				return err
			}
			opts.cfg, opts.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "warburtons.yaml", "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAppsCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
