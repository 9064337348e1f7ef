package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"warburtonsos/internal/core"
	"warburtonsos/pkg/domain"
)

// NewResetCommand creates the reset command.
func NewResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset <app>",
		Short: "Replace an app's records with its seed data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset discards every %s record; pass --yes to confirm", args[0])
			}
			rt, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			if _, err := rt.service.Dispatch(cmd.Context(), core.Command{App: domain.AppID(args[0]), Action: core.ActionReset}); err != nil {
				return err
			}
			m, _ := rt.module(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s reset to %d seed records\n", args[0], m.Len())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}
