package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"warburtonsos/internal/report"
)

// NewPrintCommand creates the print command.
func NewPrintCommand(opts *RootOptions) *cobra.Command {
	var (
		as      string
		output  string
		archive bool
	)
	cmd := &cobra.Command{
		Use:   "print <app>",
		Short: "Render an app's report (html, csv or xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(as)
			if err != nil {
				return err
			}
			rt, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()
			m, err := rt.module(args[0])
			if err != nil {
				return err
			}
			table := m.Table()
			var buf bytes.Buffer
			if err := report.Render(&buf, table, format, time.Now()); err != nil {
				return err
			}
			if archive {
				info, err := rt.archive.Save(cmd.Context(), table, format, buf.Bytes())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "archived %s\n", info.Key)
			}
			if output == "" || output == "-" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			return os.WriteFile(output, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVar(&as, "as", "html", "document type (html|csv|xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&archive, "archive", false, "also store the document in the report archive")
	return cmd
}
