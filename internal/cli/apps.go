package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type appSummary struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Records int               `json:"records"`
	Stored  bool              `json:"stored"`
	Badges  map[string]string `json:"badges"`
}

// NewAppsCommand creates the apps command.
func NewAppsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the hosted apps with record counts and badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			keys, err := rt.kv.Keys(cmd.Context())
			if err != nil {
				return fmt.Errorf("list storage keys: %w", err)
			}
			var out []appSummary
			for _, m := range rt.service.Modules() {
				table := m.Table()
				s := appSummary{
					ID:      string(m.App()),
					Title:   m.Title(),
					Records: m.Len(),
					Stored:  slices.Contains(keys, m.StorageKey()),
					Badges:  map[string]string{},
				}
				for _, b := range table.Badges {
					s.Badges[b.Label] = b.Value
				}
				out = append(out, s)
			}
			if opts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tRECORDS\tSTORED")
			for _, s := range out {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", s.ID, s.Title, s.Records, s.Stored)
			}
			return tw.Flush()
		},
	}
}
