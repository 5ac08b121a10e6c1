package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/modekit/modekit/pkg/modekit"
)

// NewLibraryCmd browses the remote library index.
func NewLibraryCmd() *cobra.Command {
	var search string
	var category string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse the mode library",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := modekit.Open(configFromContext(ctx))
			if err != nil {
				return err
			}

			if refresh {
				snap, err := mgr.RefreshLibrary(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "library refreshed: %d entries\n", len(snap.Entries))
			}

			res, err := mgr.Browse(ctx, search, category)
			if err != nil {
				return err
			}
			if res.Stale {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: library index could not be refreshed; showing cached data")
			}
			if len(res.Entries) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no matching library entries")
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range res.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.Name, e.Kind, e.Description, strings.Join(e.Tags, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by name, description, or tag substring")
	cmd.Flags().StringVar(&category, "category", "", "filter by kind, category, or tag")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "force a refresh of the library index first")
	return cmd
}
