package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/modekit/modekit/pkg/modekit"
	"github.com/modekit/modekit/pkg/prompt"
)

// NewListCmd prints the stored documents of a kind.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list [chatmode|instruction]",
		Short:     "List stored chatmodes or instructions",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"chatmode", "instruction"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := prompt.KindChatmode
			if len(args) == 1 {
				k, err := prompt.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			}

			ctx := cmd.Context()
			mgr, err := modekit.Open(configFromContext(ctx))
			if err != nil {
				return err
			}
			summaries, err := mgr.ListSummaries(ctx, kind)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "no %s files in %s\n", kind, mgr.PromptsDir())
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range summaries {
				desc := s.Description
				if desc == "" {
					desc = s.Title
				}
				fmt.Fprintf(w, "%s\t%s\n", s.Name, desc)
			}
			return w.Flush()
		},
	}
	return cmd
}
