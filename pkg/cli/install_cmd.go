package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modekit/modekit/pkg/modekit"
)

// NewInstallCmd installs a library entry into the prompts directory.
func NewInstallCmd() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "install <name>",
		Short: "Install a chatmode or instruction from the mode library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := modekit.Open(configFromContext(ctx))
			if err != nil {
				return err
			}
			doc, err := mgr.Install(ctx, modekit.InstallInput{Name: args[0], As: as})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "installed %s as %s\n", args[0], doc.Filename())
			return err
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "local name to store the document under")
	return cmd
}
