package cli

import (
	"github.com/spf13/cobra"

	"github.com/modekit/modekit/pkg/log"
	mcpserver "github.com/modekit/modekit/pkg/mcp"
	"github.com/modekit/modekit/pkg/modekit"
	"github.com/modekit/modekit/pkg/store"
)

// NewServeCmd runs the MCP server over stdio. Logs go to stderr (or the
// configured log file); stdout carries the protocol.
func NewServeCmd() *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := modekit.Open(configFromContext(ctx))
			if err != nil {
				return err
			}

			if fs, ok := mgr.Store().(*store.FsStore); ok && !noWatch {
				go func() {
					// watcher exit is not fatal; reads self-heal via stat checks
					if err := fs.Watch(ctx); err != nil {
						log.FromContext(ctx).Debug("prompts watcher stopped", "error", err)
					}
				}()
			}

			srv, err := mcpserver.NewServer(mgr, Version, log.FromContext(ctx))
			if err != nil {
				return err
			}
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false,
		"disable the prompts directory watcher")
	return cmd
}
