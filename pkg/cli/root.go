// Package cli wires the manager behind a cobra command tree: an MCP serve
// command plus direct subcommands for listing, installing, and browsing.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/modekit"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type shutdownKey struct{}
type configKey struct{}

// configFromContext returns the config loaded by the root command.
func configFromContext(ctx context.Context) *modekit.Config {
	if cfg, ok := ctx.Value(configKey{}).(*modekit.Config); ok {
		return cfg
	}
	return modekit.DefaultConfig()
}

func NewRootCmd() *cobra.Command {
	var logFile string
	var logLevel string
	var logJSON bool
	var promptsDir string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "modekit",
		Short: "Manage VS Code chatmode and instruction files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// best-effort .env for MODEKIT_* and MCP_CHATMODE_READ_ONLY
			_ = godotenv.Load()

			ctx := cmd.Context()
			// respect a logger installed by tests via cmd.SetContext
			if !log.InContext(ctx) {
				out := os.Stderr
				if logFile != "" {
					f, err := os.OpenFile(logFile,
						os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
					if err != nil {
						return err
					}
					out = f
				}
				lg, shutdown, err := log.NewLogger(log.LoggerConfig{
					Version: Version,
					Out:     out,
					Level:   parseLevel(logLevel),
					JSON:    logJSON,
				})
				if err != nil {
					return err
				}
				ctx = log.ContextWithLogger(ctx, lg)
				ctx = context.WithValue(ctx, shutdownKey{}, shutdown)
			}

			cfg, err := modekit.ReadConfig()
			if err != nil {
				return err
			}
			if promptsDir != "" {
				cfg.PromptsDir = promptsDir
			}
			if readOnly {
				cfg.ReadOnly = true
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if v := cmd.Context().Value(shutdownKey{}); v != nil {
				if shutdown, ok := v.(func() error); ok {
					return shutdown()
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"minimum log level")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"output logs as JSON")
	cmd.PersistentFlags().StringVar(&promptsDir, "prompts-dir", "",
		"prompts directory (default: VS Code User prompts dir)")
	cmd.PersistentFlags().BoolVar(&readOnly, "read-only", false,
		"refuse all mutating operations")

	cmd.AddCommand(
		NewServeCmd(),
		NewListCmd(),
		NewInstallCmd(),
		NewLibraryCmd(),
	)

	return cmd
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
