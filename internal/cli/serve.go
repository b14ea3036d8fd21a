package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adminstack/pkg/server"
	"github.com/matzehuels/adminstack/pkg/session"
)

const sessionCleanupInterval = time.Hour

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ordering and session stacks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			go cleanupSessions(ctx, store, loggerFromContext(ctx))

			srv := server.New(store,
				server.WithLogger(loggerFromContext(ctx)),
				server.WithTTL(cfg.Session.TTL),
				server.WithTopLevel(cfg.UI.TopLevelTitle, cfg.UI.TopLevelURL),
			)
			printInfo(cmd.OutOrStdout(), "Serving on http://%s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

// cleanupSessions removes expired sessions every interval until ctx ends.
func cleanupSessions(ctx context.Context, store session.Store, logger *log.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
