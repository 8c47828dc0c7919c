package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/server"
)

// shutdownTimeout bounds how long serve waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// newServeCommand creates the serve command for the local HTTP API.
func newServeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Addr string
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over a local HTTP API",
		Long: `Serve the board over a local HTTP API until interrupted.

The API exposes the board snapshot, every board operation, a shared drag
session and .wdeck export/import. Changes are saved as they happen.

Routes:
  GET    /api/board
  PUT    /api/board/{title,theme,weekend}
  POST   /api/days/:day/tasks
  DELETE /api/days/:day/tasks[?completed=true]
  PATCH  /api/days/:day/tasks/:index
  DELETE /api/days/:day/tasks/:index
  POST   /api/days/:day/tasks/:index/{duplicate,move}
  GET    /api/drag
  POST   /api/drag/{start,hover,leave,drop,cancel}
  GET    /api/export
  POST   /api/import

Task indexes start at 0.`,
		Example: `  # Serve on the configured address ([server] addr)
  weekdeck serve

  # Serve on another port
  weekdeck serve --addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := opts.Addr
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, err := c.OpenBoard(ctx)
			if err != nil {
				return err
			}
			srv := server.New(c, b.Store)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving board on http://%s (Ctrl+C to stop)\n", addr)
			runErr := srv.Run(ctx, addr, shutdownTimeout)
			if closeErr := b.Close(); closeErr != nil && runErr == nil {
				runErr = fmt.Errorf("save board: %w", closeErr)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from [server] addr)")
	return cmd
}
