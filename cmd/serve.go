package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hance08/tally/internal/app"
	"github.com/hance08/tally/internal/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type serveRunner struct {
	app  *app.App
	addr string
}

func NewServeCmd(lazy *app.Lazy) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by the review front end:

  POST /api/import-csv          upload a CSV export (multipart field "file")
  POST /api/post-transactions   post approved bank transactions
  POST /api/reset-db            delete all ledger data
  GET  /api/bank-transactions   list bank transactions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := lazy.Get()
			if err != nil {
				return err
			}

			runner := &serveRunner{
				app:  a,
				addr: addr,
			}
			return runner.Run(cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func (r *serveRunner) Run(cmd *cobra.Command) error {
	cfg := r.app.Config.Server
	if r.addr != "" {
		cfg.Addr = r.addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printf("Listening on %s (database %s)\n", cfg.Addr, r.app.DBPath)
	return server.NewServer(r.app.Service, cfg, r.app.Log).Run(ctx)
}
