package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/carevo/internal/server"
	"github.com/csheth/carevo/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notes API",
		Long: heredoc.Doc(`
			Serve the notes API that the dashboard talks to. Notes are kept in a JSON file
			or in a bbolt database.
		`),
		Example: heredoc.Doc(`
			carevo serve
			carevo serve --addr :8080 --data ./notes.json
			carevo serve --backend bbolt --data ./notes.db
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo, err := store.Open(a.cfg.Server.Backend, a.cfg.Server.DataPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					a.logger.Warn("close repository", zap.Error(err))
				}
			}()

			srv := server.New(repo, a.logger)
			a.logger.Info("notes API listening",
				zap.String("addr", a.cfg.Server.Addr),
				zap.String("backend", a.cfg.Server.Backend),
				zap.String("data", a.cfg.Server.DataPath))
			return server.Run(ctx, a.cfg.Server.Addr, srv.Handler(), a.logger)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :5000)")
	cmd.Flags().String("backend", "", "storage backend: json or bbolt")
	cmd.Flags().String("data", "", "path of the notes file or database")
	return cmd
}
