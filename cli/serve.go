package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rpupo63/blog-backend/api"
	"github.com/rpupo63/blog-backend/auth"
	"github.com/rpupo63/blog-backend/config"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := auth.NewTokenIssuerFromConfig(a.config)
			if err != nil {
				return err
			}

			db, err := a.db()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if migrate || config.GetBool(a.config, "AUTO_MIGRATE", false) {
				if err := database.Migrate(ctx, db); err != nil {
					return err
				}
				log.Info().Msg("schema migrated")
			}

			server, err := api.NewServer(database.New(db), a.config, issuer)
			if err != nil {
				return err
			}
			return server.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Migrate the schema before serving")
	return cmd
}
