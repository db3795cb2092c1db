package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/example/bay-booking/internal/application/usecases"
	"github.com/example/bay-booking/internal/infrastructure/config"
	"github.com/example/bay-booking/internal/infrastructure/postgres"
	"github.com/example/bay-booking/internal/interfaces/web"
)

func NewServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the fulfillment webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}

			store := postgres.NewBookingRepo(pool)
			create := usecases.CreateBooking{Store: store}
			cancelBooking := usecases.CancelBooking{Store: store}

			srv := web.New(cfg.HTTPAddr, create, cancelBooking, pool, cfg.StoreTimeout)
			return srv.ListenAndServe()
		},
	}
}
