package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/example/bay-booking/internal/domain/booking"
	"github.com/example/bay-booking/internal/infrastructure/config"
	"github.com/example/bay-booking/internal/infrastructure/postgres"
)

func NewBayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bay",
		Short: "Bay pool management",
	}
	cmd.AddCommand(newBayAddCmd())
	cmd.AddCommand(newBayListCmd())
	return cmd
}

func newBayAddCmd() *cobra.Command {
	var id int
	var status string
	c := &cobra.Command{
		Use:   "add",
		Short: "Create a bay, or update its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := booking.BayStatus(status)
			if st != booking.BayAvailable && st != booking.BayUnavailable {
				return fmt.Errorf("status must be %s or %s", booking.BayAvailable, booking.BayUnavailable)
			}
			if id < 1 {
				return fmt.Errorf("bay id must be positive")
			}
			repo, done, err := openRepo()
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := repo.CreateBay(ctx, booking.Bay{ID: id, Status: st}); err != nil {
				return err
			}
			fmt.Printf("bay %d: %s\n", id, st)
			return nil
		},
	}
	c.Flags().IntVar(&id, "id", 0, "bay id")
	c.Flags().StringVar(&status, "status", string(booking.BayAvailable), "Available or Unavailable")
	_ = c.MarkFlagRequired("id")
	return c
}

func newBayListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bay pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo()
			if err != nil {
				return err
			}
			defer done()
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			bays, err := repo.ListBays(ctx)
			if err != nil {
				return err
			}
			for _, b := range bays {
				fmt.Printf("%d\t%s\n", b.ID, b.Status)
			}
			return nil
		},
	}
}

func openRepo() (*postgres.BookingRepo, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewBookingRepo(pool), pool.Close, nil
}
