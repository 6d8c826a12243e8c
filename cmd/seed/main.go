package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"food_logger/internal/app/config"
	"food_logger/internal/app/di"
	"food_logger/internal/app/seed"
	"food_logger/internal/platform/db"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		truncate bool
		migrate  bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, recipes and meals into the database",
		Long: "seed inserts three demo users (password " + seed.DemoPassword + "), their recipes and meals\n" +
			"in a single transaction. Database settings come from the same config file and\n" +
			"environment variables as the server.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gdb, err := db.Open(cfg.DB, cfg.DBConnectTimeout)
			if err != nil {
				return err
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}
			if migrate || cfg.RunMigrations {
				if err := db.Migrate(gdb, di.Models()...); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := seed.Run(ctx, gdb, seed.Options{Truncate: truncate, BcryptCost: cfg.BcryptCost})
			if err != nil {
				slog.Error("seeding failed", "error", err)
				return err
			}
			slog.Info("finished seeding database",
				"users", len(res.UserIDs), "recipes", len(res.RecipeIDs), "meals", len(res.MealIDs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&truncate, "truncate", false, "delete all rows before seeding")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create or update tables before seeding")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	return cmd
}
