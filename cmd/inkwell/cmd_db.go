package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/database/seeders"
	"github.com/shashiranjanraj/inkwell/internal/server"
	"github.com/shashiranjanraj/inkwell/pkg/database"
)

// withStore loads config, opens the store and closes it when fn returns.
func withStore(ctx context.Context, fn func(*repositories.Store) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	store, err := server.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close(ctx)
	return fn(store)
}

// inkwell migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or collection indexes for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withStore(ctx, func(store *repositories.Store) error {
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			fmt.Printf("Migrated %s store.\n", store.Driver)
			return nil
		})
	},
}

// inkwell seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withStore(ctx, func(store *repositories.Store) error {
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			if err := seeders.RunAll(ctx, store); err != nil {
				return err
			}
			fmt.Println("Seeding complete.")
			return nil
		})
	},
}
