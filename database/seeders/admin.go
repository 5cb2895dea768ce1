package seeders

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the administrator named by SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD. It does nothing when either is unset or the account
// already exists.
func SeedAdmin(ctx context.Context, store *repositories.Store) error {
	email := strings.ToLower(strings.TrimSpace(config.Get("SEED_ADMIN_EMAIL", "")))
	password := config.Get("SEED_ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		logger.Info("admin seeder skipped, SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD unset")
		return nil
	}

	_, err := store.Accounts.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return store.Accounts.Create(ctx, &models.Account{
		FirstName: "Store",
		LastName:  "Admin",
		Email:     email,
		Password:  hash,
		Role:      auth.RoleAdmin,
	})
}
