package seeders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/database/seeders"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/testkit"
)

func newStore(t *testing.T) *repositories.Store {
	t.Helper()
	s := repositories.NewSQLStore(testkit.SQLite(t), "sqlite")
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRegistryOrder(t *testing.T) {
	assert.Equal(t, []string{"admin", "books"}, seeders.Names())
}

func TestRunAllIsIdempotent(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Set("SEED_ADMIN_EMAIL", "Root@Shop.test")
	config.Set("SEED_ADMIN_PASSWORD", "changeme")

	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, seeders.RunAll(ctx, store))
	require.NoError(t, seeders.RunAll(ctx, store))

	admin, err := store.Accounts.FindByEmail(ctx, "root@shop.test")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.Password, "changeme"))

	n, err := store.Books.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestAdminSkippedWithoutCredentials(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Set("SEED_ADMIN_EMAIL", "")

	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, seeders.SeedAdmin(ctx, store))

	_, err := store.Accounts.FindByEmail(ctx, "")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
