package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/pkg/apperror"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/testkit"
)

func newStore(t *testing.T) *repositories.Store {
	t.Helper()
	s := repositories.NewSQLStore(testkit.SQLite(t), "sqlite")
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newAccount(t *testing.T, s *repositories.Store, email, role string) auth.Identity {
	t.Helper()
	a := &models.Account{FirstName: "Test", LastName: "User", Email: email, Password: "x", Role: role}
	require.NoError(t, s.Accounts.Create(context.Background(), a))
	return auth.Identity{AccountID: a.ID, Role: role}
}

func assertAppError(t *testing.T, err error, code int, message string) {
	t.Helper()
	appErr, ok := apperror.As(err)
	if !assert.True(t, ok, "expected *apperror.Error, got %v", err) {
		return
	}
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func ptr[T any](v T) *T { return &v }
