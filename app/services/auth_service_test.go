package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := services.NewAuthService(newStore(t).Accounts)

	account, err := svc.Register(ctx, services.RegisterInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "Grace@Example.com",
		Password:  "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", account.Email)
	assert.Equal(t, auth.RoleUser, account.Role)
	assert.NotEqual(t, "secret1", account.Password)

	_, err = svc.Register(ctx, services.RegisterInput{
		FirstName: "G", LastName: "H", Email: "grace@example.com", Password: "secret2",
	})
	assertAppError(t, err, http.StatusBadRequest, "Email already registered")

	res, err := svc.Login(ctx, services.LoginInput{Email: "GRACE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, res.Role)

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)

	_, err = svc.Login(ctx, services.LoginInput{Email: "grace@example.com", Password: "wrong"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid credentials")

	_, err = svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid credentials")
}

func TestRegisterAdmin(t *testing.T) {
	svc := services.NewAuthService(newStore(t).Accounts)

	account, err := svc.Register(context.Background(), services.RegisterInput{
		FirstName: "Ad", LastName: "Min", Email: "admin@example.com", Password: "secret1", Role: auth.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, account.Role)
}
