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

func homeAddress() services.AddressInput {
	return services.AddressInput{
		Name:    "Home",
		Phone:   "+15551234567",
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Pincode: "62701",
	}
}

func TestAddressAdminIsForbidden(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := services.NewAddressService(store.Accounts, store.Addresses)
	admin := newAccount(t, store, "admin@example.com", auth.RoleAdmin)

	_, err := svc.Add(ctx, admin, homeAddress())
	assertAppError(t, err, http.StatusForbidden, "Admin cannot add address")

	_, err = svc.List(ctx, admin)
	assertAppError(t, err, http.StatusForbidden, "")

	_, err = svc.Update(ctx, admin, "any", services.AddressPatch{})
	assertAppError(t, err, http.StatusForbidden, "Admin cannot edit address")

	err = svc.Delete(ctx, admin, "any")
	assertAppError(t, err, http.StatusForbidden, "")
}

func TestAddressCap(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := services.NewAddressService(store.Accounts, store.Addresses)
	user := newAccount(t, store, "u@example.com", auth.RoleUser)

	first, err := svc.Add(ctx, user, homeAddress())
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", first.Email)

	_, err = svc.Add(ctx, user, homeAddress())
	require.NoError(t, err)

	_, err = svc.Add(ctx, user, homeAddress())
	assertAppError(t, err, http.StatusBadRequest, "Maximum 2 addresses allowed")

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, services.MaxAddresses)

	require.NoError(t, svc.Delete(ctx, user, first.ID))
	_, err = svc.Add(ctx, user, homeAddress())
	assert.NoError(t, err, "a freed slot can be reused")
}

func TestAddressUnknownAccount(t *testing.T) {
	store := newStore(t)
	svc := services.NewAddressService(store.Accounts, store.Addresses)

	_, err := svc.Add(context.Background(), auth.Identity{AccountID: "ghost", Role: auth.RoleUser}, homeAddress())
	assertAppError(t, err, http.StatusNotFound, "User not found")
}

func TestAddressValidation(t *testing.T) {
	store := newStore(t)
	svc := services.NewAddressService(store.Accounts, store.Addresses)
	user := newAccount(t, store, "u@example.com", auth.RoleUser)

	in := homeAddress()
	in.Phone = "call me"
	in.City = ""
	_, err := svc.Add(context.Background(), user, in)
	assertAppError(t, err, http.StatusBadRequest, "Validation failed")
}

func TestAddressPartialUpdate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := services.NewAddressService(store.Accounts, store.Addresses)
	user := newAccount(t, store, "u@example.com", auth.RoleUser)
	other := newAccount(t, store, "o@example.com", auth.RoleUser)

	a, err := svc.Add(ctx, user, homeAddress())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user, a.ID, services.AddressPatch{City: ptr("Shelbyville")})
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)
	assert.Equal(t, "1 Main St", updated.Street, "absent fields keep their value")

	_, err = svc.Update(ctx, user, a.ID, services.AddressPatch{Name: ptr("  ")})
	assertAppError(t, err, http.StatusBadRequest, "Validation failed")

	_, err = svc.Update(ctx, other, a.ID, services.AddressPatch{City: ptr("Elsewhere")})
	assertAppError(t, err, http.StatusNotFound, "Address not found")

	err = svc.Delete(ctx, other, a.ID)
	assertAppError(t, err, http.StatusNotFound, "Address not found")

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Shelbyville", list[0].City)
}
