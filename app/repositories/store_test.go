package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
)

// storeSuite runs the behaviour every backend must share.
func storeSuite(t *testing.T, open func(t *testing.T) *repositories.Store) {
	t.Run("accounts", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		a := &models.Account{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "x", Role: "user"}
		require.NoError(t, s.Accounts.Create(ctx, a))
		require.NotEmpty(t, a.ID)

		got, err := s.Accounts.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)

		dup := &models.Account{FirstName: "A", LastName: "B", Email: "ada@example.com", Password: "x", Role: "user"}
		assert.ErrorIs(t, s.Accounts.Create(ctx, dup), repositories.ErrDuplicate)

		_, err = s.Accounts.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		byID, err := s.Accounts.FindByIDs(ctx, []string{a.ID, a.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, byID, 1)
		assert.Equal(t, "ada@example.com", byID[a.ID].Email)
	})

	t.Run("books", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		first := &models.Book{Title: "First", Author: "A", Price: 10}
		require.NoError(t, s.Books.Create(ctx, first))
		time.Sleep(5 * time.Millisecond)
		second := &models.Book{Title: "Second", Author: "B", Price: 12.5, Category: "Fiction"}
		require.NoError(t, s.Books.Create(ctx, second))

		all, err := s.Books.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Second", all[0].Title, "newest first")

		second.Price = 15
		second.CoverImage = "http://x/cover.png"
		require.NoError(t, s.Books.Update(ctx, second))
		got, err := s.Books.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, 15.0, got.Price)
		assert.Equal(t, "http://x/cover.png", got.CoverImage)

		assert.ErrorIs(t, s.Books.Update(ctx, &models.Book{ID: "missing", Title: "x"}), repositories.ErrNotFound)

		n, err := s.Books.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		require.NoError(t, s.Books.Delete(ctx, first.ID))
		assert.ErrorIs(t, s.Books.Delete(ctx, first.ID), repositories.ErrNotFound)

		many, err := s.Books.FindByIDs(ctx, []string{first.ID, second.ID})
		require.NoError(t, err)
		assert.Len(t, many, 1)
	})

	t.Run("addresses", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		a := &models.Address{AccountID: "acc-1", Email: "a@example.com", Name: "Home", Phone: "5551234", Street: "1 Main", City: "Town", State: "ST", Pincode: "12345"}
		require.NoError(t, s.Addresses.Create(ctx, a))
		other := &models.Address{AccountID: "acc-2", Name: "Other", Phone: "5551234", Street: "2 Main", City: "Town", State: "ST", Pincode: "12345"}
		require.NoError(t, s.Addresses.Create(ctx, other))

		n, err := s.Addresses.CountByAccount(ctx, "acc-1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		_, err = s.Addresses.FindOwned(ctx, other.ID, "acc-1")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		a.City = "City"
		require.NoError(t, s.Addresses.Update(ctx, a))
		list, err := s.Addresses.ListByAccount(ctx, "acc-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "City", list[0].City)

		assert.ErrorIs(t, s.Addresses.DeleteOwned(ctx, other.ID, "acc-1"), repositories.ErrNotFound)
		require.NoError(t, s.Addresses.DeleteOwned(ctx, a.ID, "acc-1"))
	})

	t.Run("orders", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		o := &models.Order{
			AccountID:   "acc-1",
			Items:       []models.OrderItem{{BookID: "b1", Title: "Book", Price: 9.99, Quantity: 2}},
			TotalAmount: 19.98,
			Address:     models.ShippingAddress{Name: "Home", Phone: "5551234", Street: "1 Main", City: "Town", State: "ST", Pincode: "12345"},
			Status:      models.StatusPending,
		}
		require.NoError(t, s.Orders.Create(ctx, o))

		got, err := s.Orders.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.Items, got.Items)
		assert.Equal(t, o.Address, got.Address)

		mine, err := s.Orders.ListByAccount(ctx, "acc-1")
		require.NoError(t, err)
		assert.Len(t, mine, 1)
		none, err := s.Orders.ListByAccount(ctx, "acc-2")
		require.NoError(t, err)
		assert.Empty(t, none)

		moved, err := s.Orders.TransitionStatus(ctx, o.ID, models.StatusPending, models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, moved.Status)

		stale, err := s.Orders.TransitionStatus(ctx, o.ID, models.StatusPending, models.StatusCancelled)
		assert.ErrorIs(t, err, repositories.ErrStale)
		assert.Equal(t, models.StatusConfirmed, stale.Status)

		_, err = s.Orders.TransitionStatus(ctx, "missing", models.StatusPending, models.StatusCancelled)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		all, err := s.Orders.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
