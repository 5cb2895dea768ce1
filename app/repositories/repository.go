// Package repositories persists accounts, books, addresses and orders. The
// same interfaces are served by a MongoDB store and by a gorm store over any
// SQL driver pkg/database supports.
package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/inkwell/app/models"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale is returned when a conditional update finds the record in a
	// different state than expected.
	ErrStale = errors.New("record changed")
)

type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) error
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByIDs returns the accounts that exist, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error)
}

type BookRepository interface {
	Create(ctx context.Context, b *models.Book) error
	// All lists the catalogue newest first.
	All(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Book, error)
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *models.Address) error
	// ListByAccount lists an account's addresses oldest first.
	ListByAccount(ctx context.Context, accountID string) ([]models.Address, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
	// FindOwned matches on both id and owner.
	FindOwned(ctx context.Context, id, accountID string) (*models.Address, error)
	Update(ctx context.Context, a *models.Address) error
	DeleteOwned(ctx context.Context, id, accountID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	// ListByAccount and All list newest first.
	ListByAccount(ctx context.Context, accountID string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// TransitionStatus sets the status to `to` only while it is still `from`.
	// It returns ErrNotFound for an unknown id and ErrStale when the status
	// has already moved.
	TransitionStatus(ctx context.Context, id, from, to string) (*models.Order, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Driver    string
	Accounts  AccountRepository
	Books     BookRepository
	Addresses AddressRepository
	Orders    OrderRepository

	migrate func(ctx context.Context) error
}

// Migrate creates tables or indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func newID() string { return uuid.NewString() }

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
