package seeders

import (
	"context"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
)

func init() {
	Register("books", SeedBooks)
}

var starterCatalogue = []models.Book{
	{Title: "The Pragmatic Programmer", Author: "David Thomas", Price: 39.99, Category: "Technology"},
	{Title: "Dune", Author: "Frank Herbert", Price: 9.99, Category: "Fiction"},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Price: 14.50, Category: "Non-Fiction"},
	{Title: "Atomic Habits", Author: "James Clear", Price: 11.25, Category: "Self Help"},
}

// SeedBooks fills an empty catalogue with a few starter titles.
func SeedBooks(ctx context.Context, store *repositories.Store) error {
	n, err := store.Books.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, b := range starterCatalogue {
		book := b
		if err := store.Books.Create(ctx, &book); err != nil {
			return err
		}
	}
	return nil
}
