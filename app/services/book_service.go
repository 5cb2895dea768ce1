package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/pkg/apperror"
	"github.com/shashiranjanraj/inkwell/pkg/cache"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
	"github.com/shashiranjanraj/inkwell/pkg/storage"
)

// BooksCacheKey holds the serialised catalogue.
const BooksCacheKey = "books:all"

// ImageStore turns an uploaded cover into a public URL.
type ImageStore interface {
	Validate(f storage.ImageFile) error
	Store(ctx context.Context, f storage.ImageFile, name string) (string, error)
	Remove(ctx context.Context, url string) error
}

// BookInput is the body of POST /api/books, as JSON or form fields.
type BookInput struct {
	Title    string   `json:"title" validate:"max=255"`
	Author   string   `json:"author" validate:"max=255"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0,lte=1000000"`
	Category string   `json:"category" validate:"omitempty,category"`
}

// BookPatch is the body of PUT /api/books/{id}. Absent fields keep their
// stored value; an empty category clears it.
type BookPatch struct {
	Title    *string  `json:"title" validate:"omitempty,max=255"`
	Author   *string  `json:"author" validate:"omitempty,max=255"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0,lte=1000000"`
	Category *string  `json:"category" validate:"omitempty,category"`
}

type BookService struct {
	books    repositories.BookRepository
	images   ImageStore
	maxBytes int64
	cacheTTL time.Duration
}

// NewBookService builds the catalogue service. images may be nil, in which
// case uploads are accepted but dropped.
func NewBookService(books repositories.BookRepository, images ImageStore, maxUploadBytes int64, cacheTTL time.Duration) *BookService {
	return &BookService{books: books, images: images, maxBytes: maxUploadBytes, cacheTTL: cacheTTL}
}

// List returns the catalogue newest first, from the cache when possible.
func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if cache.Get(ctx, BooksCacheKey, &books) {
		return books, nil
	}

	books, err := s.books.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, BooksCacheKey, books, s.cacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("books: cache write failed", "error", err)
	}
	return books, nil
}

// Search filters the catalogue by a case-insensitive substring of title,
// author or category. A blank query returns the full list.
func (s *BookService) Search(ctx context.Context, q string) ([]models.Book, error) {
	books, err := s.List(ctx)
	if err != nil || strings.TrimSpace(q) == "" {
		return books, err
	}

	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if b.Matches(q) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Add creates a book. A cover that cannot be stored leaves CoverImage empty.
func (s *BookService) Add(ctx context.Context, in BookInput, image *storage.ImageFile) (*models.Book, error) {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	if title == "" || author == "" || in.Price == nil || *in.Price == 0 {
		return nil, apperror.BadRequest("Title, author, and price are required")
	}
	if *in.Price < 0 {
		return nil, apperror.Invalid(map[string]string{"price": "The price must be greater than 0."})
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:    title,
		Author:   author,
		Price:    *in.Price,
		Category: strings.TrimSpace(in.Category),
	}
	if image != nil {
		book.CoverImage = s.storeImage(ctx, *image)
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return book, nil
}

// Update merges patch over the stored book and optionally replaces the
// cover.
func (s *BookService) Update(ctx context.Context, id string, patch BookPatch, image *storage.ImageFile) (*models.Book, error) {
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, apperror.Invalid(map[string]string{"price": "The price must be greater than 0."})
	}
	if err := s.checkImage(image); err != nil {
		return nil, err
	}

	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Book not found")
	}
	if err != nil {
		return nil, err
	}

	errs := map[string]string{}
	if patch.Title != nil {
		if t := strings.TrimSpace(*patch.Title); t != "" {
			book.Title = t
		} else {
			errs["title"] = "The title field is required."
		}
	}
	if patch.Author != nil {
		if a := strings.TrimSpace(*patch.Author); a != "" {
			book.Author = a
		} else {
			errs["author"] = "The author field is required."
		}
	}
	if len(errs) > 0 {
		return nil, apperror.Invalid(errs)
	}
	if patch.Price != nil {
		book.Price = *patch.Price
	}
	if patch.Category != nil {
		book.Category = strings.TrimSpace(*patch.Category)
	}

	previous := book.CoverImage
	if image != nil {
		if url := s.storeImage(ctx, *image); url != "" {
			book.CoverImage = url
		}
	}

	err = s.books.Update(ctx, book)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("Book not found")
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if previous != "" && previous != book.CoverImage {
		s.removeImage(ctx, previous)
	}
	return book, nil
}

// Delete removes a book and its stored cover.
func (s *BookService) Delete(ctx context.Context, id string) error {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound("Book not found")
	}
	if err != nil {
		return err
	}

	err = s.books.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound("Book not found")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)

	if book.CoverImage != "" {
		s.removeImage(ctx, book.CoverImage)
	}
	return nil
}

func (s *BookService) checkImage(image *storage.ImageFile) error {
	if image == nil {
		return nil
	}
	if s.maxBytes > 0 && image.Size > s.maxBytes {
		return apperror.BadRequest(fmt.Sprintf("Image must not exceed %d MB", s.maxBytes>>20))
	}
	if s.images == nil {
		return nil
	}
	switch err := s.images.Validate(*image); {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotImage):
		return apperror.BadRequest("Only image files are allowed")
	case errors.Is(err, storage.ErrTooLarge):
		return apperror.BadRequest(fmt.Sprintf("Image must not exceed %d MB", s.maxBytes>>20))
	default:
		return apperror.Internal("Failed to read image", err)
	}
}

// storeImage returns "" when the image cannot be stored.
func (s *BookService) storeImage(ctx context.Context, image storage.ImageFile) string {
	log := logger.WithCtx(ctx)
	if s.images == nil {
		log.Warn("books: image uploaded but no storage is configured, cover not saved")
		return ""
	}

	name := strings.TrimSuffix(filepath.Base(image.Filename), filepath.Ext(image.Filename))
	url, err := s.images.Store(ctx, image, name)
	if err != nil {
		log.Warn("books: cover upload failed, saving without image", "file", image.Filename, "error", err)
		return ""
	}
	return url
}

func (s *BookService) removeImage(ctx context.Context, url string) {
	if s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		logger.WithCtx(ctx).Warn("books: stale cover not removed", "url", url, "error", err)
	}
}

func (s *BookService) invalidate(ctx context.Context) {
	if err := cache.Forget(ctx, BooksCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("books: cache invalidation failed", "error", err)
	}
}
