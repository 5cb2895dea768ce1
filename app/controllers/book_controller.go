package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inkwell/app/services"
	"github.com/shashiranjanraj/inkwell/pkg/ctx"
)

// imageField is the multipart part carrying a cover image.
const imageField = "image"

type BookController struct {
	service   *services.BookService
	maxUpload int64
}

func NewBookController(service *services.BookService, maxUpload int64) *BookController {
	return &BookController{service: service, maxUpload: maxUpload}
}

// Index handles GET /api/books. An optional ?q= narrows the list.
func (h *BookController) Index(c *ctx.Context) {
	books, err := h.service.Search(c.Context(), c.Query("q"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(books)
}

// Store handles POST /api/books as JSON or multipart with an optional image.
func (h *BookController) Store(c *ctx.Context) {
	var in services.BookInput
	files, ok := c.BindBody(&in, h.maxUpload, imageField)
	if !ok {
		return
	}

	book, err := h.service.Add(c.Context(), in, imageFrom(files, imageField))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Book added successfully", book)
}

// Update handles PUT /api/books/{id}.
func (h *BookController) Update(c *ctx.Context) {
	var in services.BookPatch
	files, ok := c.BindBody(&in, h.maxUpload, imageField)
	if !ok {
		return
	}

	book, err := h.service.Update(c.Context(), c.Param("id"), in, imageFrom(files, imageField))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Book updated successfully", book)
}

// Destroy handles DELETE /api/books/{id}.
func (h *BookController) Destroy(c *ctx.Context) {
	if err := h.service.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusOK, "Book deleted successfully", nil)
}
