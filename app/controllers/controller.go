// Package controllers maps HTTP requests onto the services and writes the
// JSON envelope. Controllers hold no business rules.
package controllers

import (
	"io"

	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/bind"
	"github.com/shashiranjanraj/inkwell/pkg/ctx"
	"github.com/shashiranjanraj/inkwell/pkg/storage"
)

// caller returns the authenticated identity, writing a 401 when the route
// was mounted without AuthMiddleware.
func caller(c *ctx.Context) (auth.Identity, bool) {
	id, ok := c.Identity()
	if !ok {
		c.Unauthorized("No token provided")
	}
	return id, ok
}

// imageFrom adapts the named multipart file for pkg/storage.
func imageFrom(files map[string]*bind.File, field string) *storage.ImageFile {
	f, ok := files[field]
	if !ok || f == nil || f.Header == nil {
		return nil
	}
	h := f.Header
	return &storage.ImageFile{
		Filename: h.Filename,
		Size:     h.Size,
		Open: func() (io.ReadSeekCloser, error) {
			file, err := h.Open()
			if err != nil {
				return nil, err
			}
			return file, nil
		},
	}
}
