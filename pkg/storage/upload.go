package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shashiranjanraj/inkwell/pkg/metrics"
)

var (
	// ErrNotImage is returned for uploads whose content does not sniff as an
	// image.
	ErrNotImage = errors.New("Only image files are allowed")
	// ErrTooLarge is returned for uploads above the size cap.
	ErrTooLarge = errors.New("Image is too large")
)

// ImageFile is an uploaded file as handed over by a controller.
type ImageFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadSeekCloser, error)
}

var imageExt = map[string]string{
	"image/jpeg":   "jpg",
	"image/png":    "png",
	"image/gif":    "gif",
	"image/webp":   "webp",
	"image/bmp":    "bmp",
	"image/x-icon": "ico",
}

var slugRE = regexp.MustCompile(`[^a-z0-9]+`)

// Images stores book cover images on a disk under books/.
type Images struct {
	disk     func() (Disk, error)
	maxBytes int64
	now      func() time.Time
}

// NewImages stores on the default disk, resolved at each call so a disk
// registered after boot is picked up.
func NewImages(maxBytes int64) *Images {
	return &Images{disk: Default, maxBytes: maxBytes, now: time.Now}
}

// NewImagesOn stores on d.
func NewImagesOn(d Disk, maxBytes int64) *Images {
	return &Images{
		disk:     func() (Disk, error) { return d, nil },
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Validate checks the size and sniffs the first 512 bytes.
func (i *Images) Validate(f ImageFile) error {
	_, _, err := i.inspect(f)
	return err
}

func (i *Images) inspect(f ImageFile) (contentType, ext string, err error) {
	if i.maxBytes > 0 && f.Size > i.maxBytes {
		return "", "", ErrTooLarge
	}

	rc, err := f.Open()
	if err != nil {
		return "", "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer rc.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("storage: read upload: %w", err)
	}

	contentType = http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrNotImage
	}
	ext, ok := imageExt[contentType]
	if !ok {
		ext = "img"
	}
	return contentType, ext, nil
}

// Store writes f to books/<unix-nanos>-<slug>.<ext> and returns its public
// URL.
func (i *Images) Store(ctx context.Context, f ImageFile, name string) (string, error) {
	contentType, ext, err := i.inspect(f)
	if err != nil {
		return "", err
	}

	disk, err := i.disk()
	if err != nil {
		return "", err
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer rc.Close()

	key := fmt.Sprintf("books/%d-%s.%s", i.now().UnixNano(), Slug(name), ext)
	if err := disk.Put(ctx, key, rc, contentType); err != nil {
		metrics.ImageUploads.WithLabelValues(disk.Name(), "failed").Inc()
		return "", err
	}

	metrics.ImageUploads.WithLabelValues(disk.Name(), "stored").Inc()
	return disk.URL(key), nil
}

// Remove deletes the object behind url when it belongs to the disk. Foreign
// URLs are left alone.
func (i *Images) Remove(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	disk, err := i.disk()
	if err != nil {
		return err
	}
	path, ok := disk.PathFromURL(url)
	if !ok {
		return nil
	}
	return disk.Delete(ctx, path)
}

// Slug lower-cases s and joins its alphanumeric runs with hyphens.
func Slug(s string) string {
	slug := strings.Trim(slugRE.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		return "cover"
	}
	return slug
}
