/*
Package mediastore holds the mirrored copies of Drive images, either on the
local filesystem or in an S3 compatible bucket.

Keys are slash separated and relative, such as "images/abc123.jpg". Save
returns the stored path recorded in the image cache, and every other method
takes that stored path.
*/
package mediastore

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/adampresley/adamgokit/slices"
)

var (
	ErrNotFound   = errors.New("stored file not found")
	ErrInvalidKey = errors.New("invalid media key")
)

var (
	mediaExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".heic", ".tif", ".tiff", ".bmp"}
)

type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Exists(ctx context.Context, storedPath string) bool
	Open(ctx context.Context, storedPath string) (Object, error)
	Delete(ctx context.Context, storedPath string) error
	URL(storedPath string) string
	PathForKey(key string) (string, error)
	List(ctx context.Context) ([]string, error)
}

/*
IsMediaFile reports whether a stored path has an image extension. Listing
only returns media files so unrelated files next to them are never swept.
*/
func IsMediaFile(storedPath string) bool {
	ext := strings.ToLower(filepath.Ext(storedPath))
	return slices.IsInSlice(ext, mediaExtensions)
}

func ImageKey(name string) string {
	return path.Join("images", name)
}

func ThumbnailKey(name string) string {
	return path.Join("thumbnails", name)
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")

	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}

	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return "", ErrInvalidKey
		}
	}

	return key, nil
}
