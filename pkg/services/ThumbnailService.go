package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

const (
	DefaultThumbnailSize uint = 400
)

type ThumbnailServicer interface {
	CreateThumbnail(r io.Reader) (*bytes.Buffer, error)
}

type ThumbnailServiceConfig struct {
	MaxSize uint
	Quality int
}

type ThumbnailService struct {
	maxSize uint
	quality int
}

func NewThumbnailService(config ThumbnailServiceConfig) ThumbnailService {
	if config.MaxSize == 0 {
		config.MaxSize = DefaultThumbnailSize
	}

	if config.Quality <= 0 {
		config.Quality = 85
	}

	return ThumbnailService{
		maxSize: config.MaxSize,
		quality: config.Quality,
	}
}

/*
CreateThumbnail decodes an image and returns a JPEG whose longest edge is
the configured max size.
*/
func (s ThumbnailService) CreateThumbnail(r io.Reader) (*bytes.Buffer, error) {
	var (
		err error
		img image.Image
		buf bytes.Buffer
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	resizedImage := s.resize(img)

	if err = jpeg.Encode(&buf, resizedImage, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	return &buf, nil
}

func (s ThumbnailService) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint
	if width > height {
		// Landscape orientation
		newWidth = s.maxSize
		newHeight = uint(float64(height) * (float64(s.maxSize) / float64(width)))
	} else {
		// Portrait orientation or square
		newHeight = s.maxSize
		newWidth = uint(float64(width) * (float64(s.maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
