package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
)

type ZipServiceConfig struct {
	Cache ImageCacheServicer
	Store mediastore.Store
}

type ZipServicer interface {
	WriteAlbumZip(ctx context.Context, w io.Writer, images []models.ImageDescriptor) (ZipResult, error)
}

type ZipResult struct {
	Included     int
	Placeholders int
}

/*
ZipService bundles the cached copies of an album's images into a zip
archive. Images with no stored copy get an empty entry under their name.
*/
type ZipService struct {
	cache ImageCacheServicer
	store mediastore.Store
}

func NewZipService(config ZipServiceConfig) ZipService {
	return ZipService{
		cache: config.Cache,
		store: config.Store,
	}
}

func (s ZipService) WriteAlbumZip(ctx context.Context, w io.Writer, images []models.ImageDescriptor) (ZipResult, error) {
	var (
		err    error
		result ZipResult
	)

	zipWriter := zip.NewWriter(w)

	for _, image := range images {
		added, err := s.addImage(ctx, zipWriter, image)

		if err != nil {
			return result, err
		}

		if added {
			result.Included++
		} else {
			result.Placeholders++
		}
	}

	if err = zipWriter.Close(); err != nil {
		return result, fmt.Errorf("failed to close zip writer: %w", err)
	}

	return result, nil
}

func (s ZipService) addImage(ctx context.Context, zipWriter *zip.Writer, image models.ImageDescriptor) (bool, error) {
	dest, err := zipWriter.CreateHeader(&zip.FileHeader{
		Name:   image.Name,
		Method: zip.Deflate,
	})

	if err != nil {
		return false, fmt.Errorf("failed to create file '%s' in zip: %w", image.Name, err)
	}

	row, err := s.cache.GetByDriveID(image.ID)

	if err != nil || !s.store.Exists(ctx, row.LocalFilePath) {
		return false, nil
	}

	src, err := s.store.Open(ctx, row.LocalFilePath)

	if err != nil {
		slog.Error("failed to open cached image for zip", "name", image.Name, "error", err)
		return false, nil
	}

	defer src.Body.Close()

	if _, err = io.Copy(dest, src.Body); err != nil {
		return false, fmt.Errorf("failed to copy file '%s' to zip: %w", image.Name, err)
	}

	return true, nil
}
