package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ImageMirrorer interface {
	Mirror(ctx context.Context, file drive.File, folderName, parentFolderName string, force bool) (*models.Image, error)
}

type ImageMirrorServiceConfig struct {
	Cache            ImageCacheServicer
	Drive            drive.Client
	Store            mediastore.Store
	ThumbnailService ThumbnailServicer
}

/*
ImageMirrorService copies one Drive file into the media store, writes a
thumbnail next to it and upserts the cache row keyed by the Drive file ID.
*/
type ImageMirrorService struct {
	cache            ImageCacheServicer
	drive            drive.Client
	store            mediastore.Store
	thumbnailService ThumbnailServicer
}

func NewImageMirrorService(config ImageMirrorServiceConfig) ImageMirrorService {
	return ImageMirrorService{
		cache:            config.Cache,
		drive:            config.Drive,
		store:            config.Store,
		thumbnailService: config.ThumbnailService,
	}
}

/*
Mirror stores file under images/{driveID}{ext}. When a row for the file
already exists and its stored file is present, the download is skipped
unless force is set; the row's metadata is refreshed either way.
*/
func (s ImageMirrorService) Mirror(ctx context.Context, file drive.File, folderName, parentFolderName string, force bool) (*models.Image, error) {
	var (
		err      error
		existing *models.Image
		body     io.ReadCloser
		data     []byte
	)

	row := models.Image{
		DriveID:          file.ID,
		Name:             file.Name,
		MimeType:         file.MimeType,
		FolderName:       folderName,
		ParentFolderName: parentFolderName,
		Size:             file.Size,
		Width:            file.Width,
		Height:           file.Height,
	}

	existing, err = s.cache.GetByDriveID(file.ID)

	if err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error checking cache for %s: %w", file.ID, err)
	}

	if err == nil && !force && s.store.Exists(ctx, existing.LocalFilePath) {
		row.LocalFilePath = existing.LocalFilePath
		row.ThumbnailPath = existing.ThumbnailPath
		return s.cache.Upsert(row)
	}

	if body, err = s.drive.Download(ctx, file.ID); err != nil {
		return nil, err
	}

	defer body.Close()

	if data, err = io.ReadAll(body); err != nil {
		return nil, fmt.Errorf("error reading download of %s: %w", file.ID, err)
	}

	key := mediastore.ImageKey(file.ID + filepath.Ext(file.Name))

	if row.LocalFilePath, err = s.store.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error storing %s: %w", file.Name, err)
	}

	if row.Size == 0 {
		row.Size = int64(len(data))
	}

	row.ThumbnailPath = s.storeThumbnail(ctx, file, data)

	slog.Info("downloaded image", "name", file.Name, "driveID", file.ID, "folder", folderName, "parent", parentFolderName)
	return s.cache.Upsert(row)
}

func (s ImageMirrorService) storeThumbnail(ctx context.Context, file drive.File, data []byte) string {
	if s.thumbnailService == nil {
		return ""
	}

	thumbnail, err := s.thumbnailService.CreateThumbnail(bytes.NewReader(data))

	if err != nil {
		slog.Error("error creating thumbnail", "name", file.Name, "driveID", file.ID, "error", err)
		return ""
	}

	storedPath, err := s.store.Save(ctx, mediastore.ThumbnailKey(file.ID+".jpg"), thumbnail)

	if err != nil {
		slog.Error("error storing thumbnail", "name", file.Name, "driveID", file.ID, "error", err)
		return ""
	}

	return storedPath
}
