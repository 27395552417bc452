package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/google/uuid"
	"github.com/rfberaldo/sqlz"
)

type ImageCacheServicer interface {
	Delete(id string) error
	DistinctFolderNames() ([]string, error)
	DistinctFolderNamesUnder(parentFolderName, excludeFolderName string) ([]string, error)
	GetAll() ([]models.Image, error)
	GetByDriveID(driveID string) (*models.Image, error)
	GetByFolder(folderName, parentFolderName string) ([]models.Image, error)
	GetByFolderName(folderName string) ([]models.Image, error)
	Upsert(image models.Image) (*models.Image, error)
}

type ImageCacheServiceConfig struct {
	DB *sqlz.DB
}

type ImageCacheService struct {
	db *sqlz.DB
}

type folderNameRow struct {
	FolderName string `db:"folder_name"`
}

const imageColumns = `
   i.id
   , i.drive_id
   , i.name
   , i.mime_type
   , i.local_file_path
   , i.thumbnail_path
   , i.folder_name
   , i.parent_folder_name
   , i.size
   , i.width
   , i.height
   , i.downloaded_at
   , i.last_accessed
`

func NewImageCacheService(config ImageCacheServiceConfig) ImageCacheService {
	return ImageCacheService{
		db: config.DB,
	}
}

func (s ImageCacheService) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, `DELETE FROM images WHERE id=?`, id); err != nil {
		return fmt.Errorf("error deleting cached image %s: %w", id, err)
	}

	return nil
}

func (s ImageCacheService) DistinctFolderNames() ([]string, error) {
	var (
		err  error
		rows []folderNameRow
	)

	sql := `
SELECT DISTINCT
   folder_name
FROM images
ORDER BY folder_name
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &rows, sql); err != nil {
		return nil, fmt.Errorf("error querying for cached folder names: %w", err)
	}

	return folderNames(rows), nil
}

func (s ImageCacheService) DistinctFolderNamesUnder(parentFolderName, excludeFolderName string) ([]string, error) {
	var (
		err  error
		rows []folderNameRow
	)

	sql := `
SELECT DISTINCT
   folder_name
FROM images
WHERE 1=1
   AND parent_folder_name=?
   AND folder_name<>?
ORDER BY folder_name
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &rows, sql, parentFolderName, excludeFolderName); err != nil {
		return nil, fmt.Errorf("error querying for cached folder names under '%s': %w", parentFolderName, err)
	}

	return folderNames(rows), nil
}

func (s ImageCacheService) GetAll() ([]models.Image, error) {
	var (
		err    error
		result []models.Image
	)

	sql := `SELECT ` + imageColumns + ` FROM images AS i ORDER BY i.name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil {
		return nil, fmt.Errorf("error querying for all cached images: %w", err)
	}

	return result, nil
}

func (s ImageCacheService) GetByDriveID(driveID string) (*models.Image, error) {
	var (
		err error
	)

	result := &models.Image{}
	sql := `SELECT ` + imageColumns + ` FROM images AS i WHERE i.drive_id=?`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, driveID); err != nil {
		return result, fmt.Errorf("error querying for cached image by drive ID %s: %w", driveID, err)
	}

	return result, nil
}

/*
GetByFolder returns the cache rows grouped under a folder/parent pair,
ordered by name. An empty parentFolderName matches rows with no parent.
*/
func (s ImageCacheService) GetByFolder(folderName, parentFolderName string) ([]models.Image, error) {
	var (
		err    error
		result []models.Image
	)

	sql := `SELECT ` + imageColumns + `
FROM images AS i
WHERE 1=1
   AND i.folder_name=?
   AND i.parent_folder_name=?
ORDER BY i.name
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, folderName, parentFolderName); err != nil {
		return nil, fmt.Errorf("error querying for cached images in folder '%s/%s': %w", parentFolderName, folderName, err)
	}

	return result, nil
}

func (s ImageCacheService) GetByFolderName(folderName string) ([]models.Image, error) {
	var (
		err    error
		result []models.Image
	)

	sql := `SELECT ` + imageColumns + ` FROM images AS i WHERE i.folder_name=? ORDER BY i.name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, folderName); err != nil {
		return nil, fmt.Errorf("error querying for cached images in folder '%s': %w", folderName, err)
	}

	return result, nil
}

/*
Upsert inserts a cache row or overwrites the metadata of the existing row
with the same drive ID. The row's ID and downloaded_at never change once
written.
*/
func (s ImageCacheService) Upsert(image models.Image) (*models.Image, error) {
	var (
		err error
	)

	now := time.Now().UTC()

	sql := `
INSERT INTO images (
   id
   , drive_id
   , name
   , mime_type
   , local_file_path
   , thumbnail_path
   , folder_name
   , parent_folder_name
   , size
   , width
   , height
   , downloaded_at
   , last_accessed
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(drive_id) DO UPDATE SET
   name=excluded.name
   , mime_type=excluded.mime_type
   , local_file_path=excluded.local_file_path
   , thumbnail_path=excluded.thumbnail_path
   , folder_name=excluded.folder_name
   , parent_folder_name=excluded.parent_folder_name
   , size=excluded.size
   , width=excluded.width
   , height=excluded.height
   , last_accessed=excluded.last_accessed
`

	params := []any{
		uuid.NewString(),
		image.DriveID,
		image.Name,
		image.MimeType,
		image.LocalFilePath,
		image.ThumbnailPath,
		image.FolderName,
		image.ParentFolderName,
		image.Size,
		image.Width,
		image.Height,
		now,
		now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return nil, fmt.Errorf("error upserting cached image for drive ID %s: %w", image.DriveID, err)
	}

	return s.GetByDriveID(image.DriveID)
}

func folderNames(rows []folderNameRow) []string {
	result := make([]string, 0, len(rows))

	for _, row := range rows {
		result = append(result, row.FolderName)
	}

	return result
}
