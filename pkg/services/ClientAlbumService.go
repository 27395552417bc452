package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/google/uuid"
	"github.com/rfberaldo/sqlz"
)

type ClientAlbumServicer interface {
	Create(album models.ClientAlbum) (*models.ClientAlbum, error)
	Delete(id string) error
	GetAll() ([]models.ClientAlbum, error)
	GetByID(id string) (*models.ClientAlbum, error)
	Update(album models.ClientAlbum) (*models.ClientAlbum, error)
}

type ClientAlbumServiceConfig struct {
	DB *sqlz.DB
}

type ClientAlbumService struct {
	db *sqlz.DB
}

const clientAlbumColumns = `
   a.id
   , a.name
   , a.description
   , a.album_date
   , a.folder_name
   , a.client_email
   , a.created_at
   , a.updated_at
`

func NewClientAlbumService(config ClientAlbumServiceConfig) ClientAlbumService {
	return ClientAlbumService{
		db: config.DB,
	}
}

func (s ClientAlbumService) Create(album models.ClientAlbum) (*models.ClientAlbum, error) {
	var (
		err error
	)

	if strings.TrimSpace(album.Name) == "" {
		return nil, fmt.Errorf("album name is required")
	}

	now := time.Now().UTC()
	album.ID = uuid.NewString()
	album.CreatedAt = now
	album.UpdatedAt = now

	sql := `
INSERT INTO client_albums (
   id
   , name
   , description
   , album_date
   , folder_name
   , client_email
   , created_at
   , updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		album.ID,
		strings.TrimSpace(album.Name),
		album.Description,
		album.AlbumDate,
		strings.TrimSpace(album.FolderName),
		strings.TrimSpace(album.ClientEmail),
		album.CreatedAt,
		album.UpdatedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return nil, fmt.Errorf("error inserting album '%s': %w", album.Name, err)
	}

	return s.GetByID(album.ID)
}

/*
Delete removes the album row only. Cached images for its folder are left
in place and are pruned by the sync job once the Drive folder is gone.
*/
func (s ClientAlbumService) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, `DELETE FROM client_albums WHERE id=?`, id); err != nil {
		return fmt.Errorf("error deleting album %s: %w", id, err)
	}

	return nil
}

func (s ClientAlbumService) GetAll() ([]models.ClientAlbum, error) {
	var (
		err    error
		result []models.ClientAlbum
	)

	sql := `SELECT ` + clientAlbumColumns + ` FROM client_albums AS a ORDER BY a.album_date DESC, a.name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil {
		return nil, fmt.Errorf("error querying for all albums: %w", err)
	}

	return result, nil
}

func (s ClientAlbumService) GetByID(id string) (*models.ClientAlbum, error) {
	var (
		err error
	)

	result := &models.ClientAlbum{}
	sql := `SELECT ` + clientAlbumColumns + ` FROM client_albums AS a WHERE a.id=?`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, id); err != nil {
		if sqlz.IsNotFound(err) {
			return result, fmt.Errorf("album %s: %w", id, models.ErrAlbumNotFound)
		}

		return result, fmt.Errorf("error querying for album %s: %w", id, err)
	}

	return result, nil
}

/*
Update rewrites the editable fields of an existing album. The ID and
created date are kept.
*/
func (s ClientAlbumService) Update(album models.ClientAlbum) (*models.ClientAlbum, error) {
	var (
		err error
	)

	if strings.TrimSpace(album.Name) == "" {
		return nil, fmt.Errorf("album name is required")
	}

	if _, err = s.GetByID(album.ID); err != nil {
		return nil, err
	}

	sql := `
UPDATE client_albums SET
   name=?
   , description=?
   , album_date=?
   , folder_name=?
   , client_email=?
   , updated_at=?
WHERE id=?
`

	params := []any{
		strings.TrimSpace(album.Name),
		album.Description,
		album.AlbumDate,
		strings.TrimSpace(album.FolderName),
		strings.TrimSpace(album.ClientEmail),
		time.Now().UTC(),
		album.ID,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return nil, fmt.Errorf("error updating album %s: %w", album.ID, err)
	}

	return s.GetByID(album.ID)
}
