package services

import (
	"errors"
	"testing"
	"time"

	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAlbumAssignsIDAndTrims(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	created, err := service.Create(models.ClientAlbum{
		Name:        "  Smith Wedding ",
		AlbumDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		FolderName:  " Smith_Wedding ",
		ClientEmail: "smith@example.com ",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Smith Wedding", created.Name)
	assert.Equal(t, "Smith_Wedding", created.FolderName)
	assert.Equal(t, "smith@example.com", created.ClientEmail)
	assert.Equal(t, "2024-06-01", created.AlbumDate.Format("2006-01-02"))
}

func TestCreateAlbumRequiresName(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	_, err := service.Create(models.ClientAlbum{Name: "   "})

	assert.Error(t, err)
}

func TestGetAllOrdersByAlbumDateDescending(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	for _, a := range []models.ClientAlbum{
		{Name: "Older", AlbumDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), FolderName: "Older"},
		{Name: "Newer", AlbumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), FolderName: "Newer"},
	} {
		_, err := service.Create(a)
		require.NoError(t, err)
	}

	albums, err := service.GetAll()

	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "Newer", albums[0].Name)
	assert.Equal(t, "Older", albums[1].Name)
}

func TestGetByIDMissingAlbumIsNotFound(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	_, err := service.GetByID("does-not-exist")

	assert.True(t, errors.Is(err, models.ErrAlbumNotFound))
}

func TestDeleteAlbumRemovesRow(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	created, err := service.Create(models.ClientAlbum{Name: "Jones", AlbumDate: time.Now().UTC(), FolderName: "Jones"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(created.ID))

	_, err = service.GetByID(created.ID)
	assert.ErrorIs(t, err, models.ErrAlbumNotFound)
}

func TestUpdateAlbumRewritesEditableFields(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	created, err := service.Create(models.ClientAlbum{
		Name:        "Smith Wedding",
		AlbumDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		FolderName:  "Smith_Wedding",
		ClientEmail: "smith@example.com",
	})
	require.NoError(t, err)

	updated, err := service.Update(models.ClientAlbum{
		ID:          created.ID,
		Name:        " Smith Reception ",
		Description: "Evening photos",
		AlbumDate:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		FolderName:  " Smith_Reception ",
		ClientEmail: "jane@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Smith Reception", updated.Name)
	assert.Equal(t, "Evening photos", updated.Description)
	assert.Equal(t, "Smith_Reception", updated.FolderName)
	assert.Equal(t, "jane@example.com", updated.ClientEmail)
	assert.Equal(t, "2024-06-02", updated.AlbumDate.Format("2006-01-02"))

	albums, err := service.GetAll()
	require.NoError(t, err)
	assert.Len(t, albums, 1)
}

func TestUpdateAlbumValidatesNameAndExistence(t *testing.T) {
	service := NewClientAlbumService(ClientAlbumServiceConfig{DB: newTestDB(t)})

	_, err := service.Update(models.ClientAlbum{ID: "does-not-exist", Name: "Jones"})
	assert.ErrorIs(t, err, models.ErrAlbumNotFound)

	created, err := service.Create(models.ClientAlbum{Name: "Jones", AlbumDate: time.Now().UTC(), FolderName: "Jones"})
	require.NoError(t, err)

	_, err = service.Update(models.ClientAlbum{ID: created.ID, Name: "  "})
	assert.Error(t, err)

	unchanged, err := service.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jones", unchanged.Name)
}
