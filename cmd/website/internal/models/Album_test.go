package models

import (
	"testing"
	"time"

	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestShareURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		albumID string
		want    string
	}{
		{name: "plain base", baseURL: "https://photos.example.com", albumID: "abc-123", want: "https://photos.example.com/albums/abc-123"},
		{name: "trailing slash", baseURL: "https://photos.example.com/", albumID: "abc-123", want: "https://photos.example.com/albums/abc-123"},
		{name: "escapes id", baseURL: "https://photos.example.com", albumID: "a b/c", want: "https://photos.example.com/albums/a%20b%2Fc"},
		{name: "empty base", baseURL: "", albumID: "abc-123", want: "/albums/abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShareURL(tt.baseURL, tt.albumID))
		})
	}
}

func TestNewAlbumAndNewAlbumFormDates(t *testing.T) {
	album := models.ClientAlbum{
		ID:        "abc-123",
		Name:      "Smith Wedding",
		AlbumDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	listed := NewAlbum(album, "https://photos.example.com")
	assert.Equal(t, "Jun  1, 2024", listed.AlbumDate)
	assert.Equal(t, "https://photos.example.com/albums/abc-123", listed.ShareURL)

	form := NewAlbumForm(album)
	assert.Equal(t, "2024-06-01", form.AlbumDate)
	assert.Equal(t, "abc-123", form.ID)
	assert.Empty(t, form.ShareURL)
}
