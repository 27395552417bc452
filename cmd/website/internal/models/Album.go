package models

import (
	"net/url"
	"strings"

	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/driveportfolio/pkg/models"
)

type Album struct {
	ID          string
	Name        string
	Description string
	AlbumDate   string
	FolderName  string
	ClientEmail string
	ShareURL    string
	Images      []Image
}

type Image struct {
	ID           string
	Name         string
	DownloadURL  string
	ThumbnailURL string
	Width        int64
}

type Gallery struct {
	Name   string
	Images []Image
}

func NewAlbum(album models.ClientAlbum, baseURL string) Album {
	return Album{
		ID:          album.ID,
		Name:        album.Name,
		Description: album.Description,
		AlbumDate:   album.AlbumDate.Format("Jan _2, 2006"),
		FolderName:  album.FolderName,
		ClientEmail: album.ClientEmail,
		ShareURL:    ShareURL(baseURL, album.ID),
		Images:      []Image{},
	}
}

/*
NewAlbumForm prepares an album for the edit form, which expects the
date as YYYY-MM-DD.
*/
func NewAlbumForm(album models.ClientAlbum) Album {
	result := NewAlbum(album, "")
	result.AlbumDate = album.AlbumDate.Format("2006-01-02")
	result.ShareURL = ""

	return result
}

/*
ShareURL is the absolute link a client uses to open an album.
*/
func ShareURL(baseURL, albumID string) string {
	return strings.TrimRight(baseURL, "/") + "/albums/" + url.PathEscape(albumID)
}

func NewImages(descriptors []models.ImageDescriptor) []Image {
	return slices.Map(descriptors, func(d models.ImageDescriptor, index int) Image {
		return Image{
			ID:           d.ID,
			Name:         d.Name,
			DownloadURL:  d.DownloadURL,
			ThumbnailURL: d.ThumbnailURL,
			Width:        d.Width,
		}
	})
}

func NewGalleries(galleries []models.Gallery) []Gallery {
	return slices.Map(galleries, func(g models.Gallery, index int) Gallery {
		return Gallery{
			Name:   g.Name,
			Images: NewImages(g.Images),
		}
	})
}

func (g Gallery) URL() string {
	return "/gallery/" + url.PathEscape(g.Name)
}

/*
Cover is the first image of the gallery, or an empty Image.
*/
func (g Gallery) Cover() Image {
	if len(g.Images) == 0 {
		return Image{}
	}

	return g.Images[0]
}
