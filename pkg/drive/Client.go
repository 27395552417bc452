/*
Package drive adapts the Google Drive v3 API to the few folder and file
operations the portfolio needs.
*/
package drive

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrFileNotFound   = errors.New("file not found")
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
)

type File struct {
	ID             string
	Name           string
	MimeType       string
	Size           int64
	Width          int64
	Height         int64
	WebContentLink string
	ThumbnailLink  string
}

/*
IsImage reports whether Drive reports raster image content for this file.
*/
func (f File) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

type Folder struct {
	ID   string
	Name string
}

type Client interface {
	FindFolderID(ctx context.Context, name, parentName string) (string, error)
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	ListSubfolders(ctx context.Context, folderID string, excludeName string) ([]Folder, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
	GetFile(ctx context.Context, fileID string) (File, error)
}

/*
ImagesOnly drops every file that is not image-typed, keeping order.
*/
func ImagesOnly(files []File) []File {
	result := make([]File, 0, len(files))

	for _, f := range files {
		if f.IsImage() {
			result = append(result, f)
		}
	}

	return result
}
