package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	ErrUnavailable = errors.New("google drive is not available")
)

/*
UnavailableClient stands in when no Drive credentials are configured. Every
call fails with ErrUnavailable, so cached content keeps being served while
nothing is treated as deleted remotely.
*/
type UnavailableClient struct {
	Reason error
}

func (c UnavailableClient) err() error {
	return fmt.Errorf("%w: %v", ErrUnavailable, c.Reason)
}

func (c UnavailableClient) FindFolderID(ctx context.Context, name, parentName string) (string, error) {
	return "", c.err()
}

func (c UnavailableClient) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	return []File{}, c.err()
}

func (c UnavailableClient) ListSubfolders(ctx context.Context, folderID string, excludeName string) ([]Folder, error) {
	return []Folder{}, c.err()
}

func (c UnavailableClient) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return nil, c.err()
}

func (c UnavailableClient) GetFile(ctx context.Context, fileID string) (File, error) {
	return File{}, c.err()
}
