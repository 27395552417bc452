package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	fileFields   = "files(id, name, mimeType, size, webContentLink, thumbnailLink, imageMediaMetadata)"
	folderFields = "files(id, name)"
)

type GoogleDriveClientConfig struct {
	CredentialsFile string

	// Options are appended after the credentials option. Tests use them to
	// point the client at a fake endpoint.
	Options []option.ClientOption
}

type GoogleDriveClient struct {
	service *drive.Service
}

/*
NewGoogleDriveClient authenticates with a service account credentials file
and returns a ready client. The handle is built once and passed to
consumers; nothing is initialised lazily.
*/
func NewGoogleDriveClient(ctx context.Context, config GoogleDriveClientConfig) (*GoogleDriveClient, error) {
	var (
		err     error
		service *drive.Service
	)

	opts := []option.ClientOption{}

	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile), option.WithScopes(drive.DriveReadonlyScope))
	}

	opts = append(opts, config.Options...)

	if service, err = drive.NewService(ctx, opts...); err != nil {
		return nil, fmt.Errorf("error building Google Drive service: %w", err)
	}

	slog.Info("google drive client ready", "credentialsFile", config.CredentialsFile)

	return &GoogleDriveClient{
		service: service,
	}, nil
}

/*
FindFolderID returns the ID of the first folder named name. When parentName
is given the parent is resolved first and the search is limited to its
children. A parent that cannot be found makes the lookup fail with
ErrFolderNotFound.
*/
func (c *GoogleDriveClient) FindFolderID(ctx context.Context, name, parentName string) (string, error) {
	var (
		err      error
		parentID string
		list     *drive.FileList
	)

	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), FolderMimeType)

	if parentName != "" {
		if parentID, err = c.FindFolderID(ctx, parentName, ""); err != nil {
			return "", fmt.Errorf("error resolving parent folder '%s' of '%s': %w", parentName, name, err)
		}

		query += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}

	list, err = c.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields(folderFields).
		Context(ctx).
		Do()

	if err != nil {
		return "", fmt.Errorf("error searching for folder '%s': %w", name, err)
	}

	if len(list.Files) == 0 {
		return "", fmt.Errorf("folder '%s': %w", name, ErrFolderNotFound)
	}

	return list.Files[0].Id, nil
}

/*
ListFiles returns every non-trashed file directly under folderID, ordered
by name.
*/
func (c *GoogleDriveClient) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	result := []File{}

	query := fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID))

	err := c.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields("nextPageToken", fileFields).
		OrderBy("name").
		Context(ctx).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				result = append(result, convertFile(f))
			}

			return nil
		})

	if err != nil {
		return result, fmt.Errorf("error listing files in folder %s: %w", folderID, err)
	}

	return result, nil
}

func (c *GoogleDriveClient) ListSubfolders(ctx context.Context, folderID string, excludeName string) ([]Folder, error) {
	result := []Folder{}

	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", escapeQuery(folderID), FolderMimeType)

	if excludeName != "" {
		query += fmt.Sprintf(" and name!='%s'", escapeQuery(excludeName))
	}

	list, err := c.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields(folderFields).
		OrderBy("name").
		Context(ctx).
		Do()

	if err != nil {
		return result, fmt.Errorf("error listing subfolders of %s: %w", folderID, err)
	}

	for _, f := range list.Files {
		result = append(result, Folder{ID: f.Id, Name: f.Name})
	}

	return result, nil
}

func (c *GoogleDriveClient) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	response, err := c.service.Files.Get(fileID).Context(ctx).Download()

	if err != nil {
		return nil, fmt.Errorf("error downloading file %s: %w", fileID, err)
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, fmt.Errorf("error downloading file %s, status: %s", fileID, response.Status)
	}

	return response.Body, nil
}

func (c *GoogleDriveClient) GetFile(ctx context.Context, fileID string) (File, error) {
	f, err := c.service.Files.Get(fileID).
		Fields("id, name, mimeType, size, webContentLink, thumbnailLink, imageMediaMetadata").
		Context(ctx).
		Do()

	if err != nil {
		var apiErr *googleapi.Error

		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return File{}, fmt.Errorf("file %s: %w", fileID, ErrFileNotFound)
		}

		return File{}, fmt.Errorf("error getting file %s: %w", fileID, err)
	}

	return convertFile(f), nil
}

func convertFile(f *drive.File) File {
	result := File{
		ID:             f.Id,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		WebContentLink: f.WebContentLink,
		ThumbnailLink:  f.ThumbnailLink,
	}

	if f.ImageMediaMetadata != nil {
		result.Width = f.ImageMediaMetadata.Width
		result.Height = f.ImageMediaMetadata.Height
	}

	return result
}

func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
