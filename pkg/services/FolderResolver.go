package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
)

var (
	ErrFolderNameRequired = errors.New("folder name is required")
)

type ImageURLBuilder interface {
	PublicURL(folderName, fileName string) (string, bool)
	PrivateSignedURL(folderName, fileName string) (string, bool)
	DriveURL(ctx context.Context, file drive.File) string
}

type FolderResolverServicer interface {
	IsProduction() bool
	Resolve(ctx context.Context, folderName, parentFolderName string) ([]models.ImageDescriptor, error)
	ResolveCached(folderName, parentFolderName string) ([]models.ImageDescriptor, error)
	ResolveRemoteFolder(ctx context.Context, folderID, folderName, parentFolderName string) ([]models.ImageDescriptor, error)
}

type FolderResolverConfig struct {
	Cache            ImageCacheServicer
	Drive            drive.Client
	Mirror           ImageMirrorer
	Production       bool
	PublicRootFolder string
	Store            mediastore.Store
	URLBuilder       ImageURLBuilder
}

/*
FolderResolver turns a Drive folder name, optionally scoped to a parent
folder, into image descriptors ordered by name.

In production mode folders are listed straight from Drive and each image
gets an object storage URL when one is configured, otherwise a Drive URL.
In development mode cached rows are served when any exist for the folder;
a folder with no cached rows is downloaded once, synchronously.

The returned slice is never nil. On failure it is empty and the error says
whether the folder was missing (drive.ErrFolderNotFound) or the remote call
failed.
*/
type FolderResolver struct {
	cache            ImageCacheServicer
	drive            drive.Client
	mirror           ImageMirrorer
	production       bool
	publicRootFolder string
	store            mediastore.Store
	urlBuilder       ImageURLBuilder
}

func NewFolderResolver(config FolderResolverConfig) FolderResolver {
	return FolderResolver{
		cache:            config.Cache,
		drive:            config.Drive,
		mirror:           config.Mirror,
		production:       config.Production,
		publicRootFolder: config.PublicRootFolder,
		store:            config.Store,
		urlBuilder:       config.URLBuilder,
	}
}

func (r FolderResolver) IsProduction() bool {
	return r.production
}

func (r FolderResolver) Resolve(ctx context.Context, folderName, parentFolderName string) ([]models.ImageDescriptor, error) {
	if strings.TrimSpace(folderName) == "" {
		return []models.ImageDescriptor{}, ErrFolderNameRequired
	}

	if r.production {
		return r.resolveRemote(ctx, folderName, parentFolderName)
	}

	return r.resolveLocal(ctx, folderName, parentFolderName)
}

/*
ResolveCached returns descriptors for cached rows whose stored file is
present. It never contacts Drive.
*/
func (r FolderResolver) ResolveCached(ctx context.Context, folderName, parentFolderName string) ([]models.ImageDescriptor, error) {
	result := []models.ImageDescriptor{}

	rows, err := r.cache.GetByFolder(folderName, parentFolderName)

	if err != nil {
		return result, err
	}

	return r.presentRows(ctx, rows), nil
}

/*
ResolveRemoteFolder lists an already known Drive folder ID using the
production URL policy.
*/
func (r FolderResolver) ResolveRemoteFolder(ctx context.Context, folderID, folderName, parentFolderName string) ([]models.ImageDescriptor, error) {
	result := []models.ImageDescriptor{}

	files, err := r.drive.ListFiles(ctx, folderID)

	if err != nil {
		return result, err
	}

	for _, file := range drive.ImagesOnly(files) {
		u := r.remoteURL(ctx, file, folderName, parentFolderName)

		result = append(result, models.ImageDescriptor{
			ID:           file.ID,
			Name:         file.Name,
			MimeType:     file.MimeType,
			DownloadURL:  u,
			ThumbnailURL: u,
			Size:         file.Size,
			Width:        file.Width,
		})
	}

	sortByName(result)
	return result, nil
}

func (r FolderResolver) resolveRemote(ctx context.Context, folderName, parentFolderName string) ([]models.ImageDescriptor, error) {
	folderID, err := r.drive.FindFolderID(ctx, folderName, parentFolderName)

	if err != nil {
		slog.Error("error finding folder", "folder", folderName, "parent", parentFolderName, "error", err)
		return []models.ImageDescriptor{}, err
	}

	result, err := r.ResolveRemoteFolder(ctx, folderID, folderName, parentFolderName)

	if err != nil {
		slog.Error("error listing folder", "folder", folderName, "parent", parentFolderName, "error", err)
	}

	return result, err
}

func (r FolderResolver) remoteURL(ctx context.Context, file drive.File, folderName, parentFolderName string) string {
	var (
		u  string
		ok bool
	)

	if parentFolderName != "" && parentFolderName == r.publicRootFolder {
		u, ok = r.urlBuilder.PublicURL(folderName, file.Name)
	} else {
		u, ok = r.urlBuilder.PrivateSignedURL(folderName, file.Name)
	}

	if ok {
		return u
	}

	return r.urlBuilder.DriveURL(ctx, file)
}

func (r FolderResolver) resolveLocal(ctx context.Context, folderName, parentFolderName string) ([]models.ImageDescriptor, error) {
	result := []models.ImageDescriptor{}

	rows, err := r.cache.GetByFolder(folderName, parentFolderName)

	if err != nil {
		slog.Error("error reading image cache", "folder", folderName, "parent", parentFolderName, "error", err)
		return result, err
	}

	if len(rows) > 0 {
		return r.presentRows(ctx, rows), nil
	}

	return r.downloadFolder(ctx, folderName, parentFolderName)
}

func (r FolderResolver) downloadFolder(ctx context.Context, folderName, parentFolderName string) ([]models.ImageDescriptor, error) {
	result := []models.ImageDescriptor{}

	folderID, err := r.drive.FindFolderID(ctx, folderName, parentFolderName)

	if err != nil {
		slog.Error("error finding folder to download", "folder", folderName, "parent", parentFolderName, "error", err)
		return result, err
	}

	files, err := r.drive.ListFiles(ctx, folderID)

	if err != nil {
		slog.Error("error listing folder to download", "folder", folderName, "parent", parentFolderName, "error", err)
		return result, err
	}

	for _, file := range drive.ImagesOnly(files) {
		image, err := r.mirror.Mirror(ctx, file, folderName, parentFolderName, false)

		if err != nil {
			slog.Error("error downloading image", "name", file.Name, "driveID", file.ID, "error", err)
			continue
		}

		result = append(result, DescriptorFromImage(r.store, *image))
	}

	sortByName(result)
	return result, nil
}

func (r FolderResolver) presentRows(ctx context.Context, rows []models.Image) []models.ImageDescriptor {
	result := []models.ImageDescriptor{}

	for _, row := range rows {
		if !r.store.Exists(ctx, row.LocalFilePath) {
			continue
		}

		result = append(result, DescriptorFromImage(r.store, row))
	}

	return result
}

/*
DescriptorFromImage builds the descriptor for a cache row, pointing at the
stored copy.
*/
func DescriptorFromImage(store mediastore.Store, image models.Image) models.ImageDescriptor {
	result := models.ImageDescriptor{
		ID:          image.DriveID,
		Name:        image.Name,
		MimeType:    image.MimeType,
		DownloadURL: store.URL(image.LocalFilePath),
		Size:        image.Size,
		Width:       image.Width,
	}

	result.ThumbnailURL = result.DownloadURL

	if image.ThumbnailPath != "" {
		result.ThumbnailURL = store.URL(image.ThumbnailPath)
	}

	return result
}

func sortByName(images []models.ImageDescriptor) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].Name < images[j].Name
	})
}
