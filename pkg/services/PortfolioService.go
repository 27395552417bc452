package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/models"
)

type PortfolioServicer interface {
	Carousel(ctx context.Context) ([]models.ImageDescriptor, error)
	Galleries(ctx context.Context) ([]models.Gallery, error)
	Gallery(ctx context.Context, name string) (models.Gallery, bool, error)
	GalleryByID(ctx context.Context, folderID string) (models.Gallery, error)
	PrivateAlbum(ctx context.Context, folderName string) ([]models.ImageDescriptor, error)
}

type PortfolioServiceConfig struct {
	Cache             ImageCacheServicer
	CarouselFolder    string
	Drive             drive.Client
	PrivateRootFolder string
	PublicRootFolder  string
	Resolver          FolderResolverServicer
}

/*
PortfolioService composes the folder resolver into the public carousel,
the public galleries and private client albums.
*/
type PortfolioService struct {
	cache             ImageCacheServicer
	carouselFolder    string
	drive             drive.Client
	privateRootFolder string
	publicRootFolder  string
	resolver          FolderResolverServicer
}

func NewPortfolioService(config PortfolioServiceConfig) PortfolioService {
	return PortfolioService{
		cache:             config.Cache,
		carouselFolder:    config.CarouselFolder,
		drive:             config.Drive,
		privateRootFolder: config.PrivateRootFolder,
		publicRootFolder:  config.PublicRootFolder,
		resolver:          config.Resolver,
	}
}

/*
Carousel returns the images of the carousel folder beneath the public root.
Development mode serves cached images only and never downloads.
*/
func (s PortfolioService) Carousel(ctx context.Context) ([]models.ImageDescriptor, error) {
	if s.resolver.IsProduction() {
		return s.resolver.Resolve(ctx, s.carouselFolder, s.publicRootFolder)
	}

	return s.resolver.ResolveCached(ctx, s.carouselFolder, s.publicRootFolder)
}

/*
Galleries returns every subfolder of the public root other than the
carousel folder, sorted by name. Galleries without images are left out.
*/
func (s PortfolioService) Galleries(ctx context.Context) ([]models.Gallery, error) {
	var (
		err       error
		galleries []models.Gallery
	)

	if s.resolver.IsProduction() {
		galleries, err = s.remoteGalleries(ctx)
	} else {
		galleries, err = s.cachedGalleries(ctx)
	}

	sort.SliceStable(galleries, func(i, j int) bool {
		return galleries[i].Name < galleries[j].Name
	})

	return galleries, err
}

func (s PortfolioService) Gallery(ctx context.Context, name string) (models.Gallery, bool, error) {
	galleries, err := s.Galleries(ctx)

	if err != nil {
		return models.Gallery{Name: name, Images: []models.ImageDescriptor{}}, false, err
	}

	gallery, found := galleryByName(galleries, name)
	return gallery, found, nil
}

func galleryByName(galleries []models.Gallery, name string) (models.Gallery, bool) {
	for _, gallery := range galleries {
		if gallery.Name == name {
			return gallery, true
		}
	}

	return models.Gallery{Name: name, Images: []models.ImageDescriptor{}}, false
}

/*
GalleryByID resolves a public gallery from its Drive folder ID. The folder's
name is looked up first. Production lists the folder by ID and development
resolves it by name beneath the public root, downloading on first access.
An unknown ID or a non-folder fails with drive.ErrFolderNotFound.
*/
func (s PortfolioService) GalleryByID(ctx context.Context, folderID string) (models.Gallery, error) {
	var (
		err    error
		folder drive.File
		images []models.ImageDescriptor
	)

	result := models.Gallery{Images: []models.ImageDescriptor{}}

	if folder, err = s.drive.GetFile(ctx, folderID); err != nil {
		if errors.Is(err, drive.ErrFileNotFound) {
			return result, fmt.Errorf("gallery %s: %w", folderID, drive.ErrFolderNotFound)
		}

		return result, fmt.Errorf("error looking up gallery %s: %w", folderID, err)
	}

	if folder.MimeType != drive.FolderMimeType {
		return result, fmt.Errorf("%s is not a folder: %w", folderID, drive.ErrFolderNotFound)
	}

	result.Name = folder.Name

	if s.resolver.IsProduction() {
		images, err = s.resolver.ResolveRemoteFolder(ctx, folderID, folder.Name, s.publicRootFolder)
	} else {
		images, err = s.resolver.Resolve(ctx, folder.Name, s.publicRootFolder)
	}

	result.Images = images
	return result, err
}

func (s PortfolioService) PrivateAlbum(ctx context.Context, folderName string) ([]models.ImageDescriptor, error) {
	return s.resolver.Resolve(ctx, folderName, s.privateRootFolder)
}

func (s PortfolioService) remoteGalleries(ctx context.Context) ([]models.Gallery, error) {
	result := []models.Gallery{}

	rootID, err := s.drive.FindFolderID(ctx, s.publicRootFolder, "")

	if err != nil {
		return result, fmt.Errorf("error finding public root folder: %w", err)
	}

	subfolders, err := s.drive.ListSubfolders(ctx, rootID, s.carouselFolder)

	if err != nil {
		return result, fmt.Errorf("error listing galleries: %w", err)
	}

	for _, subfolder := range subfolders {
		images, err := s.resolver.ResolveRemoteFolder(ctx, subfolder.ID, subfolder.Name, s.publicRootFolder)

		if err != nil {
			slog.Error("error resolving gallery", "gallery", subfolder.Name, "error", err)
			continue
		}

		if len(images) > 0 {
			result = append(result, models.Gallery{Name: subfolder.Name, Images: images})
		}
	}

	return result, nil
}

func (s PortfolioService) cachedGalleries(ctx context.Context) ([]models.Gallery, error) {
	result := []models.Gallery{}

	names, err := s.cache.DistinctFolderNamesUnder(s.publicRootFolder, s.carouselFolder)

	if err != nil {
		return result, err
	}

	for _, name := range names {
		images, err := s.resolver.ResolveCached(ctx, name, s.publicRootFolder)

		if err != nil {
			slog.Error("error resolving cached gallery", "gallery", name, "error", err)
			continue
		}

		if len(images) > 0 {
			result = append(result, models.Gallery{Name: name, Images: images})
		}
	}

	return result, nil
}
