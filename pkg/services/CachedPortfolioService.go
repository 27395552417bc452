package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type CachedPortfolioServiceConfig struct {
	MaxAlbums int
	Portfolio PortfolioServicer
	TTL       time.Duration
}

/*
CachedPortfolioService keeps the results of Carousel, Galleries and
PrivateAlbum for a short time so that page views do not each list Drive.
Failed lookups are never kept. GalleryByID always goes to the wrapped
service.
*/
type CachedPortfolioService struct {
	portfolio PortfolioServicer
	carousel  *expirable.LRU[string, []models.ImageDescriptor]
	galleries *expirable.LRU[string, []models.Gallery]
	albums    *expirable.LRU[string, []models.ImageDescriptor]
}

const (
	carouselCacheKey  = "carousel"
	galleriesCacheKey = "galleries"
)

func NewCachedPortfolioService(config CachedPortfolioServiceConfig) CachedPortfolioService {
	if config.MaxAlbums <= 0 {
		config.MaxAlbums = 100
	}

	return CachedPortfolioService{
		portfolio: config.Portfolio,
		carousel:  expirable.NewLRU[string, []models.ImageDescriptor](1, nil, config.TTL),
		galleries: expirable.NewLRU[string, []models.Gallery](1, nil, config.TTL),
		albums:    expirable.NewLRU[string, []models.ImageDescriptor](config.MaxAlbums, nil, config.TTL),
	}
}

func (s CachedPortfolioService) Carousel(ctx context.Context) ([]models.ImageDescriptor, error) {
	if result, ok := s.carousel.Get(carouselCacheKey); ok {
		return result, nil
	}

	result, err := s.portfolio.Carousel(ctx)

	if err == nil {
		s.carousel.Add(carouselCacheKey, result)
	}

	return result, err
}

func (s CachedPortfolioService) Galleries(ctx context.Context) ([]models.Gallery, error) {
	if result, ok := s.galleries.Get(galleriesCacheKey); ok {
		return result, nil
	}

	result, err := s.portfolio.Galleries(ctx)

	if err == nil {
		s.galleries.Add(galleriesCacheKey, result)
	}

	return result, err
}

func (s CachedPortfolioService) Gallery(ctx context.Context, name string) (models.Gallery, bool, error) {
	galleries, err := s.Galleries(ctx)

	if err != nil {
		return models.Gallery{Name: name, Images: []models.ImageDescriptor{}}, false, err
	}

	gallery, found := galleryByName(galleries, name)
	return gallery, found, nil
}

func (s CachedPortfolioService) GalleryByID(ctx context.Context, folderID string) (models.Gallery, error) {
	return s.portfolio.GalleryByID(ctx, folderID)
}

func (s CachedPortfolioService) PrivateAlbum(ctx context.Context, folderName string) ([]models.ImageDescriptor, error) {
	if result, ok := s.albums.Get(folderName); ok {
		slog.Debug("private album served from page cache", "folder", folderName)
		return result, nil
	}

	result, err := s.portfolio.PrivateAlbum(ctx, folderName)

	if err == nil {
		s.albums.Add(folderName, result)
	}

	return result, err
}
