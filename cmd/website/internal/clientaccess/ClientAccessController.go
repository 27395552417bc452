package clientaccess

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	internalmodels "github.com/adampresley/driveportfolio/cmd/website/internal/models"
	"github.com/adampresley/driveportfolio/cmd/website/internal/viewmodels"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/adampresley/driveportfolio/pkg/services"
)

type ClientAccessHandlers interface {
	DownloadAlbumZip(w http.ResponseWriter, r *http.Request)
	DownloadImage(w http.ResponseWriter, r *http.Request)
	ViewAlbumPage(w http.ResponseWriter, r *http.Request)
}

type ClientAccessControllerConfig struct {
	AlbumService     services.ClientAlbumServicer
	ImageCache       services.ImageCacheServicer
	PortfolioService services.PortfolioServicer
	Renderer         rendering.TemplateRenderer
	SiteBaseURL      string
	Store            mediastore.Store
	ZipService       services.ZipServicer
}

type ClientAccessController struct {
	albumService     services.ClientAlbumServicer
	imageCache       services.ImageCacheServicer
	portfolioService services.PortfolioServicer
	renderer         rendering.TemplateRenderer
	siteBaseURL      string
	store            mediastore.Store
	zipService       services.ZipServicer
}

func NewClientAccessController(config ClientAccessControllerConfig) ClientAccessController {
	return ClientAccessController{
		albumService:     config.AlbumService,
		imageCache:       config.ImageCache,
		portfolioService: config.PortfolioService,
		renderer:         config.Renderer,
		siteBaseURL:      config.SiteBaseURL,
		store:            config.Store,
		zipService:       config.ZipService,
	}
}

/*
GET /albums/{id}
*/
func (c ClientAccessController) ViewAlbumPage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		album  *models.ClientAlbum
		images []models.ImageDescriptor
	)

	pageName := "pages/clientaccess/view-album"

	viewData := viewmodels.AlbumDetail{
		BaseViewModel: viewmodels.NewBaseViewModel(r,
			rendering.JavascriptInclude{Type: "module", Src: "/static/js/pages/view-album.js"},
		),
		Album: internalmodels.Album{Images: []internalmodels.Image{}},
	}

	if album, err = c.getAlbum(w, r); err != nil {
		return
	}

	viewData.Album = internalmodels.NewAlbum(*album, c.siteBaseURL)

	if images, err = c.portfolioService.PrivateAlbum(r.Context(), album.FolderName); err != nil {
		slog.Error("error loading album images", "albumID", album.ID, "folder", album.FolderName, "error", err)
		viewData.SetResolveError("There was a problem getting the photos in this album.", err)
	}

	viewData.Album.Images = internalmodels.NewImages(images)
	c.renderer.Render(pageName, viewData, w)
}

/*
GET /albums/{id}/download/{imageid}
*/
func (c ClientAccessController) DownloadImage(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		album  *models.ClientAlbum
		images []models.ImageDescriptor
		image  *models.ImageDescriptor
	)

	if album, err = c.getAlbum(w, r); err != nil {
		return
	}

	imageID := httphelpers.GetFromRequest[string](r, "imageid")

	if images, err = c.portfolioService.PrivateAlbum(r.Context(), album.FolderName); err != nil {
		slog.Error("error loading album images for download", "albumID", album.ID, "error", err)
		httphelpers.TextInternalServerError(w, "Error downloading image")
		return
	}

	for index := range images {
		if images[index].ID == imageID {
			image = &images[index]
			break
		}
	}

	if image == nil {
		httphelpers.WriteText(w, http.StatusNotFound, "Image not found")
		return
	}

	if c.streamCachedImage(w, r, imageID) {
		return
	}

	http.Redirect(w, r, image.DownloadURL, http.StatusFound)
}

/*
GET /albums/{id}/download-zip
*/
func (c ClientAccessController) DownloadAlbumZip(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		album  *models.ClientAlbum
		images []models.ImageDescriptor
		result services.ZipResult
	)

	if album, err = c.getAlbum(w, r); err != nil {
		return
	}

	images, err = c.portfolioService.PrivateAlbum(r.Context(), album.FolderName)

	if err != nil && !errors.Is(err, services.ErrFolderNameRequired) {
		slog.Error("error loading album images for zip", "albumID", album.ID, "error", err)
	}

	if len(images) == 0 {
		httphelpers.WriteText(w, http.StatusNotFound, "No images found in album")
		return
	}

	buf := &bytes.Buffer{}

	if result, err = c.zipService.WriteAlbumZip(r.Context(), buf, images); err != nil {
		slog.Error("error creating album zip", "albumID", album.ID, "error", err)
		httphelpers.TextInternalServerError(w, "Error creating ZIP")
		return
	}

	slog.Info("serving album zip", "albumID", album.ID, "included", result.Included, "placeholders", result.Placeholders)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", album.Name+".zip"))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

	_, _ = io.Copy(w, buf)
}

func (c ClientAccessController) getAlbum(w http.ResponseWriter, r *http.Request) (*models.ClientAlbum, error) {
	albumID := httphelpers.GetFromRequest[string](r, "id")
	album, err := c.albumService.GetByID(albumID)

	if err != nil {
		if errors.Is(err, models.ErrAlbumNotFound) {
			httphelpers.WriteText(w, http.StatusNotFound, "Album not found")
			return nil, err
		}

		slog.Error("error retrieving album", "albumID", albumID, "error", err)
		httphelpers.TextInternalServerError(w, "An unexpected error occurred. Please reach out for assistance.")
		return nil, err
	}

	return album, nil
}

/*
streamCachedImage writes the stored copy of a Drive file with its original
name and MIME type. It reports false when there is no stored copy.
*/
func (c ClientAccessController) streamCachedImage(w http.ResponseWriter, r *http.Request, driveID string) bool {
	row, err := c.imageCache.GetByDriveID(driveID)

	if err != nil || !c.store.Exists(r.Context(), row.LocalFilePath) {
		return false
	}

	object, err := c.store.Open(r.Context(), row.LocalFilePath)

	if err != nil {
		slog.Error("error opening cached image", "driveID", driveID, "path", row.LocalFilePath, "error", err)
		return false
	}

	defer object.Body.Close()

	contentType := row.MimeType

	if contentType == "" {
		contentType = object.ContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", row.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))

	_, _ = io.Copy(w, object.Body)
	return true
}
