package home

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	internalmodels "github.com/adampresley/driveportfolio/cmd/website/internal/models"
	"github.com/adampresley/driveportfolio/cmd/website/internal/viewmodels"
	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/adampresley/driveportfolio/pkg/services"
)

type HomeHandlers interface {
	ContactPage(w http.ResponseWriter, r *http.Request)
	DebugPage(w http.ResponseWriter, r *http.Request)
	GalleryByIDPage(w http.ResponseWriter, r *http.Request)
	GalleryPage(w http.ResponseWriter, r *http.Request)
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	ContactEmail     string
	PortfolioService services.PortfolioServicer
	Renderer         rendering.TemplateRenderer
}

type HomeController struct {
	contactEmail     string
	portfolioService services.PortfolioServicer
	renderer         rendering.TemplateRenderer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		contactEmail:     config.ContactEmail,
		portfolioService: config.PortfolioService,
		renderer:         config.Renderer,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	viewData := c.buildHomePage(r, false)
	c.renderer.Render("pages/home", viewData, w)
}

/*
GET /debug
*/
func (c HomeController) DebugPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.buildHomePage(r, true)
	c.renderer.Render("pages/home", viewData, w)
}

/*
GET /contact
*/
func (c HomeController) ContactPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.ContactPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		ContactEmail:  c.contactEmail,
	}

	c.renderer.Render("pages/contact", viewData, w)
}

/*
GET /gallery/{name...}
*/
func (c HomeController) GalleryPage(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		found   bool
		gallery models.Gallery
	)

	pageName := "pages/gallery"
	name := httphelpers.GetFromRequest[string](r, "name")

	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	viewData := viewmodels.GalleryDetail{
		BaseViewModel: viewmodels.NewBaseViewModel(r,
			rendering.JavascriptInclude{Type: "module", Src: "/static/js/pages/gallery.js"},
		),
		Gallery: internalmodels.Gallery{Name: name, Images: []internalmodels.Image{}},
	}

	if gallery, found, err = c.portfolioService.Gallery(r.Context(), name); err != nil {
		slog.Error("error loading gallery", "gallery", name, "error", err)
		viewData.SetResolveError("There was a problem getting photos for this gallery.", err)

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if !found {
		w.WriteHeader(http.StatusNotFound)
		viewData.IsWarning = true
		viewData.Message = "That gallery could not be found."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Gallery = internalmodels.Gallery{
		Name:   gallery.Name,
		Images: internalmodels.NewImages(gallery.Images),
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /galleries/{folderid}
*/
func (c HomeController) GalleryByIDPage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/gallery"
	folderID := httphelpers.GetFromRequest[string](r, "folderid")

	viewData := viewmodels.GalleryDetail{
		BaseViewModel: viewmodels.NewBaseViewModel(r,
			rendering.JavascriptInclude{Type: "module", Src: "/static/js/pages/gallery.js"},
		),
		Gallery: internalmodels.Gallery{Images: []internalmodels.Image{}},
	}

	gallery, err := c.portfolioService.GalleryByID(r.Context(), folderID)

	if errors.Is(err, drive.ErrFolderNotFound) {
		w.WriteHeader(http.StatusNotFound)
		viewData.IsWarning = true
		viewData.Message = "That gallery could not be found."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if err != nil {
		slog.Error("error loading gallery by id", "folderID", folderID, "error", err)
		viewData.SetResolveError("There was a problem getting photos for this gallery.", err)

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Gallery = internalmodels.Gallery{
		Name:   gallery.Name,
		Images: internalmodels.NewImages(gallery.Images),
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
buildHomePage loads the carousel and galleries. showErrorDetail exposes
load errors to everyone, which the debug page relies on.
*/
func (c HomeController) buildHomePage(r *http.Request, showErrorDetail bool) viewmodels.HomePage {
	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.NewBaseViewModel(r,
			rendering.JavascriptInclude{Type: "module", Src: "/static/js/pages/home.js"},
		),
		Carousel:  []internalmodels.Image{},
		Galleries: []internalmodels.Gallery{},
	}

	viewData.ShowErrorDetail = showErrorDetail

	carousel, err := c.portfolioService.Carousel(r.Context())

	if err != nil {
		slog.Error("error loading carousel", "error", err)
		viewData.SetResolveError("There was a problem getting photos for this page.", err)
	}

	galleries, err := c.portfolioService.Galleries(r.Context())

	if err != nil {
		slog.Error("error loading galleries", "error", err)
		viewData.SetResolveError("There was a problem getting photos for this page.", err)
	}

	viewData.Carousel = internalmodels.NewImages(carousel)
	viewData.Galleries = internalmodels.NewGalleries(galleries)

	return viewData
}
