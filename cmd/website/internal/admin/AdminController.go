package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	internalmodels "github.com/adampresley/driveportfolio/cmd/website/internal/models"
	"github.com/adampresley/driveportfolio/cmd/website/internal/viewmodels"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/adampresley/driveportfolio/pkg/services"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandlers interface {
	AlbumLinkPage(w http.ResponseWriter, r *http.Request)
	AlbumListPage(w http.ResponseWriter, r *http.Request)
	CreateAlbumAction(w http.ResponseWriter, r *http.Request)
	DeleteAlbumAction(w http.ResponseWriter, r *http.Request)
	EditAlbumAction(w http.ResponseWriter, r *http.Request)
	EditAlbumPage(w http.ResponseWriter, r *http.Request)
	LoginAction(w http.ResponseWriter, r *http.Request)
	LoginPage(w http.ResponseWriter, r *http.Request)
	LogoutAction(w http.ResponseWriter, r *http.Request)
	SendLinkAction(w http.ResponseWriter, r *http.Request)
	SyncAction(w http.ResponseWriter, r *http.Request)
}

type AdminControllerConfig struct {
	AdminPasswordHash string
	AdminUsername     string
	AlbumService      services.ClientAlbumServicer
	LinkMailer        services.LinkMailer
	Renderer          rendering.TemplateRenderer
	SessionService    sessions.Session[*models.StaffUser]
	ShutdownCtx       context.Context
	SiteBaseURL       string
	SyncService       services.SyncServicer
}

type AdminController struct {
	adminPasswordHash string
	adminUsername     string
	albumService      services.ClientAlbumServicer
	linkMailer        services.LinkMailer
	renderer          rendering.TemplateRenderer
	sessionService    sessions.Session[*models.StaffUser]
	shutdownCtx       context.Context
	siteBaseURL       string
	syncService       services.SyncServicer
}

func NewAdminController(config AdminControllerConfig) AdminController {
	return AdminController{
		adminPasswordHash: config.AdminPasswordHash,
		adminUsername:     config.AdminUsername,
		albumService:      config.AlbumService,
		linkMailer:        config.LinkMailer,
		renderer:          config.Renderer,
		sessionService:    config.SessionService,
		shutdownCtx:       config.ShutdownCtx,
		siteBaseURL:       config.SiteBaseURL,
		syncService:       config.SyncService,
	}
}

/*
GET /admin/login
*/
func (c AdminController) LoginPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.AdminLogin{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
	}

	c.renderer.Render("pages/admin/login", viewData, w)
}

/*
POST /admin/login
*/
func (c AdminController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	pageName := "pages/admin/login"

	viewData := viewmodels.AdminLogin{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Username:      httphelpers.GetFromRequest[string](r, "username"),
	}

	password := httphelpers.GetFromRequest[string](r, "password")

	if !c.checkCredentials(viewData.Username, password) {
		viewData.IsWarning = true
		viewData.Message = "Your user name or password was not correct. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	/*
	 * Setup the session and redirect to the happy place
	 */
	if err = c.sessionService.Set(r, &models.StaffUser{Username: viewData.Username}); err != nil {
		slog.Error("error setting staff session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving session", "error", err)
	}

	http.Redirect(w, r, "/admin/albums", http.StatusFound)
}

/*
GET /admin/logout
*/
func (c AdminController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

/*
GET /admin/albums
*/
func (c AdminController) AlbumListPage(w http.ResponseWriter, r *http.Request) {
	viewData := c.newAlbumList(r)

	switch httphelpers.GetFromRequest[string](r, "status") {
	case "sync-started":
		viewData.Message = "A Google Drive sync has started."
	case "sync-busy":
		viewData.IsWarning = true
		viewData.Message = "A Google Drive sync is already running."
	case "link-sent":
		viewData.Message = "The album link was emailed to the client."
	case "deleted":
		viewData.Message = "The album was deleted."
	case "updated":
		viewData.Message = "The album was updated."
	}

	c.renderAlbumList(w, viewData)
}

/*
POST /admin/albums
*/
func (c AdminController) CreateAlbumAction(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	viewData := c.newAlbumList(r)
	album, form, warning := albumFromForm(r)
	viewData.NewAlbum = form

	if warning != "" {
		viewData.IsWarning = true
		viewData.Message = warning

		c.renderAlbumList(w, viewData)
		return
	}

	if _, err = c.albumService.Create(album); err != nil {
		slog.Error("error creating album", "name", album.Name, "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred creating the album."

		c.renderAlbumList(w, viewData)
		return
	}

	http.Redirect(w, r, "/admin/albums", http.StatusFound)
}

/*
GET /admin/albums/{id}/edit
*/
func (c AdminController) EditAlbumPage(w http.ResponseWriter, r *http.Request) {
	album, ok := c.getAlbum(w, r)

	if !ok {
		return
	}

	viewData := viewmodels.AdminAlbumEdit{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Album:         internalmodels.NewAlbumForm(*album),
	}

	c.renderer.Render("pages/admin/album-edit", viewData, w)
}

/*
POST /admin/albums/{id}/edit
*/
func (c AdminController) EditAlbumAction(w http.ResponseWriter, r *http.Request) {
	existing, ok := c.getAlbum(w, r)

	if !ok {
		return
	}

	pageName := "pages/admin/album-edit"
	album, form, warning := albumFromForm(r)
	album.ID = existing.ID
	form.ID = existing.ID

	viewData := viewmodels.AdminAlbumEdit{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Album:         form,
	}

	if warning != "" {
		viewData.IsWarning = true
		viewData.Message = warning

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if _, err := c.albumService.Update(album); err != nil {
		slog.Error("error updating album", "albumID", album.ID, "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred updating the album."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	http.Redirect(w, r, "/admin/albums?status=updated", http.StatusFound)
}

/*
GET /admin/albums/{id}/link
*/
func (c AdminController) AlbumLinkPage(w http.ResponseWriter, r *http.Request) {
	album, ok := c.getAlbum(w, r)

	if !ok {
		return
	}

	viewData := viewmodels.AdminAlbumLink{
		BaseViewModel: viewmodels.NewBaseViewModel(r,
			rendering.JavascriptInclude{Type: "module", Src: "/static/js/pages/album-link.js"},
		),
		Album: internalmodels.NewAlbum(*album, c.siteBaseURL),
	}

	c.renderer.Render("pages/admin/album-link", viewData, w)
}

/*
POST /admin/albums/{id}/send-link
*/
func (c AdminController) SendLinkAction(w http.ResponseWriter, r *http.Request) {
	album, ok := c.getAlbum(w, r)

	if !ok {
		return
	}

	link := internalmodels.ShareURL(c.siteBaseURL, album.ID)

	if err := c.linkMailer.SendAlbumLink(*album, link); err != nil {
		slog.Error("error emailing album link", "albumID", album.ID, "error", err)

		viewData := viewmodels.AdminAlbumLink{
			BaseViewModel: viewmodels.NewBaseViewModel(r),
			Album:         internalmodels.NewAlbum(*album, c.siteBaseURL),
		}

		viewData.IsError = true
		viewData.Message = "The link could not be emailed."

		if errors.Is(err, services.ErrNoClientEmail) {
			viewData.Message = "This album has no client email address."
		}

		c.renderer.Render("pages/admin/album-link", viewData, w)
		return
	}

	http.Redirect(w, r, "/admin/albums?status=link-sent", http.StatusFound)
}

/*
POST /admin/albums/{id}/delete
*/
func (c AdminController) DeleteAlbumAction(w http.ResponseWriter, r *http.Request) {
	album, ok := c.getAlbum(w, r)

	if !ok {
		return
	}

	if err := c.albumService.Delete(album.ID); err != nil {
		slog.Error("error deleting album", "albumID", album.ID, "error", err)
		httphelpers.TextInternalServerError(w, "Error deleting album")
		return
	}

	http.Redirect(w, r, "/admin/albums?status=deleted", http.StatusFound)
}

/*
POST /admin/sync
*/
func (c AdminController) SyncAction(w http.ResponseWriter, r *http.Request) {
	if c.syncService.IsRunning() {
		http.Redirect(w, r, "/admin/albums?status=sync-busy", http.StatusFound)
		return
	}

	go func() {
		options := services.SyncOptions{DownloadPublic: true, DownloadGalleries: true}

		if _, err := c.syncService.Run(c.shutdownCtx, options); err != nil {
			slog.Error("admin triggered sync did not run", "error", err)
		}
	}()

	http.Redirect(w, r, "/admin/albums?status=sync-started", http.StatusFound)
}

/*
albumFromForm reads the album fields posted by the create and edit forms.
The returned form echoes what was submitted. A non-empty warning means
the submission is not valid.
*/
func albumFromForm(r *http.Request) (models.ClientAlbum, internalmodels.Album, string) {
	album := models.ClientAlbum{
		Name:        strings.TrimSpace(httphelpers.GetFromRequest[string](r, "name")),
		Description: strings.TrimSpace(httphelpers.GetFromRequest[string](r, "description")),
		FolderName:  strings.TrimSpace(httphelpers.GetFromRequest[string](r, "folderName")),
		ClientEmail: strings.TrimSpace(httphelpers.GetFromRequest[string](r, "clientEmail")),
	}

	form := internalmodels.Album{
		Name:        album.Name,
		Description: album.Description,
		FolderName:  album.FolderName,
		ClientEmail: album.ClientEmail,
		AlbumDate:   httphelpers.GetFromRequest[string](r, "albumDate"),
	}

	if album.Name == "" || album.FolderName == "" {
		return album, form, "Name and Drive folder are required."
	}

	albumDate, err := time.Parse("2006-01-02", form.AlbumDate)

	if err != nil {
		return album, form, "Please enter the album date as YYYY-MM-DD."
	}

	album.AlbumDate = albumDate
	return album, form, ""
}

func (c AdminController) checkCredentials(username, password string) bool {
	if c.adminPasswordHash == "" || username != c.adminUsername {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(c.adminPasswordHash), []byte(password)) == nil
}

func (c AdminController) getAlbum(w http.ResponseWriter, r *http.Request) (*models.ClientAlbum, bool) {
	albumID := httphelpers.GetFromRequest[string](r, "id")
	album, err := c.albumService.GetByID(albumID)

	if errors.Is(err, models.ErrAlbumNotFound) {
		httphelpers.WriteText(w, http.StatusNotFound, "Album not found")
		return nil, false
	}

	if err != nil {
		slog.Error("error retrieving album", "albumID", albumID, "error", err)
		httphelpers.TextInternalServerError(w, "An unexpected error occurred")
		return nil, false
	}

	return album, true
}

func (c AdminController) newAlbumList(r *http.Request) viewmodels.AdminAlbumList {
	return viewmodels.AdminAlbumList{
		BaseViewModel: viewmodels.NewBaseViewModel(r,
			rendering.JavascriptInclude{Type: "module", Src: "/static/js/pages/admin-albums.js"},
		),
		Albums:   []internalmodels.Album{},
		SyncBusy: c.syncService.IsRunning(),
	}
}

func (c AdminController) renderAlbumList(w http.ResponseWriter, viewData viewmodels.AdminAlbumList) {
	albums, err := c.albumService.GetAll()

	if err != nil {
		slog.Error("error getting album list", "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please try again."
	}

	for _, album := range albums {
		viewData.Albums = append(viewData.Albums, internalmodels.NewAlbum(album, c.siteBaseURL))
	}

	c.renderer.Render("pages/admin/album-list", viewData, w)
}
