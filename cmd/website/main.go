package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/driveportfolio/cmd/website/internal/admin"
	"github.com/adampresley/driveportfolio/cmd/website/internal/cache"
	"github.com/adampresley/driveportfolio/cmd/website/internal/clientaccess"
	"github.com/adampresley/driveportfolio/cmd/website/internal/configuration"
	"github.com/adampresley/driveportfolio/cmd/website/internal/home"
	"github.com/adampresley/driveportfolio/cmd/website/internal/media"
	"github.com/adampresley/driveportfolio/pkg/database"
	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/environment"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/adampresley/driveportfolio/pkg/services"
	"github.com/joho/godotenv"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "driveportfolio"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	albumService     services.ClientAlbumServicer
	db               *sqlz.DB
	driveClient      drive.Client
	imageCache       services.ImageCacheServicer
	linkMailer       services.LinkMailer
	portfolioService services.PortfolioServicer
	renderer         rendering.TemplateRenderer
	resolver         services.FolderResolverServicer
	sessionService   sessions.Session[*models.StaffUser]
	store            mediastore.Store
	syncService      services.SyncServicer
	zipService       services.ZipServicer

	/* Controllers */
	adminController        admin.AdminController
	clientAccessController clientaccess.ClientAccessController
	homeController         home.HomeHandlers
	mediaController        media.MediaController
)

func main() {
	var (
		err error
	)

	_ = godotenv.Load(".env", ".env.local")

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	production := environment.IsProduction(config.ProductionMode, os.Getenv)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.Bool("production", production),
		slog.String("mediaStorage", config.MediaStorage),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	if db, err = database.Connect(config.DSN); err != nil {
		panic(err)
	}

	if err = database.Migrate(db); err != nil {
		panic(err)
	}

	gob.Register(&models.StaffUser{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.StaffUser](cookieStore, "driveportfolio", "staff")

	driveClient = setupDriveClient(shutdownCtx)

	store, err = mediastore.New(mediastore.Options{
		Backend:            config.MediaStorage,
		Root:               config.MediaRoot,
		AwsEndpointUrl:     config.AwsEndpointUrl,
		AwsRegion:          config.AwsRegion,
		AwsAccessKeyId:     config.AwsAccessKeyId,
		AwsSecretAccessKey: config.AwsSecretAccessKey,
		AwsBucket:          config.AwsBucket,
		AwsPrefix:          config.AwsMediaPrefix,
	})

	if err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	albumService = services.NewClientAlbumService(services.ClientAlbumServiceConfig{
		DB: db,
	})

	imageCache = services.NewImageCacheService(services.ImageCacheServiceConfig{
		DB: db,
	})

	mirror := services.NewImageMirrorService(services.ImageMirrorServiceConfig{
		Cache:            imageCache,
		Drive:            driveClient,
		Store:            store,
		ThumbnailService: services.NewThumbnailService(services.ThumbnailServiceConfig{}),
	})

	resolver = services.NewFolderResolver(services.FolderResolverConfig{
		Cache:            imageCache,
		Drive:            driveClient,
		Mirror:           mirror,
		Production:       production,
		PublicRootFolder: config.PublicRootFolder,
		Store:            store,
		URLBuilder: services.NewURLBuilder(services.URLBuilderConfig{
			PublicBaseURL:      config.GcsPublicBaseURL,
			PublicPrefix:       config.GcsPublicPrefix,
			PrivateBucket:      config.GcsPrivateBucket,
			PrivatePrefix:      config.GcsPrivatePrefix,
			ServiceAccountJSON: config.GcpServiceAccountJSON,
			SignedURLLifetime:  time.Duration(config.GcsSignedURLHours) * time.Hour,
		}),
	})

	portfolioService = services.NewPortfolioService(services.PortfolioServiceConfig{
		Cache:             imageCache,
		CarouselFolder:    config.CarouselFolder,
		Drive:             driveClient,
		PrivateRootFolder: config.PrivateRootFolder,
		PublicRootFolder:  config.PublicRootFolder,
		Resolver:          resolver,
	})

	if production && config.PageCacheMinutes > 0 {
		portfolioService = services.NewCachedPortfolioService(services.CachedPortfolioServiceConfig{
			Portfolio: portfolioService,
			TTL:       time.Duration(config.PageCacheMinutes) * time.Minute,
		})
	}

	syncService = services.NewSyncService(services.SyncServiceConfig{
		Cache:            imageCache,
		CarouselFolder:   config.CarouselFolder,
		Drive:            driveClient,
		MaxWorkers:       config.MaxSyncWorkers,
		Mirror:           mirror,
		PublicRootFolder: config.PublicRootFolder,
		Store:            store,
	})

	zipService = services.NewZipService(services.ZipServiceConfig{
		Cache: imageCache,
		Store: store,
	})

	linkMailer = services.NewEmailService(services.LinkMailerConfig{
		ApiKey:    config.EmailApiKey,
		FromEmail: config.FromEmail,
		FromName:  config.FromName,
	})

	/*
	 * Setup controllers
	 */
	adminController = admin.NewAdminController(admin.AdminControllerConfig{
		AdminPasswordHash: config.AdminPasswordHash,
		AdminUsername:     config.AdminUsername,
		AlbumService:      albumService,
		LinkMailer:        linkMailer,
		Renderer:          renderer,
		SessionService:    sessionService,
		ShutdownCtx:       shutdownCtx,
		SiteBaseURL:       config.SiteBaseURL,
		SyncService:       syncService,
	})

	clientAccessController = clientaccess.NewClientAccessController(clientaccess.ClientAccessControllerConfig{
		AlbumService:     albumService,
		ImageCache:       imageCache,
		PortfolioService: portfolioService,
		Renderer:         renderer,
		SiteBaseURL:      config.SiteBaseURL,
		Store:            store,
		ZipService:       zipService,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		ContactEmail:     config.ContactEmail,
		PortfolioService: portfolioService,
		Renderer:         renderer,
	})

	mediaController = media.NewMediaController(media.MediaControllerConfig{
		Store: store,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	staffMiddleware := newStaffMiddleware(sessionService)

	adminAccessMiddleware := newAdminAccessMiddleware(
		sessionService,
		[]string{
			"/static",
			"/admin/login",
		},
	)

	public := []mux.MiddlewareFunc{staffMiddleware}
	staffOnly := []mux.MiddlewareFunc{adminAccessMiddleware}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: public},
		{Path: "GET /debug", HandlerFunc: homeController.DebugPage, Middlewares: public},
		{Path: "GET /contact", HandlerFunc: homeController.ContactPage, Middlewares: public},
		{Path: "GET /gallery/{name...}", HandlerFunc: homeController.GalleryPage, Middlewares: public},
		{Path: "GET /galleries/{folderid}", HandlerFunc: homeController.GalleryByIDPage, Middlewares: public},
		{Path: "GET /albums/{id}", HandlerFunc: clientAccessController.ViewAlbumPage, Middlewares: public},
		{Path: "GET /albums/{id}/download/{imageid}", HandlerFunc: clientAccessController.DownloadImage},
		{Path: "GET /albums/{id}/download-zip", HandlerFunc: clientAccessController.DownloadAlbumZip},
		{Path: "GET /media/{path...}", HandlerFunc: mediaController.ServeMedia},
		{Path: "GET /admin/login", HandlerFunc: adminController.LoginPage},
		{Path: "POST /admin/login", HandlerFunc: adminController.LoginAction},
		{Path: "GET /admin/logout", HandlerFunc: adminController.LogoutAction},
		{Path: "GET /admin/albums", HandlerFunc: adminController.AlbumListPage, Middlewares: staffOnly},
		{Path: "POST /admin/albums", HandlerFunc: adminController.CreateAlbumAction, Middlewares: staffOnly},
		{Path: "GET /admin/albums/{id}/link", HandlerFunc: adminController.AlbumLinkPage, Middlewares: staffOnly},
		{Path: "GET /admin/albums/{id}/edit", HandlerFunc: adminController.EditAlbumPage, Middlewares: staffOnly},
		{Path: "POST /admin/albums/{id}/edit", HandlerFunc: adminController.EditAlbumAction, Middlewares: staffOnly},
		{Path: "POST /admin/albums/{id}/send-link", HandlerFunc: adminController.SendLinkAction, Middlewares: staffOnly},
		{Path: "POST /admin/albums/{id}/delete", HandlerFunc: adminController.DeleteAlbumAction, Middlewares: staffOnly},
		{Path: "POST /admin/sync", HandlerFunc: adminController.SyncAction, Middlewares: staffOnly},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the background Drive sync
	 */
	cache.NewSyncScheduler(cache.SyncSchedulerConfig{
		Interval:    time.Duration(config.SyncIntervalMinutes) * time.Minute,
		Options:     services.SyncOptions{DownloadPublic: true, DownloadGalleries: true},
		RunOnStart:  config.SyncOnStartEnabled(),
		ShutdownCtx: shutdownCtx,
		SyncService: syncService,
	}).Start()

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

/*
setupDriveClient authenticates once at startup. Without a credentials file
the site still serves whatever is cached.
*/
func setupDriveClient(ctx context.Context) drive.Client {
	var (
		err    error
		client *drive.GoogleDriveClient
	)

	if _, err = os.Stat(config.DriveCredentialsFile); err != nil {
		slog.Warn("google drive credentials not found. drive features are disabled", "credentialsFile", config.DriveCredentialsFile, "error", err)
		return drive.UnavailableClient{Reason: err}
	}

	retrier.Retry(func() error {
		if client, err = drive.NewGoogleDriveClient(ctx, drive.GoogleDriveClientConfig{CredentialsFile: config.DriveCredentialsFile}); err != nil {
			slog.Error("failed to create Google Drive client. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	return client
}
