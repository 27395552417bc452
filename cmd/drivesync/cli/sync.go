package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adampresley/driveportfolio/pkg/database"
	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/logging"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/services"
	"github.com/spf13/cobra"
)

func NewSyncCommand() *cobra.Command {
	options := services.SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download Drive images into the cache and clean up deleted folders",
		Long: "Downloads the public carousel and gallery images into the image cache, then removes " +
			"cached images whose Drive folder no longer exists.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, options)
		},
	}

	cmd.Flags().BoolVar(&options.DownloadPublic, "download-public", false, "Download the carousel images")
	cmd.Flags().BoolVar(&options.DownloadGalleries, "download-galleries", false, "Download the public gallery images")
	cmd.Flags().BoolVar(&options.Force, "force", false, "Download images again even when they are already cached")
	cmd.Flags().BoolVar(&options.SweepOrphans, "sweep-orphans", false, "Delete stored files that no cached image references")

	return cmd
}

func runSync(cmd *cobra.Command, options services.SyncOptions) error {
	config := loadConfig()

	slog.SetDefault(logging.New(logging.Config{
		Level: config.LogLevel,
		File:  config.LogFile,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(config.DSN)

	if err != nil {
		return err
	}

	if err = database.Migrate(db); err != nil {
		return err
	}

	driveClient, err := drive.NewGoogleDriveClient(ctx, drive.GoogleDriveClientConfig{
		CredentialsFile: config.DriveCredentialsFile,
	})

	if err != nil {
		return err
	}

	store, err := mediastore.New(mediastore.Options{
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
		return err
	}

	imageCache := services.NewImageCacheService(services.ImageCacheServiceConfig{DB: db})

	syncService := services.NewSyncService(services.SyncServiceConfig{
		Cache:          imageCache,
		CarouselFolder: config.CarouselFolder,
		Drive:          driveClient,
		MaxWorkers:     config.MaxSyncWorkers,
		Mirror: services.NewImageMirrorService(services.ImageMirrorServiceConfig{
			Cache:            imageCache,
			Drive:            driveClient,
			Store:            store,
			ThumbnailService: services.NewThumbnailService(services.ThumbnailServiceConfig{}),
		}),
		PublicRootFolder: config.PublicRootFolder,
		Store:            store,
	})

	fmt.Fprintln(cmd.OutOrStdout(), "Starting Google Drive sync...")

	result, err := syncService.Run(ctx, options)

	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Downloaded %d images, skipped %d, failed %d\n", result.Downloaded, result.Skipped, result.Failed)

	for _, folder := range result.PrunedFolders {
		fmt.Fprintf(out, "Folder %s no longer exists, cleaned up\n", folder)
	}

	if options.SweepOrphans {
		fmt.Fprintf(out, "Removed %d orphaned files\n", result.SweptFiles)
	}

	fmt.Fprintln(out, "Google Drive sync completed!")
	return nil
}
