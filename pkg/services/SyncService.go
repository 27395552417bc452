package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/alitto/pond/v2"
	"github.com/rfberaldo/sqlz"
)

var (
	ErrSyncInProgress = errors.New("a drive sync is already running")
)

type SyncOptions struct {
	DownloadPublic    bool
	DownloadGalleries bool
	Force             bool
	SweepOrphans      bool
}

type SyncResult struct {
	Downloaded    int
	Skipped       int
	Failed        int
	PrunedFolders []string
	PrunedImages  int
	SweptFiles    int
}

/*
FolderPresenceFunc reports whether a folder still exists remotely. An error
means the answer is unknown and the folder must be left alone.
*/
type FolderPresenceFunc func(ctx context.Context, folderName string) (bool, error)

type PruneResult struct {
	Folders []string
	Images  int
}

type SyncServicer interface {
	IsRunning() bool
	PruneFolders(ctx context.Context, isPresent FolderPresenceFunc) (PruneResult, error)
	Run(ctx context.Context, options SyncOptions) (SyncResult, error)
	SweepOrphans(ctx context.Context) (int, error)
}

type SyncServiceConfig struct {
	Cache            ImageCacheServicer
	CarouselFolder   string
	Drive            drive.Client
	MaxWorkers       int
	Mirror           ImageMirrorer
	PublicRootFolder string
	Store            mediastore.Store
}

/*
SyncService eagerly mirrors the public carousel and galleries into the
cache, then prunes cache rows whose folder is gone from Drive. Only one run
may be active at a time. A run is not atomic; requests served while it is
in progress may see a partially populated cache.
*/
type SyncService struct {
	cache            ImageCacheServicer
	carouselFolder   string
	drive            drive.Client
	maxWorkers       int
	mirror           ImageMirrorer
	publicRootFolder string
	running          *atomic.Bool
	store            mediastore.Store
}

type syncCounters struct {
	downloaded atomic.Int64
	skipped    atomic.Int64
	failed     atomic.Int64
}

func NewSyncService(config SyncServiceConfig) SyncService {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}

	return SyncService{
		cache:            config.Cache,
		carouselFolder:   config.CarouselFolder,
		drive:            config.Drive,
		maxWorkers:       config.MaxWorkers,
		mirror:           config.Mirror,
		publicRootFolder: config.PublicRootFolder,
		running:          &atomic.Bool{},
		store:            config.Store,
	}
}

func (s SyncService) IsRunning() bool {
	return s.running.Load()
}

func (s SyncService) Run(ctx context.Context, options SyncOptions) (SyncResult, error) {
	var (
		err     error
		rootID  string
		pruned  PruneResult
		result  = SyncResult{PrunedFolders: []string{}}
		counter = &syncCounters{}
	)

	if !s.running.CompareAndSwap(false, true) {
		return result, ErrSyncInProgress
	}

	defer s.running.Store(false)

	slog.Info("starting drive sync...", "downloadPublic", options.DownloadPublic, "downloadGalleries", options.DownloadGalleries, "force", options.Force)

	if options.DownloadPublic || options.DownloadGalleries {
		pool := pond.NewPool(s.maxWorkers, pond.WithContext(ctx))

		if rootID, err = s.drive.FindFolderID(ctx, s.publicRootFolder, ""); err != nil {
			slog.Error("public root folder not found. skipping downloads", "folder", s.publicRootFolder, "error", err)
		} else {
			if options.DownloadPublic {
				s.queueCarousel(ctx, pool, counter, options.Force)
			}

			if options.DownloadGalleries {
				s.queueGalleries(ctx, pool, counter, rootID, options.Force)
			}
		}

		_ = pool.Stop().Wait()
	}

	result.Downloaded = int(counter.downloaded.Load())
	result.Skipped = int(counter.skipped.Load())
	result.Failed = int(counter.failed.Load())

	slog.Info("checking for deleted folders...")

	if pruned, err = s.PruneFolders(ctx, s.remoteFolderPresent); err != nil {
		slog.Error("error cleaning up deleted folders", "error", err)
	}

	result.PrunedFolders = pruned.Folders
	result.PrunedImages = pruned.Images

	if options.SweepOrphans {
		if result.SweptFiles, err = s.SweepOrphans(ctx); err != nil {
			slog.Error("error sweeping orphaned media files", "error", err)
		}
	}

	slog.Info("drive sync completed",
		"downloaded", result.Downloaded,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"prunedFolders", len(result.PrunedFolders),
		"prunedImages", result.PrunedImages,
		"sweptFiles", result.SweptFiles,
	)

	return result, nil
}

func (s SyncService) queueCarousel(ctx context.Context, pool pond.Pool, counter *syncCounters, force bool) {
	folderID, err := s.drive.FindFolderID(ctx, s.carouselFolder, s.publicRootFolder)

	if err != nil {
		slog.Error("carousel folder not found", "folder", s.carouselFolder, "error", err)
		return
	}

	s.queueFolder(ctx, pool, counter, folderID, s.carouselFolder, force)
}

func (s SyncService) queueGalleries(ctx context.Context, pool pond.Pool, counter *syncCounters, rootID string, force bool) {
	subfolders, err := s.drive.ListSubfolders(ctx, rootID, s.carouselFolder)

	if err != nil {
		slog.Error("error listing galleries", "folder", s.publicRootFolder, "error", err)
		return
	}

	slog.Info("processing galleries", "numGalleries", len(subfolders))

	for _, subfolder := range subfolders {
		s.queueFolder(ctx, pool, counter, subfolder.ID, subfolder.Name, force)
	}
}

func (s SyncService) queueFolder(ctx context.Context, pool pond.Pool, counter *syncCounters, folderID, folderName string, force bool) {
	files, err := s.drive.ListFiles(ctx, folderID)

	if err != nil {
		slog.Error("error listing folder", "folder", folderName, "error", err)
		return
	}

	for _, file := range drive.ImagesOnly(files) {
		pool.Submit(func() {
			_, err := s.cache.GetByDriveID(file.ID)

			if err != nil && !sqlz.IsNotFound(err) {
				slog.Error("error checking cache", "name", file.Name, "driveID", file.ID, "error", err)
				counter.failed.Add(1)
				return
			}

			if err == nil && !force {
				slog.Debug("image already exists, skipping...", "name", file.Name, "folder", folderName)
				counter.skipped.Add(1)
				return
			}

			if _, err = s.mirror.Mirror(ctx, file, folderName, s.publicRootFolder, true); err != nil {
				slog.Error("error downloading image", "name", file.Name, "folder", folderName, "error", err)
				counter.failed.Add(1)
				return
			}

			counter.downloaded.Add(1)
		})
	}
}

func (s SyncService) remoteFolderPresent(ctx context.Context, folderName string) (bool, error) {
	_, err := s.drive.FindFolderID(ctx, folderName, "")

	if err == nil {
		return true, nil
	}

	if errors.Is(err, drive.ErrFolderNotFound) {
		return false, nil
	}

	return false, err
}

/*
PruneFolders deletes every cache row whose folder isPresent reports as gone,
along with its stored files. Folders whose presence cannot be determined
are kept. A row is deleted even when deleting its stored file fails.
*/
func (s SyncService) PruneFolders(ctx context.Context, isPresent FolderPresenceFunc) (PruneResult, error) {
	result := PruneResult{Folders: []string{}}

	names, err := s.cache.DistinctFolderNames()

	if err != nil {
		return result, fmt.Errorf("error listing cached folders: %w", err)
	}

	for _, name := range names {
		present, err := isPresent(ctx, name)

		if err != nil {
			slog.Error("could not determine if folder still exists. keeping it", "folder", name, "error", err)
			continue
		}

		if present {
			continue
		}

		slog.Info("folder no longer exists, cleaning up...", "folder", name)

		rows, err := s.cache.GetByFolderName(name)

		if err != nil {
			slog.Error("error retrieving images for folder", "folder", name, "error", err)
			continue
		}

		for _, row := range rows {
			s.deleteStored(ctx, row.LocalFilePath)
			s.deleteStored(ctx, row.ThumbnailPath)

			if err = s.cache.Delete(row.ID); err != nil {
				slog.Error("error deleting image row", "id", row.ID, "folder", name, "error", err)
				continue
			}

			result.Images++
		}

		result.Folders = append(result.Folders, name)
	}

	return result, nil
}

/*
SweepOrphans removes stored files that no cache row references.
*/
func (s SyncService) SweepOrphans(ctx context.Context) (int, error) {
	stored, err := s.store.List(ctx)

	if err != nil {
		return 0, err
	}

	rows, err := s.cache.GetAll()

	if err != nil {
		return 0, fmt.Errorf("error retrieving cached images: %w", err)
	}

	referenced := make(map[string]struct{}, len(rows)*2)

	for _, row := range rows {
		referenced[row.LocalFilePath] = struct{}{}
		referenced[row.ThumbnailPath] = struct{}{}
	}

	swept := 0

	for _, storedPath := range stored {
		if _, ok := referenced[storedPath]; ok {
			continue
		}

		if err = s.store.Delete(ctx, storedPath); err != nil {
			slog.Error("error deleting orphaned file", "path", storedPath, "error", err)
			continue
		}

		swept++
	}

	return swept, nil
}

func (s SyncService) deleteStored(ctx context.Context, storedPath string) {
	if storedPath == "" {
		return
	}

	if err := s.store.Delete(ctx, storedPath); err != nil && !errors.Is(err, mediastore.ErrNotFound) {
		slog.Error("error deleting stored file", "path", storedPath, "error", err)
	}
}

/*
FolderSet answers folder presence from a fixed set of remote folder names.
*/
func FolderSet(names ...string) FolderPresenceFunc {
	set := make(map[string]struct{}, len(names))

	for _, name := range names {
		set[name] = struct{}{}
	}

	return func(ctx context.Context, folderName string) (bool, error) {
		_, ok := set[folderName]
		return ok, nil
	}
}
