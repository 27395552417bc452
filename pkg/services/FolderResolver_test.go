package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	cache    ImageCacheService
	drive    *fakeDrive
	store    mediastore.LocalStore
	urls     *fakeURLBuilder
	resolver FolderResolver
}

func newResolverFixture(t *testing.T, production bool, urlConfig URLBuilderConfig) resolverFixture {
	t.Helper()

	cache := NewImageCacheService(ImageCacheServiceConfig{DB: newTestDB(t)})
	fd := newFakeDrive()
	store := newTestStore(t)
	urls := &fakeURLBuilder{URLBuilder: NewURLBuilder(urlConfig)}

	mirror := NewImageMirrorService(ImageMirrorServiceConfig{
		Cache: cache,
		Drive: fd,
		Store: store,
	})

	resolver := NewFolderResolver(FolderResolverConfig{
		Cache:            cache,
		Drive:            fd,
		Mirror:           mirror,
		Production:       production,
		PublicRootFolder: "Public_Portfolio",
		Store:            store,
		URLBuilder:       urls,
	})

	return resolverFixture{cache: cache, drive: fd, store: store, urls: urls, resolver: resolver}
}

func TestResolveFolderWithOnlyNonImagesIsEmpty(t *testing.T) {
	for _, production := range []bool{false, true} {
		f := newResolverFixture(t, production, URLBuilderConfig{})
		f.drive.addFolder("root", "Private_Albums", "")
		f.drive.addFolder("docs", "Paperwork", "root")
		f.drive.addFile("docs", drive.File{ID: "f1", Name: "contract.pdf", MimeType: "application/pdf"}, []byte("pdf"))
		f.drive.addFile("docs", drive.File{ID: "f2", Name: "notes.txt", MimeType: "text/plain"}, []byte("txt"))

		result, err := f.resolver.Resolve(context.Background(), "Paperwork", "Private_Albums")

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
		assert.Equal(t, 0, f.drive.downloadCount("f1"))
	}
}

func TestResolveDevelopmentSkipsRowsWithMissingFiles(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, false, URLBuilderConfig{})

	present, err := f.store.Save(ctx, mediastore.ImageKey("present.jpg"), bytesReader("a"))
	require.NoError(t, err)

	missing, err := f.store.Save(ctx, mediastore.ImageKey("missing.jpg"), bytesReader("b"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(missing))

	_, err = f.cache.Upsert(models.Image{DriveID: "present", Name: "a.jpg", MimeType: "image/jpeg", LocalFilePath: present, FolderName: "Smith_Wedding", ParentFolderName: "Private_Albums"})
	require.NoError(t, err)
	_, err = f.cache.Upsert(models.Image{DriveID: "missing", Name: "b.jpg", MimeType: "image/jpeg", LocalFilePath: missing, FolderName: "Smith_Wedding", ParentFolderName: "Private_Albums"})
	require.NoError(t, err)

	result, err := f.resolver.Resolve(ctx, "Smith_Wedding", "Private_Albums")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "present", result[0].ID)
	assert.Equal(t, "/media/images/present.jpg", result[0].DownloadURL)

	rows, err := f.cache.GetByFolder("Smith_Wedding", "Private_Albums")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "rows with missing files are neither deleted nor downloaded again")
	assert.Equal(t, 0, f.drive.downloadCount("missing"))
}

func TestResolveDevelopmentDownloadsOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, false, URLBuilderConfig{})
	f.drive.addFolder("root", "Private_Albums", "")
	f.drive.addFolder("album", "Jones_Family", "root")
	f.drive.addFile("album", drive.File{ID: "z", Name: "zebra.png", MimeType: "image/png"}, []byte("zz"))
	f.drive.addFile("album", drive.File{ID: "a", Name: "apple.jpg", MimeType: "image/jpeg", Width: 10, Height: 5}, []byte("aa"))
	f.drive.addFile("album", drive.File{ID: "t", Name: "readme.txt", MimeType: "text/plain"}, []byte("tt"))

	result, err := f.resolver.Resolve(ctx, "Jones_Family", "Private_Albums")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "apple.jpg", result[0].Name)
	assert.Equal(t, "zebra.png", result[1].Name)
	assert.Equal(t, "/media/images/a.jpg", result[0].DownloadURL)

	row, err := f.cache.GetByDriveID("a")
	require.NoError(t, err)
	assert.Equal(t, int64(10), row.Width)
	assert.Equal(t, "Private_Albums", row.ParentFolderName)

	again, err := f.resolver.Resolve(ctx, "Jones_Family", "Private_Albums")
	require.NoError(t, err)
	assert.Equal(t, result, again)
	assert.Equal(t, 1, f.drive.downloadCount("a"))
	assert.Equal(t, 0, f.drive.downloadCount("t"))
}

func TestResolveMissingFolderIsEmptyWithNotFound(t *testing.T) {
	for _, production := range []bool{false, true} {
		f := newResolverFixture(t, production, URLBuilderConfig{})
		f.drive.addFolder("orphan", "Smith_Wedding", "")

		result, err := f.resolver.Resolve(context.Background(), "Smith_Wedding", "Private_Albums")

		assert.NotNil(t, result)
		assert.Empty(t, result)
		assert.True(t, errors.Is(err, drive.ErrFolderNotFound))
	}
}

func TestResolveRemoteErrorIsDistinguishable(t *testing.T) {
	f := newResolverFixture(t, true, URLBuilderConfig{})
	f.drive.addFolder("root", "Private_Albums", "")
	f.drive.addFolder("album", "Smith_Wedding", "root")
	f.drive.listErr = errors.New("transport down")

	result, err := f.resolver.Resolve(context.Background(), "Smith_Wedding", "Private_Albums")

	assert.Empty(t, result)
	require.Error(t, err)
	assert.False(t, errors.Is(err, drive.ErrFolderNotFound))
}

func TestResolveRequiresFolderName(t *testing.T) {
	f := newResolverFixture(t, false, URLBuilderConfig{})

	result, err := f.resolver.Resolve(context.Background(), "  ", "Private_Albums")

	assert.Empty(t, result)
	assert.ErrorIs(t, err, ErrFolderNameRequired)
}

func TestResolveProductionUsesPublicObjectStorageURL(t *testing.T) {
	f := newResolverFixture(t, true, URLBuilderConfig{
		PublicBaseURL: "https://storage.googleapis.com/portfolio-bucket/",
		PublicPrefix:  "Public_Portfolio",
	})
	f.drive.addFolder("root", "Public_Portfolio", "")
	f.drive.addFolder("pub", "public", "root")
	f.drive.addFile("pub", drive.File{ID: "s", Name: "sunset.jpg", MimeType: "image/jpeg"}, nil)
	f.drive.addFile("pub", drive.File{ID: "b", Name: "beach day.jpg", MimeType: "image/jpeg"}, nil)

	result, err := f.resolver.Resolve(context.Background(), "public", "Public_Portfolio")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "https://storage.googleapis.com/portfolio-bucket/Public_Portfolio/public/beach%20day.jpg", result[0].DownloadURL)
	assert.Equal(t, "https://storage.googleapis.com/portfolio-bucket/Public_Portfolio/public/sunset.jpg", result[1].DownloadURL)
	assert.Equal(t, 0, f.urls.driveURLCalls)
	assert.Equal(t, 0, f.drive.downloadCount("s"), "production never mirrors")
}

func TestResolveProductionPrivateFallsBackToDriveURL(t *testing.T) {
	f := newResolverFixture(t, true, URLBuilderConfig{
		PublicBaseURL: "https://storage.googleapis.com/portfolio-bucket",
	})
	f.drive.addFolder("root", "Private_Albums", "")
	f.drive.addFolder("album", "Smith_Wedding", "root")
	f.drive.addFile("album", drive.File{ID: "k", Name: "kiss.jpg", MimeType: "image/jpeg"}, nil)

	result, err := f.resolver.Resolve(context.Background(), "Smith_Wedding", "Private_Albums")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "https://drive.example/k", result[0].DownloadURL)
	assert.Equal(t, 1, f.urls.driveURLCalls)
}

type contextKey string

type recordingStore struct {
	mediastore.LocalStore
	seen []context.Context
}

func (s *recordingStore) Exists(ctx context.Context, storedPath string) bool {
	s.seen = append(s.seen, ctx)
	return s.LocalStore.Exists(ctx, storedPath)
}

func TestResolveCachedUsesCallerContext(t *testing.T) {
	f := newResolverFixture(t, false, URLBuilderConfig{})
	store := &recordingStore{LocalStore: f.store}

	resolver := NewFolderResolver(FolderResolverConfig{
		Cache:            f.cache,
		Drive:            f.drive,
		PublicRootFolder: "Public_Portfolio",
		Store:            store,
		URLBuilder:       f.urls,
	})

	ctx := context.WithValue(context.Background(), contextKey("request"), "r-1")

	storedPath, err := f.store.Save(ctx, mediastore.ImageKey("c1.jpg"), bytesReader("c"))
	require.NoError(t, err)
	_, err = f.cache.Upsert(imageRow("c1", "sunset.jpg", "public", "Public_Portfolio", storedPath))
	require.NoError(t, err)

	result, err := resolver.ResolveCached(ctx, "public", "Public_Portfolio")

	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, store.seen, 1)
	assert.Equal(t, "r-1", store.seen[0].Value(contextKey("request")))
}
