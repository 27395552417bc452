package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/adampresley/driveportfolio/pkg/database"
	"github.com/adampresley/driveportfolio/pkg/drive"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/adampresley/driveportfolio/pkg/models"
	"github.com/rfberaldo/sqlz"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlz.DB {
	t.Helper()

	db, err := database.Connect("file:" + filepath.Join(t.TempDir(), "cache.db") + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func newTestStore(t *testing.T) mediastore.LocalStore {
	t.Helper()

	store, err := mediastore.NewLocalStore(mediastore.LocalStoreConfig{Root: t.TempDir()})
	require.NoError(t, err)

	return store
}

type fakeFolder struct {
	ID       string
	Name     string
	ParentID string
}

type fakeDrive struct {
	mu        sync.Mutex
	folders   []fakeFolder
	files     map[string][]drive.File
	content   map[string][]byte
	downloads map[string]int
	listErr   error
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		files:     map[string][]drive.File{},
		content:   map[string][]byte{},
		downloads: map[string]int{},
	}
}

func (d *fakeDrive) addFolder(id, name, parentID string) {
	d.folders = append(d.folders, fakeFolder{ID: id, Name: name, ParentID: parentID})
}

func (d *fakeDrive) addFile(folderID string, file drive.File, content []byte) {
	d.files[folderID] = append(d.files[folderID], file)
	d.content[file.ID] = content
}

func (d *fakeDrive) removeFolder(name string) {
	kept := []fakeFolder{}

	for _, f := range d.folders {
		if f.Name != name {
			kept = append(kept, f)
		}
	}

	d.folders = kept
}

func (d *fakeDrive) FindFolderID(ctx context.Context, name, parentName string) (string, error) {
	parentID := ""

	if parentName != "" {
		id, err := d.FindFolderID(ctx, parentName, "")
		if err != nil {
			return "", err
		}

		parentID = id
	}

	for _, f := range d.folders {
		if f.Name == name && (parentName == "" || f.ParentID == parentID) {
			return f.ID, nil
		}
	}

	return "", fmt.Errorf("folder '%s': %w", name, drive.ErrFolderNotFound)
}

func (d *fakeDrive) ListFiles(ctx context.Context, folderID string) ([]drive.File, error) {
	if d.listErr != nil {
		return []drive.File{}, d.listErr
	}

	return append([]drive.File{}, d.files[folderID]...), nil
}

func (d *fakeDrive) ListSubfolders(ctx context.Context, folderID string, excludeName string) ([]drive.Folder, error) {
	result := []drive.Folder{}

	for _, f := range d.folders {
		if f.ParentID == folderID && f.Name != excludeName {
			result = append(result, drive.Folder{ID: f.ID, Name: f.Name})
		}
	}

	return result, nil
}

func (d *fakeDrive) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	content, ok := d.content[fileID]
	if !ok {
		return nil, fmt.Errorf("no content for %s", fileID)
	}

	d.downloads[fileID]++
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (d *fakeDrive) GetFile(ctx context.Context, fileID string) (drive.File, error) {
	for _, f := range d.folders {
		if f.ID == fileID {
			return drive.File{ID: f.ID, Name: f.Name, MimeType: drive.FolderMimeType}, nil
		}
	}

	for _, files := range d.files {
		for _, f := range files {
			if f.ID == fileID {
				return f, nil
			}
		}
	}

	return drive.File{}, fmt.Errorf("file %s: %w", fileID, drive.ErrFileNotFound)
}

func (d *fakeDrive) downloadCount(fileID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.downloads[fileID]
}

type fakeURLBuilder struct {
	URLBuilder
	driveURLCalls int
}

func (b *fakeURLBuilder) DriveURL(ctx context.Context, file drive.File) string {
	b.driveURLCalls++
	return "https://drive.example/" + file.ID
}

func bytesReader(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

func imageRow(driveID, name, folderName, parentFolderName, storedPath string) models.Image {
	return models.Image{
		DriveID:          driveID,
		Name:             name,
		MimeType:         "image/jpeg",
		LocalFilePath:    storedPath,
		FolderName:       folderName,
		ParentFolderName: parentFolderName,
	}
}
