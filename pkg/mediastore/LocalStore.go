package mediastore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

type LocalStoreConfig struct {
	Root      string
	URLPrefix string
}

type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(config LocalStoreConfig) (LocalStore, error) {
	root, err := filepath.Abs(config.Root)

	if err != nil {
		return LocalStore{}, fmt.Errorf("error resolving media root '%s': %w", config.Root, err)
	}

	if err = os.MkdirAll(root, 0o755); err != nil {
		return LocalStore{}, fmt.Errorf("error creating media root '%s': %w", root, err)
	}

	prefix := config.URLPrefix
	if prefix == "" {
		prefix = "/media"
	}

	return LocalStore{
		root:      root,
		urlPrefix: strings.TrimSuffix(prefix, "/"),
	}, nil
}

func (s LocalStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	var (
		err error
		f   *os.File
	)

	storedPath, err := s.PathForKey(key)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(filepath.Dir(storedPath), 0o755); err != nil {
		return "", fmt.Errorf("error creating directory for '%s': %w", storedPath, err)
	}

	tmpPath := storedPath + ".part"

	if f, err = os.Create(tmpPath); err != nil {
		return "", fmt.Errorf("error creating file '%s': %w", tmpPath, err)
	}

	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("error writing file '%s': %w", tmpPath, err)
	}

	if err = f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("error closing file '%s': %w", tmpPath, err)
	}

	if err = os.Rename(tmpPath, storedPath); err != nil {
		return "", fmt.Errorf("error moving file into place '%s': %w", storedPath, err)
	}

	return storedPath, nil
}

func (s LocalStore) Exists(ctx context.Context, storedPath string) bool {
	if storedPath == "" {
		return false
	}

	info, err := os.Stat(storedPath)
	return err == nil && !info.IsDir()
}

func (s LocalStore) Open(ctx context.Context, storedPath string) (Object, error) {
	f, err := os.Open(storedPath)

	if err != nil {
		if os.IsNotExist(err) {
			return Object{}, fmt.Errorf("%s: %w", storedPath, ErrNotFound)
		}

		return Object{}, fmt.Errorf("error opening '%s': %w", storedPath, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return Object{}, fmt.Errorf("error reading file info for '%s': %w", storedPath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(storedPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return Object{
		Body:        f,
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

func (s LocalStore) Delete(ctx context.Context, storedPath string) error {
	if err := os.Remove(storedPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", storedPath, ErrNotFound)
		}

		return fmt.Errorf("error deleting '%s': %w", storedPath, err)
	}

	return nil
}

func (s LocalStore) URL(storedPath string) string {
	rel, err := filepath.Rel(s.root, storedPath)

	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}

	return s.urlPrefix + "/" + filepath.ToSlash(rel)
}

func (s LocalStore) PathForKey(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

func (s LocalStore) List(ctx context.Context) ([]string, error) {
	result := []string{}

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !IsMediaFile(p) {
			return nil
		}

		result = append(result, p)
		return nil
	})

	if err != nil {
		return result, fmt.Errorf("error walking media root '%s': %w", s.root, err)
	}

	return result, nil
}
