package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateIsRepeatable(t *testing.T) {
	db, err := Connect("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	_, err = db.Exec(context.Background(), `INSERT INTO images (id, drive_id, name, mime_type, local_file_path, folder_name) VALUES ('a', 'd1', 'n', 'image/jpeg', '', 'f')`)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), `INSERT INTO images (id, drive_id, name, mime_type, local_file_path, folder_name) VALUES ('b', 'd1', 'n', 'image/jpeg', '', 'f')`)
	require.Error(t, err, "drive_id must be unique")
}
