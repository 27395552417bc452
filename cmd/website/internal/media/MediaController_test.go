package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adampresley/driveportfolio/pkg/mediastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaRequest(key string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/media/"+key+"?path="+key, nil)
	r.SetPathValue("path", key)
	return r
}

func TestServeMediaStreamsStoredFile(t *testing.T) {
	store, err := mediastore.NewLocalStore(mediastore.LocalStoreConfig{Root: t.TempDir()})
	require.NoError(t, err)

	_, err = store.Save(context.Background(), mediastore.ImageKey("abc.jpg"), strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	controller := NewMediaController(MediaControllerConfig{Store: store})
	w := httptest.NewRecorder()

	controller.ServeMedia(w, mediaRequest("images/abc.jpg"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg bytes", w.Body.String())
}

func TestServeMediaMissingFileIsNotFound(t *testing.T) {
	store, err := mediastore.NewLocalStore(mediastore.LocalStoreConfig{Root: t.TempDir()})
	require.NoError(t, err)

	controller := NewMediaController(MediaControllerConfig{Store: store})
	w := httptest.NewRecorder()

	controller.ServeMedia(w, mediaRequest("images/missing.jpg"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
