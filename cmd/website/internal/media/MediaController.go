package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/driveportfolio/pkg/mediastore"
)

type MediaHandlers interface {
	ServeMedia(w http.ResponseWriter, r *http.Request)
}

type MediaControllerConfig struct {
	Store mediastore.Store
}

type MediaController struct {
	store mediastore.Store
}

func NewMediaController(config MediaControllerConfig) MediaController {
	return MediaController{
		store: config.Store,
	}
}

/*
GET /media/{path...}
*/
func (c MediaController) ServeMedia(w http.ResponseWriter, r *http.Request) {
	var (
		err        error
		storedPath string
		object     mediastore.Object
	)

	key := httphelpers.GetFromRequest[string](r, "path")

	if storedPath, err = c.store.PathForKey(key); err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "Not found")
		return
	}

	if object, err = c.store.Open(r.Context(), storedPath); err != nil {
		if !errors.Is(err, mediastore.ErrNotFound) {
			slog.Error("error opening stored media", "key", key, "error", err)
		}

		httphelpers.WriteText(w, http.StatusNotFound, "Not found")
		return
	}

	defer object.Body.Close()

	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if object.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	}

	_, _ = io.Copy(w, object.Body)
}
