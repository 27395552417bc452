package viewmodels

import internalmodels "github.com/adampresley/driveportfolio/cmd/website/internal/models"

type AlbumDetail struct {
	BaseViewModel

	Album internalmodels.Album
}
