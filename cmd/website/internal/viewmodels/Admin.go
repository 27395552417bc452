package viewmodels

import internalmodels "github.com/adampresley/driveportfolio/cmd/website/internal/models"

type AdminLogin struct {
	BaseViewModel

	Username string
}

type AdminAlbumList struct {
	BaseViewModel

	Albums   []internalmodels.Album
	NewAlbum internalmodels.Album
	SyncBusy bool
}

type AdminAlbumLink struct {
	BaseViewModel

	Album internalmodels.Album
}

type AdminAlbumEdit struct {
	BaseViewModel

	Album internalmodels.Album
}
