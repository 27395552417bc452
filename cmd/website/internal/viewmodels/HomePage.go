package viewmodels

import internalmodels "github.com/adampresley/driveportfolio/cmd/website/internal/models"

type HomePage struct {
	BaseViewModel
	Carousel  []internalmodels.Image
	Galleries []internalmodels.Gallery
}

type GalleryDetail struct {
	BaseViewModel
	Gallery internalmodels.Gallery
}

type ContactPage struct {
	BaseViewModel
	ContactEmail string
}
