package models

import (
	"fmt"
	"time"
)

var (
	ErrAlbumNotFound = fmt.Errorf("album not found")
)

/*
ClientAlbum is a private album shared with a client by link. FolderName
addresses a folder beneath the private albums root in Google Drive.
*/
type ClientAlbum struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	AlbumDate   time.Time `db:"album_date"`
	FolderName  string    `db:"folder_name"`
	ClientEmail string    `db:"client_email"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (a ClientAlbum) String() string {
	return fmt.Sprintf("%s - %s", a.Name, a.AlbumDate.Format("2006-01-02"))
}
