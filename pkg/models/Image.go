package models

import (
	"fmt"
	"time"
)

/*
Image is a cache row mirroring one Google Drive file. DriveID is unique.
FolderName and ParentFolderName group rows by the Drive folder they were
mirrored from. An image with no parent folder stores an empty string.
*/
type Image struct {
	ID               string    `db:"id"`
	DriveID          string    `db:"drive_id"`
	Name             string    `db:"name"`
	MimeType         string    `db:"mime_type"`
	LocalFilePath    string    `db:"local_file_path"`
	ThumbnailPath    string    `db:"thumbnail_path"`
	FolderName       string    `db:"folder_name"`
	ParentFolderName string    `db:"parent_folder_name"`
	Size             int64     `db:"size"`
	Width            int64     `db:"width"`
	Height           int64     `db:"height"`
	DownloadedAt     time.Time `db:"downloaded_at"`
	LastAccessed     time.Time `db:"last_accessed"`
}

func (i Image) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.FolderName)
}

/*
ImageDescriptor is the lightweight record handed to templates, downloads
and the zip builder.
*/
type ImageDescriptor struct {
	ID           string
	Name         string
	MimeType     string
	DownloadURL  string
	ThumbnailURL string
	Size         int64
	Width        int64
}

type Gallery struct {
	Name   string
	Images []ImageDescriptor
}
