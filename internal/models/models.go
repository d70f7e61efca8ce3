package models

import "time"

// FileRecord is the metadata kept for every uploaded file. For a record
// created successfully, either DownloadURL points at remote storage or
// LocalPath names an existing file on disk, never both.
type FileRecord struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Size          int64     `json:"size"`
	FormattedSize string    `json:"formattedSize"`
	UploadDate    time.Time `json:"uploadDate"`
	OwnerID       string    `json:"ownerId"`
	DownloadURL   string    `json:"downloadUrl"`
	LocalPath     string    `json:"localPath,omitempty"`
}

// ReviewRecord is a user review keyed by file id. The referenced file is
// not required to exist.
type ReviewRecord struct {
	ID      string    `gorm:"primaryKey" json:"id"`
	FileID  string    `gorm:"index" json:"fileId"`
	UserID  string    `json:"userId"`
	Rating  float64   `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}
