package model

import "time"

type Document struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID" json:"-"`

	// Filename is the sanitized display name the user uploaded under;
	// Filepath is the system-chosen storage path the blob lives at.
	// Filepath is unique per document: blobs are never shared.
	Filename string `gorm:"column:filename;size:255;not null" json:"filename"`
	Filepath string `gorm:"column:filepath;size:512;not null" json:"-"`

	Filesize int64 `gorm:"column:filesize;not null" json:"filesize"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName returns the database table name.
func (Document) TableName() string {
	return "documents"
}
