package models

import "time"

// Attachment records a locally stored upload. Rows without a PostID are orphans
// once they outlive the sweep grace period.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      *uint     `gorm:"index" json:"postId"`
	URL         string    `gorm:"size:1024;not null;index" json:"url"`
	FilePath    string    `gorm:"size:1024;not null" json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `gorm:"size:64" json:"contentType"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}
