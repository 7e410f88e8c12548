package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post represents a board entry created by a user.
type Post struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Title     string                      `gorm:"size:255;not null" json:"title"`
	Content   string                      `gorm:"type:text;not null" json:"content"`
	AuthorID  uint                        `gorm:"index;not null" json:"authorId"`
	Author    User                        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	ImageURLs datatypes.JSONSlice[string] `gorm:"column:image_urls" json:"imageUrls"`
	// Deprecated: single image of posts created before multi-image support.
	ImageURL  string    `gorm:"column:image_url;size:1024" json:"imageUrl,omitempty"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StoredImages returns the image URLs referenced by the post, falling back to the legacy field.
func (p *Post) StoredImages() []string {
	if len(p.ImageURLs) > 0 {
		return append([]string(nil), p.ImageURLs...)
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return []string{}
}

// AfterFind keeps imageUrls a JSON array even for rows written without it.
func (p *Post) AfterFind(tx *gorm.DB) error {
	if p.ImageURLs == nil {
		p.ImageURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}
