package models

import "time"

// Banner is a homepage hero slide.
type Banner struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:1024;not null" json:"description"`
	ImageURL    *string   `gorm:"size:1024" json:"imageUrl,omitempty"`
	VideoURL    *string   `gorm:"size:1024" json:"videoUrl,omitempty"`
	Order       int       `gorm:"column:sort_order;index;not null;default:0" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
