package models

import (
	"time"
)

// DefaultVisibility is applied when a post is created without an explicit
// visibility value. Visibility is opaque metadata; no audience filtering is
// performed on it.
const DefaultVisibility = "Public"

// Post represents a feed entry in the Lattice application.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	// MediaURL holds the server-relative stored filename of the attachment.
	MediaURL   string `gorm:"size:255" json:"media_url"`
	Category   string `gorm:"size:64;index" json:"category"`
	Visibility string `gorm:"size:16;index" json:"visibility"`
	// Tags is free text, comma separated.
	Tags       string    `gorm:"size:255" json:"tags"`
	LikesCount int       `gorm:"default:0;index" json:"likes_count"`
	ViewsCount int       `gorm:"default:0;index" json:"views_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
