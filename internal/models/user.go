// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account and its profile in the Lattice application.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:64;unique;not null" json:"username"`
	Email    string `gorm:"size:120;unique;not null" json:"email"`
	Password string `gorm:"size:512;not null" json:"-"`

	// Optional profile fields, each validated by internal/validation before
	// any write is applied.
	Title      string `gorm:"size:128" json:"title"`
	Location   string `gorm:"size:128" json:"location"`
	Bio        string `gorm:"size:1000" json:"bio"`
	Skills     string `gorm:"type:text" json:"skills"`
	Experience string `gorm:"type:text" json:"experience"`
	Education  string `gorm:"type:text" json:"education"`
	Phone      string `gorm:"size:32" json:"phone"`
	LinkedIn   string `gorm:"size:256;column:linkedin" json:"linkedin"`
	GitHub     string `gorm:"size:256;column:github" json:"github"`
	Twitter    string `gorm:"size:256" json:"twitter"`
	Avatar     string `gorm:"size:256" json:"avatar"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
