package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	ImageURL  string         `json:"imageUrl" gorm:"not null"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	User      *User          `json:"creator,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type CreatePostRequest struct {
	Title   string `form:"title" binding:"required,min=5"`
	Content string `form:"content" binding:"required,min=5"`
}

type UpdatePostRequest struct {
	Title   string `form:"title" binding:"required,min=5"`
	Content string `form:"content" binding:"required,min=5"`
	// Existing image reference, kept when no new file is uploaded.
	Image string `form:"image"`
}

// CreatorSummary is the denormalized creator identity attached to
// create responses and broadcast events.
type CreatorSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PostWithCreator struct {
	Post
	Creator CreatorSummary `json:"creator"`
}
