package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"_id"`
	VideoID     string    `gorm:"size:36;not null;index" json:"videoId"`
	UserID      string    `gorm:"size:36;not null" json:"userId"`
	CommentText string    `gorm:"type:text;not null" json:"commentText"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentView is a comment whose userId is replaced by the author's public profile.
// Author is nil, and userId null, when the author account no longer exists.
type CommentView struct {
	Comment
	Author *AuthorSummary `json:"userId"`
}
