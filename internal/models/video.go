package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID           string    `gorm:"primaryKey;size:36" json:"_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	UserID       string    `gorm:"size:36;not null;index" json:"user_id"`
	VideoURL     string    `gorm:"size:512" json:"videoUrl"`
	VideoID      string    `gorm:"size:255" json:"videoId"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnailUrl"`
	ThumbnailID  string    `gorm:"size:255" json:"thumbnailId"`
	Category     string    `gorm:"size:64" json:"category"`
	Tags         []string  `gorm:"type:text;serializer:json" json:"tags"`
	Views        int64     `gorm:"not null;default:0" json:"views"`
	Likes        int64     `gorm:"not null;default:0" json:"likes"`
	Dislike      int64     `gorm:"not null;default:0" json:"dislike"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Derived from the video_reactions table.
	LikedBy    []string `gorm:"-" json:"likedBy"`
	DislikedBy []string `gorm:"-" json:"dislikedBy"`
}

func (v *Video) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// ReactionKind is a caller's stance on a video.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Opposite() ReactionKind {
	if k == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// CounterColumn is the videos column that counts reactions of this kind.
func (k ReactionKind) CounterColumn() string {
	if k == ReactionLike {
		return "likes"
	}
	return "dislike"
}

// Reaction holds at most one row per (video, account), so a caller is in at most one
// of likedBy/dislikedBy.
type Reaction struct {
	VideoID   string       `gorm:"primaryKey;size:36"`
	AccountID string       `gorm:"primaryKey;size:36"`
	Kind      ReactionKind `gorm:"size:8;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Reaction) TableName() string {
	return "video_reactions"
}

// VideoPatch carries the metadata fields an owner chose to change; nil means keep.
type VideoPatch struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *[]string
}
