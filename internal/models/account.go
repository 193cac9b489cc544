package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a registered channel. Password and TokenVersion never leave the server.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"_id"`
	ChannelName  string    `gorm:"size:128;not null" json:"channelName"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Password     string    `gorm:"size:72;not null" json:"-"`
	LogoURL      string    `gorm:"size:512" json:"logoUrl"`
	LogoID       string    `gorm:"size:255" json:"logoId"`
	Subscribers  int64     `gorm:"not null;default:0" json:"subscribers"`
	TokenVersion int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Derived from the subscriptions table.
	SubscribedBy       []string `gorm:"-" json:"subscribedBy"`
	SubscribedChannels []string `gorm:"-" json:"subscribedChannels"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Subscription is one edge of the channel graph: SubscriberID follows ChannelID.
type Subscription struct {
	SubscriberID string    `gorm:"primaryKey;size:36"`
	ChannelID    string    `gorm:"primaryKey;size:36;index"`
	CreatedAt    time.Time
}

// AuthorSummary is the slice of an Account shown next to its comments.
type AuthorSummary struct {
	ID          string `json:"_id"`
	ChannelName string `json:"channelName"`
	LogoURL     string `json:"logoUrl"`
}
