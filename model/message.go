package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Message is one unit of conversational content

ConversationID: parent conversation
SenderID: author, must be a participant of the conversation
Content: text body, non-empty and capped at MessageContentMaxLen
CreatedAt: set once at append time, ordering key within a conversation
UpdatedAt: advanced on author edits
IsRead: flipped to true when the non-sender fetches the conversation

*/

type Message struct {
	Id             string    `gorm:"primaryKey"`
	CreatedAt      time.Time `gorm:"<-:create;index"`
	UpdatedAt      time.Time
	ConversationID string `gorm:"index"`
	SenderID       string
	Content        string `gorm:"type:text"`
	IsRead         bool   `gorm:"default:FALSE"`
}

func (m *Message) BeforeCreate(db *gorm.DB) error {
	if m.Id == "" {
		m.Id = uuid.New().String()
	}
	return nil
}
