package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Conversation is the unordered pairing of exactly two users under which their
direct messages are grouped

User1ID: the user who initiated first contact
User2ID: the other participant
User1ID + User2ID: unique as stored; lookups check both orderings so at most
one conversation exists per unordered pair
Messages: ordered sequence of messages, "has-many" relation

Created lazily by the first message between two users, never by a direct user
action.

*/

type Conversation struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`
	User1ID   string    `gorm:"uniqueIndex:unique_conversation"`
	User2ID   string    `gorm:"uniqueIndex:unique_conversation"`
	User1     User      `gorm:"foreignKey:User1ID"`
	User2     User      `gorm:"foreignKey:User2ID"`
	Messages  []*Message `json:"messages" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE;"`
}

func (c *Conversation) BeforeCreate(db *gorm.DB) error {
	if c.Id == "" {
		c.Id = uuid.New().String()
	}
	return nil
}

// HasParticipant reports whether userId is one of the two parties.
func (c *Conversation) HasParticipant(userId string) bool {
	return c.User1ID == userId || c.User2ID == userId
}

// OtherParticipant returns the party opposite to userId. Callers must check
// HasParticipant first.
func (c *Conversation) OtherParticipant(userId string) string {
	if c.User1ID == userId {
		return c.User2ID
	}
	return c.User1ID
}
