package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
)

/*

Notification is a persisted activity record (like, comment, follow)

UserID: recipient of the notification
SenderID: user whose action generated it
PostID: related post when the action targets one, empty for follows
Type: one of the NotificationType constants
Extra: free-form JSON payload mirrored into the live push event

*/

type Notification struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    string `gorm:"index"`
	SenderID  string
	PostID    string
	Type      string `gorm:"size:50"`
	Extra     datatypes.JSON
}

func (n *Notification) BeforeCreate(db *gorm.DB) error {
	if n.Id == "" {
		n.Id = uuid.New().String()
	}
	return nil
}
