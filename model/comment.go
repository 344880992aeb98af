package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Comment is a text reaction under a post

Content: comment body, capped at 500 characters at the boundary
UserID: commenter
PostID: commented post

*/

type Comment struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Content   string `gorm:"size:500"`
	UserID    string `gorm:"index"`
	PostID    string `gorm:"index"`
}

func (c *Comment) BeforeCreate(db *gorm.DB) error {
	if c.Id == "" {
		c.Id = uuid.New().String()
	}
	return nil
}
