package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Like is one user's reaction on one post

UserID + PostID: unique pair, a user likes a post at most once

*/

type Like struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    string `gorm:"uniqueIndex:unique_like"`
	PostID    string `gorm:"uniqueIndex:unique_like"`
}

func (l *Like) BeforeCreate(db *gorm.DB) error {
	if l.Id == "" {
		l.Id = uuid.New().String()
	}
	return nil
}
