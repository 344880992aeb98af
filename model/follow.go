package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Follow is a directed subscription between two users

FollowerID: the user who follows
FollowedID: the user being followed
FollowerID + FollowedID: unique ordered pair, one relation per direction

*/

type Follow struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	FollowerID string `gorm:"uniqueIndex:unique_follow"`
	FollowedID string `gorm:"uniqueIndex:unique_follow"`
}

func (f *Follow) BeforeCreate(db *gorm.DB) error {
	if f.Id == "" {
		f.Id = uuid.New().String()
	}
	return nil
}
