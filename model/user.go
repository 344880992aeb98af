package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

User is a data model for an account

Id: primary key, use to identify a user
CreatedAt: time when entity is created
DeletedAt: time when entity is deleted, accounts are never hard-deleted

Username: unique handle, immutable casing
Email: unique contact address
PasswordHash: argon2id encoded hash, never the raw credential
Bio/Website/Gender: optional profile fields
ProfilePicture: file key served via the user picture endpoint
IsAdmin: moderation flag
Posts: posts authored by this user, "has-many" relation

*/

type User struct {
	Id             string `gorm:"primaryKey"`
	CreatedAt      time.Time
	DeletedAt      gorm.DeletedAt
	Username       string `gorm:"size:20;uniqueIndex"`
	Email          string `gorm:"size:60;uniqueIndex"`
	PasswordHash   string `gorm:"size:255"`
	Bio            string `gorm:"size:100"`
	Website        string `gorm:"size:32"`
	Gender         string `gorm:"size:32"`
	ProfilePicture string `gorm:"size:255;default:'default.jpg'"`
	IsAdmin        bool   `gorm:"default:FALSE"`
	Posts          []*Post `json:"posts" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(db *gorm.DB) error {
	if u.Id == "" {
		u.Id = uuid.New().String()
	}
	return nil
}
