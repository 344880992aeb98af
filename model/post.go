package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*

Post is a data model for a publication

Id: primary key
CreatedAt: time when entity is created
ImageUrl: file key of the uploaded picture, every post carries exactly one
Caption: optional text under the picture
HiddenTag: when true the post is hidden from feeds and only visible to its author
UserID: author, "belongs-to" relation
Likes/Comments: reactions on this post, "has-many" relations

*/

type Post struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	ImageUrl  string `gorm:"size:255"`
	Caption   string `gorm:"size:500"`
	HiddenTag bool   `gorm:"default:FALSE"`
	UserID    string `gorm:"index"`
	Likes     []*Like    `json:"likes" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Comments  []*Comment `json:"comments" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

func (p *Post) BeforeCreate(db *gorm.DB) error {
	if p.Id == "" {
		p.Id = uuid.New().String()
	}
	return nil
}
