package messenger

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/valenstagram/valenstagram-backend/model"
)

// One canonical DTO shape per entity; ids are UUID strings everywhere.

type MessageDTO struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversation_id"`
	SenderId       string    `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsRead         bool      `json:"is_read"`
}

type UserLightDTO struct {
	Id             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

type ConversationDTO struct {
	Id        string       `json:"id"`
	User1     UserLightDTO `json:"user1"`
	User2     UserLightDTO `json:"user2"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewMessageDTO(m *model.Message) MessageDTO {
	dto := MessageDTO{}
	copier.Copy(&dto, m)
	return dto
}

func NewUserLightDTO(u *model.User) UserLightDTO {
	dto := UserLightDTO{}
	copier.Copy(&dto, u)
	return dto
}

func NewConversationDTO(c *model.Conversation) ConversationDTO {
	return ConversationDTO{
		Id:        c.Id,
		User1:     NewUserLightDTO(&c.User1),
		User2:     NewUserLightDTO(&c.User2),
		CreatedAt: c.CreatedAt,
	}
}

func NewMessageDTOs(messages []*model.Message) []MessageDTO {
	dtos := make([]MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, NewMessageDTO(m))
	}
	return dtos
}
