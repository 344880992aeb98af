package messenger

import (
	"errors"

	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
)

// Directory resolves the unique conversation between two users, creating it on
// first contact.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// GetOrCreate returns the conversation for the unordered pair {userA, userB},
// creating it with userA in the initiator slot when none exists yet. Repeated
// calls with either ordering yield the same conversation. Two concurrent first
// contacts race on the unique pair index; the loser recovers by re-running the
// lookup, so the conflict never reaches the caller.
func (d *Directory) GetOrCreate(userA string, userB string) (*model.Conversation, error) {
	if userA == userB {
		return nil, apperrors.InvalidArg("you cannot talk to yourself")
	}

	conversation, err := d.lookup(userA, userB)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "conversation lookup failed", err)
	}

	conversation = &model.Conversation{User1ID: userA, User2ID: userB}
	if err := d.db.Create(conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent first contact, the other sender won the insert
			return d.lookupExisting(userA, userB)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "conversation create failed", err)
	}
	return conversation, nil
}

// Get fetches a conversation with both participants preloaded.
func (d *Directory) Get(conversationId string) (*model.Conversation, error) {
	var conversation model.Conversation
	err := d.db.Preload("User1").Preload("User2").
		Where("id = ?", conversationId).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("conversation not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "conversation fetch failed", err)
	}
	return &conversation, nil
}

// ListForUser returns every conversation userId participates in, most recent
// first, with both parties' light profiles preloaded.
func (d *Directory) ListForUser(userId string) ([]*model.Conversation, error) {
	var conversations []*model.Conversation
	err := d.db.Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userId, userId).
		Order("created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "conversation list failed", err)
	}
	return conversations, nil
}

func (d *Directory) lookup(userA string, userB string) (*model.Conversation, error) {
	var conversation model.Conversation
	err := d.db.
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userA, userB, userB, userA).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (d *Directory) lookupExisting(userA string, userB string) (*model.Conversation, error) {
	conversation, err := d.lookup(userA, userB)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "conversation lookup after create conflict failed", err)
	}
	return conversation, nil
}
