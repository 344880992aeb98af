package messenger

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
)

// MessageContentMaxLen bounds message bodies, counted in runes.
const MessageContentMaxLen = 1000

// Store owns message rows and the read-state transitions on them.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append persists a new unread message from senderId into conversation. The
// sender must be one of the two participants.
func (s *Store) Append(conversation *model.Conversation, senderId string, content string) (*model.Message, error) {
	if !conversation.HasParticipant(senderId) {
		return nil, apperrors.Forbidden("sender is not a participant of this conversation")
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	message := &model.Message{
		ConversationID: conversation.Id,
		SenderID:       senderId,
		Content:        content,
		IsRead:         false,
	}
	if err := s.db.Create(message).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "message create failed", err)
	}
	return message, nil
}

// Get fetches a single message by id.
func (s *Store) Get(messageId string) (*model.Message, error) {
	var message model.Message
	err := s.db.Where("id = ?", messageId).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("message not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "message fetch failed", err)
	}
	return &message, nil
}

// Edit replaces the content of editorId's own message. Editing never touches
// the read state, so an already seen message stays seen.
func (s *Store) Edit(messageId string, editorId string, content string) (*model.Message, error) {
	message, err := s.Get(messageId)
	if err != nil {
		return nil, err
	}
	if message.SenderID != editorId {
		return nil, apperrors.Forbidden("only the author can edit a message")
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	if err := s.db.Model(message).Update("content", content).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "message update failed", err)
	}
	return message, nil
}

// Delete removes editorId's own message.
func (s *Store) Delete(messageId string, editorId string) error {
	message, err := s.Get(messageId)
	if err != nil {
		return err
	}
	if message.SenderID != editorId {
		return apperrors.Forbidden("only the author can delete a message")
	}
	if err := s.db.Delete(message).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "message delete failed", err)
	}
	return nil
}

// List returns the full history of a conversation in send order. Ties on the
// timestamp break on id so the order is stable.
func (s *Store) List(conversationId string) ([]*model.Message, error) {
	var messages []*model.Message
	err := s.db.Where("conversation_id = ?", conversationId).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "message list failed", err)
	}
	return messages, nil
}

// MarkConversationRead flips every message readerId received in the
// conversation to read. The reader's own messages are untouched: read state
// tracks what the counterpart has seen, not the author. Returns the number of
// messages flipped.
func (s *Store) MarkConversationRead(conversationId string, readerId string) (int64, error) {
	result := s.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationId, readerId, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, "message read update failed", result.Error)
	}
	return result.RowsAffected, nil
}

// CountUnread returns how many unseen messages readerId has in the
// conversation.
func (s *Store) CountUnread(conversationId string, readerId string) (int64, error) {
	var count int64
	err := s.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationId, readerId, false).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, "unread count failed", err)
	}
	return count, nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.InvalidArg("message content must not be empty")
	}
	if len([]rune(content)) > MessageContentMaxLen {
		return apperrors.InvalidArg("message content is too long")
	}
	return nil
}
