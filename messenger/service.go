package messenger

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/presence"
	"github.com/valenstagram/valenstagram-backend/utils"
	Logger "github.com/valenstagram/valenstagram-backend/utils/log"
)

// Service is the delivery orchestrator: it stitches the conversation
// directory, the message store, the presence registry and the unread counters
// into the operations the transport layer exposes. Persistence always happens
// before any live push, and a failed push is logged and forgotten; the stored
// row is the source of truth.
type Service struct {
	db        *gorm.DB
	directory *Directory
	store     *Store
	registry  *presence.Registry
	status    utils.StatusStore
}

func NewService(db *gorm.DB, registry *presence.Registry, status utils.StatusStore) *Service {
	return &Service{
		db:        db,
		directory: NewDirectory(db),
		store:     NewStore(db),
		registry:  registry,
		status:    status,
	}
}

// SendMessage delivers content from senderId to the user named
// recipientUsername, creating their conversation on first contact. The
// recipient's live channels get a new_message push after the row is stored.
func (s *Service) SendMessage(senderId string, recipientUsername string, content string) (MessageDTO, error) {
	recipient, err := s.findUserByUsername(recipientUsername)
	if err != nil {
		return MessageDTO{}, err
	}

	conversation, err := s.directory.GetOrCreate(senderId, recipient.Id)
	if err != nil {
		return MessageDTO{}, err
	}

	message, err := s.store.Append(conversation, senderId, content)
	if err != nil {
		return MessageDTO{}, err
	}
	dto := NewMessageDTO(message)

	if err := s.status.IncrementUnread(recipient.Id, conversation.Id); err != nil {
		Logger.LogV2.Error(fmt.Sprintf("failed to bump unread counter for user %s: %v", recipient.Id, err))
	}
	s.registry.SendToUser(recipient.Id, presence.Event{
		Event:          presence.EventNewMessage,
		ConversationId: conversation.Id,
		Message:        dto,
	})

	return dto, nil
}

// GetConversationContent returns a conversation and its full history for one
// of its participants. Fetching the content is the read acknowledgement: every
// message the reader received flips to read before the history is loaded, so
// the returned rows already carry the new state.
func (s *Service) GetConversationContent(conversationId string, readerId string) (ConversationDTO, []MessageDTO, error) {
	conversation, err := s.directory.Get(conversationId)
	if err != nil {
		return ConversationDTO{}, nil, err
	}
	if !conversation.HasParticipant(readerId) {
		return ConversationDTO{}, nil, apperrors.Forbidden("you are not a participant of this conversation")
	}

	if _, err := s.store.MarkConversationRead(conversationId, readerId); err != nil {
		return ConversationDTO{}, nil, err
	}
	if err := s.status.ClearUnread(readerId, conversationId); err != nil {
		Logger.LogV2.Error(fmt.Sprintf("failed to clear unread counter for user %s: %v", readerId, err))
	}

	messages, err := s.store.List(conversationId)
	if err != nil {
		return ConversationDTO{}, nil, err
	}
	return NewConversationDTO(conversation), NewMessageDTOs(messages), nil
}

// ListConversations returns every conversation userId participates in.
func (s *Service) ListConversations(userId string) ([]ConversationDTO, error) {
	conversations, err := s.directory.ListForUser(userId)
	if err != nil {
		return nil, err
	}
	dtos := make([]ConversationDTO, 0, len(conversations))
	for _, c := range conversations {
		dtos = append(dtos, NewConversationDTO(c))
	}
	return dtos, nil
}

// EditMessage rewrites the author's own message and pushes the updated copy to
// the counterpart so open clients converge without a refetch.
func (s *Service) EditMessage(messageId string, editorId string, content string) (MessageDTO, error) {
	message, err := s.store.Edit(messageId, editorId, content)
	if err != nil {
		return MessageDTO{}, err
	}
	dto := NewMessageDTO(message)
	s.pushToCounterpart(message.ConversationID, editorId, presence.Event{
		Event:          presence.EventMessageEdited,
		ConversationId: message.ConversationID,
		Message:        dto,
	})
	return dto, nil
}

// DeleteMessage removes the author's own message and notifies the counterpart.
func (s *Service) DeleteMessage(messageId string, editorId string) error {
	message, err := s.store.Get(messageId)
	if err != nil {
		return err
	}
	if err := s.store.Delete(messageId, editorId); err != nil {
		return err
	}
	s.pushToCounterpart(message.ConversationID, editorId, presence.Event{
		Event:          presence.EventMessageDeleted,
		ConversationId: message.ConversationID,
		Message:        NewMessageDTO(message),
	})
	return nil
}

// UnreadCounts returns userId's per-conversation unread badge counters.
func (s *Service) UnreadCounts(userId string) (map[string]int64, error) {
	counts, err := s.status.GetUnreadCounts(userId)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "unread counters unavailable", err)
	}
	return counts, nil
}

func (s *Service) pushToCounterpart(conversationId string, actorId string, event presence.Event) {
	conversation, err := s.directory.Get(conversationId)
	if err != nil {
		Logger.LogV2.Error(fmt.Sprintf("failed to resolve conversation %s for push: %v", conversationId, err))
		return
	}
	if !conversation.HasParticipant(actorId) {
		return
	}
	s.registry.SendToUser(conversation.OtherParticipant(actorId), event)
}

func (s *Service) findUserByUsername(username string) (*model.User, error) {
	var user model.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "user lookup failed", err)
	}
	return &user, nil
}
