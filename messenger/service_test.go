package messenger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/presence"
	"github.com/valenstagram/valenstagram-backend/utils"
)

// fakeChannel records every event pushed to it.
type fakeChannel struct {
	mu     sync.Mutex
	events []presence.Event
}

func (c *fakeChannel) Send(event presence.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func (c *fakeChannel) Events() []presence.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]presence.Event{}, c.events...)
}

type serviceFixture struct {
	db       *gorm.DB
	service  *Service
	registry *presence.Registry
	status   *utils.FakeStatusStore
	alice    model.User
	bob      model.User
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := utils.CreateTempDB(t)
	require.NoError(t, err)

	f := &serviceFixture{
		db:       db,
		registry: presence.NewRegistry(),
		status:   utils.NewFakeStatusStore(),
		alice:    model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"},
		bob:      model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)
	f.service = NewService(db, f.registry, f.status)
	return f
}

func TestSendMessage(t *testing.T) {
	t.Run("Test_online_recipient_gets_pushed", func(t *testing.T) {
		f := newServiceFixture(t)
		channel := &fakeChannel{}
		f.registry.Connect(f.bob.Id, channel)

		dto, err := f.service.SendMessage(f.alice.Id, "bob", "hi bob")
		require.NoError(t, err)
		assert.Equal(t, f.alice.Id, dto.SenderId)
		assert.Equal(t, "hi bob", dto.Content)
		assert.False(t, dto.IsRead)

		events := channel.Events()
		require.Len(t, events, 1)
		assert.Equal(t, presence.EventNewMessage, events[0].Event)
		assert.Equal(t, dto.ConversationId, events[0].ConversationId)
		assert.Equal(t, dto, events[0].Message)
	})

	t.Run("Test_offline_recipient_still_gets_stored", func(t *testing.T) {
		f := newServiceFixture(t)

		dto, err := f.service.SendMessage(f.alice.Id, "bob", "see you later")
		require.NoError(t, err)

		var count int64
		require.NoError(t, f.db.Model(&model.Message{}).Where("conversation_id = ?", dto.ConversationId).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Test_every_recipient_channel_gets_the_push", func(t *testing.T) {
		f := newServiceFixture(t)
		phone := &fakeChannel{}
		laptop := &fakeChannel{}
		f.registry.Connect(f.bob.Id, phone)
		f.registry.Connect(f.bob.Id, laptop)

		_, err := f.service.SendMessage(f.alice.Id, "bob", "ping")
		require.NoError(t, err)
		assert.Len(t, phone.Events(), 1)
		assert.Len(t, laptop.Events(), 1)
	})

	t.Run("Test_sender_channels_are_not_pushed", func(t *testing.T) {
		f := newServiceFixture(t)
		own := &fakeChannel{}
		f.registry.Connect(f.alice.Id, own)

		_, err := f.service.SendMessage(f.alice.Id, "bob", "ping")
		require.NoError(t, err)
		assert.Empty(t, own.Events())
	})

	t.Run("Test_unknown_recipient_is_not_found", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.SendMessage(f.alice.Id, "nobody", "hello?")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("Test_sending_to_yourself_is_rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.SendMessage(f.alice.Id, "alice", "dear diary")
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("Test_unread_counter_is_bumped", func(t *testing.T) {
		f := newServiceFixture(t)

		first, err := f.service.SendMessage(f.alice.Id, "bob", "one")
		require.NoError(t, err)
		_, err = f.service.SendMessage(f.alice.Id, "bob", "two")
		require.NoError(t, err)

		counts, err := f.service.UnreadCounts(f.bob.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[first.ConversationId])
	})
}

func TestGetConversationContent(t *testing.T) {
	t.Run("Test_fetch_marks_received_messages_read", func(t *testing.T) {
		f := newServiceFixture(t)
		sent, err := f.service.SendMessage(f.alice.Id, "bob", "did you see this?")
		require.NoError(t, err)

		conversation, messages, err := f.service.GetConversationContent(sent.ConversationId, f.bob.Id)
		require.NoError(t, err)
		assert.Equal(t, sent.ConversationId, conversation.Id)
		require.Len(t, messages, 1)
		assert.True(t, messages[0].IsRead)

		counts, err := f.service.UnreadCounts(f.bob.Id)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("Test_sender_fetch_leaves_messages_unread", func(t *testing.T) {
		f := newServiceFixture(t)
		sent, err := f.service.SendMessage(f.alice.Id, "bob", "still waiting")
		require.NoError(t, err)

		_, messages, err := f.service.GetConversationContent(sent.ConversationId, f.alice.Id)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.False(t, messages[0].IsRead)
	})

	t.Run("Test_outsider_is_forbidden", func(t *testing.T) {
		f := newServiceFixture(t)
		carol := model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
		require.NoError(t, f.db.Create(&carol).Error)
		sent, err := f.service.SendMessage(f.alice.Id, "bob", "private")
		require.NoError(t, err)

		_, _, err = f.service.GetConversationContent(sent.ConversationId, carol.Id)
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})

	t.Run("Test_unknown_conversation_is_not_found", func(t *testing.T) {
		f := newServiceFixture(t)
		_, _, err := f.service.GetConversationContent("no-such-conversation", f.alice.Id)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func TestListConversationDTOs(t *testing.T) {
	f := newServiceFixture(t)
	sent, err := f.service.SendMessage(f.alice.Id, "bob", "hello")
	require.NoError(t, err)

	conversations, err := f.service.ListConversations(f.alice.Id)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, sent.ConversationId, conversations[0].Id)
	assert.Equal(t, "alice", conversations[0].User1.Username)
	assert.Equal(t, "bob", conversations[0].User2.Username)
}

func TestEditMessageDelivery(t *testing.T) {
	f := newServiceFixture(t)
	channel := &fakeChannel{}
	f.registry.Connect(f.bob.Id, channel)

	sent, err := f.service.SendMessage(f.alice.Id, "bob", "draft")
	require.NoError(t, err)

	edited, err := f.service.EditMessage(sent.Id, f.alice.Id, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Content)

	events := channel.Events()
	require.Len(t, events, 2)
	assert.Equal(t, presence.EventMessageEdited, events[1].Event)
}

func TestDeleteMessageDelivery(t *testing.T) {
	f := newServiceFixture(t)
	channel := &fakeChannel{}
	f.registry.Connect(f.bob.Id, channel)

	sent, err := f.service.SendMessage(f.alice.Id, "bob", "oops")
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteMessage(sent.Id, f.alice.Id))

	events := channel.Events()
	require.Len(t, events, 2)
	assert.Equal(t, presence.EventMessageDeleted, events[1].Event)

	_, _, err = f.service.GetConversationContent(sent.ConversationId, f.bob.Id)
	require.NoError(t, err)
}
