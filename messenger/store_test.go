package messenger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/utils"
)

type storeFixture struct {
	db           *gorm.DB
	store        *Store
	alice        model.User
	bob          model.User
	carol        model.User
	conversation *model.Conversation
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	db, err := utils.CreateTempDB(t)
	require.NoError(t, err)

	f := &storeFixture{
		db:    db,
		store: NewStore(db),
		alice: model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"},
		bob:   model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"},
		carol: model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"},
	}
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)
	require.NoError(t, db.Create(&f.carol).Error)

	conversation, err := NewDirectory(db).GetOrCreate(f.alice.Id, f.bob.Id)
	require.NoError(t, err)
	f.conversation = conversation
	return f
}

func TestAppend(t *testing.T) {
	f := newStoreFixture(t)

	t.Run("Test_new_message_starts_unread", func(t *testing.T) {
		message, err := f.store.Append(f.conversation, f.alice.Id, "hi bob")
		require.NoError(t, err)
		assert.NotEmpty(t, message.Id)
		assert.False(t, message.IsRead)
		assert.Equal(t, f.conversation.Id, message.ConversationID)
	})

	t.Run("Test_non_participant_cannot_send", func(t *testing.T) {
		_, err := f.store.Append(f.conversation, f.carol.Id, "let me in")
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})

	t.Run("Test_empty_content_is_rejected", func(t *testing.T) {
		_, err := f.store.Append(f.conversation, f.alice.Id, "   ")
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("Test_content_over_limit_is_rejected", func(t *testing.T) {
		_, err := f.store.Append(f.conversation, f.alice.Id, strings.Repeat("a", MessageContentMaxLen+1))
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("Test_content_at_limit_is_accepted", func(t *testing.T) {
		_, err := f.store.Append(f.conversation, f.alice.Id, strings.Repeat("a", MessageContentMaxLen))
		assert.NoError(t, err)
	})
}

func TestMarkConversationRead(t *testing.T) {
	f := newStoreFixture(t)

	fromAlice, err := f.store.Append(f.conversation, f.alice.Id, "one")
	require.NoError(t, err)
	_, err = f.store.Append(f.conversation, f.alice.Id, "two")
	require.NoError(t, err)
	fromBob, err := f.store.Append(f.conversation, f.bob.Id, "reply")
	require.NoError(t, err)

	t.Run("Test_reader_marks_only_received_messages", func(t *testing.T) {
		flipped, err := f.store.MarkConversationRead(f.conversation.Id, f.bob.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(2), flipped)

		refreshed, err := f.store.Get(fromAlice.Id)
		require.NoError(t, err)
		assert.True(t, refreshed.IsRead)

		own, err := f.store.Get(fromBob.Id)
		require.NoError(t, err)
		assert.False(t, own.IsRead)
	})

	t.Run("Test_marking_again_is_a_noop", func(t *testing.T) {
		flipped, err := f.store.MarkConversationRead(f.conversation.Id, f.bob.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), flipped)
	})

	t.Run("Test_unread_count_tracks_reader", func(t *testing.T) {
		count, err := f.store.CountUnread(f.conversation.Id, f.alice.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestEdit(t *testing.T) {
	f := newStoreFixture(t)

	message, err := f.store.Append(f.conversation, f.alice.Id, "draft")
	require.NoError(t, err)
	_, err = f.store.MarkConversationRead(f.conversation.Id, f.bob.Id)
	require.NoError(t, err)

	t.Run("Test_author_can_edit", func(t *testing.T) {
		edited, err := f.store.Edit(message.Id, f.alice.Id, "final")
		require.NoError(t, err)
		assert.Equal(t, "final", edited.Content)
	})

	t.Run("Test_edit_preserves_read_state", func(t *testing.T) {
		refreshed, err := f.store.Get(message.Id)
		require.NoError(t, err)
		assert.Equal(t, "final", refreshed.Content)
		assert.True(t, refreshed.IsRead)
	})

	t.Run("Test_non_author_cannot_edit", func(t *testing.T) {
		_, err := f.store.Edit(message.Id, f.bob.Id, "hijacked")
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})

	t.Run("Test_edit_unknown_message_is_not_found", func(t *testing.T) {
		_, err := f.store.Edit("no-such-message", f.alice.Id, "whatever")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("Test_edit_validates_content", func(t *testing.T) {
		_, err := f.store.Edit(message.Id, f.alice.Id, "")
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})
}

func TestDelete(t *testing.T) {
	f := newStoreFixture(t)

	message, err := f.store.Append(f.conversation, f.alice.Id, "oops")
	require.NoError(t, err)

	t.Run("Test_non_author_cannot_delete", func(t *testing.T) {
		err := f.store.Delete(message.Id, f.bob.Id)
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})

	t.Run("Test_author_can_delete", func(t *testing.T) {
		require.NoError(t, f.store.Delete(message.Id, f.alice.Id))
		_, err := f.store.Get(message.Id)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func TestList(t *testing.T) {
	f := newStoreFixture(t)

	for _, content := range []string{"first", "second", "third"} {
		_, err := f.store.Append(f.conversation, f.alice.Id, content)
		require.NoError(t, err)
	}

	messages, err := f.store.List(f.conversation.Id)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	assert.Equal(t, "third", messages[2].Content)
}
