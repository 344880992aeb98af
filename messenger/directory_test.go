package messenger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/utils"
)

func TestGetOrCreate(t *testing.T) {
	db, err := utils.CreateTempDB(t)
	require.NoError(t, err)

	alice := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	directory := NewDirectory(db)

	t.Run("Test_creates_on_first_contact", func(t *testing.T) {
		conversation, err := directory.GetOrCreate(alice.Id, bob.Id)
		require.NoError(t, err)
		assert.NotEmpty(t, conversation.Id)
		assert.Equal(t, alice.Id, conversation.User1ID)
		assert.Equal(t, bob.Id, conversation.User2ID)
	})

	t.Run("Test_same_ordering_reuses_conversation", func(t *testing.T) {
		first, err := directory.GetOrCreate(alice.Id, bob.Id)
		require.NoError(t, err)
		second, err := directory.GetOrCreate(alice.Id, bob.Id)
		require.NoError(t, err)
		assert.Equal(t, first.Id, second.Id)
	})

	t.Run("Test_reversed_ordering_reuses_conversation", func(t *testing.T) {
		first, err := directory.GetOrCreate(alice.Id, bob.Id)
		require.NoError(t, err)
		reversed, err := directory.GetOrCreate(bob.Id, alice.Id)
		require.NoError(t, err)
		assert.Equal(t, first.Id, reversed.Id)

		var count int64
		require.NoError(t, db.Model(&model.Conversation{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Test_self_conversation_is_rejected", func(t *testing.T) {
		_, err := directory.GetOrCreate(alice.Id, alice.Id)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})
}

func TestDirectoryGet(t *testing.T) {
	db, err := utils.CreateTempDB(t)
	require.NoError(t, err)

	alice := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	directory := NewDirectory(db)
	created, err := directory.GetOrCreate(alice.Id, bob.Id)
	require.NoError(t, err)

	t.Run("Test_get_preloads_participants", func(t *testing.T) {
		conversation, err := directory.Get(created.Id)
		require.NoError(t, err)
		assert.Equal(t, "alice", conversation.User1.Username)
		assert.Equal(t, "bob", conversation.User2.Username)
	})

	t.Run("Test_get_unknown_id_is_not_found", func(t *testing.T) {
		_, err := directory.Get("no-such-conversation")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func TestListForUser(t *testing.T) {
	db, err := utils.CreateTempDB(t)
	require.NoError(t, err)

	alice := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	carol := model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)
	require.NoError(t, db.Create(&carol).Error)

	directory := NewDirectory(db)
	withBob, err := directory.GetOrCreate(alice.Id, bob.Id)
	require.NoError(t, err)
	withCarol, err := directory.GetOrCreate(carol.Id, alice.Id)
	require.NoError(t, err)

	t.Run("Test_lists_both_slots", func(t *testing.T) {
		conversations, err := directory.ListForUser(alice.Id)
		require.NoError(t, err)
		require.Len(t, conversations, 2)

		ids := []string{conversations[0].Id, conversations[1].Id}
		assert.Contains(t, ids, withBob.Id)
		assert.Contains(t, ids, withCarol.Id)
	})

	t.Run("Test_uninvolved_user_sees_nothing", func(t *testing.T) {
		bobOnly, err := directory.ListForUser(bob.Id)
		require.NoError(t, err)
		require.Len(t, bobOnly, 1)
		assert.Equal(t, withBob.Id, bobOnly[0].Id)
	})
}
