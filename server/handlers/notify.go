package handlers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/presence"
	Logger "github.com/valenstagram/valenstagram-backend/utils/log"
)

// recordNotification persists an activity record for recipientId and pushes it
// to their live channels. Failures are logged and swallowed: a notification
// must never fail the action that produced it. Self-directed actions produce
// nothing.
func recordNotification(db *gorm.DB, registry *presence.Registry, recipientId, senderId, postId, notificationType string, extra map[string]interface{}) {
	if recipientId == senderId {
		return
	}

	var payload datatypes.JSON
	if extra != nil {
		raw, err := json.Marshal(extra)
		if err != nil {
			Logger.LogV2.Error(fmt.Sprintf("failed to encode notification extra: %v", err))
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	notification := model.Notification{
		UserID:   recipientId,
		SenderID: senderId,
		PostID:   postId,
		Type:     notificationType,
		Extra:    payload,
	}
	if err := db.Create(&notification).Error; err != nil {
		Logger.LogV2.Error(fmt.Sprintf("failed to store %s notification for user %s: %v", notificationType, recipientId, err))
		return
	}

	registry.SendToUser(recipientId, presence.Event{
		Event:        presence.EventNotification,
		Notification: notification,
	})
}
