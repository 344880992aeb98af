package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/messenger"
)

type messageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage delivers a direct message to the named user.
func SendMessage(service *messenger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		var req messageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("content is required"))
			return
		}

		message, err := service.SendMessage(userId, c.Param("username"), req.Content)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": message})
	}
}

// EditMessage rewrites the caller's own message.
func EditMessage(service *messenger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		var req messageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("content is required"))
			return
		}

		message, err := service.EditMessage(c.Param("id"), userId, req.Content)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

// DeleteMessage removes the caller's own message.
func DeleteMessage(service *messenger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		messageId := c.Param("id")
		if err := service.DeleteMessage(messageId, userId); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true, "id": messageId})
	}
}

// GetConversationContent returns a conversation with its history. Fetching is
// the read acknowledgement: the caller's received messages flip to read.
func GetConversationContent(service *messenger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		conversation, messages, err := service.GetConversationContent(c.Param("id"), userId)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversation": conversation, "messages": messages})
	}
}

// ListConversations returns the caller's conversations with both parties'
// light profiles.
func ListConversations(service *messenger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		conversations, err := service.ListConversations(userId)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversations": conversations})
	}
}

// UnreadCount returns the caller's per-conversation unread counters.
func UnreadCount(service *messenger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		counts, err := service.UnreadCounts(userId)
		if err != nil {
			abortWithError(c, err)
			return
		}

		var total int64
		for _, n := range counts {
			total += n
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "conversations": counts})
	}
}
