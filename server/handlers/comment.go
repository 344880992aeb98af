package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/presence"
)

const commentMaxLen = 500

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

type commentDTO struct {
	Id        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateComment adds a comment under a post and notifies its author.
func CreateComment(db *gorm.DB, registry *presence.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}
		post, err := findPostById(db, c.Param("post_id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			abortWithError(c, apperrors.InvalidArg("content is required"))
			return
		}
		if len([]rune(req.Content)) > commentMaxLen {
			abortWithError(c, apperrors.InvalidArg("comment is too long"))
			return
		}

		comment := model.Comment{Content: req.Content, UserID: userId, PostID: post.Id}
		if err := db.Create(&comment).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "comment create failed", err))
			return
		}

		recordNotification(db, registry, post.UserID, userId, post.Id, model.NotificationTypeComment,
			map[string]interface{}{"comment_id": comment.Id})
		c.JSON(http.StatusCreated, gin.H{"id": comment.Id, "content": comment.Content})
	}
}

// DeleteComment removes a comment. The commenter or the post's author may
// delete it.
func DeleteComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		var comment model.Comment
		err := db.Where("id = ?", c.Param("comment_id")).First(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, apperrors.NotFound("comment not found"))
			return
		}
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "comment lookup failed", err))
			return
		}

		if comment.UserID != userId {
			post, err := findPostById(db, comment.PostID)
			if err != nil || post.UserID != userId {
				abortWithError(c, apperrors.Forbidden("only the commenter or the post author can delete a comment"))
				return
			}
		}

		if err := db.Delete(&comment).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "comment delete failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true, "id": comment.Id})
	}
}

// ListComments returns every comment under a post in posting order.
func ListComments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := findPostById(db, c.Param("post_id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		var comments []*model.Comment
		err = db.Where("post_id = ?", post.Id).
			Order("created_at ASC, id ASC").Find(&comments).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "comment list failed", err))
			return
		}

		usernames := map[string]string{}
		dtos := make([]commentDTO, 0, len(comments))
		for _, comment := range comments {
			username, ok := usernames[comment.UserID]
			if !ok {
				var user model.User
				if err := db.Select("username").Where("id = ?", comment.UserID).First(&user).Error; err == nil {
					username = user.Username
				}
				usernames[comment.UserID] = username
			}
			dtos = append(dtos, commentDTO{
				Id:        comment.Id,
				Content:   comment.Content,
				UserID:    comment.UserID,
				Username:  username,
				PostID:    comment.PostID,
				CreatedAt: comment.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"comments": dtos})
	}
}
