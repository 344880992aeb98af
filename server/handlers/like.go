package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/presence"
)

// LikePost records the caller's like on a post. Liking twice is a no-op
// success thanks to the unique pair index.
func LikePost(db *gorm.DB, registry *presence.Registry) gin.HandlerFunc {
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

		like := model.Like{UserID: userId, PostID: post.Id}
		if err := db.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusOK, gin.H{"liked": true})
				return
			}
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "like create failed", err))
			return
		}

		recordNotification(db, registry, post.UserID, userId, post.Id, model.NotificationTypeLike, nil)
		c.JSON(http.StatusOK, gin.H{"liked": true})
	}
}

// UnlikePost removes the caller's like from a post.
func UnlikePost(db *gorm.DB) gin.HandlerFunc {
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

		err = db.Where("user_id = ? AND post_id = ?", userId, post.Id).
			Delete(&model.Like{}).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "unlike failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": false})
	}
}

// GetLikes returns the like count and whether the caller already liked.
func GetLikes(db *gorm.DB) gin.HandlerFunc {
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

		var count int64
		if err := db.Model(&model.Like{}).Where("post_id = ?", post.Id).Count(&count).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "like count failed", err))
			return
		}
		var mine int64
		db.Model(&model.Like{}).Where("post_id = ? AND user_id = ?", post.Id, userId).Count(&mine)

		c.JSON(http.StatusOK, gin.H{"count": count, "liked": mine > 0})
	}
}
