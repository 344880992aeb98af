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

// FollowUser subscribes the caller to the named user. Following twice is a
// no-op success; following yourself is rejected.
func FollowUser(db *gorm.DB, registry *presence.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}
		target, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if target.Id == userId {
			abortWithError(c, apperrors.InvalidArg("you cannot follow yourself"))
			return
		}

		follow := model.Follow{FollowerID: userId, FollowedID: target.Id}
		if err := db.Create(&follow).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusOK, gin.H{"following": true})
				return
			}
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "follow create failed", err))
			return
		}

		recordNotification(db, registry, target.Id, userId, "", model.NotificationTypeFollow, nil)
		c.JSON(http.StatusOK, gin.H{"following": true})
	}
}

// UnfollowUser removes the caller's subscription to the named user.
func UnfollowUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}
		target, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		err = db.Where("follower_id = ? AND followed_id = ?", userId, target.Id).
			Delete(&model.Follow{}).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "unfollow failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"following": false})
	}
}

// RemoveFollower drops the named user from the caller's followers.
func RemoveFollower(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}
		follower, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		err = db.Where("follower_id = ? AND followed_id = ?", follower.Id, userId).
			Delete(&model.Follow{}).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "remove follower failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": true})
	}
}

// ListFollowing returns the users the named user follows.
func ListFollowing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		listFollowProfiles(c, db, "id IN (?)",
			db.Model(&model.Follow{}).Select("followed_id").Where("follower_id = ?", user.Id))
	}
}

// ListFollowers returns the users following the named user.
func ListFollowers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		listFollowProfiles(c, db, "id IN (?)",
			db.Model(&model.Follow{}).Select("follower_id").Where("followed_id = ?", user.Id))
	}
}

func listFollowProfiles(c *gin.Context, db *gorm.DB, condition string, subquery *gorm.DB) {
	var users []*model.User
	if err := db.Where(condition, subquery).Order("username ASC").Find(&users).Error; err != nil {
		abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "follow list failed", err))
		return
	}

	profiles := make([]UserProfileDTO, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, NewUserProfileDTO(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
