package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/filestore"
	"github.com/valenstagram/valenstagram-backend/model"
)

type editProfileRequest struct {
	Bio     *string `json:"bio"`
	Website *string `json:"website"`
	Gender  *string `json:"gender"`
}

// GetOwnProfile returns the caller's profile, email included.
func GetOwnProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}
		user, err := findUserById(db, userId)
		if err != nil {
			abortWithError(c, err)
			return
		}

		dto := NewUserProfileDTO(user)
		c.JSON(http.StatusOK, gin.H{"profile": dto, "email": user.Email})
	}
}

// GetProfile returns a user's public profile with follower and post counts.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		var postCount, followerCount, followingCount int64
		db.Model(&model.Post{}).Where("user_id = ? AND hidden_tag = ?", user.Id, false).Count(&postCount)
		db.Model(&model.Follow{}).Where("followed_id = ?", user.Id).Count(&followerCount)
		db.Model(&model.Follow{}).Where("follower_id = ?", user.Id).Count(&followingCount)

		c.JSON(http.StatusOK, gin.H{
			"profile":         NewUserProfileDTO(user),
			"post_count":      postCount,
			"follower_count":  followerCount,
			"following_count": followingCount,
		})
	}
}

// EditProfile updates the optional profile fields. Absent fields are left
// untouched, empty strings clear them.
func EditProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		var req editProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("invalid profile payload"))
			return
		}

		updates := map[string]interface{}{}
		if req.Bio != nil {
			updates["bio"] = *req.Bio
		}
		if req.Website != nil {
			updates["website"] = *req.Website
		}
		if req.Gender != nil {
			updates["gender"] = *req.Gender
		}
		if len(updates) == 0 {
			abortWithError(c, apperrors.InvalidArg("nothing to update"))
			return
		}

		if err := db.Model(&model.User{}).Where("id = ?", userId).Updates(updates).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "profile update failed", err))
			return
		}

		user, err := findUserById(db, userId)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": NewUserProfileDTO(user)})
	}
}

// UploadProfilePicture stores the uploaded image and points the caller's
// profile at the new key.
func UploadProfilePicture(db *gorm.DB, store filestore.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			abortWithError(c, apperrors.InvalidArg("file is required"))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "failed to open upload", err))
			return
		}
		defer file.Close()

		key, err := store.Store(file, fileHeader.Filename)
		if errors.Is(err, filestore.ErrUnsupportedFileType) {
			abortWithError(c, apperrors.InvalidArg("unsupported file type"))
			return
		}
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "failed to store upload", err))
			return
		}

		if err := db.Model(&model.User{}).Where("id = ?", userId).
			Update("profile_picture", key).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "profile picture update failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile_picture": key, "url": store.GetUrlFromKey(key)})
	}
}

// ServePicture streams a stored picture. A disk-backed store serves the file
// directly; any other store redirects to its public URL.
func ServePicture(store filestore.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("filename")

		if local, ok := store.(*filestore.LocalFileStore); ok {
			path, err := local.Path(key)
			if err != nil {
				abortWithError(c, apperrors.InvalidArg("invalid file name"))
				return
			}
			c.File(path)
			return
		}
		c.Redirect(http.StatusFound, store.GetUrlFromKey(key))
	}
}

// SearchUsers returns up to 20 users whose username contains the fragment.
func SearchUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fragment := strings.TrimSpace(c.Param("username"))
		if fragment == "" {
			abortWithError(c, apperrors.InvalidArg("search fragment must not be empty"))
			return
		}

		var users []*model.User
		err := db.Where("username LIKE ?", "%"+fragment+"%").
			Order("username ASC").Limit(20).Find(&users).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "user search failed", err))
			return
		}

		results := make([]UserProfileDTO, 0, len(users))
		for _, u := range users {
			results = append(results, NewUserProfileDTO(u))
		}
		c.JSON(http.StatusOK, gin.H{"users": results})
	}
}

// ListNotifications returns the caller's latest activity records.
func ListNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		var notifications []*model.Notification
		err := db.Where("user_id = ?", userId).
			Order("created_at DESC").Limit(50).Find(&notifications).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "notification list failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}
