package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/server/middlewares"
	Logger "github.com/valenstagram/valenstagram-backend/utils/log"
)

// UserProfileDTO is the public view of an account. The email and password
// hash never leave the server.
type UserProfileDTO struct {
	Id             string    `json:"id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	Website        string    `json:"website"`
	Gender         string    `json:"gender"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

type PostDTO struct {
	Id           string    `json:"id"`
	ImageUrl     string    `json:"image_url"`
	Caption      string    `json:"caption"`
	HiddenTag    bool      `json:"hidden_tag"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

func NewUserProfileDTO(u *model.User) UserProfileDTO {
	dto := UserProfileDTO{}
	copier.Copy(&dto, u)
	return dto
}

// abortWithError terminates the request with the status the error's taxonomy
// code maps to. Internal details are logged, never returned to the client.
func abortWithError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		Logger.LogV2.Error(fmt.Sprintf("%s %s failed: %v", c.Request.Method, c.FullPath(), err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// requireUser returns the authenticated user id or aborts with 401.
func requireUser(c *gin.Context) (string, bool) {
	userId := middlewares.GetUserId(c)
	if userId == "" {
		abortWithError(c, apperrors.Unauthorized("authentication required"))
		return "", false
	}
	return userId, true
}

func findUserById(db *gorm.DB, userId string) (*model.User, error) {
	var user model.User
	err := db.Where("id = ?", userId).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "user lookup failed", err)
	}
	return &user, nil
}

func findUserByUsername(db *gorm.DB, username string) (*model.User, error) {
	var user model.User
	err := db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "user lookup failed", err)
	}
	return &user, nil
}

func findPostById(db *gorm.DB, postId string) (*model.Post, error) {
	var post model.Post
	err := db.Where("id = ?", postId).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("post not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "post lookup failed", err)
	}
	return &post, nil
}
