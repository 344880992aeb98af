package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/auth"
	"github.com/valenstagram/valenstagram-backend/model"
)

const (
	usernameMaxLen = 20
	passwordMinLen = 6
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register creates an account. Duplicate username or email is reported as a
// single 400 without telling the caller which field collided.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("username, email and password are required"))
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Username == "" || len(req.Username) > usernameMaxLen {
			abortWithError(c, apperrors.InvalidArg("username must be 1-20 characters"))
			return
		}
		if !strings.Contains(req.Email, "@") {
			abortWithError(c, apperrors.InvalidArg("email is invalid"))
			return
		}
		if len(req.Password) < passwordMinLen {
			abortWithError(c, apperrors.InvalidArg("password must be at least 6 characters"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err))
			return
		}

		user := model.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				abortWithError(c, apperrors.InvalidArg("username or email is already taken"))
				return
			}
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "user create failed", err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": user.Id, "username": user.Username})
	}
}

// Login checks the credentials and returns a fresh bearer token. Unknown user
// and wrong password are indistinguishable to the caller.
func Login(db *gorm.DB, provider *auth.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("username and password are required"))
			return
		}

		user, err := findUserByUsername(db, req.Username)
		if err != nil {
			abortWithError(c, apperrors.Unauthorized("invalid credentials"))
			return
		}
		if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
			abortWithError(c, apperrors.Unauthorized("invalid credentials"))
			return
		}

		token, err := provider.Issue(user.Id)
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "failed to issue token", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":           token,
			"user_id":         user.Id,
			"username":        user.Username,
			"profile_picture": user.ProfilePicture,
		})
	}
}

// VerifyToken lets a client check whether a stored token is still usable.
func VerifyToken(provider *auth.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("token is required"))
			return
		}
		if _, err := provider.Verify(req.Token); err != nil {
			abortWithError(c, apperrors.Unauthorized("invalid or expired token"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}
