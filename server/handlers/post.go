package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/valenstagram/valenstagram-backend/apperrors"
	"github.com/valenstagram/valenstagram-backend/filestore"
	"github.com/valenstagram/valenstagram-backend/model"
	"github.com/valenstagram/valenstagram-backend/server/middlewares"
)

const captionMaxLen = 500

type editPostRequest struct {
	Caption   *string `json:"caption"`
	HiddenTag *bool   `json:"hidden_tag"`
}

func newPostDTO(db *gorm.DB, post *model.Post, username string) PostDTO {
	dto := PostDTO{Username: username}
	copier.Copy(&dto, post)
	db.Model(&model.Like{}).Where("post_id = ?", post.Id).Count(&dto.LikeCount)
	db.Model(&model.Comment{}).Where("post_id = ?", post.Id).Count(&dto.CommentCount)
	return dto
}

func newPostDTOs(db *gorm.DB, posts []*model.Post) []PostDTO {
	// one username lookup per author, not per post
	usernames := map[string]string{}
	dtos := make([]PostDTO, 0, len(posts))
	for _, post := range posts {
		username, ok := usernames[post.UserID]
		if !ok {
			var user model.User
			if err := db.Select("username").Where("id = ?", post.UserID).First(&user).Error; err == nil {
				username = user.Username
			}
			usernames[post.UserID] = username
		}
		dtos = append(dtos, newPostDTO(db, post, username))
	}
	return dtos
}

// UploadPost creates a post from a multipart form carrying the picture and an
// optional caption.
func UploadPost(db *gorm.DB, store filestore.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		caption := c.PostForm("caption")
		if len([]rune(caption)) > captionMaxLen {
			abortWithError(c, apperrors.InvalidArg("caption is too long"))
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

		post := model.Post{
			ImageUrl: key,
			Caption:  caption,
			UserID:   userId,
		}
		if err := db.Create(&post).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "post create failed", err))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": post.Id, "image_url": key, "url": store.GetUrlFromKey(key)})
	}
}

// GlobalFeed returns every visible post, newest first.
func GlobalFeed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var posts []*model.Post
		err := db.Where("hidden_tag = ?", false).
			Order("created_at DESC").Find(&posts).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "feed query failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": newPostDTOs(db, posts)})
	}
}

// HomeFeed returns visible posts from the users the caller follows, plus the
// caller's own.
func HomeFeed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		followed := db.Model(&model.Follow{}).Select("followed_id").Where("follower_id = ?", userId)

		var posts []*model.Post
		err := db.Where("hidden_tag = ?", false).
			Where("user_id IN (?) OR user_id = ?", followed, userId).
			Order("created_at DESC").Find(&posts).Error
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "feed query failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": newPostDTOs(db, posts)})
	}
}

// UserFeed returns one user's posts. Hidden posts show up only when the owner
// asks for their own feed.
func UserFeed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := findUserByUsername(db, c.Param("username"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		query := db.Where("user_id = ?", owner.Id)
		if owner.Id != middlewares.GetUserId(c) {
			query = query.Where("hidden_tag = ?", false)
		}

		var posts []*model.Post
		if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "feed query failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": newPostDTOs(db, posts)})
	}
}

// EditPost updates the caption or visibility of the caller's own post.
func EditPost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		post, err := findPostById(db, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if post.UserID != userId {
			abortWithError(c, apperrors.Forbidden("only the author can edit a post"))
			return
		}

		var req editPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, apperrors.InvalidArg("invalid post payload"))
			return
		}

		updates := map[string]interface{}{}
		if req.Caption != nil {
			if len([]rune(*req.Caption)) > captionMaxLen {
				abortWithError(c, apperrors.InvalidArg("caption is too long"))
				return
			}
			updates["caption"] = *req.Caption
		}
		if req.HiddenTag != nil {
			updates["hidden_tag"] = *req.HiddenTag
		}
		if len(updates) == 0 {
			abortWithError(c, apperrors.InvalidArg("nothing to update"))
			return
		}

		if err := db.Model(post).Updates(updates).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "post update failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": post.Id, "caption": post.Caption, "hidden_tag": post.HiddenTag})
	}
}

// DeletePost removes the caller's own post; likes and comments cascade.
func DeletePost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := requireUser(c)
		if !ok {
			return
		}

		post, err := findPostById(db, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if post.UserID != userId {
			abortWithError(c, apperrors.Forbidden("only the author can delete a post"))
			return
		}

		if err := db.Delete(post).Error; err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInternal, "post delete failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true, "id": post.Id})
	}
}
