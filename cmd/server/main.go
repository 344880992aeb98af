package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/valenstagram/valenstagram-backend/auth"
	"github.com/valenstagram/valenstagram-backend/filestore"
	"github.com/valenstagram/valenstagram-backend/messenger"
	"github.com/valenstagram/valenstagram-backend/presence"
	"github.com/valenstagram/valenstagram-backend/server/handlers"
	"github.com/valenstagram/valenstagram-backend/server/middlewares"
	"github.com/valenstagram/valenstagram-backend/utils"
	"github.com/valenstagram/valenstagram-backend/utils/dotenv"
	. "github.com/valenstagram/valenstagram-backend/utils/flag"
	. "github.com/valenstagram/valenstagram-backend/utils/log"
)

func cleanup() {
	LogV2.Info("api server shutdown")
}

// newFileStore picks S3 when a bucket is configured, local disk otherwise.
func newFileStore() (filestore.FileStore, error) {
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		return filestore.NewS3FileStore(bucket, os.Getenv("S3_PUBLIC_PREFIX"))
	}
	return filestore.NewLocalFileStore(os.Getenv("UPLOAD_DIR"))
}

// newStatusStore uses Redis when configured and falls back to the in-memory
// store for local development.
func newStatusStore() utils.StatusStore {
	if os.Getenv("REDIS_DSN") == "" {
		LogV2.Info("REDIS_DSN not set, using in-memory unread counters")
		return utils.NewFakeStatusStore()
	}
	store, err := utils.NewRedisStatusStore()
	if err != nil {
		panic(err)
	}
	return store
}

func main() {
	ParseFlags()
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	// Default with the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	db, err := utils.GetDBConnection()
	if err != nil {
		panic("failed to connect to database")
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		panic(err)
	}

	tokenProvider, err := auth.NewTokenProviderFromEnv()
	if err != nil {
		panic(err)
	}
	fileStore, err := newFileStore()
	if err != nil {
		panic(err)
	}
	defer fileStore.CleanUp()

	registry := presence.NewRegistry()
	messengerService := messenger.NewService(db, registry, newStatusStore())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, "pong")
	})

	authGroup := router.Group("/auth")
	authGroup.POST("/register", handlers.Register(db))
	authGroup.POST("/login", handlers.Login(db, tokenProvider))
	authGroup.POST("/token", handlers.VerifyToken(tokenProvider))

	authed := router.Group("/", middlewares.JWT(tokenProvider))

	user := authed.Group("/user")
	user.GET("/profile", handlers.GetOwnProfile(db))
	user.GET("/profile/:username", handlers.GetProfile(db))
	user.POST("/edit", handlers.EditProfile(db))
	user.POST("/upload-profile-picture", handlers.UploadProfilePicture(db, fileStore))
	user.GET("/picture/:filename", handlers.ServePicture(fileStore))
	user.GET("/search/:username", handlers.SearchUsers(db))
	user.GET("/notifications", handlers.ListNotifications(db))

	post := authed.Group("/post")
	post.POST("/upload", handlers.UploadPost(db, fileStore))
	post.GET("/feed/global", handlers.GlobalFeed(db))
	post.GET("/feed", handlers.HomeFeed(db))
	post.GET("/feed/:username", handlers.UserFeed(db))
	post.POST("/edit/:id", handlers.EditPost(db))
	post.DELETE("/delete/:id", handlers.DeletePost(db))

	follow := authed.Group("/follow")
	follow.PUT("/:username", handlers.FollowUser(db, registry))
	follow.PUT("/unfollow/:username", handlers.UnfollowUser(db))
	follow.GET("/get-follow/:username", handlers.ListFollowing(db))
	follow.GET("/get-followed/:username", handlers.ListFollowers(db))
	follow.DELETE("/remove-follower/:username", handlers.RemoveFollower(db))

	like := authed.Group("/like")
	like.PUT("/:post_id", handlers.LikePost(db, registry))
	like.DELETE("/:post_id", handlers.UnlikePost(db))
	like.GET("/:post_id", handlers.GetLikes(db))

	comment := authed.Group("/comment")
	comment.PUT("/:post_id", handlers.CreateComment(db, registry))
	comment.DELETE("/delete/:comment_id", handlers.DeleteComment(db))
	comment.GET("/:post_id/contents", handlers.ListComments(db))

	message := authed.Group("/message")
	message.POST("/send/:username", handlers.SendMessage(messengerService))
	message.PATCH("/:id", handlers.EditMessage(messengerService))
	message.DELETE("/:id", handlers.DeleteMessage(messengerService))
	message.GET("/conversation/:id/content", handlers.GetConversationContent(messengerService))
	message.GET("/conversations", handlers.ListConversations(messengerService))
	message.GET("/unread-count", handlers.UnreadCount(messengerService))
	message.GET("/ws", handlers.Websocket(registry))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Valenstagram server - API not found"})
	})

	LogV2.Info("api server starts up")
	router.Run(":8080")
}
