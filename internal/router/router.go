package router

import (
	"github.com/nitman/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine and all routes.
func Setup(gdb *gorm.DB, sessionSecret, uploadDir, uploadURLPath string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("nitman_session", store))

	r.Static(uploadURLPath, uploadDir)

	api := handler.NewAPI(gdb, uploadDir, uploadURLPath)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// public read surface
	blog := r.Group("/blog")
	{
		blog.GET("", api.BlogList)
		blog.GET("/raw", api.BlogListRaw)
		blog.GET("/lite", api.BlogListLite)
		blog.GET("/posts/:id", api.ShowPost)
		blog.GET("/posts/:id/comments", api.GetComments)
		blog.GET("/posts/:id/statistics", api.GetPostStatistics)
		blog.POST("/posts/:id/like", api.LikePost)
		blog.POST("/posts/:id/share", api.SharePost)
		blog.POST("/posts/:id/comments", api.CreateComment)
		blog.POST("/authors/:id/follow", api.FollowAuthor)
	}

	r.POST("/register", api.Register)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)

	// authenticated management surface
	admin := r.Group("/admin")
	admin.Use(handler.AuthRequired())
	{
		adminAPI := admin.Group("/api")
		{
			adminAPI.GET("/posts", api.GetPosts)
			adminAPI.GET("/posts/:id", api.GetPost)
			adminAPI.POST("/posts", api.CreatePost)
			adminAPI.PUT("/posts/:id", api.UpdatePost)
			adminAPI.DELETE("/posts/:id", api.DeletePost)
			adminAPI.GET("/posts/:id/versions", api.GetPostVersions)
			adminAPI.DELETE("/versions/:versionId", api.DeletePostVersion)
			adminAPI.GET("/posts/:id/schedules", api.GetPostSchedules)
			adminAPI.POST("/posts/:id/schedules", api.AddPostSchedule)

			adminAPI.POST("/drafts", api.CreateDraft)
			adminAPI.GET("/authors/:id/drafts", api.GetDrafts)
			adminAPI.PUT("/drafts/:id", api.UpdateDraft)
			adminAPI.DELETE("/drafts/:id", api.DeleteDraft)

			adminAPI.GET("/tags", api.GetTags)
			adminAPI.GET("/tags/usage", api.GetTagUsage)
			adminAPI.POST("/tags", api.CreateTag)
			adminAPI.PUT("/tags/:id", api.UpdateTag)
			adminAPI.DELETE("/tags/:id", api.DeleteTag)

			adminAPI.GET("/categories", api.GetCategories)
			adminAPI.POST("/categories", api.CreateCategory)
			adminAPI.GET("/categories/:id/children", api.GetCategoryChildren)
			adminAPI.PUT("/categories/:id/move", api.MoveCategory)
			adminAPI.DELETE("/categories/:id", api.DeleteCategory)

			adminAPI.POST("/comments/:commentId/approve", api.ApproveComment)
			adminAPI.DELETE("/comments/:commentId", api.DeleteComment)

			adminAPI.POST("/bookmarks", api.CreateBookmark)
			adminAPI.GET("/authors/:id/bookmarks", api.GetBookmarks)
			adminAPI.DELETE("/bookmarks/:id", api.DeleteBookmark)

			adminAPI.GET("/authors/:id/notifications", api.GetNotifications)
			adminAPI.POST("/notifications/:notificationId/read", api.ReadNotification)

			adminAPI.GET("/users/:id/author", api.GetAuthor)
			adminAPI.PUT("/authors/:id/profile", api.UpdateAuthorProfile)
			adminAPI.DELETE("/users/:id", api.DeleteUser)

			adminAPI.POST("/upload/avatar", api.UploadAvatar)
		}
	}

	return r
}
