package handler

import (
	"github.com/nitman/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db            *gorm.DB
	users         *service.UserService
	posts         *service.PostService
	drafts        *service.DraftService
	stats         *service.StatisticsService
	schedules     *service.ScheduleService
	comments      *service.CommentService
	bookmarks     *service.BookmarkService
	notifications *service.NotificationService
	categories    *service.CategoryService
	tags          *service.TagService
	uploadDir     string
	uploadURL     string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:            gdb,
		users:         service.NewUserService(gdb),
		posts:         service.NewPostService(gdb),
		drafts:        service.NewDraftService(gdb),
		stats:         service.NewStatisticsService(gdb),
		schedules:     service.NewScheduleService(gdb),
		comments:      service.NewCommentService(gdb),
		bookmarks:     service.NewBookmarkService(gdb),
		notifications: service.NewNotificationService(gdb),
		categories:    service.NewCategoryService(gdb),
		tags:          service.NewTagService(gdb),
		uploadDir:     uploadDir,
		uploadURL:     uploadURL,
	}
}

// DB exposes the underlying gorm instance for bootstrap paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
