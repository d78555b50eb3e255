package handler

import (
	"net/http"
	"time"

	"github.com/nitman/internal/db"
	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

// GetPosts lists all posts, newest first.
func (a *API) GetPosts(c *gin.Context) {
	posts, err := a.posts.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost fetches a single post.
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost persists a post; statistics, version 1 and the initial
// schedule come into existence with it.
func (a *API) CreatePost(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		AuthorID uint   `json:"author_id"`
		TagIDs   []uint `json:"tag_ids"`
	}
	if !bindJSON(c, &req, "title and content are required") {
		return
	}

	authorID := req.AuthorID
	if authorID == 0 {
		if userID := currentUserID(c); userID != 0 {
			if author, err := a.users.AuthorByUser(userID); err == nil {
				authorID = author.ID
			}
		}
	}

	post, err := a.posts.Create(service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
		TagIDs:   req.TagIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost applies field changes and appends the next version snapshot.
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}

	post, err := a.posts.Update(id, service.PostUpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost removes a post with its dependent rows.
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// GetPostVersions lists a post's snapshots in version order.
func (a *API) GetPostVersions(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	versions, err := a.posts.Versions(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// DeletePostVersion removes one snapshot; remaining numbers keep their gaps.
func (a *API) DeletePostVersion(c *gin.Context) {
	id, err := parseUintParam(c, "versionId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.DeleteVersion(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "version deleted"})
}

// GetPostStatistics returns the counters for a post.
func (a *API) GetPostStatistics(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := a.stats.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// LikePost adds one like and notifies the post's author.
func (a *API) LikePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := a.stats.IncrementLike(id); err != nil {
		respondServiceError(c, err)
		return
	}
	a.notifyAuthor(post.AuthorID, db.NotificationLike, db.RefKindPost, post.ID, "Post liked")

	c.JSON(http.StatusOK, gin.H{"message": "like recorded"})
}

// SharePost adds one share and notifies the post's author.
func (a *API) SharePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := a.stats.IncrementShare(id); err != nil {
		respondServiceError(c, err)
		return
	}
	a.notifyAuthor(post.AuthorID, db.NotificationShare, db.RefKindPost, post.ID, "Post shared")

	c.JSON(http.StatusOK, gin.H{"message": "share recorded"})
}

// GetPostSchedules lists a post's publish windows.
func (a *API) GetPostSchedules(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	schedules, err := a.schedules.ListByPost(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// AddPostSchedule opens a new publish window for a post.
func (a *API) AddPostSchedule(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
	}
	if !bindJSON(c, &req, "scheduled_for is required") {
		return
	}

	if _, err := a.posts.Get(id); err != nil {
		respondServiceError(c, err)
		return
	}

	schedule, err := a.schedules.Add(id, req.ScheduledFor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}
