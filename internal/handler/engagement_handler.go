package handler

import (
	"log"
	"net/http"

	"github.com/nitman/internal/db"
	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

// notifyAuthor records an engagement notification; failures are logged and
// never fail the triggering request.
func (a *API) notifyAuthor(recipientID uint, notifType, refKind string, refID uint, message string) {
	if _, err := a.notifications.Notify(recipientID, notifType, refKind, refID, message); err != nil {
		log.Printf("failed to notify author %d: %v", recipientID, err)
	}
}

// CreateComment persists a comment or threaded reply and notifies the
// post's author.
func (a *API) CreateComment(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Content  string `json:"content" binding:"required"`
		AuthorID *uint  `json:"author_id"`
		ParentID *uint  `json:"parent_id"`
		Rating   *int   `json:"rating"`
	}
	if !bindJSON(c, &req, "comment content is required") {
		return
	}

	comment, err := a.comments.Create(service.CommentInput{
		PostID:   postID,
		AuthorID: req.AuthorID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Rating:   req.Rating,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if post, err := a.posts.Get(postID); err == nil {
		a.notifyAuthor(post.AuthorID, db.NotificationComment, db.RefKindComment, comment.ID, "New comment")
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// GetComments lists a post's comments.
func (a *API) GetComments(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := a.comments.ListByPost(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// ApproveComment flips the moderation flag.
func (a *API) ApproveComment(c *gin.Context) {
	id, err := parseUintParam(c, "commentId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.comments.Approve(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment approved"})
}

// DeleteComment removes a comment and its whole reply subtree.
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "commentId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.comments.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// CreateBookmark saves a post for an author; duplicates conflict.
func (a *API) CreateBookmark(c *gin.Context) {
	var req struct {
		AuthorID uint   `json:"author_id" binding:"required"`
		PostID   uint   `json:"post_id" binding:"required"`
		Notes    string `json:"notes"`
	}
	if !bindJSON(c, &req, "author_id and post_id are required") {
		return
	}

	bookmark, err := a.bookmarks.Create(req.AuthorID, req.PostID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if post, err := a.posts.Get(req.PostID); err == nil {
		a.notifyAuthor(post.AuthorID, db.NotificationBookmark, db.RefKindPost, post.ID, "New bookmark")
	}

	c.JSON(http.StatusCreated, gin.H{"bookmark": bookmark})
}

// GetBookmarks lists an author's bookmarks.
func (a *API) GetBookmarks(c *gin.Context) {
	authorID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bookmarks, err := a.bookmarks.ListByAuthor(authorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// DeleteBookmark removes a bookmark.
func (a *API) DeleteBookmark(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.bookmarks.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bookmark deleted"})
}

// GetNotifications lists an author's notifications; ?unread=true narrows
// to unread rows.
func (a *API) GetNotifications(c *gin.Context) {
	authorID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := a.notifications.ListByRecipient(authorID, unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// ReadNotification marks one notification read.
func (a *API) ReadNotification(c *gin.Context) {
	id, err := parseUintParam(c, "notificationId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.notifications.MarkRead(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification read"})
}

// FollowAuthor bumps the follower counter and notifies the author.
func (a *API) FollowAuthor(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.AddFollower(id); err != nil {
		respondServiceError(c, err)
		return
	}
	a.notifyAuthor(id, db.NotificationFollow, db.RefKindAuthor, id, "New follower")

	c.JSON(http.StatusOK, gin.H{"message": "follow recorded"})
}
