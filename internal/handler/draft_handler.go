package handler

import (
	"net/http"
	"time"

	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

// CreateDraft persists a working copy for an author. Without an explicit
// scheduled_publish_at the draft gets the creation-time default.
func (a *API) CreateDraft(c *gin.Context) {
	var req struct {
		AuthorID           uint       `json:"author_id" binding:"required"`
		Title              string     `json:"title" binding:"required"`
		Content            string     `json:"content" binding:"required"`
		Status             string     `json:"status"`
		ScheduledPublishAt *time.Time `json:"scheduled_publish_at"`
	}
	if !bindJSON(c, &req, "author_id, title and content are required") {
		return
	}

	draft, err := a.drafts.Create(req.AuthorID, service.DraftInput{
		Title:              req.Title,
		Content:            req.Content,
		Status:             req.Status,
		ScheduledPublishAt: req.ScheduledPublishAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

// GetDrafts lists an author's drafts.
func (a *API) GetDrafts(c *gin.Context) {
	authorID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	drafts, err := a.drafts.ListByAuthor(authorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

// UpdateDraft applies field changes to a draft.
func (a *API) UpdateDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Title              string     `json:"title"`
		Content            string     `json:"content"`
		Status             string     `json:"status"`
		ScheduledPublishAt *time.Time `json:"scheduled_publish_at"`
	}
	if !bindJSON(c, &req, "invalid draft payload") {
		return
	}

	draft, err := a.drafts.Update(id, service.DraftInput{
		Title:              req.Title,
		Content:            req.Content,
		Status:             req.Status,
		ScheduledPublishAt: req.ScheduledPublishAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DeleteDraft removes a draft.
func (a *API) DeleteDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.drafts.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft deleted"})
}
