package handler

import (
	"net/http"

	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

// GetAuthor fetches an author profile along with its backing user.
func (a *API) GetAuthor(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	author, err := a.users.AuthorByUser(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": author})
}

// UpdateAuthorProfile applies profile fields to the author.
func (a *API) UpdateAuthorProfile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Website     string            `json:"website"`
		AvatarURL   string            `json:"avatar_url"`
		SocialLinks map[string]string `json:"social_links"`
	}
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	author, err := a.users.UpdateProfile(id, service.ProfileInput{
		Website:     req.Website,
		AvatarURL:   req.AvatarURL,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": author})
}

// DeleteUser removes an account; the author profile and everything it owns
// cascade with it.
func (a *API) DeleteUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.users.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
