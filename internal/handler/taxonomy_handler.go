package handler

import (
	"net/http"

	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

// GetTags lists all tags.
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetTagUsage reports per-tag post counts.
func (a *API) GetTagUsage(c *gin.Context) {
	usage, err := a.tags.Usage()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// CreateTag persists a tag.
func (a *API) CreateTag(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Slug  string `json:"slug"`
		Color string `json:"color"`
	}
	if !bindJSON(c, &req, "tag name is required") {
		return
	}

	tag, err := a.tags.Create(service.TagInput{Name: req.Name, Slug: req.Slug, Color: req.Color})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// UpdateTag applies field changes to a tag.
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Name  string `json:"name"`
		Slug  string `json:"slug"`
		Color string `json:"color"`
	}
	if !bindJSON(c, &req, "invalid tag payload") {
		return
	}

	tag, err := a.tags.Update(id, service.TagInput{Name: req.Name, Slug: req.Slug, Color: req.Color})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag removes a tag unless posts still carry it.
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.tags.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag deleted"})
}

// GetCategories lists all categories.
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory persists a category under an optional parent.
func (a *API) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		Description string `json:"description"`
		ParentID    *uint  `json:"parent_id"`
	}
	if !bindJSON(c, &req, "category name and slug are required") {
		return
	}

	category, err := a.categories.Create(service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategoryChildren lists the direct children of a category.
func (a *API) GetCategoryChildren(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	children, err := a.categories.Children(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"children": children})
}

// MoveCategory reattaches a category under a new parent.
func (a *API) MoveCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ParentID *uint `json:"parent_id"`
	}
	if !bindJSON(c, &req, "invalid move payload") {
		return
	}

	if err := a.categories.Move(id, req.ParentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category moved"})
}

// DeleteCategory removes a category and its subtree.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.categories.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
