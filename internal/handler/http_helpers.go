package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps service sentinel errors onto HTTP statuses:
// validation failures to 400, missing rows to 404, constraint conflicts
// to 409, everything else to 500. Errors pass through unmodified in the
// body; no retries or recovery happen here.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingPostField),
		errors.Is(err, service.ErrMissingAuthor),
		errors.Is(err, service.ErrMissingUserFields),
		errors.Is(err, service.ErrMissingDraftFields),
		errors.Is(err, service.ErrInvalidDraftStatus),
		errors.Is(err, service.ErrMissingComment),
		errors.Is(err, service.ErrRatingOutOfRange),
		errors.Is(err, service.ErrParentWrongPost),
		errors.Is(err, service.ErrCommentCycle),
		errors.Is(err, service.ErrCategoryCycle),
		errors.Is(err, service.ErrMissingCategory),
		errors.Is(err, service.ErrMissingTag),
		errors.Is(err, service.ErrTagColor),
		errors.Is(err, service.ErrInvalidNotification):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrVersionNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAuthorNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrParentNotFound),
		errors.Is(err, service.ErrCommentPostMissing),
		errors.Is(err, service.ErrBookmarkNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrStatisticsNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrBookmarkExists),
		errors.Is(err, service.ErrCategoryExists),
		errors.Is(err, service.ErrTagExists),
		errors.Is(err, service.ErrTagInUse):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}
