package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// UploadAvatar stores an author avatar image under the upload directory
// with a date-and-uuid filename and returns its public URL. The file must
// decode as an image (png/jpeg/gif/webp) before it is kept.
func (a *API) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "avatar file is required")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image files are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read avatar file")
		return
	}
	cfg, format, err := image.DecodeConfig(src)
	src.Close()
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		respondError(c, http.StatusBadRequest, "file is not a decodable image")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = "." + format
	}
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":    fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), newFilename),
		"width":  cfg.Width,
		"height": cfg.Height,
	})
}
