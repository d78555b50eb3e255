package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nitman/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const (
	visitorCookieName   = "nm_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

// blogRow is the flat projection shared by the three list strategies:
// a post, its version-1 title when present, and flattened author fields.
type blogRow struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	VersionTitle  *string           `json:"version_title"`
	AuthorEmail   string            `json:"author_email"`
	AuthorName    string            `json:"author_name"`
	AuthorWebsite string            `json:"author_website"`
	AuthorSocial  map[string]string `json:"author_social_links"`
}

// BlogList returns posts by author email through relational preloads.
// Strategy one of three; all return the same logical rows.
func (a *API) BlogList(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		respondError(c, http.StatusBadRequest, "email query parameter is required")
		return
	}

	var posts []db.Post
	if err := a.db.Preload("Author.User").
		Joins("JOIN authors ON authors.id = posts.author_id").
		Joins("JOIN users ON users.id = authors.user_id").
		Where("users.email = ?", email).
		Order("posts.created_at desc").
		Find(&posts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	rows := make([]blogRow, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		row := blogRow{
			ID:            post.ID,
			Title:         post.Title,
			AuthorEmail:   post.Author.User.Email,
			AuthorName:    post.Author.User.Name,
			AuthorWebsite: post.Author.Website,
			AuthorSocial:  post.Author.SocialLinks,
		}

		var version db.PostVersion
		if err := a.db.Where("post_id = ? AND version_number = 1", post.ID).
			First(&version).Error; err == nil {
			title := version.Title
			row.VersionTitle = &title
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, rows)
}

// BlogListRaw returns the same rows through one raw SQL join.
// Strategy two of three.
func (a *API) BlogListRaw(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		respondError(c, http.StatusBadRequest, "email query parameter is required")
		return
	}

	var raw []struct {
		ID           uint
		Title        string
		VersionTitle *string
		Email        string
		Name         string
		Website      string
		SocialLinks  string
	}
	if err := a.db.Raw(`
		SELECT
		p.id,
		p.title,
		pv.title AS version_title,
		u.email,
		u.name,
		a.website,
		a.social_links
		FROM posts AS p
		LEFT JOIN post_versions AS pv ON p.id = pv.post_id AND pv.version_number = 1
		INNER JOIN authors AS a ON p.author_id = a.id
		INNER JOIN users AS u ON a.user_id = u.id
		WHERE u.email = ? AND p.deleted_at IS NULL
		ORDER BY p.created_at DESC
	`, email).Scan(&raw).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	rows := make([]blogRow, 0, len(raw))
	for _, r := range raw {
		row := blogRow{
			ID:            r.ID,
			Title:         r.Title,
			VersionTitle:  r.VersionTitle,
			AuthorEmail:   r.Email,
			AuthorName:    r.Name,
			AuthorWebsite: r.Website,
			AuthorSocial:  map[string]string{},
		}
		if r.SocialLinks != "" {
			// social_links is stored as serialized JSON
			_ = json.Unmarshal([]byte(r.SocialLinks), &row.AuthorSocial)
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, rows)
}

// BlogListLite returns the same rows through a restricted-field projection,
// selecting only the columns the response needs. Strategy three of three.
func (a *API) BlogListLite(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		respondError(c, http.StatusBadRequest, "email query parameter is required")
		return
	}

	var raw []struct {
		ID          uint
		Title       string
		Email       string
		Name        string
		Website     string
		SocialLinks string
	}
	if err := a.db.Model(&db.Post{}).
		Select("posts.id, posts.title, users.email, users.name, authors.website, authors.social_links").
		Joins("INNER JOIN authors ON authors.id = posts.author_id").
		Joins("INNER JOIN users ON users.id = authors.user_id").
		Where("users.email = ?", email).
		Order("posts.created_at desc").
		Scan(&raw).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	postIDs := make([]uint, 0, len(raw))
	for _, r := range raw {
		postIDs = append(postIDs, r.ID)
	}
	versionTitles := map[uint]string{}
	if len(postIDs) > 0 {
		var versions []db.PostVersion
		if err := a.db.Select("post_id, title").
			Where("post_id IN ? AND version_number = 1", postIDs).
			Find(&versions).Error; err == nil {
			for _, v := range versions {
				versionTitles[v.PostID] = v.Title
			}
		}
	}

	rows := make([]blogRow, 0, len(raw))
	for _, r := range raw {
		row := blogRow{
			ID:            r.ID,
			Title:         r.Title,
			AuthorEmail:   r.Email,
			AuthorName:    r.Name,
			AuthorWebsite: r.Website,
			AuthorSocial:  map[string]string{},
		}
		if r.SocialLinks != "" {
			_ = json.Unmarshal([]byte(r.SocialLinks), &row.AuthorSocial)
		}
		if title, ok := versionTitles[r.ID]; ok {
			titleCopy := title
			row.VersionTitle = &titleCopy
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, rows)
}

// ShowPost returns a single post with its content rendered from markdown
// and sanitized, records the visitor's view, and reports fresh statistics.
func (a *API) ShowPost(c *gin.Context) {
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

	var rendered bytes.Buffer
	if err := markdownEngine.Convert([]byte(post.Content), &rendered); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render content")
		return
	}
	safeHTML := sanitizer.SanitizeBytes(rendered.Bytes())

	visitorID := a.ensureVisitorID(c)
	stats, err := a.stats.RecordView(post.ID, visitorID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":       post,
		"html":       string(safeHTML),
		"statistics": stats,
	})
}

func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return visitorID
}
