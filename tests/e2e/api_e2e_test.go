package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nitman/internal/db"
	"github.com/nitman/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// localClient drives the engine in-process while keeping session cookies,
// so authenticated flows behave like a real browser client.
type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func (c *localClient) doJSON(t *testing.T, method, path string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, "http://local"+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("%s %s: read body: %v", method, path, err)
	}
	return resp, raw
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return router.Setup(gdb, "e2e-secret", t.TempDir(), "/static/uploads")
}

func TestE2E_PublishingFlow(t *testing.T) {
	engine := newTestEngine(t)
	client := newLocalClient(engine)

	// Register and log in.
	resp, body := client.doJSON(t, http.MethodPost, "/register", gin.H{
		"name":     "John Doe",
		"email":    "john.doe@gmail.com",
		"password": "supersecret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", resp.StatusCode, body)
	}

	resp, body = client.doJSON(t, http.MethodPost, "/login", gin.H{
		"email":    "john.doe@gmail.com",
		"password": "supersecret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", resp.StatusCode, body)
	}

	// The session now opens the admin surface.
	resp, body = client.doJSON(t, http.MethodPost, "/admin/api/posts", gin.H{
		"title":   "Going Live",
		"content": "# Welcome\n\nfirst article",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d (%s)", resp.StatusCode, body)
	}
	var created struct {
		Post db.Post `json:"post"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("create post: bad body: %v", err)
	}
	postID := created.Post.ID

	// Edit it; the post history grows to version 2.
	resp, body = client.doJSON(t, http.MethodPut, fmt.Sprintf("/admin/api/posts/%d", postID), gin.H{
		"content": "# Welcome\n\nrevised article",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update post: expected 200, got %d (%s)", resp.StatusCode, body)
	}
	resp, body = client.doJSON(t, http.MethodGet, fmt.Sprintf("/admin/api/posts/%d/versions", postID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("versions: expected 200, got %d", resp.StatusCode)
	}
	var versioned struct {
		Versions []db.PostVersion `json:"versions"`
	}
	if err := json.Unmarshal(body, &versioned); err != nil {
		t.Fatalf("versions: bad body: %v", err)
	}
	if len(versioned.Versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versioned.Versions))
	}

	// Public read surface: the list strategies see the post by author email.
	resp, body = client.doJSON(t, http.MethodGet, "/blog?email=john.doe@gmail.com", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("blog list: expected 200, got %d", resp.StatusCode)
	}
	var rows []struct {
		ID           uint    `json:"id"`
		Title        string  `json:"title"`
		VersionTitle *string `json:"version_title"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		t.Fatalf("blog list: bad body: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != postID {
		t.Fatalf("expected the published post in the list, got %+v", rows)
	}

	// A reader comments; the author picks up the notification.
	resp, body = client.doJSON(t, http.MethodPost, fmt.Sprintf("/blog/posts/%d/comments", postID), gin.H{
		"content": "great start",
		"rating":  5,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d (%s)", resp.StatusCode, body)
	}

	resp, body = client.doJSON(t, http.MethodGet, "/admin/api/posts", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin posts: expected 200, got %d", resp.StatusCode)
	}

	// Reading the post counts a view and returns rendered HTML.
	resp, body = client.doJSON(t, http.MethodGet, fmt.Sprintf("/blog/posts/%d", postID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("show post: expected 200, got %d (%s)", resp.StatusCode, body)
	}
	var shown struct {
		HTML       string `json:"html"`
		Statistics struct {
			ViewCount uint `json:"ViewCount"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal(body, &shown); err != nil {
		t.Fatalf("show post: bad body: %v", err)
	}
	if shown.Statistics.ViewCount != 1 {
		t.Fatalf("expected one counted view, got %d", shown.Statistics.ViewCount)
	}

	// Logout closes the admin surface.
	resp, _ = client.doJSON(t, http.MethodGet, "/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = client.doJSON(t, http.MethodGet, "/admin/api/posts", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", resp.StatusCode)
	}
}
