package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig collects the settings needed to run the service.
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	UploadDir         string
	UploadURLPath     string
	RootUserName      string
	RootUserEmail     string
	RootUserPassword  string
	SchedulerSpec     string
	SchedulerDisabled bool
}

// Load reads configuration from environment variables, providing safe
// defaults for anything unset.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "nitman.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "nitman-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/static/uploads"
	}

	schedulerSpec := strings.TrimSpace(os.Getenv("SCHEDULER_SPEC"))
	if schedulerSpec == "" {
		schedulerSpec = "@every 1m"
	}

	rootUserName := strings.TrimSpace(os.Getenv("ROOT_USER_NAME"))
	if rootUserName == "" {
		rootUserName = "admin"
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		UploadDir:         uploadDir,
		UploadURLPath:     uploadURLPath,
		RootUserName:      rootUserName,
		RootUserEmail:     strings.TrimSpace(os.Getenv("ROOT_USER_EMAIL")),
		RootUserPassword:  strings.TrimSpace(os.Getenv("ROOT_USER_PASSWORD")),
		SchedulerSpec:     schedulerSpec,
		SchedulerDisabled: strings.EqualFold(strings.TrimSpace(os.Getenv("SCHEDULER_DISABLED")), "true"),
	}
}
