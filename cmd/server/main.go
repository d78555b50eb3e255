package main

import (
	"errors"
	"log"

	"github.com/nitman/internal/config"
	"github.com/nitman/internal/db"
	"github.com/nitman/internal/router"
	"github.com/nitman/internal/scheduler"
	"github.com/nitman/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// bootstrap root account when configured
	if cfg.RootUserEmail != "" && cfg.RootUserPassword != "" {
		users := service.NewUserService(db.DB)
		if _, err := users.Register(service.RegisterInput{
			Name:     cfg.RootUserName,
			Email:    cfg.RootUserEmail,
			Password: cfg.RootUserPassword,
		}); err != nil && !errors.Is(err, service.ErrEmailTaken) {
			log.Fatalf("failed to ensure root user: %v", err)
		}
	}

	if !cfg.SchedulerDisabled {
		worker := scheduler.NewPublishWorker(service.NewScheduleService(db.DB), nil)
		if err := worker.Start(cfg.SchedulerSpec); err != nil {
			log.Fatalf("failed to start publish scheduler: %v", err)
		}
		defer worker.Stop()
	}

	r := router.Setup(db.DB, cfg.SessionSecret, cfg.UploadDir, cfg.UploadURLPath)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
