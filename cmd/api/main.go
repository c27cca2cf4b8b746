package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ecoreport/internal/blob"
	"ecoreport/internal/config"
	"ecoreport/internal/database"
	"ecoreport/internal/domain/admin"
	"ecoreport/internal/domain/auth"
	"ecoreport/internal/domain/district"
	"ecoreport/internal/domain/notification"
	"ecoreport/internal/domain/report"
	"ecoreport/internal/events"
	"ecoreport/internal/imaging"
	"ecoreport/internal/middleware"
	"ecoreport/internal/upload"

	jwtsvc "ecoreport/internal/pkg/jwt"
)

func main() {
	_ = godotenv.Load()

	configFile := "config.yaml"
	if _, err := os.Stat(configFile); err != nil {
		configFile = ""
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&report.Report{},
		&report.Upvote{},
		&report.Response{},
		&notification.Notification{},
		&district.District{},
	); err != nil {
		log.Fatal(err)
	}

	store, err := blob.NewMinioStore(
		cfg.Blob.Endpoint,
		cfg.Blob.AccessKey,
		cfg.Blob.SecretKey,
		cfg.Blob.Bucket,
		cfg.Blob.PublicURL,
		cfg.Blob.UseSSL,
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatal(err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		p, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Queue)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		publisher = p
	}

	j := jwtsvc.New(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	normalizer := imaging.New(cfg.Upload.MaxWidth, cfg.Upload.MinSizeBytes, cfg.Upload.MaxSizeBytes)
	uploader := upload.New(store, cfg.Upload.Parallel)

	userRepo := auth.NewRepository(db)
	reportRepo := report.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	districtRepo := district.NewRepository(db)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService, hub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	reportService := report.NewService(reportRepo, normalizer, uploader, publisher, cfg.Upload.MaxFiles)
	reportHandler := report.NewHandler(reportService)

	adminService := admin.NewService(reportRepo, userRepo, notificationService, publisher)
	adminHandler := admin.NewHandler(adminService)

	districtHandler := district.NewHandler(districtRepo)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))

		auth.RegisterRoutes(v1, protected, authHandler)
		report.RegisterRoutes(v1, protected, reportHandler)
		notification.RegisterRoutes(v1, protected, notificationHandler)
		district.RegisterRoutes(v1, districtHandler)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		admin.RegisterRoutes(adminGroup, adminHandler)
	}

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
