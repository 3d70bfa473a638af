package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atinomeri/freela-sub000/internal/config"
	"github.com/atinomeri/freela-sub000/internal/email"
	"github.com/atinomeri/freela-sub000/internal/handlers"
	"github.com/atinomeri/freela-sub000/internal/logger"
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/realtime"
	"github.com/atinomeri/freela-sub000/internal/repositories"
	"github.com/atinomeri/freela-sub000/internal/routes"
	"github.com/atinomeri/freela-sub000/internal/services"
	"github.com/atinomeri/freela-sub000/internal/validator"
	"github.com/atinomeri/freela-sub000/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Proposal{},
		&models.Notification{},
	); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Realtime is a convenience layer; the API stays up without it.
		logger.Warn("redis unavailable, realtime events will be dropped", "error", err)
	} else {
		logger.Info("redis connected", "addr", cfg.Redis.Addr)
	}

	router := SetupRouter(cfg, gormDB, rdb)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, rdb *redis.Client) *gin.Engine {
	// Repositories
	userRepo := repositories.NewUserRepository(gormDB)
	projectRepo := repositories.NewProjectRepository(gormDB)
	proposalRepo := repositories.NewProposalRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// Realtime: publish to the shared channel, subscribe and fan out to
	// websocket clients connected to this instance.
	events := realtime.NewRedisPublisher(rdb)
	wsManager := ws.NewManager()
	go wsManager.Run()
	subscriber := realtime.NewSubscriber(rdb, wsManager)
	go subscriber.Run(context.Background())

	var mailProvider email.Provider = email.NoopProvider{}
	if cfg.Email.Enabled {
		smtp, err := email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Warn("email disabled, invalid smtp config", "error", err)
		} else {
			mailProvider = smtp
		}
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo, events)
	proposalService := services.NewProposalService(proposalRepo, projectRepo, userRepo, notificationService, mailProvider)
	projectService := services.NewProjectService(projectRepo, userRepo)
	authService := services.NewAuthService(userRepo)

	// Handlers
	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &routes.AppHandlers{
		Auth:         handlers.NewAuthHandler(base, authService),
		Project:      handlers.NewProjectHandler(base, projectService, proposalService),
		Proposal:     handlers.NewProposalHandler(base, proposalService),
		Notification: handlers.NewNotificationHandler(base, notificationService),
		WS:           handlers.NewWSHandler(base, wsManager),
	}

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	routes.RegisterRoutes(router, appHandlers)

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"size_bytes", c.Writer.Size(),
		)
	}
}
