package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noticehub/notice-board-api/internal/handler"
	"github.com/noticehub/notice-board-api/internal/middleware"
	"github.com/noticehub/notice-board-api/internal/repository"
	"github.com/noticehub/notice-board-api/internal/service"
	"github.com/noticehub/notice-board-api/pkg/cache"
	"github.com/noticehub/notice-board-api/pkg/config"
	"github.com/noticehub/notice-board-api/pkg/database"
	"github.com/noticehub/notice-board-api/pkg/logger"
	corsmiddleware "github.com/noticehub/notice-board-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noticehub/notice-board-api/pkg/middleware/requestid"
)

// @title Notice Board API
// @version 1.0.0
// @description Campus notice board backend with session auth and admin tooling
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewMySQL(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := repository.NewSchemaInitializer(db, logr)
	if err := schema.EnsureSchema(bootCtx); err != nil {
		logr.Sugar().Fatalw("failed to initialize schema", "error", err)
	}
	if err := schema.SeedDemoAccounts(bootCtx); err != nil {
		logr.Sugar().Warnw("failed to seed demo accounts", "error", err)
	}

	var sessionStore service.SessionStore
	if cfg.Session.UseRedis {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		sessionStore = repository.NewRedisSessionStore(redisClient, logr)
	} else {
		sessionStore = service.NewMemorySessionStore()
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	accounts := repository.NewAccountRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)

	authSvc := service.NewAuthService(accounts, nil, logr)
	sessionSvc := service.NewSessionService(authSvc, sessionStore, cfg.Session.TTL, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, validator.New(), logr, metricsSvc, cfg.Database.QueryTimeout)

	authHandler := handler.NewAuthHandler(sessionSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)
	statsHandler := handler.NewStatisticsHandler(noticeSvc)
	healthHandler := handler.NewHealthHandler(db, cfg.Database)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.Session(sessionSvc), authHandler.Me)

	notices := api.Group("/notices", middleware.Session(sessionSvc))
	notices.GET("", noticeHandler.List)
	notices.GET("/:id", noticeHandler.Get)

	adminNotices := api.Group("/notices", middleware.RequireAdmin(sessionSvc))
	adminNotices.POST("", noticeHandler.Create)
	adminNotices.PATCH("/:id", noticeHandler.Update)
	adminNotices.DELETE("/:id", noticeHandler.Delete)
	if cfg.Exports.Enabled {
		adminNotices.GET("/export", noticeHandler.ExportCSV)
	}

	stats := api.Group("/statistics", middleware.RequireAdmin(sessionSvc))
	stats.GET("", statsHandler.Get)
	if cfg.Exports.Enabled {
		stats.GET("/export", statsHandler.ExportPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
