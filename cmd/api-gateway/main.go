package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/openacademia/catalog-api/api/swagger"
	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/handler"
	"github.com/openacademia/catalog-api/internal/middleware"
	"github.com/openacademia/catalog-api/internal/repository"
	"github.com/openacademia/catalog-api/internal/service"
	"github.com/openacademia/catalog-api/pkg/cache"
	"github.com/openacademia/catalog-api/pkg/config"
	"github.com/openacademia/catalog-api/pkg/database"
	"github.com/openacademia/catalog-api/pkg/export"
	"github.com/openacademia/catalog-api/pkg/jobs"
	"github.com/openacademia/catalog-api/pkg/logger"
	"github.com/openacademia/catalog-api/pkg/mail"
	corsmiddleware "github.com/openacademia/catalog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/openacademia/catalog-api/pkg/middleware/requestid"
)

// @title Academic Catalog API
// @version 1.0.0
// @description Course catalog and curriculum service for careers, subjects, schedules and prerequisites.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	adminRepo := repository.NewAdminRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	careerRepo := repository.NewCareerRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	prereqRepo := repository.NewPrerequisiteRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Authorization.
	guard := authz.NewGuard()
	resolver := authz.NewResolver(assignmentRepo)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Featured.CacheTTL, logr, redisClient != nil)

	var mailer mail.Dispatcher = mail.NopDispatcher{}
	if cfg.Mail.SendgridAPIKey != "" {
		mailer = mail.NewSendgridDispatcher(mail.Config{
			APIKey:    cfg.Mail.SendgridAPIKey,
			FromName:  cfg.Mail.FromName,
			FromEmail: cfg.Mail.FromEmail,
			AppName:   cfg.Mail.AppName,
		}, logr)
	}

	authSvc := service.NewAuthService(adminRepo, tokenRepo, mailer, nil, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		ResetURLBase:       cfg.Mail.ResetURLBase,
		ResetTokenTTL:      cfg.Mail.ResetTokenTTL,
	})

	resetQueue := jobs.NewQueue("password-reset", authSvc.DeliverReset, jobs.QueueConfig{
		Workers:    cfg.Mail.QueueWorkers,
		MaxRetries: cfg.Mail.QueueRetries,
		Logger:     logr,
	})
	authSvc.SetResetQueue(resetQueue)

	adminSvc := service.NewAdminService(adminRepo, guard, validate, logr)
	careerSvc := service.NewCareerService(careerRepo, adminRepo, guard, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, careerRepo, guard, cacheSvc, cfg.Featured, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, guard, validate, logr)
	prereqSvc := service.NewPrerequisiteService(prereqRepo, subjectRepo, guard, validate, logr)
	curriculumSvc := service.NewCurriculumService(curriculumRepo, export.NewCurriculumPDF(), export.NewCSVExporter(), guard, metricsSvc, logr)
	chatSvc := service.NewChatService(careerRepo, subjectRepo, validate, logr)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Admins:        handler.NewAdminHandler(adminSvc),
		Careers:       handler.NewCareerHandler(careerSvc),
		Subjects:      handler.NewSubjectHandler(subjectSvc),
		Schedule:      handler.NewScheduleHandler(scheduleSvc),
		Prerequisites: handler.NewPrerequisiteHandler(prereqSvc),
		Curriculum:    handler.NewCurriculumHandler(curriculumSvc),
		Chat:          handler.NewChatHandler(chatSvc, cfg.Chat.Enabled),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.Register(api, handlers,
		middleware.JWT(authSvc),
		middleware.Principal(adminRepo, resolver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resetQueue.Start(ctx)
	defer resetQueue.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
