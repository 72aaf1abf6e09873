package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/catequesis-api/api/swagger"
	"github.com/noah-isme/catequesis-api/internal/handler"
	"github.com/noah-isme/catequesis-api/internal/middleware"
	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/internal/repository"
	"github.com/noah-isme/catequesis-api/internal/service"
	"github.com/noah-isme/catequesis-api/pkg/cache"
	"github.com/noah-isme/catequesis-api/pkg/config"
	"github.com/noah-isme/catequesis-api/pkg/database"
	"github.com/noah-isme/catequesis-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/catequesis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/catequesis-api/pkg/middleware/requestid"
)

// @title Catequesis API
// @version 1.0.0
// @description Parish catechesis enrollment and settlement service
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	catechumenRepo := repository.NewCatechumenRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	userRepo := repository.NewUserRepository(db)

	evaluator := service.NewEligibilityEvaluator(cfg.Enrollment.AttendanceThreshold, cfg.Enrollment.GradeThreshold)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	enrollmentSvc := service.NewEnrollmentService(
		enrollmentRepo,
		groupRepo,
		catechumenRepo,
		academicRepo,
		evaluator,
		cacheSvc,
		metricsSvc,
		cfg.Enrollment,
		nil,
		logr,
	)

	batchSvc := service.NewBatchService(enrollmentSvc, enrollmentRepo, cacheSvc, cfg.Reports, nil, logr)
	exportSvc := service.NewExportService(batchSvc, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	reportHandler := handler.NewReportHandler(batchSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)

	enrollments := protected.Group("/enrollments")
	{
		enrollments.GET("", enrollmentHandler.List)
		enrollments.GET("/overdue", enrollmentHandler.ListOverdue)
		enrollments.GET("/:id", enrollmentHandler.Get)
		enrollments.GET("/:id/history", enrollmentHandler.History)
		enrollments.POST("", staff, enrollmentHandler.Create)
		enrollments.PUT("/:id/discount", staff, enrollmentHandler.ApplyDiscount)
		enrollments.POST("/:id/payments", staff, enrollmentHandler.RegisterPayment)
		enrollments.PUT("/:id/state", staff, enrollmentHandler.ChangeState)
		enrollments.PUT("/:id/transfer", staff, enrollmentHandler.Transfer)
		enrollments.POST("/:id/graduate", staff, enrollmentHandler.Graduate)
		enrollments.POST("/:id/academic/refresh", staff, enrollmentHandler.RefreshAcademic)
	}

	batch := protected.Group("/batch")
	batch.Use(staff)
	{
		batch.POST("/enrollments", reportHandler.BulkEnroll)
		batch.POST("/discounts", reportHandler.BulkDiscount)
		batch.POST("/graduations", reportHandler.BulkGraduate)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/financial", reportHandler.Financial)
		reports.GET("/financial/export", reportHandler.ExportFinancial)
		reports.GET("/academic", reportHandler.Academic)
		reports.GET("/academic/export", reportHandler.ExportAcademic)
		reports.GET("/system", staff, metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
