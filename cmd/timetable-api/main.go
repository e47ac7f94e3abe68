package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hangil-edu/timetable-api/api/swagger"
	"github.com/hangil-edu/timetable-api/internal/handler"
	internalmiddleware "github.com/hangil-edu/timetable-api/internal/middleware"
	"github.com/hangil-edu/timetable-api/internal/repository"
	"github.com/hangil-edu/timetable-api/internal/service"
	"github.com/hangil-edu/timetable-api/pkg/cache"
	"github.com/hangil-edu/timetable-api/pkg/config"
	"github.com/hangil-edu/timetable-api/pkg/database"
	"github.com/hangil-edu/timetable-api/pkg/export"
	"github.com/hangil-edu/timetable-api/pkg/logger"
	corsmiddleware "github.com/hangil-edu/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hangil-edu/timetable-api/pkg/middleware/requestid"
	"github.com/hangil-edu/timetable-api/pkg/storage"
)

// @title Hangil Timetable API
// @version 1.0.0
// @description Deterministic weekly timetable assignment for the academy's MWF and TT day-groups
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, latest-timetable caching disabled", "error", err)
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	rosterRepo := repository.NewRosterRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	slotRepo := repository.NewTimetableSlotRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	rosterSvc := service.NewRosterService(rosterRepo, validate, logr)
	timetableSvc := service.NewTimetableService(
		timetableRepo,
		slotRepo,
		cacheRepo,
		db,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		metricsSvc,
		validate,
		logr,
		service.TimetableServiceConfig{
			ProposalTTL:    cfg.Timetable.ProposalTTL,
			LatestCacheTTL: cfg.Timetable.LatestCacheTTL,
		},
	)

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled && cfg.Exports.SigningSecret != "" {
		archive, err := storage.NewArchive(cfg.Exports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export archive", "error", err)
		}
		archiveSvc := service.NewExportArchiveService(
			timetableSvc,
			archive,
			storage.NewLinkSigner(cfg.Exports.SigningSecret, cfg.Exports.LinkTTL),
			logr,
			service.ExportArchiveConfig{
				Workers:   cfg.Exports.ArchiveWorkers,
				Retention: cfg.Exports.Retention,
			},
		)
		archiveSvc.Start(context.Background())
		defer archiveSvc.Stop()
		exportHandler = handler.NewExportHandler(archiveSvc)
	} else if cfg.Exports.Enabled {
		logr.Sugar().Warnw("export archive disabled, no signing secret configured")
	}

	timetableHandler := handler.NewTimetableHandler(timetableSvc, rosterSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		timetables := api.Group("/timetables")
		{
			timetables.POST("/generate", timetableHandler.Generate)
			timetables.POST("/generate/roster", timetableHandler.GenerateFromRoster)
			timetables.POST("/validate", timetableHandler.Validate)
			timetables.POST("", timetableHandler.Save)
			timetables.GET("", timetableHandler.List)
			timetables.GET("/latest", timetableHandler.Latest)
			timetables.GET("/:id/slots", timetableHandler.Slots)
			timetables.POST("/:id/publish", timetableHandler.Publish)
			timetables.DELETE("/:id", timetableHandler.Delete)
			if cfg.Exports.Enabled {
				timetables.GET("/:id/export.csv", timetableHandler.ExportCSV)
				timetables.GET("/:id/export.pdf", timetableHandler.ExportPDF)
			}
			if exportHandler != nil {
				timetables.POST("/:id/archive", exportHandler.Archive)
				timetables.GET("/:id/links", exportHandler.Links)
			}
		}

		if exportHandler != nil {
			api.GET("/exports/download", exportHandler.Download)
		}

		roster := api.Group("/roster")
		{
			roster.GET("/teachers", rosterHandler.ListTeachers)
			roster.PUT("/teachers", rosterHandler.UpsertTeacher)
			roster.DELETE("/teachers/:name", rosterHandler.DeleteTeacher)
			roster.GET("/constraints", rosterHandler.ListConstraints)
			roster.PUT("/constraints", rosterHandler.UpsertConstraint)
			roster.DELETE("/constraints/:name", rosterHandler.DeleteConstraint)
			roster.GET("/fixed-homerooms", rosterHandler.ListFixedHomerooms)
			roster.PUT("/fixed-homerooms", rosterHandler.PinHomeroom)
			roster.DELETE("/fixed-homerooms/:classId", rosterHandler.UnpinHomeroom)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
