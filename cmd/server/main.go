package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/pictag/adapters/event"
	httpAdapter "github.com/khoahotran/pictag/adapters/http"
	"github.com/khoahotran/pictag/adapters/persistence"
	catalogUC "github.com/khoahotran/pictag/internal/application/usecase/catalog"
	imageopsUC "github.com/khoahotran/pictag/internal/application/usecase/imageops"
	tagopsUC "github.com/khoahotran/pictag/internal/application/usecase/tagops"
	"github.com/khoahotran/pictag/internal/config"
	"github.com/khoahotran/pictag/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start pictag API server...", zap.String("env", cfg.App.Env))

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()
	appLogger.Info("Initialize Kafka producers successfully.")

	// Repositories
	imageRepo := persistence.NewPostgresImageRepo(dbPool, appLogger)
	tagRepo := persistence.NewPostgresTagRepo(dbPool, appLogger)
	catalogStore := persistence.NewPostgresCatalogStore(dbPool, appLogger)
	tagCache := persistence.NewRedisTagCache(redisClient, appLogger)

	// Use Cases
	queryTaggedImagesUseCase := catalogUC.NewQueryTaggedImagesUseCase(catalogStore, appLogger)
	createTagUseCase := tagopsUC.NewCreateTagUseCase(tagRepo, tagCache, kafkaClient, appLogger)
	renameTagUseCase := tagopsUC.NewRenameTagUseCase(tagRepo, tagCache, kafkaClient, appLogger)
	deleteTagUseCase := tagopsUC.NewDeleteTagUseCase(tagRepo, tagCache, kafkaClient, appLogger)
	mergeTagsUseCase := tagopsUC.NewMergeTagsUseCase(tagRepo, tagCache, kafkaClient, appLogger)
	listTagsUseCase := tagopsUC.NewListTagsUseCase(tagRepo, tagCache, appLogger)
	assignTagsUseCase := tagopsUC.NewAssignImageTagsUseCase(tagRepo, imageRepo, kafkaClient, appLogger)
	registerImageUseCase := imageopsUC.NewRegisterImageUseCase(imageRepo, kafkaClient, appLogger)
	getImageUseCase := imageopsUC.NewGetImageUseCase(imageRepo, tagRepo)
	deleteImageUseCase := imageopsUC.NewDeleteImageUseCase(imageRepo, kafkaClient, appLogger)

	// HTTP Handlers
	catalogHandler := httpAdapter.NewCatalogHandler(queryTaggedImagesUseCase, cfg.App.DefaultPageSize, cfg.App.MaxPageSize, appLogger)
	tagHandler := httpAdapter.NewTagHandler(
		createTagUseCase,
		renameTagUseCase,
		deleteTagUseCase,
		mergeTagsUseCase,
		listTagsUseCase,
		appLogger,
	)
	imageHandler := httpAdapter.NewImageHandler(
		registerImageUseCase,
		getImageUseCase,
		deleteImageUseCase,
		assignTagsUseCase,
		appLogger,
	)

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpAdapter.RequestIDMiddleware())
	router.Use(httpAdapter.ErrorMiddleware(appLogger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "UP"}) })

		images := api.Group("/images")
		{
			images.GET("", catalogHandler.ListTaggedImages)
			images.POST("", imageHandler.RegisterImage)
			images.GET("/:id", imageHandler.GetImage)
			images.DELETE("/:id", imageHandler.DeleteImage)
			images.PUT("/:id/tags", imageHandler.AssignTags)
		}

		tags := api.Group("/tags")
		{
			tags.POST("", tagHandler.CreateTag)
			tags.GET("", tagHandler.ListTags)
			tags.PATCH("/:id", tagHandler.RenameTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)
			tags.POST("/merge", tagHandler.MergeTags)
		}
	}

	appLogger.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("cannot run server", err)
	}
}
