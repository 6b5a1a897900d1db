package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"daybreak/backend/internal/auth"
	"daybreak/backend/internal/config"
	"daybreak/backend/internal/database"
	"daybreak/backend/internal/game"
	"daybreak/backend/internal/gateway"
	"daybreak/backend/internal/handler"
	"daybreak/backend/internal/hub"
	"daybreak/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "daybreak/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		log.Printf("Warning: unknown LOG_LEVEL %q, using info", level)
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}

// stores picks postgres when a database is configured and process memory
// otherwise.
func stores(logger *zap.Logger) (handler.Content, game.Persistence) {
	cfg := config.AppConfig
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, games will not survive a restart")
		return storage.DefaultCatalog(), storage.NewMemorySnapshots()
	}

	// Connect to the database
	database.Connect(cfg.DatabaseURL)

	content := storage.NewContentStore(database.DB)
	if err := content.Seed(context.Background(), storage.DefaultCatalog()); err != nil {
		logger.Fatal("seed content", zap.Error(err))
	}

	var persistence game.Persistence = game.NoPersistence{}
	if cfg.PersistSnapshots {
		persistence = storage.NewSnapshotStore(database.DB)
	}
	return content, persistence
}

// @title           Daybreak API
// @version         1.0
// @description     Game sessions for Daybreak over websocket, plus lobby and content lookups.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	content, persistence := stores(logger)
	registry := game.NewRegistry(game.Options{
		Content:   content,
		Passwords: auth.BcryptPasswords{},
		Store:     persistence,
		Rules:     cfg.Rules(),
		Logger:    logger.Named("game"),
	})
	gw := gateway.New(registry, hub.NewHub(logger.Named("hub")), logger.Named("gateway"))

	games := &handler.GameHandler{Registry: registry}
	catalog := &handler.ContentHandler{Content: content}

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Game connection
	router.GET("/ws", auth.AuthMiddleware(), gw.Serve)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Game routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.GET("", games.GetGames)
			gameRoutes.GET("/:id", games.GetGameByID)
		}

		// Content routes
		apiV1.GET("/sages", catalog.GetSages)
		apiV1.GET("/sages/:id", catalog.GetSageByID)
		apiV1.GET("/decklists/:id", catalog.GetDecklistByID)
	}

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr))
	fmt.Printf("Swagger UI is available at http://localhost%s/swagger/index.html\n", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
