package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ido-nevo/mylinkshortenerproject/internal/cache"
	"github.com/ido-nevo/mylinkshortenerproject/internal/config"
	"github.com/ido-nevo/mylinkshortenerproject/internal/database"
	"github.com/ido-nevo/mylinkshortenerproject/internal/handler"
	"github.com/ido-nevo/mylinkshortenerproject/internal/logger"
	"github.com/ido-nevo/mylinkshortenerproject/internal/middleware"
	"github.com/ido-nevo/mylinkshortenerproject/internal/repository"
	"github.com/ido-nevo/mylinkshortenerproject/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	lg, err := logger.New(zap.NewAtomicLevelAt(zap.InfoLevel))
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer lg.Sync()

	db, err := database.Connect(cfg.GetDatabaseDSN())
	if err != nil {
		lg.Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if err := database.ApplyMigrations(db, cfg.Database.DBName); err != nil {
		lg.Fatalw("failed to apply migrations", "error", err)
	}

	lg.Infow("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	var linkCache cache.Cache = cache.NewNullCache()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			CacheTTL:     cfg.Redis.CacheTTL,
		})
		if err != nil {
			// Продолжаем без кэша
			lg.Warnw("failed to connect to Redis, running without cache", "error", err)
		} else {
			defer redisClient.Close()
			linkCache = redisClient
			lg.Info("connected to Redis")
		}
	}

	linkRepo := repository.NewPostgresLinkRepository(db)
	linkService := service.NewLinkService(linkRepo, linkCache, lg, cfg.App.MaxAllocAttempts)
	linkHandler := handler.NewLinkHandler(linkService)
	auth := middleware.NewAuth(
		cfg.Auth.TokenSecret,
		time.Duration(cfg.Auth.TokenTTL)*time.Minute,
		cfg.Auth.CookieName,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(lg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetAllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		response := gin.H{
			"status": "healthy",
			"services": gin.H{
				"database": "healthy",
				"cache":    "healthy",
			},
		}

		if err := database.HealthCheck(db); err != nil {
			response["services"].(gin.H)["database"] = "unhealthy"
			response["status"] = "degraded"
		}

		if err := linkCache.HealthCheck(c.Request.Context()); err != nil {
			response["services"].(gin.H)["cache"] = "unhealthy"
			response["status"] = "degraded"
		}

		statusCode := http.StatusOK
		if response["status"] == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	})

	// Мутации требуют личности владельца, редирект - нет
	api := router.Group("/api", auth.Middleware())
	{
		api.POST("/links", linkHandler.CreateLink)
		api.GET("/links", linkHandler.ListLinks)
		api.PUT("/links/:id", linkHandler.UpdateLink)
		api.DELETE("/links/:id", linkHandler.DeleteLink)
	}

	router.GET("/:shortCode", linkHandler.Redirect)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		lg.Infow("server starting", "address", cfg.GetServerAddress())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatalw("failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Fatalw("server forced to shutdown", "error", err)
	}

	lg.Info("server stopped")
}
