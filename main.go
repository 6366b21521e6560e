package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lim28y/Sleep-Disorder-Prediction/ai"
	"github.com/lim28y/Sleep-Disorder-Prediction/cache"
	"github.com/lim28y/Sleep-Disorder-Prediction/config"
	"github.com/lim28y/Sleep-Disorder-Prediction/db"
	"github.com/lim28y/Sleep-Disorder-Prediction/handlers"
	"github.com/lim28y/Sleep-Disorder-Prediction/middleware"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/lim28y/Sleep-Disorder-Prediction/routes"
	"github.com/lim28y/Sleep-Disorder-Prediction/services"
	"github.com/lim28y/Sleep-Disorder-Prediction/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("SLEEPAPP_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg.Log.Path)
	defer utils.Logger.Sync()
	utils.InitMetrics()
	utils.SetJWTKey([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	utils.Logger.Info("starting_application")

	db.Connect(cfg.Database)
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.SleepLog{},
		&models.WeeklyReport{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	// Redis is optional: without it caching and rate limiting switch off.
	if err := cache.InitRedis(cfg.Redis.Addr(), utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_continuing_without_cache", zap.Error(err))
	}

	modelClient := ai.NewModelClient(cfg.Model.BaseURL, cfg.Model.Timeout)
	if !modelClient.IsConfigured() {
		utils.Logger.Warn("model_service_not_configured_predictions_degrade_to_sentinels")
	}
	classifier := services.NewClassifier(modelClient, utils.Logger)

	ollama := ai.NewOllamaClient(ai.OllamaConfig{
		BaseURL:    cfg.Advice.OllamaURL,
		ChatModel:  cfg.Advice.ChatModel,
		EmbedModel: cfg.Advice.EmbeddingModel,
		Timeout:    cfg.Advice.Timeout,
	})
	advice, err := services.NewAdviceService(cfg.Advice, ollama, utils.Logger)
	if err != nil {
		utils.Logger.Fatal("advice_service_init_failed", zap.Error(err))
	}

	logHandler := &handlers.LogHandler{
		DB:         db.DB,
		Classifier: classifier,
		Weekly:     services.NewWeeklyService(db.DB, classifier, utils.Logger),
		Advice:     advice,
		Chronic:    services.NewChronicService(db.DB),
		Logger:     utils.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	if cfg.Server.CSRFEnabled {
		r.Use(middleware.CSRFProtection([]byte(cfg.Server.CSRFKey)))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  "connected",
		})
	})

	authLimit := middleware.RateLimitMiddleware(20, time.Minute)
	r.POST("/api/register", authLimit, routes.Register)
	r.POST("/api/login", authLimit, routes.Login)
	r.GET("/api/logout", routes.Logout)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/dashboard", logHandler.Dashboard)
		api.GET("/history", middleware.CacheMiddleware(2*time.Minute), logHandler.History)
		api.POST("/logs", logHandler.SubmitLog)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	startServer(r, cfg.Server)
}

func startServer(router *gin.Engine, cfg config.ServerConfig) {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", cfg.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	cache.Close()
	utils.Logger.Info("server_stopped")
}
