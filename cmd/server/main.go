package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/modelgate/modelgate/internal/api"
	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/llm"
	"github.com/modelgate/modelgate/internal/middleware"
	"github.com/modelgate/modelgate/internal/tasks"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := newLogger(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger))
	router.Use(sessions.Sessions("modelgate", cookie.NewStore([]byte(cfg.SessionSecret))))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost",
		},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-Id",
		},
	}))

	router.LoadHTMLGlob("web/templates/*.html")

	registry := tasks.NewRegistry()
	client := llm.NewClientFromConfig(cfg, logger)
	logger.Info("starting server", "port", cfg.Port, "provider", client.Name(), "env", cfg.AppEnv)

	api.RegisterRoutes(router, cfg, logger, registry, client)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func newLogger(cfg config.Config) *charmlog.Logger {
	options := charmlog.Options{
		ReportTimestamp: true,
		Level:           charmlog.InfoLevel,
	}
	if cfg.IsDevelopment() {
		options.Level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stderr, options)
	if !cfg.IsDevelopment() {
		logger.SetFormatter(charmlog.JSONFormatter)
	}
	return logger
}
