package server

import (
	"fmt"
	"net/http"

	"outreach-api/core/cache"
	"outreach-api/core/config"
	"outreach-api/core/database"
	"outreach-api/core/logger"
	"outreach-api/modules/outreach"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Run loads configuration, initializes shared infrastructure, wires the
// modules and starts the HTTP server.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}

	c := cache.InitCache(cfg.Redis)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error)
				logger.Error("request", args...)
				return nil
			}
			logger.Info("request", args...)
			return nil
		},
	}))

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if err := outreach.Init(e, &db, c, cfg); err != nil {
		return fmt.Errorf("failed to init outreach module: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server", "addr", addr)
	return e.Start(addr)
}
