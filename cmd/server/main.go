package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jo-hoe/ambitions/internal/archive"
	"github.com/jo-hoe/ambitions/internal/backend"
	"github.com/jo-hoe/ambitions/internal/backend/cache"
	"github.com/jo-hoe/ambitions/internal/common"
	"github.com/jo-hoe/ambitions/internal/core"
	frontend "github.com/jo-hoe/ambitions/internal/frontend"
	"github.com/jo-hoe/ambitions/internal/ticket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), config.Seed.Timeout+5*time.Second)
	coreService, err := core.NewCoreService(startupCtx, config)
	if err != nil {
		cancelStartup()
		log.Printf("failed to initialize core service: %v", err)
		panic(err)
	}
	coreService.Load(startupCtx)

	ticketService, ticketCache := newTicketService(startupCtx, config)
	cancelStartup()

	server := defineServer()

	apiService := backend.NewAPIService(config, coreService)
	apiService.SetRoutes(server)
	frontendService := frontend.NewFrontendService(config, coreService, ticketService,
		archive.NewClient(config.Archive.URL, config.Archive.Timeout), archive.NewTracker())
	frontendService.SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if ticketCache != nil {
		if err := ticketCache.Close(); err != nil {
			log.Printf("ticket cache close error: %v", err)
		}
	}
	if err := coreService.Close(); err != nil {
		log.Printf("core service close error: %v", err)
	}
}

// newTicketService runs without a cache when Redis is unset or unreachable.
func newTicketService(ctx context.Context, config *core.ServiceConfig) (*ticket.Service, *cache.TicketCache) {
	renderer, err := ticket.NewRenderer(config.Ticket.Width, config.Ticket.Height, config.Location())
	if err != nil {
		log.Printf("failed to initialize ticket renderer: %v", err)
		panic(err)
	}

	ticketCache, err := cache.New(ctx, config.Cache.URL, config.Cache.TTL)
	if err != nil {
		slog.Warn("ticket cache unavailable, rendering every request", "error", err)
		return ticket.NewService(renderer, nil), nil
	}
	if ticketCache == nil {
		return ticket.NewService(renderer, nil), nil
	}
	slog.Info("ticket cache enabled", "ttl", config.Cache.TTL)
	return ticket.NewService(renderer, ticketCache), ticketCache
}

func defineServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Configure request logger to skip "/probe" endpoint (health check)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRoutePath: true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"user_agent", v.UserAgent,
			}
			if v.Error != nil {
				slog.Error("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = common.NewGenericEchoValidator()

	return e
}
