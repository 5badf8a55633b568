package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/nutrition-helper/internal/api"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/nutrition-helper/internal/bot/state"
	"github.com/vladimiradmaev/nutrition-helper/internal/config"
	"github.com/vladimiradmaev/nutrition-helper/internal/database"
	"github.com/vladimiradmaev/nutrition-helper/internal/logger"
	"github.com/vladimiradmaev/nutrition-helper/internal/repository"
	"github.com/vladimiradmaev/nutrition-helper/internal/services"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nutrition-helper",
	Short: "Nutrition tracking API and Telegram assistant",
	Long: `Nutrition Helper tracks what you eat against daily calorie and macro targets.

COMMANDS:

  serve      Run the HTTP API (and the Telegram bot when TELEGRAM_BOT_TOKEN is set)
  migrate    Apply database migrations and exit

Configuration is read from the environment, optionally from a .env file.
Run 'validate-config' to check it before starting.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			logger.Warn(".env file not found, using environment")
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return logger.InitWithConfig(logger.Config{
			Level:      cfg.Logger.Level,
			OutputPath: cfg.Logger.OutputPath,
			Format:     cfg.Logger.Format,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		logger.Info("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatal("Command failed", "error", err)
	}
}

func runServe(ctx context.Context) error {
	logger.Info("Starting Nutrition Helper")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Initialize services
	aiService, err := services.NewAIService(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("failed to initialize AI service: %w", err)
	}
	defer aiService.Close()

	repos := repository.New(db)
	resolver := services.NewNutrientResolver(repos.Foods, repos.Reference)
	catalog := services.NewCatalogService(repos.Foods, repos.Reference, resolver, aiService)
	logs := services.NewLogService(repos.Logs, resolver, cfg.Location())
	profiles := services.NewProfileService(repos.Profiles)
	assistant := services.NewAssistantService(aiService, aiService, catalog, logs, profiles, repos.Exchanges)
	userService := services.NewUserService(repos.Users)
	logger.Info("Services initialized successfully")

	// The bot is created before anything starts so a bad token fails fast
	var telegramBot *bot.Bot
	if cfg.Telegram.Token != "" {
		stateManager, closeState := newStateManager()
		defer closeState()

		telegramBot, err = bot.NewBot(cfg.Telegram.Token, handlers.Dependencies{
			UserService: userService,
			Assistant:   assistant,
			Logs:        logs,
			Profiles:    profiles,
		}, stateManager)
		if err != nil {
			return err
		}
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	if cfg.Logger.Level != logger.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr: ":" + cfg.HTTP.Port,
		Handler: api.NewRouter(api.Dependencies{
			Catalog:   catalog,
			Logs:      logs,
			Profiles:  profiles,
			Assistant: assistant,
		}, cfg.Auth.JWTSecret),
	}

	var runner starter
	if telegramBot != nil {
		runner = telegramBot
	}
	err = runComponents(ctx, server, runner, cfg.HTTP.ShutdownTimeout)
	logger.Info("Stopped")
	return err
}

type starter interface {
	Start(ctx context.Context) error
}

// runComponents serves HTTP and runs the bot until ctx ends or either of
// them fails, then stops both. The component error, if any, is returned.
func runComponents(parent context.Context, server *http.Server, telegramBot starter, shutdownTimeout time.Duration) error {
	ctx, cancelRun := context.WithCancel(parent)
	defer cancelRun()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if telegramBot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("telegram bot: %w", err)
			}
		}()
	}

	var failure error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case failure = <-errCh:
		logger.Error("Component failed, shutting down", "error", failure)
	}

	cancelRun()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	wg.Wait()
	return failure
}

// newStateManager prefers redis and falls back to in-memory state
func newStateManager() (state.StateManager, func()) {
	if cfg.Redis.Enabled() {
		rm, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err == nil {
			logger.Info("Using Redis for bot state", "host", cfg.Redis.Host)
			return rm, func() { rm.Close() }
		}
		logger.Warn("Redis unavailable, using in-memory bot state", "error", err)
	}
	return state.NewManager(), func() {}
}
