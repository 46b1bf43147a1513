package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/chxlky/telegram-trello-bot/api"
	"github.com/chxlky/telegram-trello-bot/bot"
	"github.com/chxlky/telegram-trello-bot/integrations"
	"github.com/chxlky/telegram-trello-bot/internal/config"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "debug"
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := zapConfig.Build()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Error("Invalid configuration", zap.Error(err))
		zap.L().Info("Set TELEGRAM_BOT_TOKEN, TRELLO_API_KEY, TRELLO_TOKEN and TRELLO_BOARD_ID")
		logger.Sync()
		os.Exit(1)
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	apiHandler := api.NewHandler()
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", apiHandler.HealthCheckHandler)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	zap.L().Info("Starting server", zap.String("port", cfg.ServerPort))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	trelloClient := integrations.NewTrelloClient(cfg.TrelloAPIKey, cfg.TrelloToken, cfg.TrelloBoardID)
	tgClient := integrations.NewTelegramClient(cfg.TelegramToken)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botUsername, err := tgClient.GetMe(ctx)
	if err != nil {
		zap.L().Error("Failed to authenticate with Telegram", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	zap.L().Info("Authenticated with Telegram", zap.String("username", botUsername))

	handlers := &bot.Handlers{
		Trello:          trelloClient,
		DefaultListName: cfg.DefaultListName,
	}
	botRouter := bot.NewRouter()
	botRouter.Handle("start", handlers.Welcome)
	botRouter.Handle("createcard", handlers.CreateCard)
	botRouter.Handle("trello", handlers.TrelloReply)

	if err := tgClient.DropPendingUpdates(ctx); err != nil {
		zap.L().Warn("Failed to drop pending updates", zap.Error(err))
	}

	zap.L().Info("Starting bot polling", zap.String("board", cfg.TrelloBoardID), zap.String("defaultList", cfg.DefaultListName))
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		pollLoop(ctx, tgClient, botRouter, botUsername)
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	var once sync.Once

	cleanup := func(reason string) {
		zap.L().Info("Shutdown initiated", zap.String("reason", reason))

		cancel()
		<-pollDone
		zap.L().Info("Bot polling stopped.")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		zap.L().Info("Shutting down HTTP server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Error shutting down server", zap.Error(err))
		} else {
			zap.L().Info("HTTP server shut down gracefully.")
		}
		close(done)
	}

	go func() {
		sig := <-sigCh
		once.Do(func() {
			cleanup(sig.String())
		})

		// if a second signal is caught, exit immediately
		go func() {
			<-sigCh
			zap.L().Info("Second interrupt signal received. Exiting immediately.")
			os.Exit(1)
		}()
	}()

	<-done
	zap.L().Info("Exiting...")
}

// pollLoop is the single receive loop: each update with a recognised command
// is dispatched on its own goroutine, so one slow Trello call never delays
// the next update.
func pollLoop(ctx context.Context, tg *integrations.TelegramClient, router *bot.Router, botUsername string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := tg.GetUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Warn("Failed to fetch Telegram updates", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		for _, u := range updates {
			if u.Message == nil {
				continue
			}
			inv, ok := bot.NewTelegramInvocation(tg, u.Message, botUsername)
			if !ok {
				continue
			}
			go router.Dispatch(ctx, inv)
		}
	}
}
