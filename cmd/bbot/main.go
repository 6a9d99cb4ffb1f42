package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Zerui18/BBot/internal/adapters/bbdc"
	"github.com/Zerui18/BBot/internal/adapters/ocr"
	"github.com/Zerui18/BBot/internal/adapters/redisstore"
	"github.com/Zerui18/BBot/internal/adapters/tg"
	"github.com/Zerui18/BBot/internal/config"
	"github.com/Zerui18/BBot/internal/useCases"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := setupLogger(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	solver := ocr.NewSpaceSolver(cfg.OCR.APIKey, logger)

	agent, err := bbdc.NewClient(bbdc.Config{
		BaseURL:    cfg.BBDC.BaseURL,
		CourseType: cfg.BBDC.CourseType,
		Attempts:   cfg.BBDC.Attempts,
		Solver:     solver,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("create booking client", "error", err)
		os.Exit(1)
	}

	username, err := agent.Authenticate(ctx, cfg.BBDC.UserID, cfg.BBDC.Password)
	if err != nil {
		logger.Error("initial login failed", "error", err)
		os.Exit(1)
	}
	logger.Info("logged in to booking backend", "username", username)

	store := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SeenTTL)
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		logger.Error("redis unreachable", "error", err)
		os.Exit(1)
	}

	bot, err := tg.NewBot(
		cfg.Telegram.ApiID,
		cfg.Telegram.ApiHash,
		cfg.Telegram.BotToken,
		cfg.Telegram.SessionDir,
		logger,
	)
	if err != nil {
		logger.Error("start telegram bot", "error", err)
		os.Exit(1)
	}
	defer bot.Close()

	watcher := useCases.NewWatcher(logger, agent, store, bot, cfg.BBDC.MonthsAhead)
	handler := useCases.NewHandler(
		logger,
		agent,
		bot,
		watcher,
		cfg.BBDC.PollEvery,
		cfg.BBDC.MonthsAhead,
		cfg.Telegram.AllowedChatID,
	)

	if err := handler.Run(ctx); err != nil {
		logger.Error("handler.Run error", "error", err)
		os.Exit(1)
	}

	logger.Info("exit")
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return logger
}
