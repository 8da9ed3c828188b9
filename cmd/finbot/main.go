package main

import (
	"os"

	"golang.org/x/sync/errgroup"

	"finbot/internal/backend"
	"finbot/internal/catalog"
	"finbot/internal/cli"
	"finbot/internal/engine"
	"finbot/internal/log"
	"finbot/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.BotToken == "" {
		logger.Error("BOT_TOKEN is not set")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	result, err := backend.NewFactory(logger).Create(backend.ConfigFromApp(cfg))
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	eng := engine.New(result.Store, catalog.DefaultIncome(), catalog.DefaultExpense())

	bot, err := telegram.New(telegram.Config{
		Token:       cfg.BotToken,
		PollTimeout: cfg.PollTimeout,
	}, eng, logger.WithComponent(log.ComponentTelegram))
	if err != nil {
		logger.Error("Failed to create Telegram bot", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting finbot", "backend", cfg.DataBackend)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx)
	})
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Bot stopped gracefully")
}
