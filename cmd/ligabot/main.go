package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tdorado/ligabot/internal/bot"
	"github.com/tdorado/ligabot/internal/config"
	"github.com/tdorado/ligabot/internal/repository/memory"
	"github.com/tdorado/ligabot/internal/scheduler"
	"github.com/tdorado/ligabot/internal/service"
	"github.com/tdorado/ligabot/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	fileStore := store.NewFileStore(cfg.Store.Path)
	accounts, err := fileStore.Load()
	if err != nil {
		return err
	}
	slog.Info("Accounts loaded", "count", len(accounts), "path", cfg.Store.Path)

	repo := memory.NewRepository()
	repo.Replace(accounts)

	leagueService := service.NewLeagueService(repo, fileStore, cfg.League)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, leagueService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(leagueService, telegramBot.SendMessage,
		time.Duration(cfg.League.AutosaveMinutes)*time.Minute)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(":80", nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	if err := leagueService.SaveAccounts(); err != nil {
		slog.Error("Error saving accounts on shutdown", "error", err)
	}

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
