package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gwan-server/api"
	"gwan-server/auth"
	"gwan-server/blight"
	"gwan-server/config"
	"gwan-server/dice"
	"gwan-server/loghandler"
	"gwan-server/matchmaking"
	"gwan-server/storage"
	"gwan-server/ws"
)

func main() {
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, slog.LevelInfo)))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables", "tag", "main")
	}

	cfg := config.Load()
	slog.Info("configuration loaded", "tag", "main",
		"handSize", cfg.HandSize, "laneBonus", fmt.Sprintf("%d/%d/%d", cfg.LaneBonus.Clubs, cfg.LaneBonus.Spades, cfg.LaneBonus.Diamonds),
		"turnLimitSec", cfg.TurnLimitSec, "reconnectTimeoutSec", cfg.ReconnectTimeoutSec, "wsPort", cfg.WSPort)

	validator := auth.NewValidator(cfg.AuthBaseURL)
	if validator.Configured() {
		slog.Info("auth configured", "tag", "main", "baseURL", cfg.AuthBaseURL)
	} else {
		slog.Warn("AUTH_BASE_URL is not set; players join with set_name and history is unavailable", "tag", "main")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var history storage.HistoryStore
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connecting to Postgres; match history disabled", "tag", "main", "err", err)
	} else if store != nil {
		defer store.Close()
		history = store
	}

	registry := blight.NewDefaultRegistry()
	mm := matchmaking.NewMatchmaker(cfg, registry, dice.NewTimeRoller(), history)
	go mm.Run(ctx)

	hub := ws.NewHub(cfg, mm, validator)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	api.NewHandler(validator, history).Register(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WSPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "tag", "main", "err", err)
		}
	}()

	slog.Info("GWAN server listening", "tag", "main", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "tag", "main", "err", err)
		os.Exit(1)
	}
}
