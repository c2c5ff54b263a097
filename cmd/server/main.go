// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/promptfall/promptfall/internal/config"
	"github.com/promptfall/promptfall/internal/game"
	"github.com/promptfall/promptfall/internal/handlers"
	"github.com/promptfall/promptfall/internal/journal"
	"github.com/promptfall/promptfall/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// The round journal is optional telemetry; the server runs without it.
	var jrnl *journal.Journal
	if cfg.RedisAddr != "" {
		jrnl, err = journal.Connect(cfg.RedisAddr, cfg.RedisDB, cfg.RedisQueue)
		if err != nil {
			logger.Warnf("round journal disabled: %v", err)
			jrnl = nil
		} else {
			logger.Infof("round journal publishing to %s (queue %q)", cfg.RedisAddr, cfg.RedisQueue)
		}
	}

	srv := handlers.NewServer(logger, handlers.Options{
		MaxRoomSize:   cfg.MaxRoomSize,
		VotingSeconds: cfg.VotingSeconds,
		Challenges:    game.NewStaticChallengeProvider(),
		Assist:        game.NewCannedAssistProvider(),
		Journal:       jrnl,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))
	mux.Handle("/healthz", middleware.LogMiddleware(logger)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		},
	)))

	httpSrv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Addr())
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	srv.Shutdown()
	logger.Info("server stopped")
}
