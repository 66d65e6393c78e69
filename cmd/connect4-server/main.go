package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "settings file")
	addr := flag.String("addr", "", "listen address, overrides the settings file")
	kind := flag.String("model-kind", "", "evaluator kind")
	model := flag.String("model", "", "model file")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	if err := config.SetupLogging(os.Stderr, *logLevel, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load settings")
	}
	if *addr != "" {
		settings.Server.Addr = *addr
	}
	if *kind != "" {
		settings.Model.Kind = *kind
	}
	if *model != "" {
		settings.Model.Path = *model
	}

	server := &http.Server{
		Addr:    settings.Server.Addr,
		Handler: newRouter(settings),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", settings.Server.Addr).Str("kind", settings.Model.Kind).Msg("listening")
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = server.Close()
	}
}

func newRouter(settings *config.Settings) http.Handler {
	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: &log.Logger, NoColor: true})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settings)
	})
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(settings, w, r)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
