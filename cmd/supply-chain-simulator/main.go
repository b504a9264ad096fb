// Package main boots the Supply Chain Pipeline Simulator HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/config"
	httpapi "github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/http"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/obs"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/sim"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.InitLogger("info")
		obs.Logger.Error("config_error", "error", err)
		os.Exit(1)
	}
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting")

	s, err := sim.New(cfg)
	if err != nil {
		obs.Logger.Error("seed_error", "error", err, "seed_file", cfg.SeedFile)
		os.Exit(1)
	}

	app := httpapi.NewApp(cfg, s.Coordinator, s.Metrics)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", sig.String())

	app.StartShutdown()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
