// Package main boots the designer gateway HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/printloom/designer-gateway/internal/config"
	httpapi "github.com/printloom/designer-gateway/internal/http"
	"github.com/printloom/designer-gateway/internal/nonce"
	"github.com/printloom/designer-gateway/internal/obs"
	"github.com/printloom/designer-gateway/internal/printful"
	"github.com/printloom/designer-gateway/internal/queue"
	"github.com/printloom/designer-gateway/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	provider, err := printful.New(printful.Config{
		BaseURL: cfg.ProviderAPIBase,
		APIKey:  cfg.ProviderAPIKey,
		Timeout: cfg.NonceTimeout,
	})
	if err != nil {
		obs.Logger.Error("provider_client_init_failed", "error", err)
		os.Exit(1)
	}
	// Missing credential is a configuration error; fail before serving
	// traffic rather than answering every nonce request with a 500.
	if !provider.CredentialConfigured() {
		obs.Logger.Error("credential_not_configured", "env", "PRINTFUL_API_KEY")
		os.Exit(1)
	}

	svc := nonce.NewService(provider)
	st := store.New()
	q := queue.New(128)
	mgr := queue.NewManager(cfg, q, st)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	app := httpapi.NewApp(cfg, svc, provider, st, mgr)
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
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	obs.Logger.Info("service_stopped")
}
