package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tkerns/gatehouse/internal/config"
	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/logger"
	"github.com/tkerns/gatehouse/internal/notify"
	"github.com/tkerns/gatehouse/internal/session"
	"github.com/tkerns/gatehouse/internal/web"
)

func main() {
	configPath := flag.String("config", "gatehouse.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore()
	client := idp.NewREST(cfg.Provider.BaseURL, cfg.Provider.APIKey, sessions)
	toasts := notify.NewCenter(cfg.ToastDuration)

	var oauth *web.OAuth
	if cfg.Google.Enabled() {
		oauth, err = web.NewOAuth(ctx, cfg.Google, []byte(cfg.CookieSecret))
		if err != nil {
			logger.Error("google sign-in setup failed", "error", err)
			os.Exit(1)
		}
		logger.Info("google sign-in enabled", "issuer", cfg.Google.Issuer)
	}

	server, err := web.New(cfg, client, sessions, toasts, oauth)
	if err != nil {
		logger.Error("server setup failed", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	logger.Info("gatehouse listening", "addr", cfg.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
