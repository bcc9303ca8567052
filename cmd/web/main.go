package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront-web/internal/apiclient"
	"storefront-web/internal/config"
	"storefront-web/internal/dashboard"
	"storefront-web/internal/db"
	"storefront-web/internal/httpserver"
	"storefront-web/internal/logging"
	"storefront-web/internal/qrcode"
	sessionrepo "storefront-web/internal/repository/session"
	sessionsvc "storefront-web/internal/service/session"
)

const (
	qrSize          = 256
	housekeepPeriod = time.Minute
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("web")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	sessionRepo := sessionrepo.NewCached(
		sessionrepo.NewPostgres(dbpool, logger),
		rdb,
		cfg.SessionCacheTTL,
		logger,
	)
	sessionService := sessionsvc.New(sessionRepo, client, cfg.SessionTTL, logger)
	registry := dashboard.NewRegistry(dashboard.Options{
		LoaderTimeout:       cfg.LoaderTimeout,
		SupportDismissAfter: cfg.SupportDismissAfter,
		Logger:              logger.Named("dashboard"),
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:   sessionService,
		Dashboards: registry,
		API: func(token string) dashboard.API {
			return client.ForToken(token)
		},
		QR:               qrcode.New(qrSize, "M"),
		Redis:            rdb,
		FileURLHost:      cfg.FileURLHost,
		SessionSecret:    cfg.SessionSecret,
		SessionTTL:       cfg.SessionTTL,
		SecureCookies:    cfg.Production(),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go registry.Run(bgCtx, housekeepPeriod, cfg.DashboardIdle)
	go purgeExpiredSessions(bgCtx, sessionService, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	stopBackground()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func purgeExpiredSessions(ctx context.Context, svc *sessionsvc.Service, logger *zap.Logger) {
	t := time.NewTicker(housekeepPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := svc.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired sessions purged", zap.Int64("count", n))
			}
		}
	}
}
