// Command api serves the book review REST API.
//
//	@title                      Book Review API
//	@version                    1.0
//	@description                Books, star ratings and reviews.
//	@BasePath                   /
//	@securityDefinitions.apikey BearerAuth
//	@in                         header
//	@name                       Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	_ "github.com/SuwethaV/bookreview/docs"
	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
	"github.com/SuwethaV/bookreview/pkg/logger"
	"github.com/SuwethaV/bookreview/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "config file (default: config/config.yaml)")
	flag.Parse()

	// 1. configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	// 2. logging
	if _, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	}); err != nil {
		logrus.WithError(err).Fatal("init logger")
	}

	// 3. tracing
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			logrus.WithError(err).Fatal("init tracer")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logrus.WithError(err).Warn("flush traces")
			}
		}()
	}

	// 4. dependencies
	srv, cleanup, err := InitializeApp(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("initialize app")
	}
	defer cleanup()

	logrus.WithFields(logrus.Fields{
		"addr":   srv.Addr,
		"mode":   cfg.Server.Mode,
		"driver": cfg.Database.Driver,
	}).Info("server starting")

	// 5. serve until SIGINT/SIGTERM
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		logrus.WithError(err).Error("server stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	logrus.Info("server exited")
}
