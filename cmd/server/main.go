package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-crafter/internal/app"
	"career-crafter/internal/config"
	"career-crafter/internal/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, logCloser, err := logger.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("failed to init logger")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.WithError(err).Warn("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.WithError(err).Fatal("invalid HTTP port")
	}

	c := bootstrap.Container
	go c.Hub.Run(ctx)
	if cfg.Sweep.Enabled {
		go c.Sweeper.Start(ctx)
	} else {
		log.Info("[Sweep] disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.App.Environment}).Info("server listening")
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server error")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown error")
		}
		log.Info("server stopped")
	}
}
