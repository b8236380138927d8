package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ictportal/internal/db"
	"ictportal/internal/mailer"
	"ictportal/internal/media"
	"ictportal/internal/server"
	"ictportal/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	subsRepo := store.NewSubmissionRepository(pool)
	mediaRepo := store.NewMediaRepository(pool)
	auditRepo := store.NewAuditRepository(pool)

	ingestor := media.NewIngestor(config, logger)

	var mail mailer.Service
	if config.SendgridAPIKey != "" {
		mail = mailer.NewSendgridService(config, logger)
	} else {
		mail = mailer.NewConsoleService(logger)
	}

	srv, err := server.New(config, logger, subsRepo, mediaRepo, auditRepo, ingestor, mail)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
