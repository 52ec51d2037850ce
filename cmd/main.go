package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pizzashack/service/config"
	"github.com/pizzashack/service/database"
	"github.com/pizzashack/service/database/dbhelper"
	"github.com/pizzashack/service/handlers"
	"github.com/pizzashack/service/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Panicf("failed to load configuration, error: %v", err)
	}

	db, err := database.ConnectAndMigrate(&cfg.DB)
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}

	store := dbhelper.New(db, cfg.ListPerPage)
	h := handlers.New(store, cfg)
	svr := server.SetupRoutes(h, store, []byte(cfg.JWTSecret))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := svr.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("server stopped unexpectedly")
			done <- syscall.SIGTERM
		}
	}()
	logrus.Printf("listening on :%s", cfg.Port)

	<-done

	logrus.Info("shutting down...")
	if err := svr.Shutdown(shutdownTimeout); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
	}
	if err := db.Close(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}
}
