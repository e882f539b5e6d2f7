package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"solmev/internal/metrics"
	"solmev/internal/queryserver"
	"solmev/internal/store"
	"solmev/pkg/config"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("queryserver: load config")
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}

	index := store.NewIndex()
	reg := metrics.New()

	srv := queryserver.NewServer(cfg.Server.ListenAddr, index, reg, log)
	log.WithField("addr", cfg.Server.ListenAddr).Info("queryserver: listening")
	if err := srv.Start(); err != nil {
		log.WithError(err).Fatal("queryserver: server exited")
	}
}
