package main

import (
	"github.com/spf13/cobra"

	"solmev/internal/metrics"
	"solmev/internal/queryserver"
	"solmev/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP query surface over an in-memory store",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	index := store.NewIndex()
	reg := metrics.New()

	srv := queryserver.NewServer(cfg.Server.ListenAddr, index, reg, log)
	log.WithField("addr", cfg.Server.ListenAddr).Info("serve: listening")
	return srv.Start()
}
