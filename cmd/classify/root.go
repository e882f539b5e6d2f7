// Package main implements the solmev CLI (SPEC_FULL.md §A.4): a cobra root
// command with a `classify` subcommand running the full C1->C8 pipeline
// over one decoded-block JSON document, a `serve` subcommand starting
// the HTTP query surface, and a `show-config` subcommand printing the
// effective configuration. Adapted from the teacher's cmd/cli command
// library (one cobra.Command var per concern, PersistentPreRunE for shared
// setup) scaled down to this CLI's three subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"solmev/pkg/config"
)

var (
	log     *logrus.Logger
	cfg     *config.Config
	envName string
	rootCmd = &cobra.Command{
		Use:   "solmev",
		Short: "Classify Solana blocks into labelled DEX swaps, arbitrage, sandwiches, and tips",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(".env")
			c, err := config.Load(envName)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = c

			log = logrus.New()
			if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
				log.SetLevel(lvl)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment overlay config name (merges cmd/classify/config/<env>.yaml)")
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
