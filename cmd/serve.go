package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chemsmart/fmdqa/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the QA checker over HTTP (upload, validate, download)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}
		log := newLogger()
		srv := server.New(cfg, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	var w = os.Stderr
	out := zerolog.New(w)
	if cfg.LogFormat == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	return out.Level(level).With().Timestamp().Str("service", "fmdqa").Logger()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
}
