// Command mpdrelay serves the MPD client protocol over TCP, relaying
// every command to a JSON-RPC media backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tjhop/mpdrelay/internal/backend"
	"github.com/tjhop/mpdrelay/internal/config"
	"github.com/tjhop/mpdrelay/internal/mpd"
)

var (
	configPath = flag.String("config", "/etc/mpdrelay/config.yaml", "Path to configuration file")
	listenAddr = flag.String("listen", "", "TCP host:port to accept MPD clients on (overrides config)")
	backendURL = flag.String("backend", "", "Backend JSON-RPC base URL (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mpdrelay: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}

	log := newLogger(cfg.LogLevel)

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatal().Err(err).Str("listen", cfg.Listen).Msg("failed to bind listener")
	}

	rc := resty.New().SetTimeout(cfg.Backend.Timeout)
	client := backend.New(cfg.Backend.URL, rc, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := client.Sources(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch media sources at startup; path mapping will be empty")
	}
	pathMapper := mpd.NewPathMapper(sources)

	cache := mpd.NewStateCache(client, nil)
	srv := mpd.NewServer(client, cache, pathMapper, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		cache.Run(gctx, pollInterval(cfg.Poll), func(err error) {
			log.Debug().Err(err).Msg("state poll failed")
		})
		return nil
	})

	log.Info().Str("listen", cfg.Listen).Str("backend", cfg.Backend.URL).Msg("mpdrelay started")
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("mpdrelay exited with error")
		os.Exit(1)
	}
}

func pollInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return d
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
