// Command recorder journals the market-data stream without trading.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"etf-market-maker/config"
	"etf-market-maker/infrastructure/logger"
	"etf-market-maker/recorder"
	"etf-market-maker/session"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	journal := flag.String("journal", "", "override journal path")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zlog, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	path := cfg.Recorder.Path
	if *journal != "" {
		path = *journal
	}
	if path == "" {
		zlog.Fatal("no journal path configured")
	}
	rec, err := recorder.Open(path, zlog)
	if err != nil {
		zlog.Fatal("open recorder", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := session.Dial(cfg.Session.URL, zlog)
	if err != nil {
		zlog.Fatal("session dial failed", zap.Error(err))
	}
	defer func() { _ = client.Close() }()

	if err := client.Run(ctx, rec); err != nil {
		zlog.Warn("session ended", zap.Error(err))
	}
}
