// Command quoter runs the market-making engine against an exchange gateway.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"etf-market-maker/config"
	"etf-market-maker/exchange"
	"etf-market-maker/infrastructure/logger"
	"etf-market-maker/metrics"
	"etf-market-maker/pnl"
	"etf-market-maker/quoter"
	"etf-market-maker/recorder"
	"etf-market-maker/session"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	metricsAddr := flag.String("metricsAddr", "", "override metrics listen address")
	dryRun := flag.Bool("dryRun", false, "log outbound commands instead of sending them")
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

	addr := cfg.Metrics.Addr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	if addr != "" {
		metrics.Serve(addr)
	}
	collector := metrics.New(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := session.Dial(cfg.Session.URL, zlog)
	if err != nil {
		zlog.Fatal("session dial failed", zap.Error(err))
	}
	defer func() { _ = client.Close() }()

	var sink exchange.CommandSink = client
	if *dryRun {
		sink = dryRunSink{log: zlog}
	}

	fills := pnl.NewTracker()
	engine, err := quoter.New(quoter.Params{
		MarginBasis:   cfg.Quoting.MarginBasis,
		MaxOrderDepth: cfg.Quoting.MaxOrderDepth,
		PositionLimit: cfg.Quoting.PositionLimit,
		TickSize:      cfg.Quoting.TickSize,
	}, quoter.Deps{
		Sink:    sink,
		Logger:  zlog,
		Metrics: collector,
		PnL:     fills,
	})
	if err != nil {
		zlog.Fatal("build engine", zap.Error(err))
	}

	handlers := session.Fanout{engine}
	if cfg.Recorder.Enabled {
		rec, err := recorder.Open(cfg.Recorder.Path, zlog)
		if err != nil {
			zlog.Fatal("open recorder", zap.Error(err))
		}
		handlers = append(handlers, rec)
	}

	// Quoting parameters follow the config file while the session runs.
	go func() {
		w := config.Watcher{Path: *cfgPath}
		_ = w.Start(ctx, func(next config.AppConfig) {
			if err := engine.UpdateQuoting(next.Quoting.MarginBasis, next.Quoting.MaxOrderDepth); err != nil {
				zlog.Warn("rejected quoting update", zap.Error(err))
			}
		})
	}()

	go pnlReport(ctx, zlog, fills)
	notifySystemd(ctx)

	runErr := client.Run(ctx, handlers)
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	snap := fills.Snapshot()
	zlog.Info("session ended",
		zap.Error(runErr),
		zap.Int64("net_position", engine.Ledger().Net()),
		zap.String("net_pnl", snap.Net.StringFixed(2)),
		zap.String("fees", snap.Fees.StringFixed(2)))
}

// dryRunSink logs commands instead of sending them.
type dryRunSink struct {
	log *zap.Logger
}

func (s dryRunSink) InsertOrder(orderID uint64, side exchange.Side, price, volume int64, lifespan exchange.Lifespan) {
	s.log.Info("dry-run insert",
		zap.Uint64("order_id", orderID),
		zap.Stringer("side", side),
		zap.Int64("price", price),
		zap.Int64("volume", volume),
		zap.Stringer("lifespan", lifespan))
}

func (s dryRunSink) CancelOrder(orderID uint64) {
	s.log.Info("dry-run cancel", zap.Uint64("order_id", orderID))
}

func (s dryRunSink) HedgeOrder(orderID uint64, side exchange.Side, price, volume int64) {
	s.log.Info("dry-run hedge",
		zap.Uint64("order_id", orderID),
		zap.Stringer("side", side),
		zap.Int64("price", price),
		zap.Int64("volume", volume))
}

func pnlReport(ctx context.Context, zlog *zap.Logger, fills *pnl.Tracker) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := fills.Snapshot()
			zlog.Info("pnl",
				zap.String("quoted_cash", snap.QuotedCash.StringFixed(2)),
				zap.String("hedge_cash", snap.HedgeCash.StringFixed(2)),
				zap.String("fees", snap.Fees.StringFixed(2)),
				zap.String("net", snap.Net.StringFixed(2)))
		}
	}
}

// notifySystemd reports readiness and feeds the watchdog when the process
// runs as a systemd service; a no-op otherwise.
func notifySystemd(ctx context.Context) {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
