package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/ethereum"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/report"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/service/snapshot"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/metrics"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	Network              model.Network `long:"network" env:"BALANCE_SNAPSHOT_NETWORK" description:"network name" default:"mainnet"`
	RPCURL               string        `long:"rpc-url" env:"BALANCE_SNAPSHOT_RPC_URL" description:"EVM JSON-RPC URL" default:"http://127.0.0.1:8545"`
	HTTPTimeout          time.Duration `long:"http-timeout" env:"BALANCE_SNAPSHOT_HTTP_TIMEOUT" description:"HTTP timeout for RPC requests" default:"30s"`
	RPCRate              int           `long:"rpc-rate" env:"BALANCE_SNAPSHOT_RPC_RATE" description:"max RPC requests per second, 0 for unlimited" default:"0"`
	RetryMaxAttempts     uint64        `long:"retry-max-attempts" env:"BALANCE_SNAPSHOT_RETRY_MAX_ATTEMPTS" description:"attempts per RPC call on transport failures" default:"5"`
	RetryInitialInterval time.Duration `long:"retry-initial-interval" env:"BALANCE_SNAPSHOT_RETRY_INITIAL_INTERVAL" description:"first retry backoff" default:"500ms"`
	RetryMaxInterval     time.Duration `long:"retry-max-interval" env:"BALANCE_SNAPSHOT_RETRY_MAX_INTERVAL" description:"retry backoff cap" default:"30s"`
	Workers              int           `long:"workers" env:"BALANCE_SNAPSHOT_WORKERS" description:"concurrent RPC workers" default:"4"`
	LogAmount            uint64        `long:"log-amount" env:"BALANCE_SNAPSHOT_LOG_AMOUNT" description:"blocks or addresses between progress logs" default:"1000"`
	Decimals             int32         `long:"decimals" env:"BALANCE_SNAPSHOT_DECIMALS" description:"base unit denomination exponent" default:"18"`
	IncludeTip           bool          `long:"include-tip" env:"BALANCE_SNAPSHOT_INCLUDE_TIP" description:"also scan the block at the reported chain height"`
	OutputDir            string        `long:"output-dir" env:"BALANCE_SNAPSHOT_OUTPUT_DIR" description:"directory for balances.csv" default:"csv"`
	ClickhouseDSN        string        `long:"clickhouse-dsn" env:"BALANCE_SNAPSHOT_CLICKHOUSE_DSN" description:"ClickHouse DSN, empty disables the ClickHouse export"`
	MetricsAddr          string        `long:"metrics-addr" env:"BALANCE_SNAPSHOT_METRICS_ADDR" description:"address for metrics server, empty disables it" default:":2112"`
}

func (c config) snapshotConfig() snapshot.Config {
	return snapshot.Config{
		Network:    c.Network,
		Workers:    c.Workers,
		LogAmount:  c.LogAmount,
		Decimals:   c.Decimals,
		IncludeTip: c.IncludeTip,
	}
}

func (c config) retryConfig() ethereum.RetryConfig {
	return ethereum.RetryConfig{
		MaxAttempts:     c.RetryMaxAttempts,
		InitialInterval: c.RetryInitialInterval,
		MaxInterval:     c.RetryMaxInterval,
	}
}

func parseConfig(args []string) (config, error) {
	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("balance snapshot failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	client, err := ethereum.Dial(ctx, cfg.RPCURL, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("init evm rpc client: %w", err)
	}
	defer client.Close()

	rpc := ethereum.NewRPCClient(
		client,
		metrics.NewRPCClient(cfg.Network),
		cfg.RPCRate,
		cfg.retryConfig(),
		logger.Named("rpc"),
	)
	source := ethereum.NewSource(rpc)

	exporters, closeExporters, err := newExporters(cfg, logger)
	if err != nil {
		return err
	}
	defer closeExporters()

	svc, err := snapshot.NewService(
		source,
		source,
		exporters,
		metrics.NewSnapshot(cfg.Network),
		cfg.snapshotConfig(),
		logger,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

// newExporters returns the CSV exporter followed by the ClickHouse exporter when a DSN is set.
func newExporters(cfg config, logger *zap.Logger) ([]snapshot.Exporter, func(), error) {
	exporters := []snapshot.Exporter{report.NewCSVExporter(cfg.OutputDir, logger.Named("report"))}
	if cfg.ClickhouseDSN == "" {
		return exporters, func() {}, nil
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return nil, nil, fmt.Errorf("init repository: %w", err)
	}
	closeFn := func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close clickhouse repository failed", zap.Error(err))
		}
	}
	return append(exporters, repo), closeFn, nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
