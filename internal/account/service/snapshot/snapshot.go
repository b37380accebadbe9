// Package snapshot scans an EVM chain for participating addresses and records their
// latest balances.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/chain"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"go.uber.org/zap"
)

// Config holds the run settings of a Service.
type Config struct {
	Network model.Network
	// Workers bounds concurrent RPC work in both phases. Values below one use the default.
	Workers int
	// LogAmount is the number of blocks or addresses between progress logs.
	// Zero uses the default.
	LogAmount uint64
	// Decimals is the denomination exponent of the base unit, 18 for ether.
	Decimals int32
	// IncludeTip also scans the block at the reported chain height.
	IncludeTip bool
}

// Service runs a single snapshot pass: scan, build the ledger, resolve, export.
type Service struct {
	network   model.Network
	scanner   Scanner
	resolver  Resolver
	exporters []Exporter
	metrics   SnapshotMetrics
	now       func() time.Time
	logger    *zap.Logger
}

// NewService builds a Service with the given dependencies. Exporters run in order.
func NewService(
	blocks BlockSource,
	accounts AccountSource,
	exporters []Exporter,
	metrics SnapshotMetrics,
	cfg Config,
	logger *zap.Logger,
) (*Service, error) {
	if blocks == nil || accounts == nil {
		return nil, errors.New("block and account sources are required")
	}
	if metrics == nil {
		return nil, errors.New("snapshot metrics is required")
	}
	if len(exporters) == 0 {
		return nil, errors.New("at least one exporter is required")
	}
	if cfg.Decimals < 0 {
		return nil, fmt.Errorf("invalid denomination decimals %d", cfg.Decimals)
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkerCount
	}
	if cfg.LogAmount == 0 {
		cfg.LogAmount = defaultLogAmount
	}

	logger = logger.With(zap.String("network", string(cfg.Network)))

	return &Service{
		network:   cfg.Network,
		exporters: exporters,
		metrics:   metrics,
		now:       time.Now,
		logger:    logger,
		scanner: &scanner{
			workerCount: cfg.Workers,
			logAmount:   cfg.LogAmount,
			includeTip:  cfg.IncludeTip,
			source:      blocks,
			metrics:     metrics,
			now:         time.Now,
			logger:      logger.Named("scanner"),
		},
		resolver: &resolver{
			workerCount: cfg.Workers,
			logAmount:   cfg.LogAmount,
			decimals:    cfg.Decimals,
			source:      accounts,
			metrics:     metrics,
			logger:      logger.Named("resolver"),
		},
	}, nil
}

// Run executes the snapshot once. Nothing is exported unless every address resolved.
func (s *Service) Run(ctx context.Context) error {
	takenAt := s.now().UTC()

	s.logger.Info("scanning chain for addresses")
	started := time.Now()
	scan, err := s.scanner.Scan(ctx)
	s.metrics.ObservePhase(phaseScan, err, int(scan.Scanned), started)
	if err != nil {
		return fmt.Errorf("scan chain: %w", err)
	}
	s.logger.Info("scan complete",
		zap.Uint64("tip", scan.Tip),
		zap.Uint64("blocks", scan.Scanned),
		zap.Int("addresses", scan.Addresses.Len()),
		zap.Duration("elapsed", time.Since(started)),
	)

	ledger := chain.NewLedger(scan.Addresses)
	s.logger.Info("resolving address balances", zap.Int("addresses", ledger.Len()))
	started = time.Now()
	err = s.resolver.Resolve(ctx, ledger)
	if err == nil {
		if n := ledger.Unresolved(); n > 0 {
			err = fmt.Errorf("%d addresses left unresolved", n)
		}
	}
	s.metrics.ObservePhase(phaseResolve, err, ledger.Len(), started)
	if err != nil {
		return fmt.Errorf("resolve balances: %w", err)
	}
	s.logger.Info("resolve complete",
		zap.Int("addresses", ledger.Len()),
		zap.Duration("elapsed", time.Since(started)),
	)

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := model.Snapshot{
		Network:  s.network,
		Height:   scan.Tip,
		TakenAt:  takenAt,
		Accounts: ledger.Accounts(),
	}
	for i, exporter := range s.exporters {
		started = time.Now()
		err := exporter.Export(ctx, snap)
		s.metrics.ObservePhase(phaseExport, err, len(snap.Accounts), started)
		if err != nil {
			s.logger.Error("export snapshot failed", zap.Int("exporter", i), zap.Error(err))
			return fmt.Errorf("export snapshot: %w", err)
		}
	}

	s.logger.Info("snapshot complete",
		zap.Uint64("height", snap.Height),
		zap.Int("accounts", len(snap.Accounts)),
		zap.Int("exporters", len(s.exporters)),
	)
	return nil
}
