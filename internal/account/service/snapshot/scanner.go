package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/chain"
	"github.com/goodnatureofminers/blockinsight7000-balances/pkg/workerpool"
	"go.uber.org/zap"
)

type scanner struct {
	workerCount int
	logAmount   uint64
	includeTip  bool
	source      BlockSource
	metrics     SnapshotMetrics
	now         func() time.Time
	logger      *zap.Logger
}

// Scan walks heights 0..tip-1 (0..tip with includeTip) and collects every miner,
// sender and recipient address.
func (s *scanner) Scan(ctx context.Context) (chain.ScanResult, error) {
	tip, err := s.source.LatestHeight(ctx)
	if err != nil {
		s.logger.Error("fetch latest height failed", zap.Error(err))
		return chain.ScanResult{}, fmt.Errorf("fetch latest height: %w", err)
	}

	total := tip
	if s.includeTip {
		total = tip + 1
	}
	s.logger.Info("scanning blocks", zap.Uint64("tip", tip), zap.Uint64("total", total), zap.Int("workers", s.workerCount))

	addrs := chain.NewAddressSet()
	var scanned atomic.Uint64
	progress := newHeightProgress(s.logAmount, s.now, func(height uint64, lap time.Duration) {
		s.metrics.SetProgress(phaseScan, height)
		s.logger.Info("processed blocks for addresses",
			zap.Uint64("processed", height),
			zap.Uint64("total", total),
			zap.Float64("estimated_hours_remaining", estimateHoursRemaining(height, total, s.logAmount, lap)),
		)
	})

	err = workerpool.Run(ctx, s.workerCount, workerpool.Range[uint64](0, total), func(ctx context.Context, height uint64) error {
		if err := s.scanHeight(ctx, height, addrs); err != nil {
			return err
		}
		scanned.Add(1)
		progress.Done(height)
		return nil
	})
	if err != nil {
		return chain.ScanResult{}, err
	}

	return chain.ScanResult{
		Tip:       tip,
		Scanned:   scanned.Load(),
		Addresses: addrs,
	}, nil
}

func (s *scanner) scanHeight(ctx context.Context, height uint64, addrs *chain.AddressSet) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveScanHeight(err, height, started)
	}()

	block, err := s.source.FetchBlock(ctx, height)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("fetch block failed", zap.Uint64("height", height), zap.Error(err))
		}
		return fmt.Errorf("fetch block height %d: %w", height, err)
	}

	found, missing := block.Participants()
	for _, field := range missing {
		s.logger.Warn("address field missing", zap.Uint64("height", height), zap.String("field", field))
	}
	if len(missing) > 0 {
		s.metrics.ObserveMissingFields(len(missing))
	}
	addrs.Add(found...)
	return nil
}
