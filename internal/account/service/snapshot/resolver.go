package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/chain"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/utils"
	"github.com/goodnatureofminers/blockinsight7000-balances/pkg/workerpool"
	"go.uber.org/zap"
)

type resolver struct {
	workerCount int
	logAmount   uint64
	decimals    int32
	source      AccountSource
	metrics     SnapshotMetrics
	logger      *zap.Logger
}

// Resolve fills every ledger entry with its latest balance and contract flag.
// Each entry index is handed to exactly one worker.
func (r *resolver) Resolve(ctx context.Context, ledger *chain.Ledger) error {
	total := uint64(ledger.Len())
	r.logger.Info("resolving balances", zap.Uint64("total", total), zap.Int("workers", r.workerCount))

	var processed atomic.Uint64
	return workerpool.Run(ctx, r.workerCount, workerpool.Range(0, ledger.Len()), func(ctx context.Context, i int) error {
		if err := r.resolveAccount(ctx, ledger, i); err != nil {
			return err
		}
		n := processed.Add(1)
		if r.logAmount > 0 && n%r.logAmount == 0 {
			r.metrics.SetProgress(phaseResolve, n)
			r.logger.Info("processed address balances", zap.Uint64("processed", n), zap.Uint64("total", total))
		}
		return nil
	})
}

func (r *resolver) resolveAccount(ctx context.Context, ledger *chain.Ledger, i int) (err error) {
	started := time.Now()
	defer func() {
		r.metrics.ObserveResolveAccount(err, started)
	}()

	addr := ledger.Address(i)
	wei, err := r.source.Balance(ctx, addr)
	if err != nil {
		return fmt.Errorf("resolve balance of %s: %w", model.FormatAddress(addr), err)
	}
	balance, err := utils.WeiToUnit(wei, r.decimals)
	if err != nil {
		return fmt.Errorf("convert balance of %s: %w", model.FormatAddress(addr), err)
	}
	isContract, err := r.source.HasCode(ctx, addr)
	if err != nil {
		return fmt.Errorf("resolve code of %s: %w", model.FormatAddress(addr), err)
	}

	ledger.Resolve(i, wei, balance, isContract)
	return nil
}
