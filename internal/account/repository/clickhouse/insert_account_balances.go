package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
)

const insertBatchSize = 10_000

const insertAccountBalancesQuery = `
INSERT INTO account_balances (
	network,
	snapshot_height,
	snapshot_time,
	address,
	balance_wei,
	balance,
	is_contract
) VALUES`

// Export stores every account of the snapshot in account_balances, splitting the
// rows into batches of insertBatchSize.
func (r *Repository) Export(ctx context.Context, snapshot model.Snapshot) error {
	for start := 0; start < len(snapshot.Accounts); start += insertBatchSize {
		end := min(start+insertBatchSize, len(snapshot.Accounts))
		if err := r.InsertAccountBalances(ctx, snapshot, snapshot.Accounts[start:end]); err != nil {
			return fmt.Errorf("export accounts %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// InsertAccountBalances stores account rows tagged with the snapshot's network, height and time.
func (r *Repository) InsertAccountBalances(ctx context.Context, snapshot model.Snapshot, accounts []model.Account) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_account_balances", snapshot.Network, err, start)
	}()

	if len(accounts) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertAccountBalancesQuery)
	if err != nil {
		return fmt.Errorf("prepare account balances batch: %w", err)
	}

	for _, acc := range accounts {
		if acc.Wei == nil {
			err = fmt.Errorf("account %s has no balance", acc.AddressHex())
			_ = batch.Abort()
			return err
		}
		if err = batch.Append(
			string(snapshot.Network),
			snapshot.Height,
			snapshot.TakenAt,
			acc.AddressHex(),
			acc.Wei,
			acc.Balance,
			acc.IsContract,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append account balance: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert account balances: %w", err)
	}
	return nil
}
