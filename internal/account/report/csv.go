// Package report writes balance snapshots to files.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/utils"
	"go.uber.org/zap"
)

// FileName is the report file created inside the output directory.
const FileName = "balances.csv"

var header = []string{"address", "balance", "is contract"}

// CSVExporter writes a snapshot as <dir>/balances.csv, replacing any previous report.
type CSVExporter struct {
	dir    string
	logger *zap.Logger
}

func NewCSVExporter(dir string, logger *zap.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, logger: logger}
}

// Path returns the report location.
func (e *CSVExporter) Path() string {
	return filepath.Join(e.dir, FileName)
}

// Export writes one row per account in snapshot order.
func (e *CSVExporter) Export(ctx context.Context, snapshot model.Snapshot) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", e.dir, err)
	}

	f, err := os.Create(e.Path())
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, acc := range snapshot.Accounts {
		if err := w.Write(row(acc)); err != nil {
			return fmt.Errorf("write report row %s: %w", acc.AddressHex(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	e.logger.Info("report written", zap.String("path", e.Path()), zap.Int("rows", len(snapshot.Accounts)))
	return nil
}

func row(acc model.Account) []string {
	isContract := "False"
	if acc.IsContract {
		isContract = "True"
	}
	return []string{acc.AddressHex(), utils.FormatUnit(acc.Balance), isContract}
}
