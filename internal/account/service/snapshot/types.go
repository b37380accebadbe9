package snapshot

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/chain"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockSource interface {
		LatestHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, height uint64) (*chain.Block, error)
	}
	AccountSource interface {
		Balance(ctx context.Context, addr common.Address) (*big.Int, error)
		HasCode(ctx context.Context, addr common.Address) (bool, error)
	}
	Exporter interface {
		Export(ctx context.Context, snapshot model.Snapshot) error
	}

	Scanner interface {
		Scan(ctx context.Context) (chain.ScanResult, error)
	}
	Resolver interface {
		Resolve(ctx context.Context, ledger *chain.Ledger) error
	}

	SnapshotMetrics interface {
		ObservePhase(phase string, err error, items int, started time.Time)
		ObserveScanHeight(err error, height uint64, started time.Time)
		ObserveResolveAccount(err error, started time.Time)
		SetProgress(phase string, done uint64)
		ObserveMissingFields(n int)
	}
)
