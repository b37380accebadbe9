// Package ethereum talks to an EVM node over JSON-RPC and decodes its responses
// into snapshot types.
package ethereum

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCCaller is the raw transport, satisfied by *rpc.Client from go-ethereum.
	RPCCaller interface {
		CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	}

	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
		ObserveRetry(operation string)
	}

	// Caller performs a single logical JSON-RPC call and decodes the result into result.
	Caller interface {
		Call(ctx context.Context, result interface{}, method string, args ...interface{}) error
	}
)
