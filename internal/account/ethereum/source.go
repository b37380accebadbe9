package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/chain"
)

const (
	methodBlockNumber      = "eth_blockNumber"
	methodGetBlockByNumber = "eth_getBlockByNumber"
	methodGetBalance       = "eth_getBalance"
	methodGetCode          = "eth_getCode"

	latestBlock = "latest"
)

// Source reads chain data and account state from an EVM node.
type Source struct {
	rpc Caller
}

// NewSource creates a Source on top of a JSON-RPC caller.
func NewSource(rpc Caller) *Source {
	return &Source{rpc: rpc}
}

// LatestHeight returns the chain height reported by eth_blockNumber.
func (s *Source) LatestHeight(ctx context.Context) (uint64, error) {
	var height *hexutil.Uint64
	if err := s.rpc.Call(ctx, &height, methodBlockNumber); err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	if height == nil {
		return 0, fmt.Errorf("get block number: %w", &DecodeError{Method: methodBlockNumber, Err: ErrNullResult})
	}
	return uint64(*height), nil
}

// FetchBlock retrieves the block at height with full transaction objects.
func (s *Source) FetchBlock(ctx context.Context, height uint64) (*chain.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw *rpcBlock
	if err := s.rpc.Call(ctx, &raw, methodGetBlockByNumber, hexutil.EncodeUint64(height), true); err != nil {
		return nil, fmt.Errorf("get block at height %d: %w", height, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("get block at height %d: %w", height, &DecodeError{Method: methodGetBlockByNumber, Err: ErrBlockNotFound})
	}
	return raw.toBlock(height), nil
}

// Balance returns the latest balance of addr in the chain's smallest unit.
func (s *Source) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	var balance *hexutil.Big
	if err := s.rpc.Call(ctx, &balance, methodGetBalance, addr, latestBlock); err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", addr.Hex(), err)
	}
	if balance == nil {
		return nil, fmt.Errorf("get balance of %s: %w", addr.Hex(), &DecodeError{Method: methodGetBalance, Err: ErrNullResult})
	}
	return balance.ToInt(), nil
}

// HasCode reports whether addr holds contract code at the latest block.
func (s *Source) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	var code *hexutil.Bytes
	if err := s.rpc.Call(ctx, &code, methodGetCode, addr, latestBlock); err != nil {
		return false, fmt.Errorf("get code of %s: %w", addr.Hex(), err)
	}
	if code == nil {
		return false, fmt.Errorf("get code of %s: %w", addr.Hex(), &DecodeError{Method: methodGetCode, Err: ErrNullResult})
	}
	return len(*code) > 0, nil
}
