package ethereum

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/chain"
)

// rpcBlock is the subset of an eth_getBlockByNumber result the snapshot decodes.
// Pointer fields stay nil when the node sends null or omits them.
type rpcBlock struct {
	Miner        *common.Address  `json:"miner"`
	Transactions []rpcTransaction `json:"transactions"`
}

type rpcTransaction struct {
	From     *common.Address `json:"from"`
	To       *common.Address `json:"to"`
	Value    *hexutil.Big    `json:"value"`
	Gas      *hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
}

func (b *rpcBlock) toBlock(height uint64) *chain.Block {
	txs := make([]chain.Transaction, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		converted := chain.Transaction{
			From:     tx.From,
			To:       tx.To,
			Value:    bigOrNil(tx.Value),
			GasPrice: bigOrNil(tx.GasPrice),
		}
		if tx.Gas != nil {
			converted.Gas = uint64(*tx.Gas)
		}
		txs = append(txs, converted)
	}
	return &chain.Block{
		Height:       height,
		Miner:        b.Miner,
		Transactions: txs,
	}
}

func bigOrNil(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return v.ToInt()
}
