// Package chain defines structs shared between snapshot components.
package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Block is a block fetched with full transaction bodies.
// Address fields are nil when the node omitted them.
type Block struct {
	Height       uint64
	Miner        *common.Address
	Transactions []Transaction
}

// Transaction keeps the fields of a transaction the snapshot reads.
// Value, Gas and GasPrice are decoded but do not influence balances.
type Transaction struct {
	From     *common.Address
	To       *common.Address
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int
}

// Participants returns every address that acted in the block, in block order
// (miner first, then to/from of each transaction), and a label for every
// address field that was missing.
func (b Block) Participants() (addrs []common.Address, missing []string) {
	addrs = make([]common.Address, 0, 1+2*len(b.Transactions))

	if b.Miner != nil {
		addrs = append(addrs, *b.Miner)
	} else {
		missing = append(missing, "miner")
	}

	for i, tx := range b.Transactions {
		if tx.To != nil {
			addrs = append(addrs, *tx.To)
		} else {
			missing = append(missing, fmt.Sprintf("transactions[%d].to", i))
		}
		if tx.From != nil {
			addrs = append(addrs, *tx.From)
		} else {
			missing = append(missing, fmt.Sprintf("transactions[%d].from", i))
		}
	}
	return addrs, missing
}

// ScanResult is the outcome of walking the chain.
type ScanResult struct {
	// Tip is the chain height reported by the node when the scan started.
	Tip uint64
	// Scanned is the number of blocks fetched.
	Scanned   uint64
	Addresses *AddressSet
}
