package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// Account is one resolved entry of a balance snapshot.
type Account struct {
	Address common.Address
	// Wei is the raw balance in the chain's smallest unit.
	Wei *big.Int
	// Balance is Wei scaled to the chain's base unit.
	Balance    decimal.Decimal
	IsContract bool
}

// AddressHex renders the address as 0x-prefixed lowercase hex.
func (a Account) AddressHex() string {
	return FormatAddress(a.Address)
}

// FormatAddress renders an address as 0x-prefixed lowercase hex.
func FormatAddress(addr common.Address) string {
	return hexutil.Encode(addr[:])
}

// Snapshot groups the resolved accounts of one run with the chain position it reflects.
type Snapshot struct {
	Network  Network
	Height   uint64
	TakenAt  time.Time
	Accounts []Account
}
