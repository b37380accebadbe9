package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"github.com/shopspring/decimal"
)

// Ledger maps every discovered address to its resolved balance.
//
// The set of addresses is fixed at construction. Entries are addressed by index so
// that concurrent resolvers can each own a distinct entry without locking: Resolve
// for index i must only be called by the goroutine that owns i.
type Ledger struct {
	accounts []model.Account
	resolved []bool
	index    map[common.Address]int
}

// NewLedger builds a ledger over the set's addresses in ascending address order.
func NewLedger(set *AddressSet) *Ledger {
	addrs := set.Sorted()
	l := &Ledger{
		accounts: make([]model.Account, len(addrs)),
		resolved: make([]bool, len(addrs)),
		index:    make(map[common.Address]int, len(addrs)),
	}
	for i, a := range addrs {
		l.accounts[i] = model.Account{Address: a}
		l.index[a] = i
	}
	return l
}

func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Address returns the address of entry i.
func (l *Ledger) Address(i int) common.Address {
	return l.accounts[i].Address
}

// Resolve stores the balance and contract flag of entry i.
func (l *Ledger) Resolve(i int, wei *big.Int, balance decimal.Decimal, isContract bool) {
	l.accounts[i].Wei = wei
	l.accounts[i].Balance = balance
	l.accounts[i].IsContract = isContract
	l.resolved[i] = true
}

// Lookup returns the entry for addr.
func (l *Ledger) Lookup(addr common.Address) (model.Account, bool) {
	i, ok := l.index[addr]
	if !ok {
		return model.Account{}, false
	}
	return l.accounts[i], true
}

// Unresolved reports how many entries have not been resolved yet.
func (l *Ledger) Unresolved() int {
	n := 0
	for _, ok := range l.resolved {
		if !ok {
			n++
		}
	}
	return n
}

// Accounts returns the entries in ledger order. The slice must not be modified.
func (l *Ledger) Accounts() []model.Account {
	return l.accounts
}
