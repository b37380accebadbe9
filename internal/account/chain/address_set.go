package chain

import (
	"bytes"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// AddressSet collects the distinct addresses discovered during a scan.
// It is safe for concurrent use.
type AddressSet struct {
	mu    sync.Mutex
	addrs map[common.Address]struct{}
}

func NewAddressSet() *AddressSet {
	return &AddressSet{addrs: make(map[common.Address]struct{})}
}

// Add records addresses as seen. Repeated addresses are ignored.
func (s *AddressSet) Add(addrs ...common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range addrs {
		s.addrs[a] = struct{}{}
	}
}

func (s *AddressSet) Contains(addr common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.addrs[addr]
	return ok
}

func (s *AddressSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.addrs)
}

// Sorted returns the addresses in ascending byte order.
func (s *AddressSet) Sorted() []common.Address {
	s.mu.Lock()
	out := make([]common.Address, 0, len(s.addrs))
	for a := range s.addrs {
		out = append(out, a)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b common.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return out
}
