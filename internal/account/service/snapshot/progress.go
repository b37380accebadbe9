package snapshot

import (
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/clock"
)

// heightProgress tracks completion of heights [0, total) and reports every `every`
// heights on the contiguous high-water mark. Heights may complete in any order;
// reports are always issued in ascending height order.
type heightProgress struct {
	mu        sync.Mutex
	every     uint64
	next      uint64
	pending   map[uint64]struct{}
	stopwatch *clock.Stopwatch
	report    func(height uint64, lap time.Duration)
}

func newHeightProgress(every uint64, now func() time.Time, report func(height uint64, lap time.Duration)) *heightProgress {
	return &heightProgress{
		every:     every,
		pending:   make(map[uint64]struct{}),
		stopwatch: clock.NewStopwatch(now),
		report:    report,
	}
}

// Done marks height as processed.
func (p *heightProgress) Done(height uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if height != p.next {
		p.pending[height] = struct{}{}
		return
	}
	for {
		if p.every > 0 && p.next%p.every == 0 {
			p.report(p.next, p.stopwatch.Lap())
		}
		p.next++
		if _, ok := p.pending[p.next]; !ok {
			return
		}
		delete(p.pending, p.next)
	}
}

// Contiguous returns how many heights from zero are completed without gaps.
func (p *heightProgress) Contiguous() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// estimateHoursRemaining extrapolates the time one reporting interval took over the
// heights still to be processed.
func estimateHoursRemaining(height, total, every uint64, lap time.Duration) float64 {
	if every == 0 || height >= total {
		return 0
	}
	return float64(total-height) / float64(every) * lap.Seconds() / 3600
}
