package batch

import "sync/atomic"

// Progress publishes the runner's position to observers on other
// goroutines. Writers and readers never block each other; readers only
// need the latest value, so plain atomic publication is enough.
type Progress struct {
	done   atomic.Int64
	total  atomic.Int64
	status atomic.Value // string
}

// NewProgress returns an empty progress publisher.
func NewProgress() *Progress {
	p := &Progress{}
	p.status.Store("")
	return p
}

func (p *Progress) set(done, total int, status string) {
	p.total.Store(int64(total))
	p.done.Store(int64(done))
	p.status.Store(status)
}

// Snapshot returns the most recently published position and status.
func (p *Progress) Snapshot() (done, total int, status string) {
	status, _ = p.status.Load().(string)
	return int(p.done.Load()), int(p.total.Load()), status
}

// Fraction returns completion in [0, 1]; zero when the total is unknown.
func (p *Progress) Fraction() float64 {
	total := p.total.Load()
	if total <= 0 {
		return 0
	}
	return float64(p.done.Load()) / float64(total)
}
