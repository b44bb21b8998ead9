package transport

import (
	"sync"

	"golang.org/x/time/rate"
)

// BoundedDispatcher offloads subscription handler invocations onto a
// fixed-size worker pool so that a single slow handler cannot block
// the transport's own delivery goroutine. Dispatch is additionally
// rate-limited per content topic to absorb bursts from a misbehaving
// or replaying peer, the same token-bucket-per-key pattern used for
// inbound request throttling elsewhere in this codebase.
type BoundedDispatcher struct {
	jobs    chan func()
	wg      sync.WaitGroup
	mu      sync.Mutex
	byTopic map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// NewBoundedDispatcher starts workers goroutines draining a bounded job
// queue. rps/burst configure the per-topic token bucket; pass 0 for
// rps to disable throttling.
func NewBoundedDispatcher(workers, queueDepth int, rps float64, burst int) *BoundedDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	d := &BoundedDispatcher{
		jobs:    make(chan func(), queueDepth),
		byTopic: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

func (d *BoundedDispatcher) run() {
	defer d.wg.Done()
	for job := range d.jobs {
		job()
	}
}

// Dispatch enqueues handler(payload) for a worker to run, applying the
// per-topic rate limit first. It never blocks the caller past the
// queue being full; a full queue drops the dispatch rather than
// stalling the transport's delivery goroutine.
func (d *BoundedDispatcher) Dispatch(contentTopic string, handler Handler, payload []byte) (dropped bool) {
	if d.rps > 0 && !d.allow(contentTopic) {
		return true
	}
	job := func() { handler(payload) }
	select {
	case d.jobs <- job:
		return false
	default:
		return true
	}
}

func (d *BoundedDispatcher) allow(topic string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.byTopic[topic]
	if !ok {
		l = rate.NewLimiter(d.rps, d.burst)
		d.byTopic[topic] = l
	}
	return l.Allow()
}

// Close stops accepting new dispatches and waits for queued jobs to
// drain.
func (d *BoundedDispatcher) Close() {
	close(d.jobs)
	d.wg.Wait()
}
