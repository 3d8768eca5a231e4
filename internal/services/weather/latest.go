package weather

import (
	"context"
	"sync"
)

// latestRequests implements last-request-wins per session key. Starting a
// request cancels the previous one for the same key.
type latestRequests struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflight
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

func newLatestRequests() *latestRequests {
	return &latestRequests{inflight: make(map[string]inflight)}
}

// begin registers a new request for key and returns its context and token.
// done must be called when the request finishes.
func (r *latestRequests) begin(ctx context.Context, key string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.seq++
	seq := r.seq
	if prev, ok := r.inflight[key]; ok {
		prev.cancel()
	}
	r.inflight[key] = inflight{seq: seq, cancel: cancel}
	r.mu.Unlock()

	done := func() {
		r.mu.Lock()
		if cur, ok := r.inflight[key]; ok && cur.seq == seq {
			delete(r.inflight, key)
		}
		r.mu.Unlock()
		cancel()
	}
	return ctx, seq, done
}

// isLatest reports whether seq is still the newest request for key.
func (r *latestRequests) isLatest(key string, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.inflight[key]
	return ok && cur.seq == seq
}
