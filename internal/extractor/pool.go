package extractor

import (
	"context"
	"time"

	"faceauth/internal/biometric"
	"faceauth/internal/metrics"

	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrent extraction. At most workers extractions run at once
// and at most queue callers wait for a slot; callers beyond that are turned
// away with ErrPoolBusy so they can retry later.
type Pool struct {
	next    Extractor
	admit   *semaphore.Weighted
	run     *semaphore.Weighted
	metrics *metrics.Metrics
}

// NewPool wraps next with a bounded worker pool.
func NewPool(next Extractor, workers, queue int, m *metrics.Metrics) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	return &Pool{
		next:    next,
		admit:   semaphore.NewWeighted(int64(workers + queue)),
		run:     semaphore.NewWeighted(int64(workers)),
		metrics: m,
	}
}

// Extract runs the wrapped extractor once a worker slot is free. If ctx is
// cancelled while waiting, the work is abandoned.
func (p *Pool) Extract(ctx context.Context, frame *Frame) ([]biometric.Embedding, error) {
	if !p.admit.TryAcquire(1) {
		p.metrics.ExtractionRejectedInc()
		return nil, ErrPoolBusy
	}
	defer p.admit.Release(1)

	if err := p.run.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.run.Release(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	done := p.metrics.ExtractionStarted()
	defer func() { done(time.Since(start).Seconds()) }()

	return p.next.Extract(ctx, frame)
}

var _ Extractor = (*Pool)(nil)
