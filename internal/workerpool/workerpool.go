// Package workerpool runs background job families — preview loading,
// effect rendering, and artwork decoding — independently of the game
// thread, delivering results back over a bounded channel the game
// thread drains once per frame.
//
// Modeled on player.go's eventCh pattern (a bounded, non-blocking-send
// channel the audio/game side publishes to and a consumer drains
// opportunistically) generalized from playback events to arbitrary job
// results, and on golang.org/x/sync's errgroup/semaphore pair, which
// was previously only a transitive dependency; here it drives the pool
// directly.
package workerpool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Kind identifies which of the three job families a Job belongs to.
type Kind int

const (
	KindPreview Kind = iota
	KindEffect
	KindArtwork
)

func (k Kind) String() string {
	switch k {
	case KindPreview:
		return "preview"
	case KindEffect:
		return "effect"
	case KindArtwork:
		return "artwork"
	default:
		return "kind(?)"
	}
}

// Job is one unit of work. Run should respect ctx cancellation for
// I/O-bound work (preview/artwork loads); it is the only place in this
// package allowed to suspend.
type Job struct {
	ID    string
	Kind  Kind
	Run   func(ctx context.Context) (any, error)
}

// Result is what Run produced, tagged with the Job's identity so the
// game thread can match it back up (or discard it as stale).
type Result struct {
	ID    string
	Kind  Kind
	Value any
	Err   error
}

// defaultConcurrency bounds how many jobs run at once; worker tasks are
// I/O- or CPU-bound background work, not the real-time audio or game
// thread, so a modest cap avoids contending with them.
const defaultConcurrency = 4

// Pool runs submitted Jobs with bounded concurrency and delivers
// Results back over a channel. One Pool instance is shared across all
// three job kinds; Kind only distinguishes results for the consumer.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	sem    *semaphore.Weighted
	out    chan Result

	mu          sync.Mutex
	previewGen  map[string]int64
	previewSeq  int64
}

// New starts a Pool bound to parent's lifetime. Closing the scene
// should call Cancel, which unblocks any in-flight Run via ctx and lets
// pending sends drain without leaking goroutines.
func New(parent context.Context, concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	ctx, cancel := context.WithCancel(parent)
	group, gctx := errgroup.WithContext(ctx)
	return &Pool{
		ctx:        gctx,
		cancel:     cancel,
		group:      group,
		sem:        semaphore.NewWeighted(int64(concurrency)),
		out:        make(chan Result, 16),
		previewGen: make(map[string]int64),
	}
}

// Results returns the channel the game thread drains once per frame.
func (p *Pool) Results() <-chan Result { return p.out }

// Submit runs job.Run on a pooled goroutine once a concurrency slot is
// free, then publishes its Result. Submit itself never blocks: both the
// semaphore acquire and the output-channel send happen on the worker
// goroutine, not here.
func (p *Pool) Submit(job Job) {
	p.group.Go(func() error {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return nil // pool shutting down
		}
		defer p.sem.Release(1)

		value, err := job.Run(p.ctx)
		select {
		case p.out <- Result{ID: job.ID, Kind: job.Kind, Value: value, Err: err}:
		case <-p.ctx.Done():
		}
		return nil
	})
}

// SubmitPreview submits a preview-load job tagged with a generation
// number; a later call for the same id supersedes an earlier one, so a
// stale preview load's Result is delivered with Err=context.Canceled
// and no Value instead of the loaded value, once the player has
// already moved on to a different preview.
func (p *Pool) SubmitPreview(id string, run func(ctx context.Context) (any, error)) {
	p.mu.Lock()
	p.previewSeq++
	p.previewGen[id] = p.previewSeq
	gen := p.previewSeq
	p.mu.Unlock()

	p.Submit(Job{ID: id, Kind: KindPreview, Run: func(ctx context.Context) (any, error) {
		value, err := run(ctx)
		if !p.isCurrentPreview(id, gen) {
			return nil, context.Canceled
		}
		return value, err
	}})
}

func (p *Pool) isCurrentPreview(id string, gen int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previewGen[id] == gen
}

// Cancel stops accepting new work and cancels every in-flight Run.
// Wait should be called after Cancel to observe goroutines exiting.
func (p *Pool) Cancel() { p.cancel() }

// Wait blocks until every submitted Job has returned. Always returns
// nil: individual Job errors are delivered via Result.Err, not
// propagated here.
func (p *Pool) Wait() error {
	_ = p.group.Wait()
	close(p.out)
	return nil
}
