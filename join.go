package parjoin

import (
	"context"
	"io"
	"sync"

	"github.com/joeycumines/go-parjoin/internal/admission"
	"github.com/joeycumines/go-parjoin/internal/handoff"
	"github.com/joeycumines/go-parjoin/internal/parjoinerr"
	"github.com/joeycumines/go-parjoin/internal/runcounter"
	"github.com/joeycumines/go-parjoin/internal/scope"
	"github.com/joeycumines/go-parjoin/internal/termsignal"
	"github.com/joeycumines/go-parjoin/stream"
)

// ParJoin non-deterministically merges source, a lazy sequence of inner
// lazy sequences, into a single lazy sequence, running at most maxOpen
// inner sequences concurrently.
//
// maxOpen must be >= 1; otherwise ParJoin fails synchronously, before
// spawning any goroutine.
//
// Nothing runs until the returned Stream is first pulled: the outer
// driver, every inner runner, and the background cancellation watcher are
// all spawned lazily on the first call to Pull, binding to that call's
// context for their lifetime.
func ParJoin[T any](source stream.Stream[stream.Stream[T]], maxOpen int, opts ...Option) (stream.Stream[T], error) {
	out, _, err := newJoin[T](source, maxOpen, opts)
	return out, err
}

// ParJoinWithStats behaves exactly like ParJoin, additionally returning a
// live Stats snapshot that can be polled while the returned Stream is
// drained.
func ParJoinWithStats[T any](source stream.Stream[stream.Stream[T]], maxOpen int, opts ...Option) (stream.Stream[T], *Stats, error) {
	return newJoin[T](source, maxOpen, opts)
}

// ParJoinUnbounded runs every inner sequence concurrently, with no
// admission limit.
func ParJoinUnbounded[T any](source stream.Stream[stream.Stream[T]], opts ...Option) (stream.Stream[T], error) {
	return ParJoin[T](source, unboundedMaxOpen, opts...)
}

// unboundedMaxOpen is large enough that golang.org/x/sync/semaphore never
// meaningfully blocks an admission for any realistic inner-stream count.
const unboundedMaxOpen = 1 << 30

func newJoin[T any](source stream.Stream[stream.Stream[T]], maxOpen int, opts []Option) (stream.Stream[T], *Stats, error) {
	if maxOpen < 1 {
		return stream.Stream[T]{}, nil, ErrMaxOpenInvalid
	}

	e := &joinEngine[T]{
		cfg:    newConfig(opts),
		source: source,
		sig:    termsignal.New(),
		sem:    admission.New(maxOpen),
		q:      handoff.New[stream.Chunk[T]](),
		sc:     scope.New(),
		stats:  &Stats{},
	}
	e.run = runcounter.New(func() { e.stop(nil) })

	out := stream.New(func(ctx context.Context) (stream.Chunk[T], error) {
		e.startOnce.Do(func() { e.start(ctx) })

		chunk, ok := e.q.Recv()
		if ok {
			return chunk, nil
		}

		e.quiesceOnce.Do(func() {
			_ = e.run.Wait(context.Background())
			_, e.finalErr = e.sig.Load()
		})
		if e.finalErr != nil {
			return nil, e.finalErr
		}
		return nil, io.EOF
	})

	return out, e.stats, nil
}

// joinEngine wires the termination signal, run counter, admission
// semaphore, hand-off channel, and resource scope together, plus the
// bookkeeping needed to start them lazily and shut them down exactly once.
type joinEngine[T any] struct {
	cfg    config
	source stream.Stream[stream.Stream[T]]

	sig *termsignal.Signal
	run *runcounter.Counter
	sem *admission.Semaphore
	q   *handoff.Channel[stream.Chunk[T]]
	sc  *scope.Scope

	stats *Stats

	startOnce   sync.Once
	quiesceOnce sync.Once
	finalErr    error
}

// stop transitions the termination signal and unconditionally closes the
// hand-off; duplicate-close suppression is the hand-off's own responsibility.
func (e *joinEngine[T]) stop(err error) {
	e.sig.Stop(err)
	e.q.Close()
}

// start spawns the outer driver and the cancellation watcher, binding both
// to ctx for their lifetime (the context of the Stream's first Pull call).
func (e *joinEngine[T]) start(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			// Closed here, eagerly, rather than left to runOuter's own
			// deferred close: an external cancellation can land while
			// runOuter is blocked inside an outstanding outer Pull, about
			// to admit more inner runners once it returns. Closing the
			// scope now means that admission genuinely observes a
			// closed scope (ErrLeaseOnClosedScope), instead of the
			// cancellation racing harmlessly against a scope that is
			// not actually closed yet.
			e.sc.Close()
			e.stop(ErrCancelled)
		case <-e.sig.Stopped():
		}
	}()

	go e.runOuter(ctx)
}

// runOuter is the outer driver: it pulls source for inner streams, spawning
// one inner runner per element, decrementing the run counter on every exit
// path.
func (e *joinEngine[T]) runOuter(ctx context.Context) {
	defer e.run.Decrement()
	// Closes the scope once this goroutine has made its last Lease call
	// for this run (idempotent if the cancellation watcher in start
	// already closed it first). Without external cancellation, this is
	// the only closer: a producer failure's stop() call does not touch
	// the scope, so a chunk's remaining inner streams still get a fair
	// admission attempt even after an earlier sibling has failed.
	defer e.sc.Close()

	// Carried on ctx so that a source built with stream.GetScope in mind
	// (per spec §6's Stream.getScope) observes the same scope every
	// inner runner leases from, without needing its own reference to e.
	ctx = stream.WithScope(ctx, e.sc)

	stopped := e.sig.Stopped()
	for {
		select {
		case <-stopped:
			return
		default:
		}

		chunk, err := e.source.Pull(ctx)
		if err != nil {
			if err != io.EOF {
				e.cfg.logger.Error("parjoin: outer source failed", map[string]any{"error": err.Error()})
				e.stop(err)
			}
			return
		}

		for _, inner := range chunk {
			e.runInner(ctx, inner)
		}
	}
}

// runInner runs an uninterruptible admission region (lease acquire,
// semaphore acquire, run-counter increment), followed by a fire-and-forget
// goroutine that pulls inner to exhaustion, forwarding every chunk to the
// hand-off. The send itself is abandoned if termination is requested
// before it rendezvouses; the termination signal is also checked after
// each completed send and before each pull.
func (e *joinEngine[T]) runInner(ctx context.Context, inner stream.Stream[T]) {
	lease, err := e.sc.Lease()
	if err != nil {
		e.cfg.logger.Warn("parjoin: lease denied, scope already closed", nil)
		e.stop(ErrLeaseOnClosedScope)
		return
	}

	// Uninterruptible region: once a lease is held, admission and the run
	// counter must both succeed before this runner can be observed as
	// "not yet counted", or a concurrent shutdown could see R reach zero
	// while this inner sequence is still about to start.
	if err := e.sem.Acquire(context.Background()); err != nil {
		_ = lease.Cancel()
		e.stop(err)
		return
	}
	e.run.Increment()
	e.stats.open.Add(1)

	go func() {
		stopped := e.sig.Stopped()
		var producerErr error

		for {
			select {
			case <-stopped:
				goto finished
			default:
			}

			chunk, err := inner.Pull(ctx)
			if err != nil {
				if err != io.EOF {
					producerErr = err
				}
				break
			}

			if !e.q.Send(chunk, stopped) {
				break
			}

			// Checked again after the send completed: a send that has
			// already rendezvoused is delivered even if the termination
			// signal transitioned meanwhile, while a send still waiting
			// for a receiver is abandoned by Send itself.
			if e.sig.Stopping() {
				break
			}
		}

	finished:
		leaseErr := lease.Cancel()
		e.sem.Release()
		e.stats.open.Add(-1)

		composed := parjoinerr.Compose(producerErr, leaseErr)
		if composed != nil {
			e.stats.failed.Add(1)
			e.cfg.logger.Error("parjoin: inner sequence failed", map[string]any{"error": composed.Error()})
			e.stop(composed)
		} else {
			e.stats.completed.Add(1)
		}

		e.run.Decrement()
	}()
}
