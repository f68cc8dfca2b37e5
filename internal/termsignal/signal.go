// Package termsignal implements an observable, monotonic tri-state
// termination cell: a value that starts out running and, once it leaves
// that state, never returns to it, while retaining the first (and any
// subsequently composed) error.
package termsignal

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/go-parjoin/internal/parjoinerr"
)

// State is one of Running, StoppingClean, or StoppingError.
type State uint32

const (
	// Running is the initial state: evaluation is active.
	Running State = iota
	// StoppingClean indicates graceful termination was requested, no error.
	StoppingClean
	// StoppingError indicates termination was requested with a composed error.
	StoppingError
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case StoppingClean:
		return "StoppingClean"
	case StoppingError:
		return "StoppingError"
	default:
		return "Unknown"
	}
}

// Signal is a linearizable, observable cell holding a termination state.
// Once it leaves Running it never returns; a second Stop call while
// already stopping composes its error into the existing one.
//
// betteralign:ignore
type Signal struct {
	state State
	mu    sync.Mutex // guards state and err; changed is swapped atomically, outside mu
	err   error

	changed atomic.Pointer[chan struct{}] // closed and replaced on every transition

	stoppedOnce sync.Once
	stopped     chan struct{} // closed exactly once, on the first Running -> Stopping* transition
}

// New returns a Signal in the Running state.
func New() *Signal {
	s := &Signal{stopped: make(chan struct{})}
	ch := make(chan struct{})
	s.changed.Store(&ch)
	return s
}

// Load returns the current state and, if StoppingError, the composed error.
func (s *Signal) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}

// Changed returns a channel that is closed by the next call to Stop,
// whether or not that call changes the state or the error. Subscribers
// should re-call Changed after it fires to keep observing; this mirrors a
// closed-channel broadcast idiom: Stop closes the current channel and
// swaps in a fresh one, which the next call to Changed returns.
func (s *Signal) Changed() <-chan struct{} {
	return *s.changed.Load()
}

// Stop transitions the signal towards a stopped state. err may be nil. It
// is safe to call concurrently and repeatedly: a mutex-guarded
// read-modify-write, rather than a retried compare-and-swap loop, ensures
// composition of a given pair of errors happens exactly once, even under
// concurrent callers.
func (s *Signal) Stop(err error) {
	s.mu.Lock()
	wasRunning := s.state == Running
	switch s.state {
	case Running:
		if err == nil {
			s.state = StoppingClean
		} else {
			s.state = StoppingError
			s.err = err
		}
	case StoppingClean:
		if err != nil {
			s.state = StoppingError
			s.err = err
		}
	case StoppingError:
		if err != nil {
			s.err = parjoinerr.Compose(s.err, err)
		}
	}
	s.mu.Unlock()

	if wasRunning {
		s.stoppedOnce.Do(func() { close(s.stopped) })
	}

	next := make(chan struct{})
	old := s.changed.Swap(&next)
	close(*old)
}

// Stopping reports whether the signal has left Running.
func (s *Signal) Stopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Running
}

// Stopped returns a channel that is closed exactly once, the instant the
// signal first leaves Running. Unlike Changed, this never fires more than
// once and is safe to read from many goroutines as a one-shot interrupt
// signal for callers that need to abort in-flight work as soon as a
// termination is requested.
func (s *Signal) Stopped() <-chan struct{} {
	return s.stopped
}
