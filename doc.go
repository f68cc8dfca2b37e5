// Package parjoin implements a concurrent stream join engine: it
// non-deterministically merges a lazy sequence of inner lazy sequences
// into a single lazy sequence of elements, bounding the number of inner
// sequences evaluated concurrently.
//
// # Architecture
//
// [ParJoin] wires together four observable primitives (an
// internal/termsignal.Signal tracking termination, an
// internal/runcounter.Counter tracking live producers, an
// internal/admission.Semaphore bounding concurrency, and an
// internal/handoff.Channel rendezvousing chunks between producers and the
// consumer) around an outer driver goroutine that spawns one inner-runner
// goroutine per inner stream it pulls, each borrowing an
// internal/scope.Lease from the outer pull's scope for its own lifetime.
//
// # Usage
//
//	out, err := parjoin.ParJoin(source, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := compile.Drain(ctx, out); err != nil {
//	    log.Fatal(err)
//	}
package parjoin
