package parjoin

import (
	"errors"
	"fmt"

	"github.com/joeycumines/go-parjoin/internal/scope"
)

// ErrMaxOpenInvalid is returned synchronously by ParJoin when maxOpen < 1.
var ErrMaxOpenInvalid = errors.New("parjoin: maxOpen must be >= 1")

// ErrLeaseOnClosedScope is the declared error kind surfaced when an inner
// runner tries to borrow a lease from a scope that has already been
// closed out from under it. It wraps scope.ErrScopeClosed so callers can
// match on either.
var ErrLeaseOnClosedScope = fmt.Errorf("parjoin: lease-on-closed-scope: %w", scope.ErrScopeClosed)

// ErrCancelled is the error composed into a join's termination signal when
// an external cancellation is requested: cancelling the context passed to
// a join's first Pull call is equivalent to stopping with this error.
var ErrCancelled = errors.New("parjoin: cancelled")
