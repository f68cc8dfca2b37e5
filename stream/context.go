package stream

import (
	"context"

	"github.com/joeycumines/go-parjoin/internal/scope"
)

type scopeKey struct{}

// WithScope returns a context carrying sc as the current scope.
func WithScope(ctx context.Context, sc *scope.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

// GetScope produces the current outer scope from ctx, if one has been
// attached via WithScope.
func GetScope(ctx context.Context) (*scope.Scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(*scope.Scope)
	return sc, ok
}
