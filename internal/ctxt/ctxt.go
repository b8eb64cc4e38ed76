// Package ctxt keys context values by their Go type, so each type can be
// stored at most once per context chain.
package ctxt

import (
	"context"
	"fmt"
)

type typeKey[T any] struct{}

func With[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, typeKey[T]{}, v)
}

func From[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(typeKey[T]{}).(T)
	return v, ok
}

// MustFrom panics naming the missing type.
func MustFrom[T any](ctx context.Context) T {
	v, ok := From[T](ctx)
	if !ok {
		panic(fmt.Sprintf("ctxt: no %T in context", v))
	}
	return v
}
