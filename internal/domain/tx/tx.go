// Package tx declares the unit-of-work port shared by domain services.
package tx

import "context"

// Manager runs fn as one unit of work.
// Repositories pick the transaction up from the ctx passed to fn;
// implementations without transactions simply call fn(ctx).
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Func adapts a plain function to Manager.
type Func func(ctx context.Context, fn func(ctx context.Context) error) error

func (f Func) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// None runs fn directly.
var None Manager = Func(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})
