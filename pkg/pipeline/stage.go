// Package pipeline provides the stage abstraction and the data types passed
// between videolab stages.
package pipeline

import (
	"context"
)

// Stage represents a processing stage.
// Each stage takes an input and produces an output.
type Stage[In, Out any] interface {
	// Execute runs the stage with the given input and returns the output.
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc is a function adapter for Stage interface.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage interface.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// Chain runs same-typed stages in order, feeding each output to the next.
// It stops at the first error.
func Chain[T any](stages ...Stage[T, T]) Stage[T, T] {
	return StageFunc[T, T](func(ctx context.Context, input T) (T, error) {
		cur := input
		for _, s := range stages {
			if err := ctx.Err(); err != nil {
				return cur, err
			}
			next, err := s.Execute(ctx, cur)
			if err != nil {
				return cur, err
			}
			cur = next
		}
		return cur, nil
	})
}
