// CLAUDE:SUMMARY Sequential per-item batch driver yielding one tagged Outcome per key, with panic and cancel isolation.
// Package batch drives list-shaped jobs one item at a time.
//
// Every key produces exactly one Outcome, in input order. An error or a
// panic inside the item function marks that outcome as failed and the
// stream moves on to the next key.
//
// Usage:
//
//	for o := range batch.Run(ctx, urls, process) {
//		if o.Failed() {
//			logger.Warn("item failed", "url", o.Key, "error", o.Err)
//		}
//	}
package batch

import (
	"context"
	"fmt"
	"iter"
	"runtime/debug"
)

// Outcome is the result-or-failure of one batch item.
type Outcome[T any] struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Value T      `json:"value,omitempty"`
	Err   error  `json:"-"`
}

// Failed reports whether the item ended in an error.
func (o Outcome[T]) Failed() bool { return o.Err != nil }

// Func processes a single key.
type Func[T any] func(ctx context.Context, key string) (T, error)

// Run returns a stream that calls fn for each key sequentially.
// Once ctx is done the remaining keys are yielded as failures carrying
// ctx.Err() without calling fn.
func Run[T any](ctx context.Context, keys []string, fn Func[T]) iter.Seq[Outcome[T]] {
	return func(yield func(Outcome[T]) bool) {
		for i, key := range keys {
			o := Outcome[T]{Index: i, Key: key}
			if err := ctx.Err(); err != nil {
				o.Err = err
			} else {
				o.Value, o.Err = call(ctx, key, fn)
			}
			if !yield(o) {
				return
			}
		}
	}
}

func call[T any](ctx context.Context, key string, fn Func[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = fmt.Errorf("%w: panic: %v\n%s", ErrParse, r, debug.Stack())
		}
	}()
	return fn(ctx, key)
}

// Collect drains a stream into a slice.
func Collect[T any](seq iter.Seq[Outcome[T]]) []Outcome[T] {
	var out []Outcome[T]
	for o := range seq {
		out = append(out, o)
	}
	return out
}

// Failures counts failed outcomes.
func Failures[T any](outcomes []Outcome[T]) int {
	n := 0
	for _, o := range outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}
