package bridge

import "context"

// Result is one value or failure produced by a Source.
type Result[T any] struct {
	Value T
	Err   error
}

// Source starts an asynchronous computation bound to ctx and returns the
// channel its results arrive on. The channel is closed when the source is
// exhausted. Canceling ctx severs the source; it must stop sending.
type Source[T any] func(ctx context.Context) <-chan Result[T]

// Future adapts a single blocking call into a Source producing one result.
func Future[T any](fn func(ctx context.Context) (T, error)) Source[T] {
	return func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T], 1)
		go func() {
			defer close(out)
			v, err := fn(ctx)
			out <- Result[T]{Value: v, Err: err}
		}()
		return out
	}
}

// Static produces v once.
func Static[T any](v T) Source[T] {
	return func(context.Context) <-chan Result[T] {
		out := make(chan Result[T], 1)
		out <- Result[T]{Value: v}
		close(out)
		return out
	}
}

// Failed produces err once.
func Failed[T any](err error) Source[T] {
	return func(context.Context) <-chan Result[T] {
		out := make(chan Result[T], 1)
		out <- Result[T]{Err: err}
		close(out)
		return out
	}
}

// Stream forwards every value received on ch until ch is closed or the
// subscription is canceled.
func Stream[T any](ch <-chan T) Source[T] {
	return func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T])
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- Result[T]{Value: v}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	}
}
