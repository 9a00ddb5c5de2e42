package bridge

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileSource watches path and emits its decoded contents: once on
// subscription and again after every write or create event. Read and
// decode failures are emitted as errors and watching continues.
func FileSource[T any](path string, decode func([]byte) (T, error)) Source[T] {
	return func(ctx context.Context) <-chan Result[T] {
		out := make(chan Result[T])

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			go sendOnce(ctx, out, Result[T]{Err: fmt.Errorf("failed to create fsnotify watcher: %w", err)})
			return out
		}
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			go sendOnce(ctx, out, Result[T]{Err: fmt.Errorf("failed to watch file %s: %w", path, err)})
			return out
		}

		go func() {
			defer close(out)
			defer watcher.Close()

			emit := func() bool {
				r := load(path, decode)
				select {
				case out <- r:
					return true
				case <-ctx.Done():
					return false
				}
			}

			if !emit() {
				return
			}

			for {
				select {
				case <-ctx.Done():
					return

				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					if !emit() {
						return
					}

				case werr, ok := <-watcher.Errors:
					if !ok {
						return
					}
					select {
					case out <- Result[T]{Err: fmt.Errorf("watch %s: %w", path, werr)}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()

		return out
	}
}

func load[T any](path string, decode func([]byte) (T, error)) Result[T] {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result[T]{Err: fmt.Errorf("read %s: %w", path, err)}
	}
	v, err := decode(data)
	if err != nil {
		return Result[T]{Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return Result[T]{Value: v}
}

func sendOnce[T any](ctx context.Context, out chan<- Result[T], r Result[T]) {
	defer close(out)
	select {
	case out <- r:
	case <-ctx.Done():
	}
}
