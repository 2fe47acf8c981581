package console

import (
	"context"
	"fmt"
	"io"
)

// Worker runs one console session over a fixed reader and writer, such as
// stdin and stdout, as a service worker.
type Worker struct {
	rw         io.ReadWriter
	newSession func(rw io.ReadWriter) *Session
	ready      func(ctx context.Context) error
	onExit     func()
}

type WorkerOpt func(*Worker)

// WithReady makes the worker wait for ready before starting the session.
func WithReady(ready func(ctx context.Context) error) WorkerOpt {
	return func(w *Worker) {
		w.ready = ready
	}
}

// WithOnExit is called when the session ends, for example to stop the app
// after the user quits.
func WithOnExit(fn func()) WorkerOpt {
	return func(w *Worker) {
		w.onExit = fn
	}
}

func NewWorker(rw io.ReadWriter, newSession func(rw io.ReadWriter) *Session, opts ...WorkerOpt) *Worker {
	w := &Worker{
		rw:         rw,
		newSession: newSession,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *Worker) Start(ctx context.Context) error {
	if w.onExit != nil {
		defer w.onExit()
	}

	if w.ready != nil {
		if err := w.ready(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("waiting for dependencies: %w", err)
		}
	}

	if err := w.newSession(w.rw).Run(ctx); err != nil {
		return fmt.Errorf("console session: %w", err)
	}
	return nil
}
