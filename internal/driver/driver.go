package driver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultFrameInterval = time.Second / 60
	defaultQueueSize     = 64
)

var ErrLoopStopped = errors.New("loop stopped")

// FrameFunc is called once on the frame after it was requested.
type FrameFunc func(now time.Time)

// Handle cancels a scheduled frame callback or timer. Cancel is safe to call
// any number of times, including after the callback has already run.
type Handle struct {
	e *entry
}

func (h Handle) Cancel() {
	if h.e != nil {
		h.e.cancelled = true
	}
}

// Active reports whether the callback is still waiting to run.
func (h Handle) Active() bool {
	return h.e != nil && !h.e.cancelled && !h.e.done
}

type entry struct {
	frame     FrameFunc
	timer     func()
	at        time.Time
	cancelled bool
	done      bool
}

// Loop is a single-goroutine event loop. Frame callbacks, timers and posted
// work all run on the goroutine that calls Start (or Tick, in tests), so the
// state they touch needs no locking. RequestFrame, AfterFunc and Tick must
// only be called from that goroutine; Post and Do are safe from anywhere.
type Loop struct {
	frameInterval time.Duration
	now           func() time.Time

	frames []*entry
	timers []*entry

	queue   chan func()
	stopped chan struct{}
	once    sync.Once
}

func NewLoop(opts ...LoopOpt) *Loop {
	l := &Loop{
		frameInterval: DefaultFrameInterval,
		now:           time.Now,
		queue:         make(chan func(), defaultQueueSize),
		stopped:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.now()
}

// RequestFrame schedules fn for the next Tick. Callbacks requested while a
// tick is running wait for the following one.
func (l *Loop) RequestFrame(fn FrameFunc) Handle {
	e := &entry{frame: fn}
	l.frames = append(l.frames, e)
	return Handle{e: e}
}

// AfterFunc schedules fn to run on the first Tick at or after d from now.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	e := &entry{timer: fn, at: l.now().Add(d)}
	l.timers = append(l.timers, e)
	return Handle{e: e}
}

// Pending returns the number of live frame callbacks and timers.
func (l *Loop) Pending() (frames int, timers int) {
	for _, e := range l.frames {
		if !e.cancelled {
			frames++
		}
	}
	for _, e := range l.timers {
		if !e.cancelled {
			timers++
		}
	}
	return frames, timers
}

// Tick fires due timers, then the frame callbacks requested before this call.
func (l *Loop) Tick(now time.Time) {
	var due []*entry
	remaining := l.timers[:0]
	for _, e := range l.timers {
		switch {
		case e.cancelled:
		case !e.at.After(now):
			due = append(due, e)
		default:
			remaining = append(remaining, e)
		}
	}
	clear(l.timers[len(remaining):])
	l.timers = remaining

	for _, e := range due {
		if e.cancelled {
			continue
		}
		e.done = true
		l.run(func() { e.timer() })
	}

	frames := l.frames
	l.frames = nil
	for _, e := range frames {
		if e.cancelled {
			continue
		}
		e.done = true
		l.run(func() { e.frame(now) })
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("loop callback panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	err := l.Post(func() {
		defer close(done)
		fn()
	})
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Start runs the loop until ctx is cancelled.
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()
	defer l.once.Do(func() { close(l.stopped) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			l.run(fn)
		case <-ticker.C:
			l.Tick(l.now())
		}
	}
}
