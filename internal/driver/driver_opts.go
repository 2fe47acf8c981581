package driver

import "time"

type LoopOpt func(*Loop)

// WithFrameInterval sets how often Start ticks.
func WithFrameInterval(d time.Duration) LoopOpt {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithClock replaces the wall clock used for timers and ticks.
func WithClock(now func() time.Time) LoopOpt {
	return func(l *Loop) {
		l.now = now
	}
}
