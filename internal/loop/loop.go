// Package loop provides the single goroutine on which every monitor
// structure is mutated, together with a virtual implementation for tests.
package loop

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultFrameInterval approximates a 60Hz display refresh.
	DefaultFrameInterval = 16 * time.Millisecond

	taskBufferSize = 256
)

// Loop serializes timers, animation frames and posted work onto one goroutine.
// Only Post is safe to call from other goroutines; Now, AfterFunc and
// RequestFrame are meant to be called from callbacks already running on the loop.
type Loop struct {
	start         time.Time
	frameInterval time.Duration
	tasks         chan func()
	done          chan struct{}
	logger        *zap.Logger

	frameCallbacks []func(now time.Duration)
	frames         uint64
}

// New creates a loop that produces animation frames every frameInterval.
func New(frameInterval time.Duration, logger *zap.Logger) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		start:         time.Now(),
		frameInterval: frameInterval,
		tasks:         make(chan func(), taskBufferSize),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// Now returns the monotonic time elapsed since the loop was created.
func (l *Loop) Now() time.Duration {
	return time.Since(l.start)
}

// Post hands fn to the loop goroutine. It reports false when the loop has
// already stopped and fn will never run.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// AfterFunc runs fn on the loop goroutine once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

// RequestFrame registers fn to run on the next animation frame.
func (l *Loop) RequestFrame(fn func(now time.Duration)) {
	l.frameCallbacks = append(l.frameCallbacks, fn)
}

// Run processes posted work and frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	sugar := l.logger.Sugar()
	sugar.Infow("Starting event loop...", "frame_interval", l.frameInterval)
	defer sugar.Infow("Event loop stopped.", "frames", l.frames)

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()
	defer close(l.done)

	for {
		select {
		case fn := <-l.tasks:
			fn()

		case <-ticker.C:
			l.runFrame()

		case <-ctx.Done():
			sugar.Debugw("Context cancelled, stopping event loop", zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}
}

func (l *Loop) runFrame() {
	if len(l.frameCallbacks) == 0 {
		return
	}
	callbacks := l.frameCallbacks
	l.frameCallbacks = nil
	l.frames++

	now := l.Now()
	for _, fn := range callbacks {
		fn(now)
	}
}
