// Package scheduler batches display updates into one callback per animation
// frame.
package scheduler

import "time"

// FrameRequester delivers a one-shot callback on the next animation frame.
type FrameRequester interface {
	RequestFrame(fn func(now time.Duration))
}

// Scheduler coalesces ScheduleOnce calls so that any number of pending tasks
// costs a single frame request.
type Scheduler struct {
	frames    FrameRequester
	pending   []func()
	requested bool
	onFlush   []func()
	flushed   uint64
}

func New(frames FrameRequester) *Scheduler {
	return &Scheduler{frames: frames}
}

// ScheduleOnce queues task for the next frame. Tasks queued while a batch is
// running are deferred to the following frame.
func (s *Scheduler) ScheduleOnce(task func()) {
	s.pending = append(s.pending, task)

	if !s.requested {
		s.requested = true
		s.frames.RequestFrame(s.flush)
	}
}

// OnFlush registers fn to run after every batch, once all of its tasks ran.
func (s *Scheduler) OnFlush(fn func()) {
	s.onFlush = append(s.onFlush, fn)
}

// Pending reports how many tasks wait for the next frame.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Frames reports how many batches were flushed.
func (s *Scheduler) Frames() uint64 { return s.flushed }

func (s *Scheduler) flush(time.Duration) {
	s.requested = false
	tasks := s.pending
	s.pending = nil
	s.flushed++

	for _, task := range tasks {
		task()
	}
	for _, fn := range s.onFlush {
		fn()
	}
}
