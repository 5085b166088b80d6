package services

import "time"

// ScheduledReply is the handle for a pending astrologer reply.
type ScheduledReply struct {
	timer *time.Timer
}

// Cancel stops the pending reply. Returns false when the reply already fired
// or there is nothing to cancel. No current flow cancels a reply; the handle
// exists so one could.
func (s *ScheduledReply) Cancel() bool {
	if s == nil || s.timer == nil {
		return false
	}
	return s.timer.Stop()
}

// ReplyScheduler defers the astrologer's canned reply, simulating thinking
// time before the answer lands in the conversation.
type ReplyScheduler interface {
	Schedule(delay time.Duration, fn func()) *ScheduledReply
}

type timerScheduler struct{}

// NewReplyScheduler returns the real, timer-backed scheduler.
func NewReplyScheduler() ReplyScheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) *ScheduledReply {
	return &ScheduledReply{timer: time.AfterFunc(delay, fn)}
}

// SynchronousScheduler runs the reply inline, with no delay. Used by tests
// and available for a "fast mode" configuration.
type SynchronousScheduler struct{}

func (SynchronousScheduler) Schedule(_ time.Duration, fn func()) *ScheduledReply {
	fn()
	return &ScheduledReply{}
}
