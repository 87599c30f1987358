package usecase

import (
	"context"
	"time"
)

// RealtimePusher delivers an event to a user's open sockets, if any.
type RealtimePusher interface {
	SendEvent(userID, eventType string, data interface{}) error
}

type EmailSender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// JobLock keeps a background job from running twice at once.
type JobLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type ActionLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}
