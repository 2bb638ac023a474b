// Package draftstore keeps in-progress charge information drafts.
//
// Both stores copy drafts on the way in and out, so a caller never shares
// memory with the stored value. There is no optimistic concurrency: two
// read-modify-write cycles on the same key race and the later Set wins.
package draftstore

import (
	"context"
	"time"
)

// Purger is a store that can drop its expired drafts in bulk
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Option configures a store
type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL expires drafts that have not been written for the given duration.
// Zero keeps drafts until they are cleared.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithClock replaces the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) expiry() time.Time {
	if o.ttl <= 0 {
		return time.Time{}
	}
	return o.now().Add(o.ttl)
}

func (o options) expired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && !o.now().Before(expiresAt)
}
