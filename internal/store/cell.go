package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// cell is the shared machinery behind every slice.
type cell[S any] struct {
	name   string
	notify func(Change)

	mu      sync.RWMutex
	state   S
	status  Status
	pending int
	issued  uint64
	applied map[string]uint64
}

func newCell[S any](name string, initial S, notify func(Change)) *cell[S] {
	return &cell[S]{
		name:    name,
		notify:  notify,
		state:   initial,
		applied: map[string]uint64{},
	}
}

// op describes one slice operation. An empty slot means results are never
// discarded (creates append whatever the server returned).
type op struct {
	name     string
	slot     string
	fallback string
}

func (c *cell[S]) snapshot() (S, Status) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.status
}

func (c *cell[S]) changed() {
	if c.notify != nil {
		c.notify(Change{Slice: c.name})
	}
}

func (c *cell[S]) begin() uint64 {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.pending++
	c.status.Loading = true
	c.status.Error = ""
	c.mu.Unlock()
	c.changed()
	return seq
}

// settle must be called with c.mu held. It reports whether the result is stale.
func (c *cell[S]) settle(slot string, seq uint64) bool {
	c.pending--
	if c.pending <= 0 {
		c.pending = 0
		c.status.Loading = false
	}
	if slot == "" {
		return false
	}
	if seq < c.applied[slot] {
		return true
	}
	c.applied[slot] = seq
	return false
}

// succeed applies a fulfilled result. apply runs under the lock and may
// reject the result, in which case its error becomes the slice error.
func (c *cell[S]) succeed(o op, seq uint64, apply func(*S) error) error {
	c.mu.Lock()
	if c.settle(o.slot, seq) {
		c.mu.Unlock()
		c.changed()
		logrus.WithFields(logrus.Fields{"slice": c.name, "op": o.name, "seq": seq}).Debug("discarding stale result")
		return ErrSuperseded
	}
	var applyErr error
	if apply != nil {
		applyErr = apply(&c.state)
	}
	if applyErr != nil {
		c.status.Error = o.fallback
	}
	c.mu.Unlock()
	c.changed()

	if applyErr != nil {
		logrus.WithFields(logrus.Fields{"slice": c.name, "op": o.name}).WithError(applyErr).Warn("operation failed")
		return &Error{Op: o.name, Message: o.fallback, Err: applyErr}
	}
	return nil
}

// fail records a rejected result unless it is stale. onFail, if set, also
// runs under the lock. An empty message leaves Error unset.
func (c *cell[S]) fail(o op, seq uint64, msg string, onFail func(*S)) {
	c.mu.Lock()
	stale := c.settle(o.slot, seq)
	if !stale {
		c.status.Error = msg
		if onFail != nil {
			onFail(&c.state)
		}
	}
	c.mu.Unlock()
	c.changed()
}

// reject records a failure that happened before any request was sent.
// It settles no slot, so it never supersedes a request in flight.
func (c *cell[S]) reject(o op, msg string) error {
	o.slot = ""
	seq := c.begin()
	c.fail(o, seq, msg, nil)
	return &Error{Op: o.name, Message: msg}
}

// run drives one request through pending and then fulfilled or rejected.
func run[S, T any](ctx context.Context, c *cell[S], o op, call func(context.Context, *T) error, apply func(*S, T)) error {
	seq := c.begin()

	var result T
	if err := call(ctx, &result); err != nil {
		msg := messageFor(err, o.fallback)
		c.fail(o, seq, msg, nil)
		logrus.WithFields(logrus.Fields{"slice": c.name, "op": o.name}).WithError(err).Warn("operation failed")
		return &Error{Op: o.name, Message: msg, Err: err}
	}
	return c.succeed(o, seq, func(s *S) error {
		apply(s, result)
		return nil
	})
}

// update is a synchronous reducer, e.g. clearing the error.
func (c *cell[S]) update(fn func(*S, *Status)) {
	c.mu.Lock()
	fn(&c.state, &c.status)
	c.mu.Unlock()
	c.changed()
}

// nonNil keeps an empty server list rendering as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
