// Package store holds the client-side state tree: one slice per resource,
// each a small state machine (idle, pending, fulfilled, rejected) with a
// single loading/error pair.
//
// Every operation is tagged with a per-slice sequence number. A fetch whose
// result is older than the last result applied to the same slot is dropped,
// so overlapping fetches settle on the most recently issued one.
package store

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"tumaini_web/internal/apiclient"
)

// API is the subset of the API client the slices use.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Tokens persists the credential issued by login and registration.
type Tokens interface {
	Save(token string) error
	Read() (string, bool)
	Clear() error
}

// Status is the loading/error pair every slice carries. An empty Error means none.
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
}

// Filter narrows a collection fetch; it is sent as query parameters.
type Filter map[string]string

func (f Filter) values() url.Values {
	if len(f) == 0 {
		return nil
	}
	v := url.Values{}
	for k, val := range f {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Change names the slice whose state just changed.
type Change struct {
	Slice string `json:"slice"`
}

// ErrSuperseded is returned when a fetch succeeded but a newer result for the
// same slot had already been applied, so this one was discarded.
var ErrSuperseded = errors.New("store: result superseded by a newer request")

// Error is a rejected operation. Message is what the slice recorded.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// messageFor prefers the server's message and falls back to a fixed one.
func messageFor(err error, fallback string) string {
	if msg := apiclient.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

// Store bundles the slices and fans out change notifications.
type Store struct {
	Auth       *AuthSlice
	Orphanages *OrphanagesSlice
	Campaigns  *CampaignsSlice
	Disasters  *DisastersSlice
	Events     *EventsSlice
	Donations  *DonationsSlice
	Users      *UsersSlice

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Change)
}

func New(api API, tokens Tokens) *Store {
	s := &Store{subs: map[int]func(Change){}}
	s.Auth = newAuthSlice(api, tokens, s.publish)
	s.Orphanages = newOrphanagesSlice(api, s.publish)
	s.Campaigns = newCampaignsSlice(api, s.publish)
	s.Disasters = newDisastersSlice(api, s.publish)
	s.Events = newEventsSlice(api, s.publish)
	s.Donations = newDonationsSlice(api, s.publish)
	s.Users = newUsersSlice(api, s.publish)
	return s
}

// Subscribe registers fn for every state change and returns its cancel func.
// fn runs on the goroutine that changed the state and must not block.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(c Change) {
	s.mu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}
