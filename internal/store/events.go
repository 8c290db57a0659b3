package store

import (
	"context"
	"net/url"
	"slices"

	"tumaini_web/internal/models"
)

type EventsState struct {
	Events       []models.Event `json:"events"`
	CurrentEvent *models.Event  `json:"currentEvent"`
	Status
}

type EventsSlice struct {
	api  API
	cell *cell[EventsState]
}

func newEventsSlice(api API, notify func(Change)) *EventsSlice {
	return &EventsSlice{
		api:  api,
		cell: newCell("events", EventsState{Events: []models.Event{}}, notify),
	}
}

func (s *EventsSlice) State() EventsState {
	st, status := s.cell.snapshot()
	st.Events = slices.Clone(st.Events)
	st.Status = status
	return st
}

// FetchEvents accepts e.g. Filter{"status": "upcoming"}.
func (s *EventsSlice) FetchEvents(ctx context.Context, f Filter) error {
	o := op{name: "events/fetchAll", slot: "list", fallback: "Failed to fetch events"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.Event) error {
			return s.api.Get(ctx, "/events", f.values(), out)
		},
		func(st *EventsState, v []models.Event) {
			st.Events = nonNil(v)
		})
}

func (s *EventsSlice) FetchEvent(ctx context.Context, id string) error {
	o := op{name: "events/fetchById", slot: "current", fallback: "Failed to fetch event"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Event) error {
			return s.api.Get(ctx, "/events/"+url.PathEscape(id), nil, out)
		},
		func(st *EventsState, v models.Event) {
			st.CurrentEvent = &v
		})
}

// RegisterForEvent signs userID up and replaces the current event with the
// server's updated record. The list is left alone until the next fetch.
func (s *EventsSlice) RegisterForEvent(ctx context.Context, eventID, userID string) error {
	o := op{name: "events/register", slot: "current", fallback: "Failed to register for event"}
	body := map[string]string{"userId": userID}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Event) error {
			return s.api.Post(ctx, "/events/"+url.PathEscape(eventID)+"/register", body, out)
		},
		func(st *EventsState, v models.Event) {
			st.CurrentEvent = &v
		})
}

func (s *EventsSlice) ClearError() {
	s.cell.update(func(_ *EventsState, status *Status) { status.Error = "" })
}

func (s *EventsSlice) ClearCurrent() {
	s.cell.update(func(st *EventsState, _ *Status) { st.CurrentEvent = nil })
}
