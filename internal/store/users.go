package store

import (
	"context"
	"net/url"
	"slices"

	"tumaini_web/internal/models"
)

type UsersState struct {
	Users       []models.User `json:"users"`
	CurrentUser *models.User  `json:"currentUser"`
	Status
}

// UsersSlice backs the admin user management views.
type UsersSlice struct {
	api  API
	cell *cell[UsersState]
}

func newUsersSlice(api API, notify func(Change)) *UsersSlice {
	return &UsersSlice{
		api:  api,
		cell: newCell("users", UsersState{Users: []models.User{}}, notify),
	}
}

func (s *UsersSlice) State() UsersState {
	st, status := s.cell.snapshot()
	st.Users = slices.Clone(st.Users)
	st.Status = status
	return st
}

// FetchUsers accepts e.g. Filter{"role": "donor"}.
func (s *UsersSlice) FetchUsers(ctx context.Context, f Filter) error {
	o := op{name: "users/fetchAll", slot: "list", fallback: "Failed to fetch users"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.User) error {
			return s.api.Get(ctx, "/users", f.values(), out)
		},
		func(st *UsersState, v []models.User) {
			st.Users = nonNil(v)
		})
}

func (s *UsersSlice) FetchUser(ctx context.Context, id string) error {
	o := op{name: "users/fetchById", slot: "current", fallback: "Failed to fetch user"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.User) error {
			return s.api.Get(ctx, "/users/"+url.PathEscape(id), nil, out)
		},
		func(st *UsersState, v models.User) {
			st.CurrentUser = &v
		})
}

func (s *UsersSlice) ClearError() {
	s.cell.update(func(_ *UsersState, status *Status) { status.Error = "" })
}

func (s *UsersSlice) ClearCurrent() {
	s.cell.update(func(st *UsersState, _ *Status) { st.CurrentUser = nil })
}
