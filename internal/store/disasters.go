package store

import (
	"context"
	"net/url"
	"slices"

	"tumaini_web/internal/models"
)

type DisastersState struct {
	Disasters       []models.DisasterRelief `json:"disasters"`
	CurrentDisaster *models.DisasterRelief  `json:"currentDisaster"`
	Status
}

type DisastersSlice struct {
	api  API
	cell *cell[DisastersState]
}

func newDisastersSlice(api API, notify func(Change)) *DisastersSlice {
	return &DisastersSlice{
		api:  api,
		cell: newCell("disasterRelief", DisastersState{Disasters: []models.DisasterRelief{}}, notify),
	}
}

func (s *DisastersSlice) State() DisastersState {
	st, status := s.cell.snapshot()
	st.Disasters = slices.Clone(st.Disasters)
	st.Status = status
	return st
}

func (s *DisastersSlice) FetchDisasters(ctx context.Context, f Filter) error {
	o := op{name: "disasterRelief/fetchAll", slot: "list", fallback: "Failed to fetch disasters"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.DisasterRelief) error {
			return s.api.Get(ctx, "/disasters", f.values(), out)
		},
		func(st *DisastersState, v []models.DisasterRelief) {
			st.Disasters = nonNil(v)
		})
}

func (s *DisastersSlice) FetchDisaster(ctx context.Context, id string) error {
	o := op{name: "disasterRelief/fetchById", slot: "current", fallback: "Failed to fetch disaster"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.DisasterRelief) error {
			return s.api.Get(ctx, "/disasters/"+url.PathEscape(id), nil, out)
		},
		func(st *DisastersState, v models.DisasterRelief) {
			st.CurrentDisaster = &v
		})
}

func (s *DisastersSlice) CreateDisaster(ctx context.Context, in models.DisasterInput) error {
	o := op{name: "disasterRelief/create", fallback: "Failed to create disaster relief"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.DisasterRelief) error {
			return s.api.Post(ctx, "/disasters", in, out)
		},
		func(st *DisastersState, v models.DisasterRelief) {
			st.Disasters = append(st.Disasters, v)
		})
}

func (s *DisastersSlice) ClearError() {
	s.cell.update(func(_ *DisastersState, status *Status) { status.Error = "" })
}

func (s *DisastersSlice) ClearCurrent() {
	s.cell.update(func(st *DisastersState, _ *Status) { st.CurrentDisaster = nil })
}
