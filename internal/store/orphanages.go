package store

import (
	"context"
	"net/url"
	"slices"

	"tumaini_web/internal/models"
)

type OrphanagesState struct {
	Orphanages       []models.Orphanage `json:"orphanages"`
	CurrentOrphanage *models.Orphanage  `json:"currentOrphanage"`
	Orphans          []models.Orphan    `json:"orphans"`
	Status
}

type OrphanagesSlice struct {
	api  API
	cell *cell[OrphanagesState]
}

func newOrphanagesSlice(api API, notify func(Change)) *OrphanagesSlice {
	initial := OrphanagesState{
		Orphanages: []models.Orphanage{},
		Orphans:    []models.Orphan{},
	}
	return &OrphanagesSlice{api: api, cell: newCell("orphanages", initial, notify)}
}

func (s *OrphanagesSlice) State() OrphanagesState {
	st, status := s.cell.snapshot()
	st.Orphanages = slices.Clone(st.Orphanages)
	st.Orphans = slices.Clone(st.Orphans)
	st.Status = status
	return st
}

func (s *OrphanagesSlice) FetchOrphanages(ctx context.Context, f Filter) error {
	o := op{name: "orphanages/fetchAll", slot: "list", fallback: "Failed to fetch orphanages"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.Orphanage) error {
			return s.api.Get(ctx, "/orphanages", f.values(), out)
		},
		func(st *OrphanagesState, v []models.Orphanage) {
			st.Orphanages = nonNil(v)
		})
}

func (s *OrphanagesSlice) FetchOrphanage(ctx context.Context, id string) error {
	o := op{name: "orphanages/fetchById", slot: "current", fallback: "Failed to fetch orphanage"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Orphanage) error {
			return s.api.Get(ctx, "/orphanages/"+url.PathEscape(id), nil, out)
		},
		func(st *OrphanagesState, v models.Orphanage) {
			st.CurrentOrphanage = &v
		})
}

func (s *OrphanagesSlice) FetchOrphans(ctx context.Context, orphanageID string) error {
	o := op{name: "orphanages/fetchOrphans", slot: "orphans", fallback: "Failed to fetch orphans"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.Orphan) error {
			return s.api.Get(ctx, "/orphanages/"+url.PathEscape(orphanageID)+"/orphans", nil, out)
		},
		func(st *OrphanagesState, v []models.Orphan) {
			st.Orphans = nonNil(v)
		})
}

func (s *OrphanagesSlice) RegisterOrphanage(ctx context.Context, in models.OrphanageInput) error {
	o := op{name: "orphanages/register", fallback: "Failed to register orphanage"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Orphanage) error {
			return s.api.Post(ctx, "/orphanages", in, out)
		},
		func(st *OrphanagesState, v models.Orphanage) {
			st.Orphanages = append(st.Orphanages, v)
		})
}

func (s *OrphanagesSlice) AddOrphan(ctx context.Context, orphanageID string, in models.OrphanInput) error {
	o := op{name: "orphanages/addOrphan", fallback: "Failed to add orphan"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Orphan) error {
			return s.api.Post(ctx, "/orphanages/"+url.PathEscape(orphanageID)+"/orphans", in, out)
		},
		func(st *OrphanagesState, v models.Orphan) {
			st.Orphans = append(st.Orphans, v)
		})
}

func (s *OrphanagesSlice) ClearError() {
	s.cell.update(func(_ *OrphanagesState, status *Status) { status.Error = "" })
}

func (s *OrphanagesSlice) ClearCurrent() {
	s.cell.update(func(st *OrphanagesState, _ *Status) { st.CurrentOrphanage = nil })
}
