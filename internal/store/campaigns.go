package store

import (
	"context"
	"net/url"
	"slices"

	"tumaini_web/internal/models"
)

type CampaignsState struct {
	Campaigns       []models.Campaign `json:"campaigns"`
	CurrentCampaign *models.Campaign  `json:"currentCampaign"`
	Status
}

type CampaignsSlice struct {
	api  API
	cell *cell[CampaignsState]
}

func newCampaignsSlice(api API, notify func(Change)) *CampaignsSlice {
	return &CampaignsSlice{
		api:  api,
		cell: newCell("campaigns", CampaignsState{Campaigns: []models.Campaign{}}, notify),
	}
}

func (s *CampaignsSlice) State() CampaignsState {
	st, status := s.cell.snapshot()
	st.Campaigns = slices.Clone(st.Campaigns)
	st.Status = status
	return st
}

// FetchCampaigns replaces the list with the server's, in server order.
func (s *CampaignsSlice) FetchCampaigns(ctx context.Context, f Filter) error {
	o := op{name: "campaigns/fetchAll", slot: "list", fallback: "Failed to fetch campaigns"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.Campaign) error {
			return s.api.Get(ctx, "/campaigns", f.values(), out)
		},
		func(st *CampaignsState, v []models.Campaign) {
			st.Campaigns = nonNil(v)
		})
}

func (s *CampaignsSlice) FetchCampaign(ctx context.Context, id string) error {
	o := op{name: "campaigns/fetchById", slot: "current", fallback: "Failed to fetch campaign"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Campaign) error {
			return s.api.Get(ctx, "/campaigns/"+url.PathEscape(id), nil, out)
		},
		func(st *CampaignsState, v models.Campaign) {
			st.CurrentCampaign = &v
		})
}

// CreateCampaign appends the record the server created.
func (s *CampaignsSlice) CreateCampaign(ctx context.Context, in models.CampaignInput) error {
	o := op{name: "campaigns/create", fallback: "Failed to create campaign"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Campaign) error {
			return s.api.Post(ctx, "/campaigns", in, out)
		},
		func(st *CampaignsState, v models.Campaign) {
			st.Campaigns = append(st.Campaigns, v)
		})
}

func (s *CampaignsSlice) ClearError() {
	s.cell.update(func(st *CampaignsState, status *Status) { status.Error = "" })
}

func (s *CampaignsSlice) ClearCurrent() {
	s.cell.update(func(st *CampaignsState, _ *Status) { st.CurrentCampaign = nil })
}
