package store

import (
	"context"
	"net/url"
	"slices"

	"tumaini_web/internal/models"
)

type DonationsState struct {
	Donations     []models.Donation `json:"donations"`
	UserDonations []models.Donation `json:"userDonations"`
	Status
}

type DonationsSlice struct {
	api  API
	cell *cell[DonationsState]
}

func newDonationsSlice(api API, notify func(Change)) *DonationsSlice {
	initial := DonationsState{
		Donations:     []models.Donation{},
		UserDonations: []models.Donation{},
	}
	return &DonationsSlice{api: api, cell: newCell("donations", initial, notify)}
}

func (s *DonationsSlice) State() DonationsState {
	st, status := s.cell.snapshot()
	st.Donations = slices.Clone(st.Donations)
	st.UserDonations = slices.Clone(st.UserDonations)
	st.Status = status
	return st
}

// FetchDonationsByTarget lists donations made to one orphan, orphanage, campaign or disaster.
func (s *DonationsSlice) FetchDonationsByTarget(ctx context.Context, kind models.DonationType, id string) error {
	o := op{name: "donations/fetchByTarget", slot: "target", fallback: "Failed to fetch donations"}
	if !kind.Valid() {
		return s.cell.reject(o, "Unknown donation target type")
	}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.Donation) error {
			return s.api.Get(ctx, "/donations/"+string(kind)+"/"+url.PathEscape(id), nil, out)
		},
		func(st *DonationsState, v []models.Donation) {
			st.Donations = nonNil(v)
		})
}

// FetchUserDonations loads the signed-in donor's history.
func (s *DonationsSlice) FetchUserDonations(ctx context.Context) error {
	o := op{name: "donations/fetchUserDonations", slot: "user", fallback: "Failed to fetch user donations"}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *[]models.Donation) error {
			return s.api.Get(ctx, "/donations/user", nil, out)
		},
		func(st *DonationsState, v []models.Donation) {
			st.UserDonations = nonNil(v)
		})
}

// MakeDonation submits a donation and appends the server's record to the
// user's history. Refreshing per-target lists is up to the caller.
func (s *DonationsSlice) MakeDonation(ctx context.Context, in models.DonationInput) error {
	o := op{name: "donations/make", fallback: "Failed to process donation"}
	if msg := validateDonation(in); msg != "" {
		return s.cell.reject(o, msg)
	}
	return run(ctx, s.cell, o,
		func(ctx context.Context, out *models.Donation) error {
			return s.api.Post(ctx, "/donations", in, out)
		},
		func(st *DonationsState, v models.Donation) {
			st.UserDonations = append(st.UserDonations, v)
		})
}

func validateDonation(in models.DonationInput) string {
	switch {
	case in.Amount <= 0:
		return "Donation amount must be positive"
	case !in.DonationType.Valid():
		return "Unknown donation target type"
	case in.TargetID == "":
		return "Donation target is required"
	case !slices.Contains(models.PaymentMethods, in.PaymentMethod):
		return "Unsupported payment method"
	}
	return ""
}

func (s *DonationsSlice) ClearError() {
	s.cell.update(func(_ *DonationsState, status *Status) { status.Error = "" })
}
