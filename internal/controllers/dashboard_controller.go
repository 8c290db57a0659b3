package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tumaini_web/internal/models"
)

// Dashboard shows the signed-in user with the slice their role works from.
func (a *App) Dashboard(c *gin.Context) {
	user := currentUser(c)
	ctx := c.Request.Context()

	var err error
	view := gin.H{"user": user}
	switch user.Role {
	case models.RoleAdmin:
		err = a.store.Campaigns.FetchCampaigns(ctx, nil)
		view["campaigns"] = a.store.Campaigns.State()
	case models.RoleOrphanageManager:
		if user.OrphanageID != "" {
			err = a.store.Orphanages.FetchOrphans(ctx, user.OrphanageID)
		}
		view["orphanages"] = a.store.Orphanages.State()
	default:
		err = a.store.Donations.FetchUserDonations(ctx)
		view["donations"] = a.store.Donations.State()
	}
	a.render(c, view, err)
}

func (a *App) ListMyDonations(c *gin.Context) {
	err := a.store.Donations.FetchUserDonations(c.Request.Context())
	a.render(c, a.store.Donations.State(), err)
}

// Donate submits a donation and then refreshes the history and the
// target's donation list.
func (a *App) Donate(c *gin.Context) {
	var input models.DonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	if err := a.store.Donations.MakeDonation(ctx, input); err != nil {
		a.render(c, a.store.Donations.State(), err)
		return
	}
	for _, refresh := range []func() error{
		func() error { return a.store.Donations.FetchUserDonations(ctx) },
		func() error { return a.store.Donations.FetchDonationsByTarget(ctx, input.DonationType, input.TargetID) },
	} {
		if err := refresh(); err != nil {
			logrus.WithError(err).Warn("refresh after donation failed")
		}
	}
	c.JSON(http.StatusCreated, gin.H{"data": a.store.Donations.State()})
}

func (a *App) RegisterForEvent(c *gin.Context) {
	user := currentUser(c)
	err := a.store.Events.RegisterForEvent(c.Request.Context(), c.Param("id"), user.ID)
	a.render(c, a.store.Events.State(), err)
}

func (a *App) ListMyOrphans(c *gin.Context) {
	user := currentUser(c)
	if user.OrphanageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No orphanage is linked to this account"})
		return
	}
	err := a.store.Orphanages.FetchOrphans(c.Request.Context(), user.OrphanageID)
	a.render(c, a.store.Orphanages.State(), err)
}

func (a *App) AddOrphan(c *gin.Context) {
	user := currentUser(c)
	if user.OrphanageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No orphanage is linked to this account"})
		return
	}
	var input models.OrphanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orphan input: " + err.Error()})
		return
	}
	err := a.store.Orphanages.AddOrphan(c.Request.Context(), user.OrphanageID, input)
	a.renderCreated(c, a.store.Orphanages.State(), err)
}

func (a *App) RegisterOrphanage(c *gin.Context) {
	var input models.OrphanageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orphanage input: " + err.Error()})
		return
	}
	err := a.store.Orphanages.RegisterOrphanage(c.Request.Context(), input)
	a.renderCreated(c, a.store.Orphanages.State(), err)
}

func (a *App) CreateCampaign(c *gin.Context) {
	var input models.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign input: " + err.Error()})
		return
	}
	err := a.store.Campaigns.CreateCampaign(c.Request.Context(), input)
	a.renderCreated(c, a.store.Campaigns.State(), err)
}

func (a *App) CreateDisaster(c *gin.Context) {
	var input models.DisasterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid disaster relief input: " + err.Error()})
		return
	}
	err := a.store.Disasters.CreateDisaster(c.Request.Context(), input)
	a.renderCreated(c, a.store.Disasters.State(), err)
}

func (a *App) ListUsers(c *gin.Context) {
	err := a.store.Users.FetchUsers(c.Request.Context(), filterFrom(c))
	a.render(c, a.store.Users.State(), err)
}

func (a *App) GetUser(c *gin.Context) {
	err := a.store.Users.FetchUser(c.Request.Context(), c.Param("id"))
	a.render(c, a.store.Users.State(), err)
}
