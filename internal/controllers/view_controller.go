package controllers

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/models"
)

func (a *App) ListOrphanages(c *gin.Context) {
	err := a.store.Orphanages.FetchOrphanages(c.Request.Context(), filterFrom(c))
	a.render(c, a.store.Orphanages.State(), err)
}

func (a *App) GetOrphanage(c *gin.Context) {
	err := a.store.Orphanages.FetchOrphanage(c.Request.Context(), c.Param("id"))
	a.render(c, a.store.Orphanages.State(), err)
}

func (a *App) ListOrphans(c *gin.Context) {
	err := a.store.Orphanages.FetchOrphans(c.Request.Context(), c.Param("id"))
	a.render(c, a.store.Orphanages.State(), err)
}

func (a *App) ListCampaigns(c *gin.Context) {
	err := a.store.Campaigns.FetchCampaigns(c.Request.Context(), filterFrom(c))
	a.render(c, a.store.Campaigns.State(), err)
}

func (a *App) GetCampaign(c *gin.Context) {
	err := a.store.Campaigns.FetchCampaign(c.Request.Context(), c.Param("id"))
	a.render(c, a.store.Campaigns.State(), err)
}

func (a *App) ListDisasters(c *gin.Context) {
	err := a.store.Disasters.FetchDisasters(c.Request.Context(), filterFrom(c))
	a.render(c, a.store.Disasters.State(), err)
}

func (a *App) GetDisaster(c *gin.Context) {
	err := a.store.Disasters.FetchDisaster(c.Request.Context(), c.Param("id"))
	a.render(c, a.store.Disasters.State(), err)
}

func (a *App) ListEvents(c *gin.Context) {
	err := a.store.Events.FetchEvents(c.Request.Context(), filterFrom(c))
	a.render(c, a.store.Events.State(), err)
}

func (a *App) GetEvent(c *gin.Context) {
	err := a.store.Events.FetchEvent(c.Request.Context(), c.Param("id"))
	a.render(c, a.store.Events.State(), err)
}

// ListTargetDonations shows the donations made to one orphan, orphanage,
// campaign or disaster effort.
func (a *App) ListTargetDonations(c *gin.Context) {
	kind := models.DonationType(c.Param("type"))
	err := a.store.Donations.FetchDonationsByTarget(c.Request.Context(), kind, c.Param("id"))
	a.render(c, a.store.Donations.State(), err)
}
