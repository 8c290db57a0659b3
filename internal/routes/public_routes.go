package routes

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
)

func PublicRoutes(r *gin.Engine, app *controllers.App) {
	r.GET("/orphanages", app.ListOrphanages)
	r.GET("/orphanages/:id", app.GetOrphanage)
	r.GET("/orphanages/:id/orphans", app.ListOrphans)
	r.GET("/campaigns", app.ListCampaigns)
	r.GET("/campaigns/:id", app.GetCampaign)
	r.GET("/disaster-relief", app.ListDisasters)
	r.GET("/disaster-relief/:id", app.GetDisaster)
	r.GET("/events", app.ListEvents)
	r.GET("/events/:id", app.GetEvent)
	r.GET("/donations/:type/:id", app.ListTargetDonations)
}
