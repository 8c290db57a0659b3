package routes

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
	"tumaini_web/internal/middleware"
)

// DashboardRoutes are open to any signed-in user.
func DashboardRoutes(r *gin.Engine, app *controllers.App) {
	requireAuth := middleware.RequireAuth(app.Session(), app.Paths())

	dashboard := r.Group("/dashboard")
	dashboard.Use(requireAuth)
	{
		dashboard.GET("", app.Dashboard)
		dashboard.GET("/donations", app.ListMyDonations)
		dashboard.POST("/donations", app.Donate)
	}

	r.POST("/events/:id/register", requireAuth, app.RegisterForEvent)
}
