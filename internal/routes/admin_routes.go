package routes

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
	"tumaini_web/internal/middleware"
	"tumaini_web/internal/models"
)

func AdminRoutes(r *gin.Engine, app *controllers.App) {
	admin := r.Group("/dashboard")
	admin.Use(middleware.RequireAuthWithRole(app.Session(), app.Paths(), models.RoleAdmin))
	{
		admin.GET("/campaigns", app.ListCampaigns)
		admin.POST("/campaigns", app.CreateCampaign)
		admin.POST("/disasters", app.CreateDisaster)
		admin.GET("/users", app.ListUsers)
		admin.GET("/users/:id", app.GetUser)
	}
}
