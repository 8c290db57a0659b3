package routes

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
	"tumaini_web/internal/middleware"
	"tumaini_web/internal/models"
)

func ManagerRoutes(r *gin.Engine, app *controllers.App) {
	manager := r.Group("/dashboard")
	manager.Use(middleware.RequireAuthWithRole(app.Session(), app.Paths(), models.RoleOrphanageManager))
	{
		manager.GET("/orphans", app.ListMyOrphans)
		manager.POST("/orphans", app.AddOrphan)
		manager.POST("/orphanages", app.RegisterOrphanage)
	}
}
