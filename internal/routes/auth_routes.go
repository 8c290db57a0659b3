package routes

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
)

func AuthRoutes(r *gin.Engine, app *controllers.App) {
	r.GET(app.Paths().LoginPath(), app.LoginPage)
	r.GET(app.Paths().UnauthorizedPath(), app.UnauthorizedPage)
	r.POST("/login", app.LoginUser)
	r.POST("/register", app.SignupUser)
	r.POST("/logout", app.LogoutUser)
	r.GET("/session", app.GetSession)
}
