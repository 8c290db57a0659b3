package routes

import (
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, app *controllers.App) {
	ws := r.Group("/ws")
	{
		ws.GET("/state", app.Hub().HandleStateWebSocket)
	}
}
