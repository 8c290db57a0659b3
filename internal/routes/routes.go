package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"tumaini_web/internal/controllers"
)

// Options carries what the router needs beyond the app itself.
type Options struct {
	// AccessLog receives one line per request. Nil disables it.
	AccessLog io.Writer
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func SetupRouter(app *controllers.App, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(opts.AccessLog),
			ginlog.WithSkipPath([]string{"/metrics", "/ws/state"}),
		))
	}

	AuthRoutes(r, app)
	PublicRoutes(r, app)
	DashboardRoutes(r, app)
	ManagerRoutes(r, app)
	AdminRoutes(r, app)
	WebSocketRoutes(r, app)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	return r
}
