package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tumaini_web/internal/apiclient"
	"tumaini_web/internal/guard"
	"tumaini_web/internal/middleware"
	"tumaini_web/internal/models"
	"tumaini_web/internal/store"
)

// App renders slice state for the shell's routes.
type App struct {
	store *store.Store
	hub   *StateHub
	paths guard.Paths
}

func NewApp(st *store.Store, hub *StateHub, paths guard.Paths) *App {
	return &App{store: st, hub: hub, paths: paths}
}

// Session is the auth slice the guard middleware reads.
func (a *App) Session() middleware.Session { return a.store.Auth }

func (a *App) Paths() guard.Paths { return a.paths }

func (a *App) Hub() *StateHub { return a.hub }

// HandleUnauthorized runs after the API client dropped a rejected
// credential. A live session is reset; login, registration and the session
// check settle their own state. Connected clients are sent to the login page.
func (a *App) HandleUnauthorized(ev apiclient.UnauthorizedEvent) {
	if !store.IsSessionPath(ev.Path) && a.store.Auth.State().IsAuthenticated {
		logrus.WithFields(logrus.Fields{"method": ev.Method, "path": ev.Path}).Info("session expired, signing out")
		a.store.Auth.Logout()
	}
	a.hub.Navigate(a.paths.LoginPath())
}

// BroadcastChange forwards a state change to connected clients.
func (a *App) BroadcastChange(c store.Change) {
	a.hub.Broadcast(c)
}

// render answers a view. A 401 from the API sends the browser to the login
// page; a superseded fetch still renders the state that won.
func (a *App) render(c *gin.Context, state any, err error) {
	a.respond(c, http.StatusOK, state, err)
}

func (a *App) renderCreated(c *gin.Context, state any, err error) {
	a.respond(c, http.StatusCreated, state, err)
}

func (a *App) respond(c *gin.Context, okStatus int, state any, err error) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		c.Redirect(http.StatusFound, a.paths.LoginPath())
		return
	}
	a.renderResult(c, okStatus, state, err)
}

// renderResult is render without the login redirect, for the session forms
// where a 401 means bad credentials.
func (a *App) renderResult(c *gin.Context, okStatus int, state any, err error) {
	if err == nil || errors.Is(err, store.ErrSuperseded) {
		c.JSON(okStatus, gin.H{"data": state})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": errorMessage(err), "data": state})
}

// statusFor maps a failed operation to the shell's response code: the
// backend's 4xx passes through, anything upstream is a bad gateway, and a
// rejection before any request is a bad request.
func statusFor(err error) int {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return http.StatusBadRequest
	}
	switch {
	case apiErr.Kind == apiclient.KindNetwork:
		return http.StatusGatewayTimeout
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func errorMessage(err error) string {
	var storeErr *store.Error
	if errors.As(err, &storeErr) && storeErr.Message != "" {
		return storeErr.Message
	}
	return err.Error()
}

func filterFrom(c *gin.Context) store.Filter {
	f := store.Filter{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}

func currentUser(c *gin.Context) *models.User {
	if u, ok := c.Get(middleware.UserKey); ok {
		if user, ok := u.(*models.User); ok && user != nil {
			return user
		}
	}
	return &models.User{}
}
