package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tumaini_web/internal/models"
	"tumaini_web/internal/store"
)

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	From     string `json:"from"`
}

type registerInput struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

func (a *App) LoginUser(c *gin.Context) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := a.store.Auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		a.renderResult(c, http.StatusOK, a.store.Auth.State(), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":     a.store.Auth.State(),
		"location": afterLogin(body.From),
	})
}

func (a *App) SignupUser(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := a.store.Auth.Register(c.Request.Context(), store.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		a.renderResult(c, http.StatusCreated, a.store.Auth.State(), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data":     a.store.Auth.State(),
		"location": afterLogin(""),
	})
}

func (a *App) LogoutUser(c *gin.Context) {
	a.store.Auth.Logout()
	c.JSON(http.StatusOK, gin.H{"data": a.store.Auth.State()})
}

// GetSession reports the auth slice and, when a token is stored, its expiry.
func (a *App) GetSession(c *gin.Context) {
	resp := gin.H{"data": a.store.Auth.State()}
	if claims, err := a.store.Auth.Claims(); err == nil && claims.ExpiresAt != nil {
		resp["expiresAt"] = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, resp)
}

// LoginPage echoes where the user was headed so the form can return there.
func (a *App) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": a.store.Auth.State(),
		"from": c.Query("from"),
	})
}

func (a *App) UnauthorizedPage(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "You do not have permission to view this page",
		"data":  a.store.Auth.State(),
	})
}

// afterLogin only follows local paths.
func afterLogin(from string) string {
	if len(from) > 1 && from[0] == '/' && from[1] != '/' {
		return from
	}
	return "/dashboard"
}
