package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tumaini_web/internal/guard"
	"tumaini_web/internal/models"
	"tumaini_web/internal/store"
)

// Session exposes the current auth state.
type Session interface {
	State() store.AuthState
}

// UserKey is the gin context key holding the signed-in *models.User.
const UserKey = "user"

// RequireAuth lets any signed-in user through.
func RequireAuth(s Session, paths guard.Paths) gin.HandlerFunc {
	return RequireAuthWithRole(s, paths, "")
}

// RequireAuthWithRole also requires the user to hold role. While the
// session is still resolving it answers 204 with Retry-After.
func RequireAuthWithRole(s Session, paths guard.Paths, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := s.State()
		d := paths.Evaluate(auth, role, c.Request.URL.RequestURI())

		switch d.Kind {
		case guard.Pending:
			c.Header("Retry-After", "1")
			c.AbortWithStatus(http.StatusNoContent)
			return
		case guard.Redirect:
			logrus.WithFields(logrus.Fields{
				"path":     c.Request.URL.Path,
				"role":     string(role),
				"location": d.Location,
			}).Debug("guard redirect")
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}

		c.Set(UserKey, auth.User)
		c.Next()
	}
}
