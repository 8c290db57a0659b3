// Package guard decides whether a protected location may render for the
// current session.
package guard

import (
	"net/url"

	"tumaini_web/internal/models"
	"tumaini_web/internal/store"
)

type Kind int

const (
	Allow Kind = iota
	// Pending means the session is still being resolved; render nothing.
	Pending
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

type Decision struct {
	Kind     Kind
	Location string
}

// Paths are the redirect targets. The zero value uses /login and /unauthorized.
type Paths struct {
	Login        string
	Unauthorized string
}

func (p Paths) LoginPath() string {
	if p.Login == "" {
		return "/login"
	}
	return p.Login
}

func (p Paths) UnauthorizedPath() string {
	if p.Unauthorized == "" {
		return "/unauthorized"
	}
	return p.Unauthorized
}

// Evaluate applies the default paths. An empty required role admits any
// authenticated user.
func Evaluate(auth store.AuthState, required models.Role, location string) Decision {
	return Paths{}.Evaluate(auth, required, location)
}

func (p Paths) Evaluate(auth store.AuthState, required models.Role, location string) Decision {
	switch {
	case auth.Loading:
		return Decision{Kind: Pending}
	case !auth.IsAuthenticated:
		return Decision{Kind: Redirect, Location: p.LoginPath() + "?from=" + url.QueryEscape(location)}
	case required != "" && (auth.User == nil || auth.User.Role != required):
		return Decision{Kind: Redirect, Location: p.UnauthorizedPath()}
	}
	return Decision{Kind: Allow}
}
