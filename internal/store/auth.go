package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tumaini_web/internal/apiclient"
	"tumaini_web/internal/models"
	"tumaini_web/internal/token"
)

type AuthState struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user"`
	Status
}

// RegisterInput is the self-service sign-up form. Admins are not created here.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// sessionSlot is shared by login, register, status checks and logout, so
// whichever was issued last decides the session.
const sessionSlot = "session"

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	mePath       = "/auth/me"
)

// IsSessionPath reports whether path belongs to an operation that settles
// the session itself, so a 401 on it must not also trigger a logout.
func IsSessionPath(path string) bool {
	switch path {
	case loginPath, registerPath, mePath:
		return true
	}
	return false
}

type AuthSlice struct {
	api    API
	tokens Tokens
	cell   *cell[AuthState]
}

func newAuthSlice(api API, tokens Tokens, notify func(Change)) *AuthSlice {
	return &AuthSlice{api: api, tokens: tokens, cell: newCell("auth", AuthState{}, notify)}
}

func (s *AuthSlice) State() AuthState {
	st, status := s.cell.snapshot()
	st.Status = status
	return st
}

func (s *AuthSlice) Login(ctx context.Context, email, password string) error {
	o := op{name: "auth/login", slot: sessionSlot, fallback: "Login failed"}
	body := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, o, loginPath, body)
}

func (s *AuthSlice) Register(ctx context.Context, in RegisterInput) error {
	o := op{name: "auth/register", slot: sessionSlot, fallback: "Registration failed"}
	if in.Role != models.RoleDonor && in.Role != models.RoleOrphanageManager {
		return s.cell.reject(o, "Role must be donor or orphanage_manager")
	}
	return s.authenticate(ctx, o, registerPath, in)
}

// authenticate posts credentials and, unless superseded, saves the issued
// token and signs the user in.
func (s *AuthSlice) authenticate(ctx context.Context, o op, path string, body any) error {
	seq := s.cell.begin()

	var resp authResponse
	if err := s.api.Post(ctx, path, body, &resp); err != nil {
		msg := messageFor(err, o.fallback)
		s.cell.fail(o, seq, msg, func(st *AuthState) {
			// The client already dropped the stored credential.
			if errors.Is(err, apiclient.ErrUnauthorized) {
				signOut(st)
			}
		})
		return &Error{Op: o.name, Message: msg, Err: err}
	}
	return s.cell.succeed(o, seq, func(st *AuthState) error {
		if err := s.tokens.Save(resp.Token); err != nil {
			return err
		}
		user := resp.User
		st.IsAuthenticated = true
		st.User = &user
		return nil
	})
}

// Logout never fails. It also supersedes any login, registration or status
// check still in flight, so a late response cannot sign the user back in.
func (s *AuthSlice) Logout() {
	s.cell.update(func(st *AuthState, _ *Status) {
		s.cell.issued++
		s.cell.applied[sessionSlot] = s.cell.issued
		signOut(st)
	})
	if err := s.tokens.Clear(); err != nil {
		logrus.WithError(err).Warn("failed to clear token on logout")
	}
}

// CheckAuthStatus restores the session from a stored token. Without a token
// it resolves as signed out and makes no request. A rejected token is
// cleared; that outcome is not recorded as an error.
func (s *AuthSlice) CheckAuthStatus(ctx context.Context) error {
	return s.checkAuthStatus(ctx, s.cell.begin())
}

// StartCheckAuthStatus marks the session as loading before returning and
// finishes the check in the background. The channel yields its result.
func (s *AuthSlice) StartCheckAuthStatus(ctx context.Context) <-chan error {
	seq := s.cell.begin()
	done := make(chan error, 1)
	go func() { done <- s.checkAuthStatus(ctx, seq) }()
	return done
}

func (s *AuthSlice) checkAuthStatus(ctx context.Context, seq uint64) error {
	o := op{name: "auth/check", slot: sessionSlot, fallback: "Authentication failed"}

	if _, ok := s.tokens.Read(); !ok {
		return s.cell.succeed(o, seq, func(st *AuthState) error {
			signOut(st)
			return nil
		})
	}

	var resp struct {
		User models.User `json:"user"`
	}
	if err := s.api.Get(ctx, mePath, nil, &resp); err != nil {
		s.cell.fail(o, seq, "", func(st *AuthState) {
			if clearErr := s.tokens.Clear(); clearErr != nil {
				logrus.WithError(clearErr).Warn("failed to clear rejected token")
			}
			signOut(st)
		})
		return &Error{Op: o.name, Message: messageFor(err, o.fallback), Err: err}
	}
	return s.cell.succeed(o, seq, func(st *AuthState) error {
		user := resp.User
		st.IsAuthenticated = true
		st.User = &user
		return nil
	})
}

// Claims decodes the stored token, e.g. to show its expiry.
func (s *AuthSlice) Claims() (*token.Claims, error) {
	raw, ok := s.tokens.Read()
	if !ok {
		return nil, errNoToken
	}
	return token.Decode(raw)
}

var errNoToken = errors.New("store: no stored token")

func (s *AuthSlice) ClearError() {
	s.cell.update(func(_ *AuthState, status *Status) { status.Error = "" })
}

func signOut(st *AuthState) {
	st.IsAuthenticated = false
	st.User = nil
}
