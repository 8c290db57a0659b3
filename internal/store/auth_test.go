package store

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tumaini_web/internal/apiclient"
	"tumaini_web/internal/models"
	"tumaini_web/internal/token"
)

func TestLogin_SavesTokenAndAttachesIt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.reply("POST /api/auth/login", http.StatusOK, map[string]any{
		"token": "abc",
		"user":  map[string]any{"id": "1", "email": "a@x.com", "name": "Amani", "role": "donor"},
	})
	f.backend.reply("GET /api/campaigns", http.StatusOK, []any{})

	if err := f.store.Auth.Login(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	st := f.store.Auth.State()
	if !st.IsAuthenticated || st.User == nil || st.User.ID != "1" || st.User.Role != models.RoleDonor {
		t.Errorf("auth state = %+v", st)
	}
	if tok, _ := f.tokens.Read(); tok != "abc" {
		t.Errorf("stored token = %q, want abc", tok)
	}

	if err := f.store.Campaigns.FetchCampaigns(ctx, nil); err != nil {
		t.Fatalf("FetchCampaigns: %v", err)
	}
	if got := f.backend.last().Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q, want Bearer abc", got)
	}
}

func TestLogin_Failure(t *testing.T) {
	f := newFixture(t)
	f.backend.reply("POST /api/auth/login", http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})

	err := f.store.Auth.Login(context.Background(), "a@x.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	st := f.store.Auth.State()
	if st.IsAuthenticated || st.Loading || st.Error != "Invalid credentials" {
		t.Errorf("auth state = %+v", st)
	}
	if _, ok := f.tokens.Read(); ok {
		t.Error("token saved on failed login")
	}

	f.backend.reply("POST /api/auth/login", http.StatusServiceUnavailable, "")
	f.store.Auth.Login(context.Background(), "a@x.com", "pw")
	if got := f.store.Auth.State().Error; got != "Login failed" {
		t.Errorf("fallback error = %q", got)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.reply("POST /api/auth/register", http.StatusCreated, map[string]any{
		"token": "reg-token",
		"user":  map[string]any{"id": "2", "role": "orphanage_manager", "orphanageId": "o1"},
	})

	before := f.backend.count()
	if err := f.store.Auth.Register(ctx, RegisterInput{Name: "N", Email: "n@x.com", Password: "pw", Role: models.RoleAdmin}); err == nil {
		t.Fatal("admin self-registration should be rejected")
	}
	if f.backend.count() != before {
		t.Error("rejected registration reached the network")
	}

	if err := f.store.Auth.Register(ctx, RegisterInput{Name: "N", Email: "n@x.com", Password: "pw", Role: models.RoleOrphanageManager}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	st := f.store.Auth.State()
	if !st.IsAuthenticated || st.User.OrphanageID != "o1" || st.Error != "" {
		t.Errorf("auth state = %+v", st)
	}
	if tok, _ := f.tokens.Read(); tok != "reg-token" {
		t.Errorf("stored token = %q", tok)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.backend.reply("POST /api/auth/login", http.StatusOK, map[string]any{"token": "abc", "user": map[string]any{"id": "1"}})
	f.store.Auth.Login(context.Background(), "a@x.com", "pw")

	f.store.Auth.Logout()

	st := f.store.Auth.State()
	if st.IsAuthenticated || st.User != nil {
		t.Errorf("auth state after logout = %+v", st)
	}
	if _, ok := f.tokens.Read(); ok {
		t.Error("token survived logout")
	}
	// Idempotent.
	f.store.Auth.Logout()
}

func TestLogout_SupersedesInFlightLogin(t *testing.T) {
	f := newFixture(t)
	arrived := make(chan struct{})
	release := make(chan struct{})
	f.backend.handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.Write([]byte(`{"token":"late","user":{"id":"1"}}`))
	})

	done := make(chan error, 1)
	go func() { done <- f.store.Auth.Login(context.Background(), "a@x.com", "pw") }()

	<-arrived
	f.store.Auth.Logout()
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Login err = %v, want ErrSuperseded", err)
	}
	st := f.store.Auth.State()
	if st.IsAuthenticated || st.Loading {
		t.Errorf("auth state = %+v, want signed out and idle", st)
	}
	if _, ok := f.tokens.Read(); ok {
		t.Error("late login saved its token")
	}
}

func TestCheckAuthStatus_NoTokenSkipsNetwork(t *testing.T) {
	f := newFixture(t)

	if err := f.store.Auth.CheckAuthStatus(context.Background()); err != nil {
		t.Fatalf("CheckAuthStatus: %v", err)
	}
	if f.backend.count() != 0 {
		t.Errorf("made %d requests, want 0", f.backend.count())
	}
	st := f.store.Auth.State()
	if st.IsAuthenticated || st.Loading || st.Error != "" {
		t.Errorf("auth state = %+v", st)
	}
}

func TestCheckAuthStatus_ValidToken(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("abc")
	f.backend.reply("GET /api/auth/me", http.StatusOK, map[string]any{"user": map[string]any{"id": "1", "role": "admin"}})

	if err := f.store.Auth.CheckAuthStatus(context.Background()); err != nil {
		t.Fatalf("CheckAuthStatus: %v", err)
	}
	st := f.store.Auth.State()
	if !st.IsAuthenticated || st.User.Role != models.RoleAdmin {
		t.Errorf("auth state = %+v", st)
	}
	if got := f.backend.last().Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestCheckAuthStatus_RejectedTokenIsCleared(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("abc")
	f.backend.reply("GET /api/auth/me", http.StatusForbidden, map[string]string{"message": "Account disabled"})

	if err := f.store.Auth.CheckAuthStatus(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := f.store.Auth.State()
	if st.IsAuthenticated || st.User != nil || st.Loading {
		t.Errorf("auth state = %+v", st)
	}
	if st.Error != "" {
		t.Errorf("status check recorded error %q", st.Error)
	}
	if _, ok := f.tokens.Read(); ok {
		t.Error("rejected token not cleared")
	}
}

func TestUnauthorized_ClearsTokenAndRejects(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("abc")
	f.backend.reply("GET /api/donations/user", http.StatusUnauthorized, map[string]string{"message": "Token expired"})

	var navigated bool
	f.client.OnUnauthorized(func(apiclient.UnauthorizedEvent) {
		navigated = true
		f.store.Auth.Logout()
	})

	err := f.store.Donations.FetchUserDonations(context.Background())
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, ok := f.tokens.Read(); ok {
		t.Error("token survived a 401")
	}
	if !navigated {
		t.Error("unauthorized handler not called")
	}
	if got := f.store.Donations.State().Error; got != "Token expired" {
		t.Errorf("donations error = %q", got)
	}
}

func TestClaims(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.Auth.Claims(); err == nil {
		t.Error("expected error without token")
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		Role:             "donor",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	f.tokens.Save(signed)

	claims, err := f.store.Auth.Claims()
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if claims.Subject != "1" || !claims.ExpiresAt.Time.Equal(exp) {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRegister_RejectedRoleLeavesLoginInFlight(t *testing.T) {
	f := newFixture(t)
	arrived := make(chan struct{})
	release := make(chan struct{})
	f.backend.handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.Write([]byte(`{"token":"abc","user":{"id":"1","role":"donor"}}`))
	})

	done := make(chan error, 1)
	go func() { done <- f.store.Auth.Login(context.Background(), "a@x.com", "pw") }()
	<-arrived

	if err := f.store.Auth.Register(context.Background(), RegisterInput{Name: "N", Email: "n@x.com", Password: "pw", Role: models.RoleAdmin}); err == nil {
		t.Fatal("admin registration should be rejected")
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Login: %v", err)
	}
	st := f.store.Auth.State()
	if !st.IsAuthenticated || st.Loading {
		t.Errorf("auth state = %+v, want signed in and idle", st)
	}
	if tok, _ := f.tokens.Read(); tok != "abc" {
		t.Errorf("stored token = %q, want abc", tok)
	}
}

func TestLogin_UnauthorizedWhileSignedIn(t *testing.T) {
	f := newFixture(t)
	f.backend.reply("POST /api/auth/login", http.StatusOK, map[string]any{"token": "abc", "user": map[string]any{"id": "1"}})
	if err := f.store.Auth.Login(context.Background(), "a@x.com", "pw"); err != nil {
		t.Fatal(err)
	}

	f.backend.reply("POST /api/auth/login", http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	if err := f.store.Auth.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	st := f.store.Auth.State()
	if st.Error != "Invalid credentials" {
		t.Errorf("error = %q, want Invalid credentials", st.Error)
	}
	if st.IsAuthenticated || st.User != nil {
		t.Errorf("auth state = %+v, want signed out", st)
	}
	if _, ok := f.tokens.Read(); ok {
		t.Error("token survived the 401")
	}
}

func TestStartCheckAuthStatus_LoadingBeforeReturn(t *testing.T) {
	f := newFixture(t)
	f.tokens.Save("abc")
	release := make(chan struct{})
	f.backend.handle("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"user":{"id":"1","role":"donor"}}`))
	})

	done := f.store.Auth.StartCheckAuthStatus(context.Background())
	if !f.store.Auth.State().Loading {
		t.Error("session not loading once the check has started")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("check: %v", err)
	}
	st := f.store.Auth.State()
	if !st.IsAuthenticated || st.Loading {
		t.Errorf("auth state = %+v", st)
	}
}
