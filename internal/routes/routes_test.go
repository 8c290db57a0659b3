package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"tumaini_web/internal/apiclient"
	"tumaini_web/internal/controllers"
	"tumaini_web/internal/guard"
	"tumaini_web/internal/metrics"
	"tumaini_web/internal/store"
	"tumaini_web/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// shell is the router wired to a fake donation API, the way main wires it.
type shell struct {
	t      *testing.T
	router *gin.Engine
	mux    *http.ServeMux
	tokens *token.MemoryStore
	store  *store.Store

	mu   sync.Mutex
	seen []*http.Request
}

func newShell(t *testing.T) *shell {
	t.Helper()
	s := &shell{t: t, mux: http.NewServeMux(), tokens: token.NewMemoryStore()}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.seen = append(s.seen, r.Clone(context.Background()))
		s.mu.Unlock()
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)

	reg := prometheus.NewRegistry()
	client, err := apiclient.New(api.URL+"/api", s.tokens,
		apiclient.WithHTTPClient(api.Client()),
		apiclient.WithRecorder(metrics.NewCollector(reg)),
	)
	if err != nil {
		t.Fatal(err)
	}
	s.store = store.New(client, s.tokens)
	hub := controllers.NewStateHub("")
	t.Cleanup(hub.Close)

	app := controllers.NewApp(s.store, hub, guard.Paths{})
	client.OnUnauthorized(app.HandleUnauthorized)
	t.Cleanup(s.store.Subscribe(app.BroadcastChange))

	s.router = SetupRouter(app, Options{Metrics: metrics.Handler(reg)})
	return s
}

// api answers pattern (e.g. "GET /api/campaigns") with status and body.
func (s *shell) api(pattern string, status int, body string) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func (s *shell) lastAPIRequest(method, path string) *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.seen) - 1; i >= 0; i-- {
		if s.seen[i].Method == method && s.seen[i].URL.Path == path {
			return s.seen[i]
		}
	}
	return nil
}

func (s *shell) do(method, target string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *shell) login(role string) {
	s.t.Helper()
	s.api("POST /api/auth/login", http.StatusOK, `{"token":"abc","user":{"id":"1","email":"a@x.com","role":"`+role+`","orphanageId":"o1"}}`)
	if w := s.do(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "pw"}); w.Code != http.StatusOK {
		s.t.Fatalf("login status = %d: %s", w.Code, w.Body)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestPublicView_RendersSliceState(t *testing.T) {
	s := newShell(t)
	s.api("GET /api/campaigns", http.StatusOK, `[{"id":"1","title":"School fees"},{"id":"2"}]`)

	w := s.do(http.MethodGet, "/campaigns?status=active", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	data := decode(t, w)["data"].(map[string]any)
	list := data["campaigns"].([]any)
	if len(list) != 2 || list[0].(map[string]any)["id"] != "1" {
		t.Errorf("campaigns = %v", list)
	}
	if data["loading"] != false || data["error"] != "" {
		t.Errorf("status fields = %v / %v", data["loading"], data["error"])
	}
	if got := s.lastAPIRequest(http.MethodGet, "/api/campaigns").URL.Query().Get("status"); got != "active" {
		t.Errorf("filter not forwarded, status = %q", got)
	}
}

func TestPublicView_ServerFailure(t *testing.T) {
	s := newShell(t)
	s.api("GET /api/events/9", http.StatusInternalServerError, `{}`)

	w := s.do(http.MethodGet, "/events/9", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Failed to fetch event" {
		t.Errorf("error = %v", got)
	}
}

func TestDashboard_RedirectsWhenSignedOut(t *testing.T) {
	s := newShell(t)

	w := s.do(http.MethodGet, "/dashboard/donations", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/login?from=%2Fdashboard%2Fdonations" {
		t.Errorf("Location = %q", got)
	}
}

func TestDashboard_PendingWhileSessionResolves(t *testing.T) {
	s := newShell(t)
	s.tokens.Save("abc")
	release := make(chan struct{})
	s.mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"user":{"id":"1","role":"donor"}}`))
	})

	done := make(chan error, 1)
	go func() { done <- s.store.Auth.CheckAuthStatus(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !s.store.Auth.State().Loading {
		if time.Now().After(deadline) {
			t.Fatal("session check never started")
		}
		time.Sleep(time.Millisecond)
	}

	w := s.do(http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusNoContent || w.Header().Get("Retry-After") == "" {
		t.Errorf("pending: status = %d, Retry-After = %q", w.Code, w.Header().Get("Retry-After"))
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	s.api("GET /api/donations/user", http.StatusOK, `[]`)
	if w := s.do(http.MethodGet, "/dashboard", nil); w.Code != http.StatusOK {
		t.Errorf("after restore: status = %d", w.Code)
	}
}

func TestLoginThenDonate(t *testing.T) {
	s := newShell(t)
	s.login("donor")
	s.api("POST /api/donations", http.StatusCreated, `{"id":"d1","amount":50,"donationType":"campaign","targetId":"3","status":"pending"}`)
	s.api("GET /api/donations/user", http.StatusOK, `[{"id":"d1","status":"pending"}]`)
	s.api("GET /api/donations/campaign/3", http.StatusOK, `[{"id":"d1","status":"pending"}]`)

	w := s.do(http.MethodPost, "/dashboard/donations", map[string]any{
		"amount":        50,
		"donationType":  "campaign",
		"targetId":      "3",
		"paymentMethod": "mpesa",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}

	if got := s.lastAPIRequest(http.MethodPost, "/api/donations").Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}
	if s.lastAPIRequest(http.MethodGet, "/api/donations/campaign/3") == nil {
		t.Error("target donations were not refreshed")
	}
	data := decode(t, w)["data"].(map[string]any)
	history := data["userDonations"].([]any)
	if len(history) != 1 || history[0].(map[string]any)["id"] != "d1" {
		t.Errorf("userDonations = %v", history)
	}
}

func TestDonate_RejectedBeforeSending(t *testing.T) {
	s := newShell(t)
	s.login("donor")

	w := s.do(http.MethodPost, "/dashboard/donations", map[string]any{
		"amount": 0, "donationType": "campaign", "targetId": "3", "paymentMethod": "mpesa",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Donation amount must be positive" {
		t.Errorf("error = %v", got)
	}
	if s.lastAPIRequest(http.MethodPost, "/api/donations") != nil {
		t.Error("invalid donation reached the API")
	}
}

func TestRoleMismatchRedirects(t *testing.T) {
	s := newShell(t)
	s.login("donor")

	for _, target := range []string{"/dashboard/users", "/dashboard/orphans"} {
		w := s.do(http.MethodGet, target, nil)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/unauthorized" {
			t.Errorf("%s: status = %d, Location = %q", target, w.Code, w.Header().Get("Location"))
		}
	}
	if w := s.do(http.MethodGet, "/unauthorized", nil); w.Code != http.StatusForbidden {
		t.Errorf("/unauthorized status = %d", w.Code)
	}
}

func TestManagerRoutes(t *testing.T) {
	s := newShell(t)
	s.login("orphanage_manager")
	s.api("GET /api/orphanages/o1/orphans", http.StatusOK, `[{"id":"c1","name":"Neema"}]`)
	s.api("POST /api/orphanages/o1/orphans", http.StatusCreated, `{"id":"c2","name":"Baraka"}`)

	if w := s.do(http.MethodGet, "/dashboard/orphans", nil); w.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", w.Code, w.Body)
	}
	w := s.do(http.MethodPost, "/dashboard/orphans", map[string]any{"name": "Baraka", "age": 7})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	orphans := decode(t, w)["data"].(map[string]any)["orphans"].([]any)
	if len(orphans) != 2 || orphans[1].(map[string]any)["id"] != "c2" {
		t.Errorf("orphans = %v", orphans)
	}
}

func TestExpiredSessionRedirectsToLogin(t *testing.T) {
	s := newShell(t)
	s.login("donor")
	s.api("GET /api/donations/user", http.StatusUnauthorized, `{"message":"Token expired"}`)

	w := s.do(http.MethodGet, "/dashboard/donations", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("status = %d, Location = %q", w.Code, w.Header().Get("Location"))
	}
	if _, ok := s.tokens.Read(); ok {
		t.Error("token survived the 401")
	}
	if s.store.Auth.State().IsAuthenticated {
		t.Error("still signed in after the 401")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newShell(t)
	s.api("POST /api/auth/login", http.StatusUnauthorized, `{"message":"Invalid credentials"}`)

	w := s.do(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Invalid credentials" {
		t.Errorf("error = %v", got)
	}
	if w := s.do(http.MethodPost, "/login", map[string]string{"email": "not-an-email"}); w.Code != http.StatusBadRequest {
		t.Errorf("malformed form status = %d", w.Code)
	}
}

func TestSessionAndLogout(t *testing.T) {
	s := newShell(t)
	s.login("admin")

	session := decode(t, s.do(http.MethodGet, "/session", nil))["data"].(map[string]any)
	if session["isAuthenticated"] != true {
		t.Errorf("session = %v", session)
	}

	if w := s.do(http.MethodPost, "/logout", nil); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if _, ok := s.tokens.Read(); ok {
		t.Error("token survived logout")
	}
	if w := s.do(http.MethodGet, "/dashboard/users", nil); w.Code != http.StatusFound {
		t.Errorf("admin route after logout: status = %d", w.Code)
	}
}

func TestRegister_RoleChecked(t *testing.T) {
	s := newShell(t)

	w := s.do(http.MethodPost, "/register", map[string]string{
		"name": "N", "email": "n@x.com", "password": "pw", "role": "admin",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Role must be donor or orphanage_manager" {
		t.Errorf("error = %v", got)
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newShell(t)
	s.api("GET /api/orphanages", http.StatusOK, `[]`)
	s.do(http.MethodGet, "/orphanages", nil)

	w := s.do(http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("tumaini_api_requests_total")) {
		t.Error("request counter missing from scrape")
	}
}

func TestRelogin_BadCredentialsKeepsError(t *testing.T) {
	s := newShell(t)
	s.login("donor")

	s.mux = http.NewServeMux()
	s.api("POST /api/auth/login", http.StatusUnauthorized, `{"message":"Invalid credentials"}`)

	w := s.do(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	data := decode(t, w)["data"].(map[string]any)
	if data["error"] != "Invalid credentials" {
		t.Errorf("data.error = %v, want Invalid credentials", data["error"])
	}
	if data["isAuthenticated"] != false {
		t.Errorf("isAuthenticated = %v after the credential was rejected", data["isAuthenticated"])
	}
	if st := s.store.Auth.State(); st.Error != "Invalid credentials" {
		t.Errorf("auth error = %q", st.Error)
	}
}
