package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeUsers struct {
	ids   map[string]int
	err   error
	calls int
}

func (f *fakeUsers) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if f.ids == nil {
		f.ids = map[string]int{}
	}
	if id, ok := f.ids[login]; ok {
		return id, nil
	}
	f.ids[login] = len(f.ids) + 1
	return f.ids[login], nil
}

type fakeWhoIs struct {
	byAddr map[string]*apitype.WhoIsResponse
}

func (f fakeWhoIs) WhoIs(_ context.Context, remoteAddr string) (*apitype.WhoIsResponse, error) {
	if resp, ok := f.byAddr[remoteAddr]; ok {
		return resp, nil
	}
	return nil, errors.New("no such peer")
}

// TestDevIdentity verifies that the dev identity middleware attributes every
// request to the configured user, enabling local development without Tailscale.
func TestDevIdentity(t *testing.T) {
	users := &fakeUsers{}
	var gotUserID int
	var gotInfo UserInfo
	handler := DevIdentity(users, LocalUser, quietLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = userIDFromContext(r)
		gotInfo = userInfoFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 1 {
		t.Errorf("userID = %d, want 1", gotUserID)
	}
	if gotInfo.Login != "local" {
		t.Errorf("login = %q, want %q", gotInfo.Login, "local")
	}
}

// TestUserIDFromContextMissing verifies that no identity is reported when no
// middleware has run.
func TestUserIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := userIDFromContext(req); ok {
		t.Error("userIDFromContext without context value reported an identity")
	}

	rec := httptest.NewRecorder()
	if _, ok := mustUserID(rec, req); ok {
		t.Error("mustUserID accepted a request without identity")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestUserInfoFromContextSet verifies UserInfo is extracted from context when set.
func TestUserInfoFromContextSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)

	info := userInfoFromContext(req)
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("displayName = %q, want %q", info.DisplayName, "Alice")
	}
}

// TestTailscaleIdentity verifies tailnet peers map to distinct users and
// unknown peers are rejected.
func TestTailscaleIdentity(t *testing.T) {
	who := fakeWhoIs{byAddr: map[string]*apitype.WhoIsResponse{
		"100.64.0.1:1234": {UserProfile: &tailcfg.UserProfile{LoginName: "alice@example.com", DisplayName: "Alice"}},
		"100.64.0.2:1234": {UserProfile: &tailcfg.UserProfile{LoginName: "bob@example.com", DisplayName: "Bob"}},
		"100.64.0.3:1234": {},
	}}
	users := &fakeUsers{}
	handler := TailscaleIdentity(who, users, quietLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := userIDFromContext(r)
		w.Header().Set("X-User", userInfoFromContext(r).Login)
		w.WriteHeader(200 + id)
	}))

	tests := []struct {
		remote     string
		wantStatus int
		wantLogin  string
	}{
		{"100.64.0.1:1234", 201, "alice@example.com"},
		{"100.64.0.2:1234", 202, "bob@example.com"},
		{"100.64.0.1:1234", 201, "alice@example.com"},
		{"100.64.0.3:1234", http.StatusUnauthorized, ""},
		{"10.0.0.9:1234", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.remote, rec.Code, tt.wantStatus)
		}
		if got := rec.Header().Get("X-User"); got != tt.wantLogin {
			t.Errorf("%s: login = %q, want %q", tt.remote, got, tt.wantLogin)
		}
	}
}

// TestIdentityResolverError verifies a failing user lookup becomes a 500.
func TestIdentityResolverError(t *testing.T) {
	users := &fakeUsers{err: errors.New("db down")}
	handler := DevIdentity(users, LocalUser, quietLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(quietLog)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestPanicRecovery verifies a panicking handler yields a counted 500.
func TestPanicRecovery(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	handler := PanicRecovery(quietLog, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := testutil.ToFloat64(m.Panics); got != 1 {
		t.Errorf("panic counter = %v, want 1", got)
	}
}

// TestPanicRecoveryNoPanic verifies the normal path is untouched.
func TestPanicRecoveryNoPanic(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	called := false
	handler := PanicRecovery(quietLog, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called || rec.Code != http.StatusNoContent {
		t.Errorf("called = %v, status = %d", called, rec.Code)
	}
	if got := testutil.ToFloat64(m.Panics); got != 0 {
		t.Errorf("panic counter = %v, want 0", got)
	}
}
