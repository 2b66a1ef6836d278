package server

import (
	"context"
	"log/slog"
	"net/http"

	"tailscale.com/client/tailscale/apitype"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userInfoKey
)

// UserInfo is the identity of the person making a request.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// LocalUser is the identity used when the server runs without Tailscale.
var LocalUser = UserInfo{Login: "local", DisplayName: "Local Dev User"}

// UserResolver maps a login to a stable user ID, creating the user on first sight.
type UserResolver interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// WhoIser resolves the tailnet identity behind a remote address.
// *local.Client from tsnet satisfies it.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// DevIdentity attributes every request to info. Used in local development.
func DevIdentity(users UserResolver, info UserInfo, log *slog.Logger) func(http.Handler) http.Handler {
	return identity(users, log, func(*http.Request) (UserInfo, bool) {
		return info, true
	})
}

// TailscaleIdentity attributes each request to the tailnet user behind its
// remote address. Requests that cannot be attributed get 401.
func TailscaleIdentity(who WhoIser, users UserResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return identity(users, log, func(r *http.Request) (UserInfo, bool) {
		resp, err := who.WhoIs(r.Context(), r.RemoteAddr)
		if err != nil {
			log.Warn("whois failed", "remote", r.RemoteAddr, "error", err)
			return UserInfo{}, false
		}
		if resp == nil || resp.UserProfile == nil || resp.UserProfile.LoginName == "" {
			return UserInfo{}, false
		}
		return UserInfo{
			Login:       resp.UserProfile.LoginName,
			DisplayName: resp.UserProfile.DisplayName,
		}, true
	})
}

func identity(users UserResolver, log *slog.Logger, resolve func(*http.Request) (UserInfo, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, ok := resolve(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown identity"})
				return
			}
			id, err := users.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
			if err != nil {
				log.Error("resolving user", "login", info.Login, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, id)
			ctx = context.WithValue(ctx, userInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFromContext returns the requester's user ID set by identity middleware.
func userIDFromContext(r *http.Request) (int, bool) {
	id, ok := r.Context().Value(userIDKey).(int)
	return id, ok
}

// userInfoFromContext returns the requester's identity, or the zero value.
func userInfoFromContext(r *http.Request) UserInfo {
	info, _ := r.Context().Value(userInfoKey).(UserInfo)
	return info
}

// mustUserID writes a 401 and returns false when the request carries no identity.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := userIDFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown identity"})
	}
	return id, ok
}
