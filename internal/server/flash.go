package server

import (
	"encoding/base64"
	"net/http"
)

const flashCookie = "liftlog_flash"

// setFlash queues a one-shot message for the next page the user sees.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending messages, if any, and clears them.
func popFlash(w http.ResponseWriter, r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return []string{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil || len(msg) == 0 {
		return []string{}
	}
	return []string{string(msg)}
}
