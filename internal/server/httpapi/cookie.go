package httpapi

import (
	"net/http"

	"github.com/cuadratic/tasklist/internal/common"
)

// setSessionCookie attaches the signed credential. HttpOnly keeps the token
// out of reach of page scripts.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		// Secure should be enabled for HTTPS deployments.
	})
}

// clearSessionCookie expires the credential on the client.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
