package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/cuadratic/tasklist/internal/server/auth"
	"github.com/google/uuid"
)

type ctxKey string

const (
	usernameKey  ctxKey = "username"
	requestIDKey ctxKey = "request_id"
)

// requestIDFromContext returns the id assigned by requestLogger, or "" for
// requests served outside the middleware chain.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// usernameFromContext returns the session username placed there by
// withSession, or "" for an anonymous request.
func usernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

// withSession resolves the cookie-borne credential before the handler runs.
// An absent cookie leaves the request anonymous; an invalid one additionally
// gets expired on the response so a forged or stale credential is not
// resent. The handler itself decides whether anonymous is acceptable.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		username, err := auth.GetUsernameFromToken(cookie.Value, s.jwtSecret)
		if err != nil {
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger assigns each request an id, stores it in the context so
// handler-side logs can reference it, and logs one access line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)

		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.Info(ctx, "http_request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
