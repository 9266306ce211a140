package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// SessionHeader is the fixed transport field carrying the session identifier
// on every authenticated call. Identifiers are bearer secrets and must only
// travel over trusted transports.
const SessionHeader = "X-Session-Id"

type contextKey string

const credentialKey contextKey = "credential"

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the session header through the session store and
// attaches the credential to the request context. The credential handle is
// scoped to the single call and never cached. Requests without a live session
// are rejected here, before any remote call can happen.
func requireAuth(sessions driven.SessionStore, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		cred, err := sessions.Resolve(r.Context(), id)
		if err != nil {
			if !errors.Is(err, driven.ErrSessionNotFound) {
				logger.Error("session resolution failed", "error", err)
			}
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx := context.WithValue(r.Context(), credentialKey, cred)
		next(w, r.WithContext(ctx))
	}
}

// credentialFrom returns the credential attached to ctx by requireAuth.
func credentialFrom(ctx context.Context) (model.Credential, bool) {
	cred, ok := ctx.Value(credentialKey).(model.Credential)
	return cred, ok
}
