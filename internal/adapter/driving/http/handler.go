// Package httphandler is the HTTP driving adapter that serves the REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/workoutlog/internal/application"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// Handler serves the workout tracker REST API.
type Handler struct {
	auth        *application.AuthService
	workouts    *application.WorkoutService
	sessions    driven.SessionStore
	frontendURL string
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. frontendURL is
// the base the OAuth callback redirects back to.
func NewHandler(
	auth *application.AuthService,
	workouts *application.WorkoutService,
	sessions driven.SessionStore,
	frontendURL string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		workouts:    workouts,
		sessions:    sessions,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware. Spreadsheet routes additionally go
// through the session guard.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Health)
	mux.HandleFunc("GET /auth/url", h.AuthURL)
	mux.HandleFunc("GET /auth/callback", h.AuthCallback)
	mux.HandleFunc("GET /auth/check", h.CheckSession)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	mux.HandleFunc("POST /sheets/create", requireAuth(h.sessions, logger, h.CreateSpreadsheet))
	mux.HandleFunc("GET /sheets/{spreadsheetId}/data", requireAuth(h.sessions, logger, h.ListWorkouts))
	mux.HandleFunc("POST /sheets/{spreadsheetId}/entry", requireAuth(h.sessions, logger, h.AppendWorkout))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "Workout Tracker API",
	})
}

// AuthURL returns the provider consent URL for the client to open.
func (h *Handler) AuthURL(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, AuthURLResponse{AuthURL: h.auth.AuthorizationURL()})
}

// AuthCallback completes the authorization-code exchange and redirects the
// browser back to the frontend: with the new session id on success, with an
// error marker on failure. JSON is never returned here because the caller is
// a browser navigation, not a programmatic client.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	id, err := h.auth.CompleteAuthorization(r.Context(), code)
	if err != nil {
		h.logger.Error("authorization exchange failed", "error", err)
		http.Redirect(w, r, h.frontendURL+"?error=auth_failed", http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontendURL+"?session="+url.QueryEscape(id), http.StatusFound)
}

// CheckSession reports whether the session header names a live session.
func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	authenticated := h.auth.Check(r.Context(), r.Header.Get(SessionHeader))
	writeJSON(w, http.StatusOK, CheckSessionResponse{Authenticated: authenticated})
}

// Logout revokes the caller's session. Always acknowledges success: revoking
// an absent session is a no-op.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get(SessionHeader)); err != nil {
		h.logger.Error("logout failed", "error", err)
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// CreateSpreadsheet provisions a new workout spreadsheet for the caller.
func (h *Handler) CreateSpreadsheet(w http.ResponseWriter, r *http.Request) {
	cred, ok := credentialFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, sheetURL, err := h.workouts.CreateSpreadsheet(r.Context(), cred)
	if err != nil {
		h.logger.Error("create spreadsheet failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create spreadsheet")
		return
	}

	writeJSON(w, http.StatusOK, CreateSpreadsheetResponse{SpreadsheetID: id, URL: sheetURL})
}

// ListWorkouts returns every workout entry in the spreadsheet.
func (h *Handler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	cred, ok := credentialFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	spreadsheetID := r.PathValue("spreadsheetId")

	entries, err := h.workouts.ListEntries(r.Context(), cred, spreadsheetID)
	if err != nil {
		h.logger.Error("load workouts failed", "spreadsheet_id", spreadsheetID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load data")
		return
	}

	resp := WorkoutListResponse{Workouts: make([]WorkoutEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Workouts = append(resp.Workouts, toWorkoutEntryResponse(entry))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AppendWorkout validates the request body and appends one entry to the
// spreadsheet.
func (h *Handler) AppendWorkout(w http.ResponseWriter, r *http.Request) {
	cred, ok := credentialFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req AppendEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	spreadsheetID := r.PathValue("spreadsheetId")

	if err := h.workouts.AppendEntry(r.Context(), cred, spreadsheetID, req.toEntry()); err != nil {
		if errors.Is(err, application.ErrInvalidEntry) {
			writeError(w, http.StatusBadRequest, "date, workout and exercise are required")
			return
		}
		h.logger.Error("append entry failed", "spreadsheet_id", spreadsheetID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add entry")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
