package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AuthURLResponse carries the provider consent URL.
type AuthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

// CheckSessionResponse reports whether the caller's session header names a
// live session.
type CheckSessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// SuccessResponse is the generic acknowledgement body for logout and append.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CreateSpreadsheetResponse is the JSON representation of a newly created
// spreadsheet.
type CreateSpreadsheetResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
	URL           string `json:"url"`
}

// WorkoutListResponse wraps the decoded rows of a spreadsheet.
type WorkoutListResponse struct {
	Workouts []WorkoutEntryResponse `json:"workouts"`
}

// WorkoutEntryResponse is the JSON representation of a single workout entry.
// Reps and Weight are null when the underlying cell was missing or not
// numeric.
type WorkoutEntryResponse struct {
	Date     string   `json:"date"`
	Workout  string   `json:"workout"`
	Exercise string   `json:"exercise"`
	Reps     *int64   `json:"reps"`
	Weight   *float64 `json:"weight"`
}

// AppendEntryRequest is the JSON body for the append entry endpoint.
type AppendEntryRequest struct {
	Date     string   `json:"date"`
	Workout  string   `json:"workout"`
	Exercise string   `json:"exercise"`
	Reps     *int64   `json:"reps"`
	Weight   *float64 `json:"weight"`
}

// toWorkoutEntryResponse converts a domain WorkoutEntry to its JSON
// representation.
func toWorkoutEntryResponse(e model.WorkoutEntry) WorkoutEntryResponse {
	return WorkoutEntryResponse{
		Date:     e.Date,
		Workout:  e.Workout,
		Exercise: e.Exercise,
		Reps:     e.Reps,
		Weight:   e.Weight,
	}
}

// toEntry converts the request body to a domain WorkoutEntry.
func (r AppendEntryRequest) toEntry() model.WorkoutEntry {
	return model.WorkoutEntry{
		Date:     r.Date,
		Workout:  r.Workout,
		Exercise: r.Exercise,
		Reps:     r.Reps,
		Weight:   r.Weight,
	}
}
