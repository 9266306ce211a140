package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/workoutlog/internal/adapter/driving/http"
	"github.com/ericfisherdev/workoutlog/internal/application"
	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// --- Mock implementations ---

// mockSessionStore implements driven.SessionStore over a plain map.
type mockSessionStore struct {
	sessions map[string]model.Credential
	nextID   string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]model.Credential{}, nextID: "session-1"}
}

func (m *mockSessionStore) Issue(_ context.Context, cred model.Credential) (string, error) {
	id := m.nextID
	m.sessions[id] = cred
	return id, nil
}

func (m *mockSessionStore) Resolve(_ context.Context, id string) (model.Credential, error) {
	cred, ok := m.sessions[id]
	if !ok {
		return model.Credential{}, driven.ErrSessionNotFound
	}
	return cred, nil
}

func (m *mockSessionStore) Revoke(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.sessions[id]
	return ok, nil
}

// mockSheetClient implements driven.SheetClient and counts calls so tests can
// verify that unauthenticated requests never reach the remote service.
type mockSheetClient struct {
	createID    string
	createErr   error
	rows        [][]any
	readErr     error
	appendErr   error
	calls       int
	appendedRow []any
}

func (m *mockSheetClient) CreateSpreadsheet(_ context.Context, _ model.Credential) (string, error) {
	m.calls++
	return m.createID, m.createErr
}

func (m *mockSheetClient) ReadRows(_ context.Context, _ model.Credential, _ string) ([][]any, error) {
	m.calls++
	return m.rows, m.readErr
}

func (m *mockSheetClient) AppendRow(_ context.Context, _ model.Credential, _ string, row []any) error {
	m.calls++
	m.appendedRow = row
	return m.appendErr
}

// mockExchanger implements driven.CodeExchanger.
type mockExchanger struct {
	url  string
	cred model.Credential
	err  error
}

func (m *mockExchanger) AuthCodeURL() string { return m.url }

func (m *mockExchanger) Exchange(_ context.Context, _ string) (model.Credential, error) {
	return m.cred, m.err
}

// --- Test helpers ---

const frontendURL = "http://localhost:5173"

type fixture struct {
	mux       http.Handler
	sessions  *mockSessionStore
	sheets    *mockSheetClient
	exchanger *mockExchanger
}

func setup(t *testing.T) *fixture {
	t.Helper()

	sessions := newMockSessionStore()
	sheets := &mockSheetClient{}
	exchanger := &mockExchanger{url: "https://accounts.example.com/consent"}

	auth := application.NewAuthService(exchanger, sessions, slog.Default())
	workouts := application.NewWorkoutService(sheets, slog.Default())
	h := httphandler.NewHandler(auth, workouts, sessions, frontendURL, slog.Default())

	return &fixture{
		mux:       httphandler.NewServeMux(h, slog.Default()),
		sessions:  sessions,
		sheets:    sheets,
		exchanger: exchanger,
	}
}

// authenticated seeds a live session and returns its id.
func (f *fixture) authenticated(t *testing.T) string {
	t.Helper()
	id, err := f.sessions.Issue(context.Background(), model.Credential{AccessToken: "at"})
	require.NoError(t, err)
	return id
}

func (f *fixture) do(method, path, sessionID string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionID != "" {
		req.Header.Set(httphandler.SessionHeader, sessionID)
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealth(t *testing.T) {
	f := setup(t)

	rec := f.do(http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Workout Tracker API"}`, rec.Body.String())
}

func TestAuthURL(t *testing.T) {
	f := setup(t)

	rec := f.do(http.MethodGet, "/auth/url", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authUrl":"https://accounts.example.com/consent"}`, rec.Body.String())
}

func TestAuthCallback_Success(t *testing.T) {
	f := setup(t)
	f.exchanger.cred = model.Credential{AccessToken: "at"}

	rec := f.do(http.MethodGet, "/auth/callback?code=good-code", "", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, frontendURL+"?session=session-1", rec.Header().Get("Location"))

	ok, err := f.sessions.Exists(context.Background(), "session-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthCallback_ExchangeFails(t *testing.T) {
	f := setup(t)
	f.exchanger.err = errors.New("invalid_grant")

	rec := f.do(http.MethodGet, "/auth/callback?code=bad-code", "", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, frontendURL+"?error=auth_failed", rec.Header().Get("Location"))
	assert.Empty(t, f.sessions.sessions)
}

func TestCheckSession(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)

	rec := f.do(http.MethodGet, "/auth/check", id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/auth/check", "unknown", "")
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/auth/check", "", "")
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestLogout(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)

	rec := f.do(http.MethodPost, "/auth/logout", id, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	ok, err := f.sessions.Exists(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)

	// Logging out again, or without a session header, still succeeds.
	rec = f.do(http.MethodPost, "/auth/logout", id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutes_MissingSessionHeader(t *testing.T) {
	f := setup(t)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/sheets/create"},
		{http.MethodGet, "/sheets/sheet-123/data"},
		{http.MethodPost, "/sheets/sheet-123/entry"},
	}

	for _, r := range requests {
		rec := f.do(r.method, r.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
		assert.JSONEq(t, `{"error":"Not authenticated"}`, rec.Body.String())
	}

	// No remote call was attempted for any rejected request.
	assert.Equal(t, 0, f.sheets.calls)
}

func TestProtectedRoutes_UnknownSession(t *testing.T) {
	f := setup(t)

	rec := f.do(http.MethodPost, "/sheets/create", "revoked-id", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, rec.Body.String())
	assert.Equal(t, 0, f.sheets.calls)
}

func TestCreateSpreadsheet(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)
	f.sheets.createID = "sheet-123"

	rec := f.do(http.MethodPost, "/sheets/create", id, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"spreadsheetId":"sheet-123","url":"https://docs.google.com/spreadsheets/d/sheet-123"}`, rec.Body.String())
}

func TestCreateSpreadsheet_RemoteFailure(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)
	f.sheets.createErr = driven.ErrRemoteOperation

	rec := f.do(http.MethodPost, "/sheets/create", id, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to create spreadsheet"}`, rec.Body.String())
}

func TestListWorkouts(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)
	f.sheets.rows = [][]any{
		{"2024-01-01", "Push", "Bench", "5", "100.5"},
		{"2024-01-02", "Pull", "Row", "not-a-number", ""},
	}

	rec := f.do(http.MethodGet, "/sheets/sheet-123/data", id, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Workouts []struct {
			Date     string   `json:"date"`
			Workout  string   `json:"workout"`
			Exercise string   `json:"exercise"`
			Reps     *int64   `json:"reps"`
			Weight   *float64 `json:"weight"`
		} `json:"workouts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Workouts, 2)

	require.NotNil(t, resp.Workouts[0].Reps)
	assert.Equal(t, int64(5), *resp.Workouts[0].Reps)
	require.NotNil(t, resp.Workouts[0].Weight)
	assert.Equal(t, 100.5, *resp.Workouts[0].Weight)

	// Malformed cells surface as JSON null.
	assert.Nil(t, resp.Workouts[1].Reps)
	assert.Nil(t, resp.Workouts[1].Weight)
}

func TestListWorkouts_EmptySheet(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)
	f.sheets.rows = [][]any{}

	rec := f.do(http.MethodGet, "/sheets/sheet-123/data", id, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"workouts":[]}`, rec.Body.String())
}

func TestListWorkouts_RemoteFailure(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)
	f.sheets.readErr = driven.ErrRemoteOperation

	rec := f.do(http.MethodGet, "/sheets/sheet-123/data", id, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load data"}`, rec.Body.String())
}

func TestAppendWorkout(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)

	body := `{"date":"2024-01-01","workout":"Push","exercise":"Bench","reps":5,"weight":100.5}`
	rec := f.do(http.MethodPost, "/sheets/sheet-123/entry", id, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, []any{"2024-01-01", "Push", "Bench", int64(5), 100.5}, f.sheets.appendedRow)
}

func TestAppendWorkout_InvalidBody(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)

	rec := f.do(http.MethodPost, "/sheets/sheet-123/entry", id, "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.sheets.calls)
}

func TestAppendWorkout_MissingFields(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)

	rec := f.do(http.MethodPost, "/sheets/sheet-123/entry", id, `{"date":"2024-01-01"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"date, workout and exercise are required"}`, rec.Body.String())
	assert.Equal(t, 0, f.sheets.calls)
}

func TestAppendWorkout_RemoteFailure(t *testing.T) {
	f := setup(t)
	id := f.authenticated(t)
	f.sheets.appendErr = driven.ErrRemoteOperation

	body := `{"date":"2024-01-01","workout":"Push","exercise":"Bench","reps":5,"weight":100.5}`
	rec := f.do(http.MethodPost, "/sheets/sheet-123/entry", id, body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to add entry"}`, rec.Body.String())
}
