package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// ErrInvalidEntry marks an append request missing required fields. It is
// detected before any remote call is made.
var ErrInvalidEntry = errors.New("invalid workout entry")

// spreadsheetURLPrefix is the browser URL base for a created spreadsheet.
const spreadsheetURLPrefix = "https://docs.google.com/spreadsheets/d/"

// WorkoutService mediates between the HTTP adapter and the sheet client,
// translating raw rows to workout entries through the fixed column contract.
type WorkoutService struct {
	sheets driven.SheetClient
	logger *slog.Logger
}

// NewWorkoutService creates a WorkoutService over the given sheet client.
func NewWorkoutService(sheets driven.SheetClient, logger *slog.Logger) *WorkoutService {
	return &WorkoutService{
		sheets: sheets,
		logger: logger,
	}
}

// CreateSpreadsheet provisions the workout spreadsheet and returns its id and
// browser URL. When the header write fails on an already-created spreadsheet
// the orphaned id is logged before the error is returned; the document is not
// cleaned up.
func (s *WorkoutService) CreateSpreadsheet(ctx context.Context, cred model.Credential) (string, string, error) {
	id, err := s.sheets.CreateSpreadsheet(ctx, cred)
	if err != nil {
		if id != "" {
			s.logger.Error("spreadsheet created but header write failed",
				"spreadsheet_id", id,
				"error", err,
			)
		}
		return "", "", err
	}

	return id, spreadsheetURLPrefix + id, nil
}

// ListEntries reads every data row of the spreadsheet and decodes it into a
// workout entry. A header-only spreadsheet yields an empty slice.
func (s *WorkoutService) ListEntries(ctx context.Context, cred model.Credential, spreadsheetID string) ([]model.WorkoutEntry, error) {
	rows, err := s.sheets.ReadRows(ctx, cred, spreadsheetID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.WorkoutEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.DecodeRow(row))
	}

	return entries, nil
}

// AppendEntry validates the entry and appends its row to the spreadsheet.
// Validation happens first so malformed input never reaches the remote
// service.
func (s *WorkoutService) AppendEntry(ctx context.Context, cred model.Credential, spreadsheetID string, entry model.WorkoutEntry) error {
	if entry.Date == "" || entry.Workout == "" || entry.Exercise == "" {
		return fmt.Errorf("%w: date, workout and exercise are required", ErrInvalidEntry)
	}

	return s.sheets.AppendRow(ctx, cred, spreadsheetID, entry.Row())
}
