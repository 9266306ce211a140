// Package model contains the domain types shared across the application.
package model

import (
	"fmt"
	"strconv"
)

// SheetColumns is the fixed column contract for the workout sheet. Encoding
// and decoding are purely positional, so this order must never change: adding
// a column means appending here and updating the codec together.
var SheetColumns = []string{"Date", "Workout", "Exercise", "Reps", "Weight"}

// WorkoutEntry is a single logged set. Reps and Weight are nil when the
// source cell was missing or not numeric; nil marshals as JSON null at the
// HTTP boundary, matching the sheet's tolerance for malformed cells.
type WorkoutEntry struct {
	Date     string
	Workout  string
	Exercise string
	Reps     *int64
	Weight   *float64
}

// HeaderRow returns the header cells written to the first row of a new sheet.
func HeaderRow() []any {
	row := make([]any, len(SheetColumns))
	for i, name := range SheetColumns {
		row[i] = name
	}
	return row
}

// DecodeRow maps a raw sheet row onto a WorkoutEntry. Cells are positional:
// date, workout, exercise, reps, weight. Rows shorter than five cells decode
// with the missing fields empty or nil; they never fail.
func DecodeRow(cells []any) WorkoutEntry {
	entry := WorkoutEntry{
		Date:     cellString(cells, 0),
		Workout:  cellString(cells, 1),
		Exercise: cellString(cells, 2),
	}

	if reps, err := strconv.ParseInt(cellString(cells, 3), 10, 64); err == nil {
		entry.Reps = &reps
	}
	if weight, err := strconv.ParseFloat(cellString(cells, 4), 64); err == nil {
		entry.Weight = &weight
	}

	return entry
}

// Row returns the five-cell sheet representation of the entry in fixed column
// order. Values pass through without unit validation; a nil Reps or Weight
// becomes an empty cell.
func (e WorkoutEntry) Row() []any {
	row := make([]any, len(SheetColumns))
	row[0] = e.Date
	row[1] = e.Workout
	row[2] = e.Exercise

	row[3] = any("")
	if e.Reps != nil {
		row[3] = *e.Reps
	}

	row[4] = any("")
	if e.Weight != nil {
		row[4] = *e.Weight
	}

	return row
}

// cellString returns cell i as a string, or "" when the cell is absent. The
// Sheets API returns formatted values as strings, but numeric cells can come
// back as float64 depending on render options.
func cellString(cells []any, i int) string {
	if i >= len(cells) || cells[i] == nil {
		return ""
	}

	switch v := cells[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
