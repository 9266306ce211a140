package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
)

// Remote failure classification for the sheet client.
// ErrUnauthorized marks an auth rejection by the remote service: the
// credential behind the session is a revocation candidate. ErrRemoteOperation
// covers every other remote failure (not found, quota, network, timeout) and
// is safe to retry.
var (
	ErrUnauthorized    = errors.New("remote authorization rejected")
	ErrRemoteOperation = errors.New("remote operation failed")
)

// SheetClient defines the driven port for the remote spreadsheet service.
// Every operation requires a resolved credential and returns errors wrapping
// one of the sentinels above.
type SheetClient interface {
	// CreateSpreadsheet creates the workout spreadsheet and writes its header
	// row. The two remote calls are not atomic: when the header write fails
	// after creation succeeded, the created spreadsheet id is returned
	// alongside the error so the caller can surface the orphaned document.
	CreateSpreadsheet(ctx context.Context, cred model.Credential) (string, error)

	// ReadRows returns every raw row of the data region below the header.
	// An empty region yields an empty slice, not an error.
	ReadRows(ctx context.Context, cred model.Credential, spreadsheetID string) ([][]any, error)

	// AppendRow appends one row after the last occupied row of the data
	// region. Placement is decided by the remote service; there is no
	// pre-read and no ordering guarantee between concurrent appends.
	AppendRow(ctx context.Context, cred model.Credential, spreadsheetID string, row []any) error
}
