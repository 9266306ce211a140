// Package googlesheets implements the sheet client port against the Google
// Sheets v4 API.
package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

const (
	spreadsheetTitle = "Workout Tracker Data"
	worksheetTitle   = "Workouts"

	// Ranges over the Workouts sheet. The header occupies the frozen first
	// row; data rows start at row 2.
	headerRange = "Workouts!A1:E1"
	dataRange   = "Workouts!A2:E"
	appendRange = "Workouts!A:E"
)

// defaultTimeout bounds each remote call. A timeout surfaces as
// driven.ErrRemoteOperation like any other opaque remote failure.
const defaultTimeout = 30 * time.Second

// Compile-time interface satisfaction check.
var _ driven.SheetClient = (*Client)(nil)

// Client implements driven.SheetClient. A sheets service is built per call so
// every request is authorized with the calling session's own credential.
type Client struct {
	oauth   *oauth2.Config
	timeout time.Duration
	opts    []option.ClientOption // non-nil only in tests; replaces token-source auth
}

// NewClient creates a Client that authorizes each call with a token source
// derived from the given OAuth2 configuration and the caller's credential.
func NewClient(oauth *oauth2.Config) *Client {
	return &Client{oauth: oauth, timeout: defaultTimeout}
}

// NewClientWithOptions creates a Client whose sheets service is built from
// the given options instead of credential token sources. This constructor is
// intended for testing against an httptest server, e.g. with
// option.WithEndpoint and option.WithoutAuthentication.
func NewClientWithOptions(opts ...option.ClientOption) *Client {
	return &Client{timeout: defaultTimeout, opts: opts}
}

// CreateSpreadsheet creates the workout spreadsheet with a frozen header row
// and writes the column headers. The two remote calls are not atomic: when
// the header write fails the created spreadsheet id is returned with the
// error so the caller can surface the orphaned document.
func (c *Client) CreateSpreadsheet(ctx context.Context, cred model.Credential) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, cred)
	if err != nil {
		return "", classify(err)
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: spreadsheetTitle},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{
				Title:          worksheetTitle,
				GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
			},
		}},
	}

	created, err := svc.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", classify(err)
	}

	header := &sheets.ValueRange{Values: [][]any{model.HeaderRow()}}
	if _, err := svc.Spreadsheets.Values.Update(created.SpreadsheetId, headerRange, header).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return created.SpreadsheetId, classify(err)
	}

	return created.SpreadsheetId, nil
}

// ReadRows fetches every row of the data region. A spreadsheet holding only
// the header returns an empty slice.
func (c *Client) ReadRows(ctx context.Context, cred model.Credential, spreadsheetID string) ([][]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, cred)
	if err != nil {
		return nil, classify(err)
	}

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	if resp.Values == nil {
		return [][]any{}, nil
	}

	return resp.Values, nil
}

// AppendRow appends one row to the data region. The remote service decides
// the target row, so there is no read-then-write race on this side.
func (c *Client) AppendRow(ctx context.Context, cred model.Credential, spreadsheetID string, row []any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, cred)
	if err != nil {
		return classify(err)
	}

	values := &sheets.ValueRange{Values: [][]any{row}}
	if _, err := svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, values).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return classify(err)
	}

	return nil
}

// service builds a sheets service authorized for the given credential.
func (c *Client) service(ctx context.Context, cred model.Credential) (*sheets.Service, error) {
	opts := c.opts
	if opts == nil {
		tok := &oauth2.Token{
			AccessToken:  cred.AccessToken,
			TokenType:    cred.TokenType,
			RefreshToken: cred.RefreshToken,
			Expiry:       cred.Expiry,
		}
		opts = []option.ClientOption{option.WithTokenSource(c.oauth.TokenSource(ctx, tok))}
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return svc, nil
}

// classify maps a remote failure onto the port error taxonomy: 401/403 mean
// the credential was rejected, everything else (not found, quota, network,
// timeout) is an opaque retryable failure.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) &&
		(apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", driven.ErrUnauthorized, err)
	}
	return fmt.Errorf("%w: %v", driven.ErrRemoteOperation, err)
}
