// Package googleauth implements the authorization-code exchange against
// Google's OAuth2 endpoint.
package googleauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// scopeSpreadsheets grants read/write access to the user's spreadsheets.
const scopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

// Compile-time interface satisfaction check.
var _ driven.CodeExchanger = (*Exchanger)(nil)

// NewConfig builds the OAuth2 client configuration shared by the exchanger
// and the sheets client. A credential obtained through this configuration is
// only usable together with the same client id, secret and redirect URI.
func NewConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{scopeSpreadsheets},
		Endpoint:     google.Endpoint,
	}
}

// Exchanger wraps an oauth2.Config for the spreadsheet scope.
type Exchanger struct {
	cfg *oauth2.Config
}

// New creates an Exchanger over cfg.
func New(cfg *oauth2.Config) *Exchanger {
	return &Exchanger{cfg: cfg}
}

// AuthCodeURL returns the consent URL. access_type=offline makes the provider
// issue a refresh token, and prompt=consent forces the refresh token to be
// re-issued on repeat authorizations.
func (e *Exchanger) AuthCodeURL() string {
	return e.cfg.AuthCodeURL("state-token",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades the one-time authorization code for a token pair. The
// provider enforces single use; a replayed code fails here rather than
// resolving to an old session.
func (e *Exchanger) Exchange(ctx context.Context, code string) (model.Credential, error) {
	tok, err := e.cfg.Exchange(ctx, code)
	if err != nil {
		return model.Credential{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	return model.Credential{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}
