package driven

import (
	"context"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
)

// CodeExchanger defines the driven port for the provider's authorization-code
// flow.
type CodeExchanger interface {
	// AuthCodeURL returns the provider-hosted consent URL. Building the URL
	// has no side effects and is safe to call concurrently.
	AuthCodeURL() string

	// Exchange trades a one-time authorization code for a credential. The
	// provider enforces single use; a replayed or expired code fails.
	Exchange(ctx context.Context, code string) (model.Credential, error)
}
