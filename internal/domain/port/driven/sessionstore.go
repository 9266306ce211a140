package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
)

// ErrSessionNotFound is returned by Resolve when the identifier is unknown or
// was revoked.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore defines the driven port binding opaque session identifiers to
// delegated credentials. Implementations must be safe for concurrent
// issue/resolve/revoke. Identifiers are bearer secrets; entries live until
// Revoke or process exit, there is no expiry.
type SessionStore interface {
	// Issue stores cred under a freshly generated identifier and returns the
	// identifier. Concurrent calls yield distinct identifiers.
	Issue(ctx context.Context, cred model.Credential) (string, error)

	// Resolve returns the credential bound to id.
	// Returns ErrSessionNotFound when id is not a live session.
	Resolve(ctx context.Context, id string) (model.Credential, error)

	// Revoke removes id. Revoking an absent id is a no-op, not an error.
	Revoke(ctx context.Context, id string) error

	// Exists reports whether id is bound to a live session.
	Exists(ctx context.Context, id string) (bool, error)
}
