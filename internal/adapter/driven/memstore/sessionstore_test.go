package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

func TestSessionStore_IssueAndResolve(t *testing.T) {
	store := New()
	ctx := context.Background()
	cred := model.Credential{AccessToken: "at", RefreshToken: "rt"}

	id, err := store.Issue(ctx, cred)
	require.NoError(t, err)
	assert.Len(t, id, 32) // 16 bytes hex encoded

	resolved, err := store.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, cred, resolved)

	ok, err := store.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionStore_ResolveUnknown(t *testing.T) {
	store := New()

	_, err := store.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, driven.ErrSessionNotFound)
}

func TestSessionStore_RevokeIsIdempotent(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Issue(ctx, model.Credential{AccessToken: "at"})
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, id))

	_, err = store.Resolve(ctx, id)
	assert.ErrorIs(t, err, driven.ErrSessionNotFound)

	ok, err := store.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	// Revoking again, or revoking an id that never existed, is a no-op.
	require.NoError(t, store.Revoke(ctx, id))
	require.NoError(t, store.Revoke(ctx, "never-existed"))
}

func TestSessionStore_ConcurrentIssueYieldsDistinctIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	const n = 64
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Issue(ctx, model.Credential{AccessToken: "at"})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate session id %q", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
