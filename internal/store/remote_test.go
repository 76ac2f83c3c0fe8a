package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/models"
)

// newTestRemote connects to the Firestore emulator. Each call gets its own
// project so tests never see each other's documents.
func newTestRemote(t *testing.T) *Remote {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	project := fmt.Sprintf("demo-cookiverse-%d", time.Now().UnixNano())
	client, err := firestore.NewClient(context.Background(), project)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRemote(client)
}

func TestRemoteStoreBehavior(t *testing.T) {
	testStoreBehavior(t, func(t *testing.T) Store {
		return newTestRemote(t)
	})
}

func TestRemoteDeleteSpansTransactions(t *testing.T) {
	ctx := context.Background()
	r := newTestRemote(t)
	r.txnLimit = 2

	id, err := r.CreateRecipe(ctx, recipe("Popular", "u1", testNow))
	require.NoError(t, err)
	for i := range 5 {
		require.NoError(t, r.PutBookmark(ctx, models.NewBookmark(fmt.Sprintf("u%d", i), id, testNow)))
	}

	require.NoError(t, r.DeleteRecipe(ctx, id))

	_, err = r.GetRecipe(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	for i := range 5 {
		ok, err := r.HasBookmark(ctx, models.BookmarkID(fmt.Sprintf("u%d", i), id))
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestRemotePingAndProfile(t *testing.T) {
	ctx := context.Background()
	r := newTestRemote(t)

	require.NoError(t, r.Ping(ctx))
	require.NoError(t, r.SaveProfile(ctx, &models.User{UID: "u1", DisplayName: "Alice"}))

	snap, err := r.client.Collection(usersCollection).Doc("u1").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", snap.Data()["displayName"])
	assert.NotNil(t, snap.Data()["lastLogin"])
}
