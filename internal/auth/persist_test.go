package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/store"
)

func TestPersistSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	area := store.NewMemoryArea()

	first := NewSession(NewDemoProvider())
	stop, err := Persist(ctx, first, area)
	require.NoError(t, err)
	_, err = first.SignIn(ctx, Credential{})
	require.NoError(t, err)
	stop()

	second := NewSession(NewDemoProvider())
	stop, err = Persist(ctx, second, area)
	require.NoError(t, err)
	defer stop()
	require.NotNil(t, second.Current())
	assert.Equal(t, DemoUser.UID, second.Current().UID)

	second.SignOut(ctx)
	_, ok, err := area.GetItem(ctx, SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistIgnoresCorruptSession(t *testing.T) {
	ctx := context.Background()
	area := store.NewMemoryArea()
	require.NoError(t, area.SetItems(ctx, map[string]string{SessionKey: "{not json"}))

	s := NewSession(NewDemoProvider())
	stop, err := Persist(ctx, s, area)
	require.NoError(t, err)
	defer stop()
	assert.Nil(t, s.Current())
}

func TestPersistDropsSessionFromOtherProvider(t *testing.T) {
	ctx := context.Background()
	area := store.NewMemoryArea()

	local := NewSession(NewDemoProvider())
	stop, err := Persist(ctx, local, area)
	require.NoError(t, err)
	_, err = local.SignIn(ctx, Credential{})
	require.NoError(t, err)
	stop()

	remote := NewSession(&stubProvider{})
	stop, err = Persist(ctx, remote, area)
	require.NoError(t, err)
	defer stop()
	assert.Nil(t, remote.Current())

	_, ok, err := area.GetItem(ctx, SessionKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistDropsBareUserRecord(t *testing.T) {
	ctx := context.Background()
	area := store.NewMemoryArea()
	require.NoError(t, area.SetItems(ctx, map[string]string{SessionKey: `{"uid":"demo-user-123"}`}))

	s := NewSession(NewDemoProvider())
	stop, err := Persist(ctx, s, area)
	require.NoError(t, err)
	defer stop()
	assert.Nil(t, s.Current())
}
