package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorageMode:        config.StorageModeAuto,
		RemoteInitTimeout:  time.Second,
		RemoteInitAttempts: 3,
		LocalDBDriver:      "sqlite",
		LocalDBPath:        filepath.Join(t.TempDir(), "test.db"),
	}
}

func TestOpenAutoWithoutRemoteUsesLocal(t *testing.T) {
	b, err := Open(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	assert.Equal(t, ModeLocal, b.Mode)
	assert.Equal(t, "demo", b.Provider.Name())
	assert.Nil(t, b.Cache())
	assert.Same(t, b.Local, b.Store)
}

func TestOpenRemoteRequiresProject(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageMode = config.StorageModeRemote
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenRejectsUnknownMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageMode = "cloud"
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("unavailable")
	}
	return nil
}

func TestPingWithRetry(t *testing.T) {
	cfg := testConfig(t)

	p := &flakyPinger{failures: 2}
	require.NoError(t, pingWithRetry(context.Background(), cfg, p))
	assert.Equal(t, 3, p.calls)

	p = &flakyPinger{failures: 5}
	assert.Error(t, pingWithRetry(context.Background(), cfg, p))
	assert.Equal(t, 3, p.calls)
}
