package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openweb3-io/cryptocapital/config"
	"github.com/openweb3-io/cryptocapital/types"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.cryptocapital.co", cfg.Endpoint)
	require.Equal(t, "secp256k1", cfg.Curve)
	require.Equal(t, config.Secret("env:CRYPTOCAP_PRIVATE_KEY"), cfg.Key)
	require.Equal(t, "socketio", cfg.Transport.Driver)
	require.Equal(t, 3, cfg.Transport.EngineIOVersion)
	require.Equal(t, 500*time.Millisecond, cfg.Transport.ReconnectInitial)
	require.Equal(t, 30*time.Second, cfg.Transport.ReconnectMax)
	require.Equal(t, 256, cfg.Transport.SendQueue)
	require.False(t, cfg.StrictNonce)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cryptocap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: http://localhost:3000
key: file:/run/secrets/key
strict_nonce: true
transport:
  engine_io_version: 4
  send_queue: 16
`), 0o600))
	t.Setenv("CRYPTOCAP_DEBUG", "true")
	t.Setenv("CRYPTOCAP_TRANSPORT_SEND_QUEUE", "32")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000", cfg.Endpoint)
	require.Equal(t, config.Secret("file:/run/secrets/key"), cfg.Key)
	require.Equal(t, config.Secret("env:CRYPTOCAP_PUBLIC_KEY"), cfg.Pub)
	require.True(t, cfg.StrictNonce)
	require.True(t, cfg.Debug)
	require.Equal(t, 4, cfg.Transport.EngineIOVersion)
	require.Equal(t, 32, cfg.Transport.SendQueue)
	require.Equal(t, "/socket.io/", cfg.Transport.Path)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, types.ErrConfiguration)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  reconnect_initial: 1m\n  reconnect_max: 1s\n"), 0o600))
	_, err = config.Load(path)
	require.ErrorIs(t, err, types.ErrConfiguration)
}

func TestCredentialAndRedaction(t *testing.T) {
	cfg := &config.Config{
		Endpoint: "https://api.cryptocapital.co",
		Key:      "env:TEST_CRYPTOCAP_KEY",
		Pub:      "cHVibGlj",
	}
	_, err := cfg.Credential(context.Background())
	require.ErrorIs(t, err, types.ErrConfiguration)

	t.Setenv("TEST_CRYPTOCAP_KEY", " a2V5 \n")
	cred, err := cfg.Credential(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.Credential{PrivateKey: "a2V5", PublicKey: "cHVibGlj"}, cred)

	red := cfg.Redacted()
	require.Equal(t, config.Secret("env:TEST_CRYPTOCAP_KEY"), red.Key)
	require.Equal(t, config.Secret("<redacted>"), red.Pub)
	require.Equal(t, config.Secret("cHVibGlj"), cfg.Pub)

	var rErr *types.Error
	_, err = (&config.Config{Key: "literal", Pub: ""}).Credential(context.Background())
	require.True(t, errors.As(err, &rErr))
	require.Equal(t, "pub", rErr.Details["field"])
}
