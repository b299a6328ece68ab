package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecdh/internal/config"
	"github.com/smallyu/go-ecdh/internal/crypto/curves"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCurvesCommand(t *testing.T) {
	out, err := execute(t, "curves")
	require.NoError(t, err)
	for _, name := range curves.Names() {
		assert.Contains(t, out, name)
	}
}

func TestKeygenAndExchange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bob.yaml")

	out, err := execute(t, "keygen", "--curve", curves.NameBrainpoolP192t1, "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "public: 04")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "curve: "+curves.NameBrainpoolP192t1)

	out, err = execute(t, "exchange", "--key", path)
	require.NoError(t, err)
	assert.Contains(t, out, "curve:       "+curves.NameBrainpoolP192t1)
	assert.Contains(t, out, "agreement:   true")

	// The private scalar never reaches the terminal.
	kf, err := config.LoadKey(path)
	require.NoError(t, err)
	assert.NotContains(t, out, kf.D().Text(16))
}

func TestExchangeWithConfig(t *testing.T) {
	bp := curves.BrainpoolP192t1().Params()
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := fmt.Sprintf("curve:\n  p: %#x\n  a: %#x\n  b: %#x\n  gx: %#x\n  gy: %#x\n  n: %#x\nsession_id: cli\nkdf_size: 16\n",
		bp.P, bp.A, bp.B, bp.Gx, bp.Gy, bp.N)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "exchange", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "agreement:   true")
	assert.Contains(t, out, "curve:       custom")
}

func TestBenchCommand(t *testing.T) {
	out, err := execute(t, "bench", "--curve", curves.NameP256, "-n", "8", "-w", "4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "8 exchanges on P-256"), out)
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "exchange", "--curve", "curve25519")
	assert.ErrorIs(t, err, curves.ErrUnknownCurve)

	_, err = execute(t, "bench", "-n", "0")
	assert.Error(t, err)

	_, err = execute(t, "bench", "-w", "0")
	assert.Error(t, err)

	_, err = execute(t, "curves", "--log-level", "chatty")
	assert.Error(t, err)
}
