package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toyYAML = `
curve:
  name: toy
  p: 23
  a: 1
  b: 1
  gx: 3
  gy: 10
  n: 28
log_level: debug
session_id: demo
kdf_size: 16
`

func TestParseExplicitCurve(t *testing.T) {
	cfg, err := Parse([]byte(toyYAML))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "demo", cfg.SessionID)
	assert.Equal(t, 16, cfg.KDFSize)

	c, err := cfg.BuildCurve()
	require.NoError(t, err)
	assert.Equal(t, "toy", c.Name())
	assert.True(t, c.Equal(curves.Toy23()))
}

func TestParseHexAndNegative(t *testing.T) {
	p256 := mustCurve(t, curves.NameP256).Params()
	doc := "curve:\n" +
		"  p: 0x" + p256.P.Text(16) + "\n" +
		"  a: -3\n" +
		"  b: 0x" + p256.B.Text(16) + "\n" +
		"  gx: 0x" + p256.Gx.Text(16) + "\n" +
		"  gy: 0x" + p256.Gy.Text(16) + "\n" +
		"  n: 0x" + p256.N.Text(16) + "\n"

	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	c, err := cfg.BuildCurve()
	require.NoError(t, err)
	assert.Equal(t, "custom", c.Name())
	assert.True(t, c.Equal(mustCurve(t, curves.NameP256)))
}

func TestParseNamedCurve(t *testing.T) {
	cfg, err := Parse([]byte("curve:\n  name: brainpoolP192t1\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)

	c, err := cfg.BuildCurve()
	require.NoError(t, err)
	assert.Same(t, curves.BrainpoolP192t1(), c)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	c, err := cfg.BuildCurve()
	require.NoError(t, err)
	assert.Same(t, curves.NewSecp256k1(), c)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "curve:\n  name: toy23\ncolour: blue\n"},
		{"negative kdf size", "kdf_size: -1\n"},
		{"not yaml", "curve: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestBuildCurveErrors(t *testing.T) {
	tests := []struct {
		name string
		cc   CurveConfig
		want error
	}{
		{"unknown name", CurveConfig{Name: "curve25519"}, curves.ErrUnknownCurve},
		{"base point off curve", CurveConfig{P: "23", A: "1", B: "1", Gx: "0", Gy: "5", N: "28"}, curves.ErrInvalidCurve},
		{"singular", CurveConfig{P: "23", A: "0", B: "0", Gx: "1", Gy: "1", N: "28"}, curves.ErrInvalidCurve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Curve: tt.cc}
			_, err := cfg.BuildCurve()
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := (&Config{Curve: CurveConfig{P: "23", A: "1", B: "1", Gx: "3", Gy: "ten", N: "28"}}).BuildCurve()
	assert.ErrorContains(t, err, "curve.gy")

	_, err = (&Config{Curve: CurveConfig{P: "23", A: "1", B: "1", Gx: "3", Gy: "10"}}).BuildCurve()
	assert.ErrorContains(t, err, "curve.n")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecdh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(toyYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "toy", cfg.Curve.Name)

	t.Setenv(EnvConfigPath, path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.SessionID)

	t.Setenv(EnvConfigPath, "")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrNoConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKeyFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.yaml")
	kp, err := keys.Generate(curves.BrainpoolP192t1(), nil)
	require.NoError(t, err)

	require.NoError(t, SaveKey(path, kp))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadKey(path)
	require.NoError(t, err)
	assert.Equal(t, kp.D(), loaded.D())
	assert.True(t, kp.Public().Equal(loaded.Public()))
	assert.Same(t, curves.BrainpoolP192t1(), loaded.Curve())
}

func TestLoadKeyErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, doc string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
		return path
	}

	// d = 7 gives (11, 3); (9, 16) belongs to d = 5.
	_, err := LoadKey(write("mismatch.yaml", "curve: toy23\nprivate: \"07\"\npublic: \"04090f\"\n"))
	assert.Error(t, err)
	_, err = LoadKey(write("mismatch2.yaml", "curve: toy23\nprivate: \"07\"\npublic: \"040910\"\n"))
	assert.ErrorIs(t, err, ErrKeyMismatch)

	_, err = LoadKey(write("zero.yaml", "curve: toy23\nprivate: \"00\"\n"))
	assert.ErrorIs(t, err, keys.ErrInvalidScalar)

	_, err = LoadKey(write("unknown.yaml", "curve: toy31\nprivate: \"07\"\n"))
	assert.ErrorIs(t, err, curves.ErrUnknownCurve)

	_, err = LoadKey(write("badhex.yaml", "curve: toy23\nprivate: zz\n"))
	assert.Error(t, err)

	kp, err := LoadKey(write("nopub.yaml", "curve: toy23\nprivate: \"07\"\n"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(11), kp.Public().X())
}

func TestSaveKeyRequiresNamedCurve(t *testing.T) {
	custom, err := curves.NewCurve("", big.NewInt(23), big.NewInt(1), big.NewInt(1),
		big.NewInt(3), big.NewInt(10), big.NewInt(28))
	require.NoError(t, err)
	kp, err := keys.FromScalar(custom, big.NewInt(7))
	require.NoError(t, err)

	err = SaveKey(filepath.Join(t.TempDir(), "key.yaml"), kp)
	assert.ErrorIs(t, err, curves.ErrUnknownCurve)
}

func TestParsePublic(t *testing.T) {
	c := curves.Toy23()

	p, err := ParsePublic(c, "040b03")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), p.Y())

	_, err = ParsePublic(c, "00")
	assert.ErrorIs(t, err, curves.ErrInvalidPoint)

	_, err = ParsePublic(c, "0x040b03")
	assert.Error(t, err)
}

func mustCurve(t *testing.T, name string) *curves.Curve {
	t.Helper()
	c, err := curves.ByName(name)
	require.NoError(t, err)
	return c
}
