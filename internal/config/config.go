// Package config loads curve parameters and session settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
)

// EnvConfigPath names the environment variable consulted by Load when no
// path is given.
const EnvConfigPath = "ECDH_CONFIG"

// Defaults applied to fields left empty.
const (
	DefaultCurve    = curves.NameSecp256k1
	DefaultLogLevel = "info"
)

// ErrNoConfig is returned by Load when neither a path nor EnvConfigPath is set.
var ErrNoConfig = errors.New("config: no configuration file given")

// Config is the top-level configuration document.
type Config struct {
	Curve     CurveConfig `yaml:"curve"`
	LogLevel  string      `yaml:"log_level"`
	SessionID string      `yaml:"session_id"`
	KDFSize   int         `yaml:"kdf_size"`
}

// CurveConfig selects a named curve, or supplies explicit domain parameters
// when P is set. Integers are Go literals: 0x-prefixed hex or decimal.
type CurveConfig struct {
	Name string `yaml:"name"`
	P    string `yaml:"p,omitempty"`
	A    string `yaml:"a,omitempty"`
	B    string `yaml:"b,omitempty"`
	Gx   string `yaml:"gx,omitempty"`
	Gy   string `yaml:"gy,omitempty"`
	N    string `yaml:"n,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Curve:    CurveConfig{Name: DefaultCurve},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the configuration file at path, or at $ECDH_CONFIG when path is
// empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return nil, ErrNoConfig
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Config, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a configuration document from r. Unknown keys are rejected.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if cfg.Curve.Name == "" && cfg.Curve.P == "" {
		cfg.Curve.Name = DefaultCurve
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.KDFSize < 0 {
		return nil, fmt.Errorf("config: kdf_size must not be negative, got %d", cfg.KDFSize)
	}
	return cfg, nil
}

// BuildCurve returns the curve the configuration describes. Explicit
// parameters go through curves.NewCurve and are fully validated.
func (c *Config) BuildCurve() (*curves.Curve, error) {
	cc := c.Curve
	if cc.P == "" {
		return curves.ByName(cc.Name)
	}

	var (
		vals  [6]*big.Int
		names = [6]string{"p", "a", "b", "gx", "gy", "n"}
	)
	for i, s := range []string{cc.P, cc.A, cc.B, cc.Gx, cc.Gy, cc.N} {
		v, err := parseInt(s)
		if err != nil {
			return nil, fmt.Errorf("config: curve.%s: %w", names[i], err)
		}
		vals[i] = v
	}

	name := cc.Name
	if name == "" {
		name = "custom"
	}
	return curves.NewCurve(name, vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
}

func parseInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("missing value")
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}
