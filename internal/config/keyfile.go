package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
)

// ErrKeyMismatch is returned when a key file's public point does not belong
// to its private scalar.
var ErrKeyMismatch = errors.New("config: public key does not match private scalar")

// KeyFile is the on-disk form of a key pair. Only named curves are supported.
type KeyFile struct {
	Curve   string `yaml:"curve"`
	Private string `yaml:"private"`
	Public  string `yaml:"public"`
}

// SaveKey writes kp to path with mode 0600.
func SaveKey(path string, kp *keys.KeyPair) error {
	name := kp.Curve().Name()
	named, err := curves.ByName(name)
	if err != nil {
		return fmt.Errorf("config: key file needs a named curve: %w", err)
	}
	if !named.Equal(kp.Curve()) {
		return fmt.Errorf("config: %w: parameters differ from named curve %s", curves.ErrUnknownCurve, name)
	}

	d := kp.D()
	defer keys.Wipe(d)

	kf := KeyFile{
		Curve:   name,
		Private: hex.EncodeToString(d.FillBytes(make([]byte, (kp.Curve().N().BitLen()+7)/8))),
		Public:  hex.EncodeToString(kp.Public().Bytes()),
	}
	data, err := yaml.Marshal(&kf)
	if err != nil {
		return fmt.Errorf("config: encode key file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadKey reads a key file written by SaveKey.
func LoadKey(path string) (*keys.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var kf KeyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&kf); err != nil {
		return nil, fmt.Errorf("%s: decode key file: %w", path, err)
	}

	curve, err := curves.ByName(kf.Curve)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	raw, err := hex.DecodeString(kf.Private)
	if err != nil {
		return nil, fmt.Errorf("%s: private scalar: %w", path, err)
	}
	d := new(big.Int).SetBytes(raw)
	clear(raw)
	defer keys.Wipe(d)

	kp, err := keys.FromScalar(curve, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if kf.Public != "" {
		pub, err := ParsePublic(curve, kf.Public)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if !pub.Equal(kp.Public()) {
			return nil, fmt.Errorf("%s: %w", path, ErrKeyMismatch)
		}
	}
	return kp, nil
}

// ParsePublic decodes a hex SEC1 point and checks it is usable as a peer key.
func ParsePublic(curve *curves.Curve, s string) (*curves.Point, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("public point: %w", err)
	}
	p, err := curve.ParsePoint(raw)
	if err != nil {
		return nil, fmt.Errorf("public point: %w", err)
	}
	if err := curve.ValidatePublic(p); err != nil {
		return nil, fmt.Errorf("public point: %w", err)
	}
	return p, nil
}
