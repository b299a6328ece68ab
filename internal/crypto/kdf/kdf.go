package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
)

// MaxSize is the largest output HKDF-SHA256 can produce.
const MaxSize = 255 * sha256.Size

// ErrInvalidSize is returned for output sizes outside (0, MaxSize].
var ErrInvalidSize = errors.New("kdf: invalid output size")

// KDF turns a shared secret point into symmetric key material.
// The shared point itself must never be used as a key.
type KDF interface {
	Derive(shared *curves.Point, info []byte, size int) ([]byte, error)
}

// SharedSecret returns the input keying material of a shared point: its x
// coordinate, big-endian and padded to the byte length of p.
func SharedSecret(shared *curves.Point) ([]byte, error) {
	if shared == nil || shared.IsInfinity() {
		return nil, fmt.Errorf("%w: shared secret is the point at infinity", curves.ErrInvalidPoint)
	}
	return shared.X().FillBytes(make([]byte, shared.Curve().ByteLen())), nil
}

// HKDF derives keys with HKDF-SHA256 over the x coordinate of the shared point.
type HKDF struct {
	// Salt is optional; protocols use the session identifier.
	Salt []byte
}

// NewHKDF returns an HKDF with the given salt.
func NewHKDF(salt []byte) *HKDF {
	return &HKDF{Salt: append([]byte(nil), salt...)}
}

// Derive implements KDF.
func (h *HKDF) Derive(shared *curves.Point, info []byte, size int) ([]byte, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	secret, err := SharedSecret(shared)
	if err != nil {
		return nil, err
	}
	defer clear(secret)

	out := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, h.Salt, info), out); err != nil {
		return nil, fmt.Errorf("kdf: hkdf expand: %w", err)
	}
	return out, nil
}

// Fingerprint returns a short SHA-256 digest of key material, suitable for
// showing that two parties agree without printing the key itself.
func Fingerprint(key []byte) []byte {
	sum := sha256.Sum256(key)
	return sum[:8]
}
