package keys

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
)

// KeyPair is a private scalar d in [1, n-1] and its public point Q = d·G.
//
// The private scalar is never included in the output of String, GoString or
// any fmt verb, so a KeyPair can be passed to loggers safely.
type KeyPair struct {
	curve *curves.Curve
	d     *big.Int
	pub   *curves.Point
}

// Generate draws d from src and computes Q = d·G.
func Generate(curve *curves.Curve, src Source) (*KeyPair, error) {
	d, err := Draw(src, curve.N())
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		curve: curve,
		d:     d,
		pub:   curve.ScalarBaseMult(d),
	}, nil
}

// FromScalar builds the key pair for a known private scalar.
func FromScalar(curve *curves.Curve, d *big.Int) (*KeyPair, error) {
	if d == nil || !inRange(d, curve.N()) {
		return nil, fmt.Errorf("%w: must be in [1, n-1]", ErrInvalidScalar)
	}
	d = new(big.Int).Set(d)
	return &KeyPair{
		curve: curve,
		d:     d,
		pub:   curve.ScalarBaseMult(d),
	}, nil
}

// Curve returns the curve of the key pair.
func (kp *KeyPair) Curve() *curves.Curve {
	return kp.curve
}

// Public returns the public point Q.
func (kp *KeyPair) Public() *curves.Point {
	return kp.pub
}

// D returns a copy of the private scalar.
func (kp *KeyPair) D() *big.Int {
	return new(big.Int).Set(kp.d)
}

// Multiply returns d·P without exposing d.
func (kp *KeyPair) Multiply(p *curves.Point) *curves.Point {
	return p.ScalarMult(kp.d)
}

// Destroy overwrites the private scalar. The key pair must not be used afterwards.
func (kp *KeyPair) Destroy() {
	Wipe(kp.d)
}

// String prints the curve and public point only.
func (kp *KeyPair) String() string {
	return fmt.Sprintf("KeyPair(curve: %s, public: %x)", kp.curve, kp.pub.Bytes())
}

// GoString keeps %#v from dumping the private scalar.
func (kp *KeyPair) GoString() string {
	return kp.String()
}

// Format implements fmt.Formatter so that every verb prints the redacted form.
func (kp *KeyPair) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, kp.String())
}

// Wipe zeroes the words of k in place. It is best effort: copies made
// earlier by math/big are not reachable from here.
func Wipe(k *big.Int) {
	if k == nil {
		return
	}
	words := k.Bits()
	for i := range words {
		words[i] = 0
	}
	k.SetInt64(0)
}
