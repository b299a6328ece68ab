package curves

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/smallyu/go-ecdh/internal/crypto/field"
)

var (
	// ErrInvalidCurve is returned for malformed or singular curve parameters.
	ErrInvalidCurve = errors.New("invalid curve parameters")

	// ErrInvalidPoint is returned for points that are not on the curve, or for
	// the point at infinity where a non-identity point is required.
	ErrInvalidPoint = errors.New("invalid curve point")

	// ErrUnknownCurve is returned by ByName for unregistered curve names.
	ErrUnknownCurve = errors.New("unknown curve")
)

// Params holds a copy of the parameters of a curve y² = x³ + ax + b over F_p.
type Params struct {
	Name    string   // the canonical name of the curve
	P       *big.Int // the order of the underlying field
	A       *big.Int // the linear coefficient of the curve equation
	B       *big.Int // the constant of the curve equation
	Gx, Gy  *big.Int // (x,y) of the base point
	N       *big.Int // the order of the base point
	BitSize int      // the size of the underlying field
}

// Curve is a validated short Weierstrass curve together with its base point.
// It is immutable after construction and safe for concurrent use.
type Curve struct {
	name  string
	field *field.Field
	a, b  *field.Element
	n     *big.Int
	g     *Point

	// Multiples G·2^i, built on first use of ScalarBaseMult.
	baseOnce  sync.Once
	baseTable []*Point
}

// NewCurve validates the parameters (p, a, b, G, n) and returns the curve.
//
// The coefficients a and b are reduced modulo p, so a = -3 is accepted. The
// base point coordinates must already lie in [0, p). Primality of p and n is
// not checked; parameters are expected to come from a trusted source.
func NewCurve(name string, p, a, b, gx, gy, n *big.Int) (*Curve, error) {
	if p == nil || a == nil || b == nil || gx == nil || gy == nil || n == nil {
		return nil, fmt.Errorf("%w: missing parameter", ErrInvalidCurve)
	}
	if p.Cmp(big.NewInt(3)) <= 0 {
		return nil, fmt.Errorf("%w: modulus must be greater than 3", ErrInvalidCurve)
	}
	if n.Cmp(big.NewInt(1)) <= 0 {
		return nil, fmt.Errorf("%w: order must be greater than 1", ErrInvalidCurve)
	}

	f := field.NewPrimeField(p)
	c := &Curve{
		name:  name,
		field: f,
		a:     f.NewElement(a),
		b:     f.NewElement(b),
		n:     new(big.Int).Set(n),
	}

	// 4a³ + 27b² != 0 (mod p)
	four, twentySeven := f.NewElement(big.NewInt(4)), f.NewElement(big.NewInt(27))
	disc := four.Mul(c.a.Square().Mul(c.a)).Add(twentySeven.Mul(c.b.Square()))
	if disc.IsZero() {
		return nil, fmt.Errorf("%w: singular curve (4a³+27b² ≡ 0 mod p)", ErrInvalidCurve)
	}

	if !f.Contains(gx) || !f.Contains(gy) {
		return nil, fmt.Errorf("%w: base point coordinates out of range", ErrInvalidCurve)
	}
	if !c.IsOnCurve(gx, gy) {
		return nil, fmt.Errorf("%w: base point (%s, %s) is not on the curve", ErrInvalidCurve, gx, gy)
	}
	c.g = c.affine(f.NewElement(gx), f.NewElement(gy))

	return c, nil
}

// Name returns the curve name given at construction.
func (c *Curve) Name() string {
	return c.name
}

// Field returns the coordinate field F_p.
func (c *Curve) Field() *field.Field {
	return c.field
}

// P returns a copy of the field modulus.
func (c *Curve) P() *big.Int {
	return c.field.Modulus()
}

// A returns a copy of the coefficient a, reduced modulo p.
func (c *Curve) A() *big.Int {
	return c.a.BigInt()
}

// B returns a copy of the coefficient b.
func (c *Curve) B() *big.Int {
	return c.b.BigInt()
}

// N returns a copy of the order of the base point.
func (c *Curve) N() *big.Int {
	return new(big.Int).Set(c.n)
}

// Generator returns the base point G.
func (c *Curve) Generator() *Point {
	return c.g
}

// ByteLen returns the byte length of a single encoded coordinate.
func (c *Curve) ByteLen() int {
	return c.field.ByteLen()
}

// Params returns a copy of the curve parameters.
func (c *Curve) Params() *Params {
	return &Params{
		Name:    c.name,
		P:       c.P(),
		A:       c.A(),
		B:       c.B(),
		Gx:      c.g.x.BigInt(),
		Gy:      c.g.y.BigInt(),
		N:       c.N(),
		BitSize: c.field.Modulus().BitLen(),
	}
}

// Equal reports whether both curves have identical parameters. Names are ignored.
func (c *Curve) Equal(other *Curve) bool {
	if c == other {
		return true
	}
	if other == nil {
		return false
	}
	return c.field.Equal(other.field) &&
		c.a.Equal(other.a) &&
		c.b.Equal(other.b) &&
		c.n.Cmp(other.n) == 0 &&
		c.g.x.Equal(other.g.x) &&
		c.g.y.Equal(other.g.y)
}

func (c *Curve) polynomial(x *field.Element) *field.Element {
	return x.Square().Add(c.a).Mul(x).Add(c.b)
}

// Polynomial returns x³ + ax + b mod p.
func (c *Curve) Polynomial(x *big.Int) *big.Int {
	return c.polynomial(c.field.NewElement(x)).BigInt()
}

// IsOnCurve reports whether (x, y) satisfies y² ≡ x³ + ax + b (mod p).
// Coordinates outside [0, p) are rejected.
func (c *Curve) IsOnCurve(x, y *big.Int) bool {
	if !c.field.Contains(x) || !c.field.Contains(y) {
		return false
	}
	return c.isOnCurve(c.field.NewElement(x), c.field.NewElement(y))
}

func (c *Curve) isOnCurve(x, y *field.Element) bool {
	return y.Square().Equal(c.polynomial(x))
}

// String returns the curve name.
func (c *Curve) String() string {
	if c.name == "" {
		return fmt.Sprintf("Curve(p: %s)", c.field.Modulus().Text(16))
	}
	return c.name
}
