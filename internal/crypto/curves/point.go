package curves

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecdh/internal/crypto/field"
)

// Point is either the point at infinity or an affine point (x, y) on a Curve.
// Points are immutable; every operation returns a new Point.
type Point struct {
	curve *Curve
	inf   bool
	x, y  *field.Element // nil for the point at infinity
}

// Infinity returns the identity element O of the curve group.
func (c *Curve) Infinity() *Point {
	return &Point{curve: c, inf: true}
}

// NewPoint returns the affine point (x, y) after checking that it lies on the curve.
func (c *Curve) NewPoint(x, y *big.Int) (*Point, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: missing coordinate", ErrInvalidPoint)
	}
	if !c.IsOnCurve(x, y) {
		return nil, fmt.Errorf("%w: (%s, %s) is not on %s", ErrInvalidPoint, x, y, c)
	}
	return c.affine(c.field.NewElement(x), c.field.NewElement(y)), nil
}

func (c *Curve) affine(x, y *field.Element) *Point {
	return &Point{curve: c, x: x, y: y}
}

// Curve returns the curve the point belongs to.
func (p *Point) Curve() *Curve {
	return p.curve
}

// IsInfinity reports whether p is the identity element.
func (p *Point) IsInfinity() bool {
	return p.inf
}

// X returns a copy of the x coordinate, or nil for the point at infinity.
func (p *Point) X() *big.Int {
	if p.inf {
		return nil
	}
	return p.x.BigInt()
}

// Y returns a copy of the y coordinate, or nil for the point at infinity.
func (p *Point) Y() *big.Int {
	if p.inf {
		return nil
	}
	return p.y.BigInt()
}

func (p *Point) mustMatch(q *Point) {
	if q == nil {
		panic("curves: nil point")
	}
	if !p.curve.Equal(q.curve) {
		panic("curves: points belong to different curves")
	}
}

// Add returns p + q under the group law.
func (p *Point) Add(q *Point) *Point {
	p.mustMatch(q)

	switch {
	case p.inf:
		return q
	case q.inf:
		return p
	}

	if p.x.Equal(q.x) {
		switch {
		case p.y.Equal(q.y.Neg()):
			// q = -p, including the case y = 0 where p is its own inverse.
			return p.curve.Infinity()
		case p.y.Equal(q.y):
			return p.Double()
		default:
			panic(fmt.Errorf("curves: %w: equal x with unrelated y", field.ErrDivisionByZero))
		}
	}

	// λ = (y_q - y_p) / (x_q - x_p)
	lambda := slope(q.y.Sub(p.y), q.x.Sub(p.x))
	return p.curve.chord(lambda, p, q)
}

// Double returns 2p.
func (p *Point) Double() *Point {
	if p.inf {
		return p
	}
	if p.y.IsZero() {
		return p.curve.Infinity()
	}

	f := p.curve.field
	// λ = (3x² + a) / 2y
	num := f.NewElement(big.NewInt(3)).Mul(p.x.Square()).Add(p.curve.a)
	den := p.y.Add(p.y)
	return p.curve.chord(slope(num, den), p, p)
}

// chord computes the third intersection of the line with slope lambda through
// p and q, reflected over the x axis.
func (c *Curve) chord(lambda *field.Element, p, q *Point) *Point {
	// x_r = λ² - x_p - x_q
	xr := lambda.Square().Sub(p.x).Sub(q.x)
	// y_r = λ(x_p - x_r) - y_p
	yr := lambda.Mul(p.x.Sub(xr)).Sub(p.y)
	return c.affine(xr, yr)
}

// slope divides num by den. A zero denominator means the case dispatch in
// Add or Double is broken, so it panics rather than returning an error.
func slope(num, den *field.Element) *field.Element {
	inv, err := den.Inv()
	if err != nil {
		panic(fmt.Errorf("curves: slope: %w", err))
	}
	return num.Mul(inv)
}

// Neg returns -p = (x, -y). The negation of infinity is infinity.
func (p *Point) Neg() *Point {
	if p.inf {
		return p
	}
	return p.curve.affine(p.x, p.y.Neg())
}

// Sub returns p - q.
func (p *Point) Sub(q *Point) *Point {
	p.mustMatch(q)
	return p.Add(q.Neg())
}

// Equal reports whether p and q are the same point on the same curve.
func (p *Point) Equal(q *Point) bool {
	if q == nil || !p.curve.Equal(q.curve) {
		return false
	}
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.x.Equal(q.x) && p.y.Equal(q.y)
}

// IsOnCurve reports whether p satisfies the curve equation. Infinity is on every curve.
func (p *Point) IsOnCurve() bool {
	if p.inf {
		return true
	}
	return p.curve.isOnCurve(p.x, p.y)
}

// String returns a string representation of the point
func (p *Point) String() string {
	if p.inf {
		return "Point(∞)"
	}
	return fmt.Sprintf("Point(x: %x, y: %x)", p.x.BigInt(), p.y.BigInt())
}
