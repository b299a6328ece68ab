package curves

import (
	"fmt"
	"math/big"
)

// Wire tags of an encoded point.
const (
	TagInfinity     byte = 0x00
	TagCompressedY0 byte = 0x02
	TagCompressedY1 byte = 0x03
	TagUncompressed byte = 0x04
)

// Bytes returns the uncompressed encoding of p: a single 0x00 byte for the
// point at infinity, otherwise 0x04 || X || Y with both coordinates big-endian
// and left-padded to the byte length of the field modulus.
func (p *Point) Bytes() []byte {
	if p.inf {
		return []byte{TagInfinity}
	}

	byteLen := p.curve.ByteLen()
	ret := make([]byte, 1+2*byteLen)
	ret[0] = TagUncompressed
	copy(ret[1:1+byteLen], p.x.Bytes())
	copy(ret[1+byteLen:], p.y.Bytes())
	return ret
}

// BytesCompressed returns 0x02 or 0x03 (parity of y) followed by X. The
// point at infinity is encoded as 0x00.
func (p *Point) BytesCompressed() []byte {
	if p.inf {
		return []byte{TagInfinity}
	}

	ret := make([]byte, 1+p.curve.ByteLen())
	ret[0] = TagCompressedY0 | byte(p.y.BigInt().Bit(0))
	copy(ret[1:], p.x.Bytes())
	return ret
}

// ParsePoint decodes a point produced by Bytes or BytesCompressed and checks
// that it lies on the curve. The point at infinity is accepted here; use
// ValidatePublic to reject it where a non-identity point is required.
func (c *Curve) ParsePoint(data []byte) (*Point, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty encoding", ErrInvalidPoint)
	}

	byteLen := c.ByteLen()
	switch data[0] {
	case TagInfinity:
		if len(data) != 1 {
			return nil, fmt.Errorf("%w: trailing bytes after infinity tag", ErrInvalidPoint)
		}
		return c.Infinity(), nil

	case TagUncompressed:
		if len(data) != 1+2*byteLen {
			return nil, fmt.Errorf("%w: uncompressed point has length %d, want %d", ErrInvalidPoint, len(data), 1+2*byteLen)
		}
		x := new(big.Int).SetBytes(data[1 : 1+byteLen])
		y := new(big.Int).SetBytes(data[1+byteLen:])
		return c.NewPoint(x, y)

	case TagCompressedY0, TagCompressedY1:
		if len(data) != 1+byteLen {
			return nil, fmt.Errorf("%w: compressed point has length %d, want %d", ErrInvalidPoint, len(data), 1+byteLen)
		}
		x := new(big.Int).SetBytes(data[1:])
		if !c.field.Contains(x) {
			return nil, fmt.Errorf("%w: x coordinate out of range", ErrInvalidPoint)
		}
		// y² = x³ + ax + b
		y, ok := c.polynomial(c.field.NewElement(x)).Sqrt()
		if !ok {
			return nil, fmt.Errorf("%w: no point with x = %s", ErrInvalidPoint, x)
		}
		if y.IsZero() && data[0]&1 == 1 {
			return nil, fmt.Errorf("%w: odd y tag for a point with y = 0", ErrInvalidPoint)
		}
		if byte(y.BigInt().Bit(0)) != data[0]&1 {
			y = y.Neg()
		}
		return c.NewPoint(x, y.BigInt())

	default:
		return nil, fmt.Errorf("%w: unknown tag 0x%02x", ErrInvalidPoint, data[0])
	}
}

// ValidatePublic checks that p can be used as a peer's public or ephemeral
// point on curve c: it must belong to c, must not be the point at infinity and
// must satisfy the curve equation.
func (c *Curve) ValidatePublic(p *Point) error {
	if p == nil {
		return fmt.Errorf("%w: nil point", ErrInvalidPoint)
	}
	if !c.Equal(p.curve) {
		return fmt.Errorf("%w: point belongs to %s, not %s", ErrInvalidPoint, p.curve, c)
	}
	if p.inf {
		return fmt.Errorf("%w: point at infinity", ErrInvalidPoint)
	}
	if !p.IsOnCurve() {
		return fmt.Errorf("%w: point is not on %s", ErrInvalidPoint, c)
	}
	return nil
}
