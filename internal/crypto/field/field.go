package field

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDivisionByZero is returned when the inverse of the zero element is requested.
var ErrDivisionByZero = errors.New("field: division by zero")

// Field represents the prime field F_p.
// A Field is immutable once created and may be shared between goroutines.
type Field struct {
	p       *big.Int // the prime modulus
	byteLen int      // byte length of p, used for fixed-width encodings
	prime   bool     // p passed a probabilistic primality test
}

// NewPrimeField creates a new prime field with modulus p.
// A composite p is accepted, but Sqrt then reports every element as a
// non-residue.
func NewPrimeField(p *big.Int) *Field {
	return &Field{
		p:       new(big.Int).Set(p),
		byteLen: (p.BitLen() + 7) / 8,
		prime:   p.ProbablyPrime(20),
	}
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// ByteLen returns the number of bytes needed to encode any element of the field.
func (f *Field) ByteLen() int {
	return f.byteLen
}

// Contains reports whether v is a canonical representative, 0 <= v < p.
func (f *Field) Contains(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(f.p) < 0
}

// NewElement reduces v modulo p. Negative values wrap around.
func (f *Field) NewElement(v *big.Int) *Element {
	return &Element{
		value: new(big.Int).Mod(v, f.p),
		field: f,
	}
}

// Zero returns the additive identity element (0)
func (f *Field) Zero() *Element {
	return &Element{value: new(big.Int), field: f}
}

// One returns the multiplicative identity element (1)
func (f *Field) One() *Element {
	return &Element{value: big.NewInt(1), field: f}
}

// FromBytes interprets data as a big-endian integer and reduces it modulo p.
func (f *Field) FromBytes(data []byte) *Element {
	return f.NewElement(new(big.Int).SetBytes(data))
}

// Equal reports whether both fields share the same modulus.
func (f *Field) Equal(other *Field) bool {
	if f == other {
		return true
	}
	return other != nil && f.p.Cmp(other.p) == 0
}

// Element is a value of F_p in the range [0, p).
// Elements are immutable: every operation returns a new Element.
type Element struct {
	value *big.Int
	field *Field
}

func (e *Element) mustMatch(b *Element) {
	if !e.field.Equal(b.field) {
		panic("incompatible field elements")
	}
}

func (e *Element) wrap(v *big.Int) *Element {
	v.Mod(v, e.field.p)
	return &Element{value: v, field: e.field}
}

// Field returns the field e belongs to.
func (e *Element) Field() *Field {
	return e.field
}

// Add returns e + b in the field
func (e *Element) Add(b *Element) *Element {
	e.mustMatch(b)
	return e.wrap(new(big.Int).Add(e.value, b.value))
}

// Sub returns e - b in the field
func (e *Element) Sub(b *Element) *Element {
	e.mustMatch(b)
	return e.wrap(new(big.Int).Sub(e.value, b.value))
}

// Mul returns e * b in the field
func (e *Element) Mul(b *Element) *Element {
	e.mustMatch(b)
	return e.wrap(new(big.Int).Mul(e.value, b.value))
}

// Square returns e * e in the field
func (e *Element) Square() *Element {
	return e.wrap(new(big.Int).Mul(e.value, e.value))
}

// Neg returns -e in the field
func (e *Element) Neg() *Element {
	return e.wrap(new(big.Int).Neg(e.value))
}

// Exp returns e^k in the field for k >= 0.
func (e *Element) Exp(k *big.Int) *Element {
	return &Element{value: new(big.Int).Exp(e.value, k, e.field.p), field: e.field}
}

// Inv returns the multiplicative inverse of e, computed with the extended
// Euclidean algorithm. It fails with ErrDivisionByZero when e is zero, or when
// e shares a factor with a composite modulus.
func (e *Element) Inv() (*Element, error) {
	if e.IsZero() {
		return nil, ErrDivisionByZero
	}
	inv := new(big.Int).ModInverse(e.value, e.field.p)
	if inv == nil {
		return nil, fmt.Errorf("%w: %s has no inverse modulo %s", ErrDivisionByZero, e.value, e.field.p)
	}
	return &Element{value: inv, field: e.field}, nil
}

// Sqrt returns a square root of e, or false if e is not a quadratic residue.
// It always returns false when the modulus is not prime.
func (e *Element) Sqrt() (*Element, bool) {
	// ModSqrt may not terminate on a composite modulus.
	if !e.field.prime || e.field.p.Bit(0) == 0 {
		return nil, false
	}
	r := new(big.Int).ModSqrt(e.value, e.field.p)
	if r == nil {
		return nil, false
	}
	// ModSqrt assumes a prime modulus; double-check the result.
	root := &Element{value: r, field: e.field}
	if !root.Square().Equal(e) {
		return nil, false
	}
	return root, true
}

// IsZero returns true if e equals zero
func (e *Element) IsZero() bool {
	return e.value.Sign() == 0
}

// Equal returns true if e equals b. Elements of different fields are never equal.
func (e *Element) Equal(b *Element) bool {
	if b == nil || !e.field.Equal(b.field) {
		return false
	}
	return e.value.Cmp(b.value) == 0
}

// BigInt returns a copy of the canonical value of e.
func (e *Element) BigInt() *big.Int {
	return new(big.Int).Set(e.value)
}

// Bytes returns the big-endian encoding of e, left-padded to the field's ByteLen.
func (e *Element) Bytes() []byte {
	return e.value.FillBytes(make([]byte, e.field.byteLen))
}

// String returns the hexadecimal value of e.
func (e *Element) String() string {
	return "0x" + e.value.Text(16)
}
