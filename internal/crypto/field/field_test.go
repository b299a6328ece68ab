package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var p23 = big.NewInt(23) // small prime field for test consistency

func TestNewElementReduces(t *testing.T) {
	f := NewPrimeField(p23)

	testCases := []struct {
		name string
		in   int64
		want int64
	}{
		{"zero", 0, 0},
		{"in range", 7, 7},
		{"modulus", 23, 0},
		{"above modulus", 30, 7},
		{"negative", -1, 22},
		{"large negative", -47, 22},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := f.NewElement(big.NewInt(tc.in))
			assert.Equal(t, big.NewInt(tc.want), e.BigInt())
		})
	}
}

func TestArithmetic(t *testing.T) {
	f := NewPrimeField(p23)
	a := f.NewElement(big.NewInt(20))
	b := f.NewElement(big.NewInt(9))

	assert.Equal(t, big.NewInt(6), a.Add(b).BigInt())   // 29 mod 23
	assert.Equal(t, big.NewInt(11), a.Sub(b).BigInt())  // 11
	assert.Equal(t, big.NewInt(12), b.Sub(a).BigInt())  // -11 mod 23
	assert.Equal(t, big.NewInt(19), a.Mul(b).BigInt())  // 180 mod 23
	assert.Equal(t, big.NewInt(9), a.Square().BigInt()) // 400 mod 23
	assert.Equal(t, big.NewInt(3), a.Neg().BigInt())
	assert.True(t, f.Zero().Neg().IsZero())

	// Operands are left untouched.
	assert.Equal(t, big.NewInt(20), a.BigInt())
	assert.Equal(t, big.NewInt(9), b.BigInt())
}

func TestInverse(t *testing.T) {
	f := NewPrimeField(p23)

	for v := int64(1); v < 23; v++ {
		e := f.NewElement(big.NewInt(v))
		inv, err := e.Inv()
		require.NoError(t, err)
		assert.True(t, e.Mul(inv).Equal(f.One()), "inverse of %d", v)

		// Fermat: a^(p-2) agrees with the Euclidean inverse.
		fermat := e.Exp(big.NewInt(21))
		assert.True(t, fermat.Equal(inv), "fermat inverse of %d", v)
	}
}

func TestInverseOfZero(t *testing.T) {
	f := NewPrimeField(p23)

	_, err := f.Zero().Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = f.NewElement(big.NewInt(46)).Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestInverseCompositeModulus(t *testing.T) {
	f := NewPrimeField(big.NewInt(15))

	_, err := f.NewElement(big.NewInt(5)).Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestSqrt(t *testing.T) {
	f := NewPrimeField(p23)

	residues := map[int64]bool{}
	for v := int64(0); v < 23; v++ {
		residues[(v*v)%23] = true
	}

	for v := int64(0); v < 23; v++ {
		e := f.NewElement(big.NewInt(v))
		root, ok := e.Sqrt()
		assert.Equal(t, residues[v], ok, "residuosity of %d", v)
		if ok {
			assert.True(t, root.Square().Equal(e))
		}
	}
}

func TestSqrtCompositeModulus(t *testing.T) {
	f := NewPrimeField(big.NewInt(49))

	// 4 = 2² and 2 = 10² mod 49, yet neither is reported as a residue.
	for _, v := range []int64{0, 1, 2, 4, 48} {
		_, ok := f.NewElement(big.NewInt(v)).Sqrt()
		assert.False(t, ok, "sqrt of %d mod 49", v)
	}
}

func TestEqualAcrossFields(t *testing.T) {
	f1 := NewPrimeField(p23)
	f2 := NewPrimeField(big.NewInt(29))
	f3 := NewPrimeField(big.NewInt(23))

	a := f1.NewElement(big.NewInt(5))
	assert.False(t, a.Equal(f2.NewElement(big.NewInt(5))))
	assert.True(t, a.Equal(f3.NewElement(big.NewInt(5))))
	assert.False(t, a.Equal(nil))

	assert.Panics(t, func() {
		a.Add(f2.One())
	})
}

func TestBytesFixedWidth(t *testing.T) {
	p, _ := new(big.Int).SetString("c302f41d932a36cda7a3463093d18db78fce476de1a86297", 16)
	f := NewPrimeField(p)
	assert.Equal(t, 24, f.ByteLen())

	e := f.NewElement(big.NewInt(0x0102))
	b := e.Bytes()
	assert.Len(t, b, 24)
	assert.Equal(t, byte(0x01), b[22])
	assert.Equal(t, byte(0x02), b[23])
	assert.True(t, f.FromBytes(b).Equal(e))
	assert.Equal(t, "0x102", e.String())
}

func TestContains(t *testing.T) {
	f := NewPrimeField(p23)

	assert.True(t, f.Contains(big.NewInt(0)))
	assert.True(t, f.Contains(big.NewInt(22)))
	assert.False(t, f.Contains(big.NewInt(23)))
	assert.False(t, f.Contains(big.NewInt(-1)))
	assert.False(t, f.Contains(nil))
}
