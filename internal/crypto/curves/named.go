package curves

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Names of the curves known to ByName.
const (
	NameToy23           = "toy23"
	NameBrainpoolP192t1 = "brainpoolP192t1"
	NameSecp256k1       = "secp256k1"
	NameP224            = "P-224"
	NameP256            = "P-256"
	NameP384            = "P-384"
	NameP521            = "P-521"
)

type namedCurve struct {
	once  sync.Once
	build func() (*Curve, error)
	curve *Curve
	err   error
}

func (nc *namedCurve) get() (*Curve, error) {
	nc.once.Do(func() {
		nc.curve, nc.err = nc.build()
	})
	return nc.curve, nc.err
}

var registry = map[string]*namedCurve{
	NameToy23:           {build: newToy23},
	NameBrainpoolP192t1: {build: newBrainpoolP192t1},
	NameSecp256k1:       {build: newSecp256k1},
	NameP224:            {build: func() (*Curve, error) { return fromNIST(elliptic.P224()) }},
	NameP256:            {build: func() (*Curve, error) { return fromNIST(elliptic.P256()) }},
	NameP384:            {build: func() (*Curve, error) { return fromNIST(elliptic.P384()) }},
	NameP521:            {build: func() (*Curve, error) { return fromNIST(elliptic.P521()) }},
}

// ByName returns the named curve. Each curve is constructed once and shared.
func ByName(name string) (*Curve, error) {
	nc, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return nc.get()
}

// Names returns the sorted names of all known curves.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustByName(name string) *Curve {
	c, err := ByName(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Toy23 returns y² = x³ + x + 1 over F_23 with G = (3, 10) of order 28.
// It is useful for tests and illustrations only.
func Toy23() *Curve {
	return mustByName(NameToy23)
}

// BrainpoolP192t1 returns the brainpoolP192t1 curve (RFC 5639).
func BrainpoolP192t1() *Curve {
	return mustByName(NameBrainpoolP192t1)
}

// NewSecp256k1 returns the secp256k1 curve.
func NewSecp256k1() *Curve {
	return mustByName(NameSecp256k1)
}

func newToy23() (*Curve, error) {
	return NewCurve(NameToy23,
		big.NewInt(23), big.NewInt(1), big.NewInt(1),
		big.NewInt(3), big.NewInt(10),
		big.NewInt(28))
}

func newBrainpoolP192t1() (*Curve, error) {
	return NewCurve(NameBrainpoolP192t1,
		hexInt("c302f41d932a36cda7a3463093d18db78fce476de1a86297"),
		hexInt("c302f41d932a36cda7a3463093d18db78fce476de1a86294"),
		hexInt("13d56ffaec78681e68f9deb43b35bec2fb68542e27897b79"),
		hexInt("3ae9e58c82f63c30282e1fe7bbf43fa72c446af6f4618129"),
		hexInt("097e2c5667c2223a902ab5ca449d0084b7e5b3de7ccc01c9"),
		hexInt("c302f41d932a36cda7a3462f9e9e916b5be8f1029ac4acc1"))
}

func newSecp256k1() (*Curve, error) {
	params := secp256k1.S256().Params()
	// y² = x³ + 7
	return NewCurve(NameSecp256k1, params.P, big.NewInt(0), params.B, params.Gx, params.Gy, params.N)
}

// fromNIST adapts a crypto/elliptic curve, all of which use a = -3.
func fromNIST(c elliptic.Curve) (*Curve, error) {
	params := c.Params()
	return NewCurve(params.Name, params.P, big.NewInt(-3), params.B, params.Gx, params.Gy, params.N)
}

func hexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: bad hex constant " + s)
	}
	return v
}
