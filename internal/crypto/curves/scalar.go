package curves

import "math/big"

// ScalarMult returns k·p using double-and-add.
//
// Bits of k are scanned least significant first: the accumulator starts at
// infinity, the addend starts at p, the addend is added whenever the current
// bit is set and doubled after every bit. Any k is accepted; callers should
// reduce k into [0, n) beforehand; for multiples of G, k and k mod n give the
// same result.
// A negative k computes |k|·(-p).
//
// The running time depends on the bits of k. This implementation is not
// suitable where timing side channels matter; a hardened version needs a
// constant-time ladder and a constant-time inverse.
func (p *Point) ScalarMult(k *big.Int) *Point {
	if k.Sign() < 0 {
		return p.Neg().ScalarMult(new(big.Int).Neg(k))
	}

	acc := p.curve.Infinity()
	if p.inf {
		return acc
	}

	addend := p
	bits := k.BitLen()
	for i := 0; i < bits; i++ {
		if k.Bit(i) == 1 {
			acc = acc.Add(addend)
		}
		if i+1 < bits {
			addend = addend.Double()
		}
	}
	return acc
}

// ScalarBaseMult returns k·G.
//
// It uses a table of G·2^i built once per curve and shared read-only, which
// saves the doublings of a plain ScalarMult. Results are identical to
// c.Generator().ScalarMult(k).
func (c *Curve) ScalarBaseMult(k *big.Int) *Point {
	if k.Sign() < 0 {
		return c.ScalarBaseMult(new(big.Int).Neg(k)).Neg()
	}

	table := c.precomputed()
	if k.BitLen() > len(table) {
		return c.g.ScalarMult(k)
	}

	acc := c.Infinity()
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			acc = acc.Add(table[i])
		}
	}
	return acc
}

func (c *Curve) precomputed() []*Point {
	c.baseOnce.Do(func() {
		size := c.n.BitLen()
		table := make([]*Point, size)
		q := c.g
		for i := 0; i < size; i++ {
			table[i] = q
			q = q.Double()
		}
		c.baseTable = table
	})
	return c.baseTable
}
