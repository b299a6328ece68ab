package kex

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
)

// Outcome is what the initiator holds after Initiate.
type Outcome struct {
	// Transmit is R = k·G, sent to the responder.
	Transmit *curves.Point

	// Shared is S = k·Q_B. It must only be consumed through a KDF.
	Shared *curves.Point
}

// Initiate runs the initiator side of an exchange with a responder whose
// public point is peer. The ephemeral scalar k is drawn from src (crypto/rand
// when nil) and wiped before returning; it is never reused.
func Initiate(curve *curves.Curve, peer *curves.Point, src keys.Source) (*Outcome, error) {
	if err := curve.ValidatePublic(peer); err != nil {
		return nil, fmt.Errorf("peer public key: %w", err)
	}

	k, err := keys.Draw(src, curve.N())
	if err != nil {
		return nil, err
	}
	defer keys.Wipe(k)

	return initiateWith(curve, peer, k)
}

func initiateWith(curve *curves.Curve, peer *curves.Point, k *big.Int) (*Outcome, error) {
	out := &Outcome{
		Transmit: curve.ScalarBaseMult(k),
		Shared:   peer.ScalarMult(k),
	}
	if out.Shared.IsInfinity() {
		// The order of the peer point divides k. With a prime n this needs a
		// small-order peer; otherwise another ephemeral scalar may succeed.
		return nil, fmt.Errorf("%w: shared point is the point at infinity, retry with a fresh ephemeral scalar", curves.ErrInvalidPoint)
	}
	return out, nil
}

// Respond recovers the shared point S' = d_B·R from the responder's key pair
// and the received ephemeral point R. R is validated before any scalar
// multiplication takes place.
func Respond(key *keys.KeyPair, received *curves.Point) (*curves.Point, error) {
	if err := key.Curve().ValidatePublic(received); err != nil {
		return nil, fmt.Errorf("ephemeral point: %w", err)
	}

	shared := key.Multiply(received)
	if shared.IsInfinity() {
		return nil, fmt.Errorf("ephemeral point: %w: shared secret is the point at infinity", curves.ErrInvalidPoint)
	}
	return shared, nil
}

// RespondBytes decodes R from its wire encoding and calls Respond.
func RespondBytes(key *keys.KeyPair, wire []byte) (*curves.Point, error) {
	r, err := key.Curve().ParsePoint(wire)
	if err != nil {
		return nil, fmt.Errorf("ephemeral point: %w", err)
	}
	return Respond(key, r)
}
