package ecdh

import (
	"fmt"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/kdf"
)

// DefaultKeySize is the number of key bytes derived when Parameters.KeySize is zero.
const DefaultKeySize = 32

// PartyID represents a participant in a key establishment.
// It must be unique within a session.
type PartyID interface {
	// ID returns the unique string identifier for the party.
	ID() string

	// Moniker returns a human-readable name for the party (optional).
	Moniker() string
}

// Message is the generic interface for all protocol messages.
type Message interface {
	// Type returns a string identifier for the message type.
	Type() string

	// From returns the sender's PartyID.
	From() PartyID

	// To returns the intended recipient, nil for any listener.
	To() PartyID

	// Payload returns the serialized data of the message.
	Payload() []byte

	// RoundNumber returns the protocol round this message belongs to.
	RoundNumber() uint32
}

// StateMachine is the core engine that drives one exchange.
// It follows a functional state transition pattern.
type StateMachine interface {
	// Update applies an incoming message to the current state.
	// It returns:
	// - next: The new state machine, nil if the exchange failed. A finished
	//   machine returns itself so that Result can be read.
	// - out: A slice of messages to be sent to the peer.
	// - err: An error if the transition failed. Failures are terminal.
	Update(msg Message) (next StateMachine, out []Message, err error)

	// Result returns the final output of the exchange.
	// Returns nil if the exchange is not yet finished.
	Result() interface{}

	// Details returns metadata about the current state (e.g., "initiator: transmitted").
	Details() string
}

// Parameters holds the configuration for one key establishment session.
type Parameters struct {
	PartyID   PartyID // The identity of the local party
	Peer      PartyID // The expected counterparty, nil to accept any sender
	Curve     string  // Named curve (e.g., "secp256k1"), ignored when CustomCurve is set
	SessionID []byte  // Unique session identifier, used as KDF salt
	KeySize   int     // Bytes of derived key material, DefaultKeySize when zero
	KDF       kdf.KDF // Key derivation, HKDF-SHA256 salted with SessionID when nil

	// CustomCurve carries explicitly supplied curve parameters.
	CustomCurve *curves.Curve
}

// ResolveCurve returns the curve the session runs on.
func (p *Parameters) ResolveCurve() (*curves.Curve, error) {
	if p.CustomCurve != nil {
		return p.CustomCurve, nil
	}
	if p.Curve == "" {
		return nil, fmt.Errorf("%w: no curve configured", ErrInvalidCurve)
	}
	return curves.ByName(p.Curve)
}

// ResolveKDF returns the configured KDF and output size.
func (p *Parameters) ResolveKDF() (kdf.KDF, int) {
	size := p.KeySize
	if size == 0 {
		size = DefaultKeySize
	}
	if p.KDF != nil {
		return p.KDF, size
	}
	return kdf.NewHKDF(p.SessionID), size
}
