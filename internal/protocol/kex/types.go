package kex

import (
	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/pkg/ecdh"
)

// MsgEphemeral is the type of the only protocol message: the initiator's
// ephemeral point R = k·G in wire encoding.
const MsgEphemeral = "KexEphemeral"

const roundEphemeral uint32 = 1

// kdfInfo binds derived keys to this protocol.
var kdfInfo = []byte("go-ecdh/kex/v1")

// Role is the side a party plays in an exchange.
type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "initiator"
	case RoleResponder:
		return "responder"
	default:
		return "unknown"
	}
}

// Phase is the state of one exchange.
//
// Initiator: Idle -> EphemeralGenerated -> SharedComputed -> Transmitted -> Complete.
// Responder: Idle -> Received -> SharedComputed -> Complete.
// Any failure moves to Failed, which is terminal.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEphemeralGenerated
	PhaseSharedComputed
	PhaseTransmitted
	PhaseReceived
	PhaseComplete
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEphemeralGenerated:
		return "ephemeral generated"
	case PhaseSharedComputed:
		return "shared computed"
	case PhaseTransmitted:
		return "transmitted"
	case PhaseReceived:
		return "received"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the output of a completed exchange.
type Result struct {
	// Shared is S on the initiator side and S' on the responder side.
	Shared *curves.Point

	// Transmit is the ephemeral point R. Only set for the initiator.
	Transmit *curves.Point

	// Key is the output of the session KDF over Shared.
	Key []byte
}

// KexMessage is a concrete implementation of ecdh.Message for key establishment.
type KexMessage struct {
	FromParty  ecdh.PartyID
	ToParty    ecdh.PartyID
	Data       []byte
	TypeString string
	RoundNum   uint32
}

func (m *KexMessage) Type() string {
	return m.TypeString
}

func (m *KexMessage) From() ecdh.PartyID {
	return m.FromParty
}

func (m *KexMessage) To() ecdh.PartyID {
	return m.ToParty
}

func (m *KexMessage) Payload() []byte {
	return m.Data
}

func (m *KexMessage) RoundNumber() uint32 {
	return m.RoundNum
}
