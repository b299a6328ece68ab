package ecdh

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/field"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
)

// Error kinds of the arithmetic core. Use errors.Is to test for them.
var (
	ErrInvalidCurve        = curves.ErrInvalidCurve
	ErrInvalidPoint        = curves.ErrInvalidPoint
	ErrDivisionByZero      = field.ErrDivisionByZero
	ErrInsufficientEntropy = keys.ErrInsufficientEntropy
)

// Protocol errors.
var (
	ErrInvalidMsg   = errors.New("invalid message received")
	ErrProtocolDone = errors.New("protocol already finished")
)

// Blame represents an error caused by a specific party.
// It identifies the peer that sent a forged or corrupted message.
type Blame struct {
	PartyID PartyID
	Reason  string
	Err     error
}

func (b *Blame) Error() string {
	id := "<unknown>"
	if b.PartyID != nil {
		id = b.PartyID.ID()
	}
	if b.Err != nil {
		return fmt.Sprintf("blame party %s: %s: %v", id, b.Reason, b.Err)
	}
	return fmt.Sprintf("blame party %s: %s", id, b.Reason)
}

func (b *Blame) Unwrap() error {
	return b.Err
}

// NewBlame creates a new Blame error.
func NewBlame(party PartyID, reason string, err error) *Blame {
	return &Blame{
		PartyID: party,
		Reason:  reason,
		Err:     err,
	}
}
