package kex

import (
	"fmt"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
	"github.com/smallyu/go-ecdh/pkg/ecdh"
)

type initiator struct {
	*session

	peer *curves.Point
	src  keys.Source
}

// NewInitiator starts an exchange with the responder whose public point is
// peer. The initiator needs no input from the responder, so the whole side
// runs immediately: the returned machine is complete and the single returned
// message carries the ephemeral point R for the responder.
func NewInitiator(params *ecdh.Parameters, peer *curves.Point, src keys.Source) (ecdh.StateMachine, []ecdh.Message, error) {
	sess, err := newSession(RoleInitiator, params)
	if err != nil {
		return nil, nil, err
	}

	s := &initiator{
		session: sess,
		peer:    peer,
		src:     src,
	}
	return s.run()
}

func (s *initiator) run() (ecdh.StateMachine, []ecdh.Message, error) {
	// Forged or corrupted peer points never reach scalar multiplication.
	if err := s.curve.ValidatePublic(s.peer); err != nil {
		return s.fail(fmt.Errorf("peer public key: %w", err))
	}

	// 1. Ephemeral scalar k in [1, n-1]
	k, err := keys.Draw(s.src, s.curve.N())
	if err != nil {
		return s.fail(err)
	}
	defer keys.Wipe(k)
	s.advance(PhaseEphemeralGenerated)

	// 2. R = k·G and S = k·Q_B
	out, err := initiateWith(s.curve, s.peer, k)
	if err != nil {
		return s.fail(err)
	}
	key, err := s.derive(out.Shared)
	if err != nil {
		return s.fail(err)
	}
	s.advance(PhaseSharedComputed)

	// 3. Transmit R
	msg := &KexMessage{
		FromParty:  s.params.PartyID,
		ToParty:    s.params.Peer,
		Data:       out.Transmit.Bytes(),
		TypeString: MsgEphemeral,
		RoundNum:   roundEphemeral,
	}
	s.advance(PhaseTransmitted)

	s.result = &Result{
		Shared:   out.Shared,
		Transmit: out.Transmit,
		Key:      key,
	}
	s.advance(PhaseComplete)

	log.Infof("initiator %s: sent ephemeral point on %s", s.params.PartyID.ID(), s.curve)
	return s, []ecdh.Message{msg}, nil
}

// Update rejects every message: the initiator is complete once created.
func (s *initiator) Update(msg ecdh.Message) (ecdh.StateMachine, []ecdh.Message, error) {
	return s, nil, fmt.Errorf("%w: initiator expects no messages", ecdh.ErrProtocolDone)
}
