package kex

import (
	"errors"
	"fmt"

	"github.com/smallyu/go-ecdh/internal/crypto/keys"
	"github.com/smallyu/go-ecdh/pkg/ecdh"
)

type responder struct {
	*session

	key *keys.KeyPair
}

// NewResponder prepares the responder side for the owner of key. It sends
// nothing and waits for the initiator's ephemeral point.
func NewResponder(params *ecdh.Parameters, key *keys.KeyPair) (ecdh.StateMachine, []ecdh.Message, error) {
	sess, err := newSession(RoleResponder, params)
	if err != nil {
		return nil, nil, err
	}
	if key == nil {
		return nil, nil, errors.New("kex: responder requires a key pair")
	}
	if !key.Curve().Equal(sess.curve) {
		return nil, nil, fmt.Errorf("kex: %w: key pair is on %s, session uses %s", ecdh.ErrInvalidCurve, key.Curve(), sess.curve)
	}

	return &responder{session: sess, key: key}, nil, nil
}

func (s *responder) Update(msg ecdh.Message) (ecdh.StateMachine, []ecdh.Message, error) {
	switch s.phase {
	case PhaseComplete:
		return s, nil, fmt.Errorf("%w: responder already holds a shared secret", ecdh.ErrProtocolDone)
	case PhaseFailed:
		return nil, nil, fmt.Errorf("%w: exchange failed earlier", ecdh.ErrProtocolDone)
	}

	if msg == nil {
		return s.fail(fmt.Errorf("%w: nil message", ecdh.ErrInvalidMsg))
	}

	// Ignore own messages if looped back
	if from := msg.From(); from != nil && from.ID() == s.params.PartyID.ID() {
		return s, nil, nil
	}

	if msg.RoundNumber() != roundEphemeral || msg.Type() != MsgEphemeral {
		return s.fail(fmt.Errorf("%w: got %q for round %d, expected %q for round %d",
			ecdh.ErrInvalidMsg, msg.Type(), msg.RoundNumber(), MsgEphemeral, roundEphemeral))
	}
	if err := s.checkAddressing(msg); err != nil {
		return s.fail(err)
	}
	s.advance(PhaseReceived)

	shared, err := RespondBytes(s.key, msg.Payload())
	if err != nil {
		return s.fail(ecdh.NewBlame(msg.From(), "invalid ephemeral point", err))
	}
	key, err := s.derive(shared)
	if err != nil {
		return s.fail(err)
	}
	s.advance(PhaseSharedComputed)

	s.result = &Result{
		Shared: shared,
		Key:    key,
	}
	s.advance(PhaseComplete)

	log.Infof("responder %s: recovered shared secret on %s", s.params.PartyID.ID(), s.curve)
	return s, nil, nil
}

func (s *responder) checkAddressing(msg ecdh.Message) error {
	if peer := s.params.Peer; peer != nil {
		if msg.From() == nil || msg.From().ID() != peer.ID() {
			return fmt.Errorf("%w: unexpected sender, expected %s", ecdh.ErrInvalidMsg, peer.ID())
		}
	}
	if to := msg.To(); to != nil && to.ID() != s.params.PartyID.ID() {
		return fmt.Errorf("%w: message addressed to %s", ecdh.ErrInvalidMsg, to.ID())
	}
	return nil
}
