package kex

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/kdf"
	"github.com/smallyu/go-ecdh/pkg/ecdh"
)

var log = logging.Logger("kex")

// session holds what both roles share: parameters, resolved curve and KDF,
// the current phase and, once complete, the result.
type session struct {
	role    Role
	params  *ecdh.Parameters
	curve   *curves.Curve
	kdf     kdf.KDF
	keySize int

	phase  Phase
	result *Result
}

func newSession(role Role, params *ecdh.Parameters) (*session, error) {
	if params == nil || params.PartyID == nil {
		return nil, errors.New("kex: parameters must name the local party")
	}

	curve, err := params.ResolveCurve()
	if err != nil {
		return nil, fmt.Errorf("kex: %w", err)
	}

	f, size := params.ResolveKDF()
	if size < 0 {
		return nil, fmt.Errorf("kex: %w: %d", kdf.ErrInvalidSize, size)
	}

	return &session{
		role:    role,
		params:  params,
		curve:   curve,
		kdf:     f,
		keySize: size,
		phase:   PhaseIdle,
	}, nil
}

func (s *session) advance(to Phase) {
	log.Debugf("%s %s: %s -> %s", s.role, s.params.PartyID.ID(), s.phase, to)
	s.phase = to
}

// fail moves the session to its terminal failed phase.
func (s *session) fail(err error) (ecdh.StateMachine, []ecdh.Message, error) {
	log.Warnf("%s %s: exchange failed while %s: %s", s.role, s.params.PartyID.ID(), s.phase, err)
	s.phase = PhaseFailed
	return nil, nil, err
}

func (s *session) derive(shared *curves.Point) ([]byte, error) {
	key, err := s.kdf.Derive(shared, kdfInfo, s.keySize)
	if err != nil {
		return nil, fmt.Errorf("kex: derive key: %w", err)
	}
	return key, nil
}

// Phase returns the current phase of the exchange.
func (s *session) Phase() Phase {
	return s.phase
}

// Result returns the *Result of the exchange once it is complete.
func (s *session) Result() interface{} {
	if s.phase != PhaseComplete {
		return nil
	}
	return s.result
}

func (s *session) Details() string {
	return fmt.Sprintf("KEX %s on %s: %s", s.role, s.curve, s.phase)
}

// ResultOf extracts the result of a finished state machine, or nil.
func ResultOf(sm ecdh.StateMachine) *Result {
	if sm == nil {
		return nil
	}
	res, _ := sm.Result().(*Result)
	return res
}
