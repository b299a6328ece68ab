package keys

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
)

var (
	// ErrInsufficientEntropy is returned when a Source cannot produce a scalar.
	ErrInsufficientEntropy = errors.New("insufficient entropy")

	// ErrInvalidScalar is returned for private scalars outside [1, n-1].
	ErrInvalidScalar = errors.New("invalid private scalar")
)

// Source produces secret scalars.
type Source interface {
	// Scalar returns an unpredictable integer uniformly distributed in [1, n-1].
	Scalar(n *big.Int) (*big.Int, error)
}

// DefaultSource draws scalars from crypto/rand.
var DefaultSource Source = NewReaderSource(rand.Reader)

type readerSource struct {
	r io.Reader
}

// NewReaderSource returns a Source reading randomness from r.
func NewReaderSource(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) Scalar(n *big.Int) (*big.Int, error) {
	if n == nil || n.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("%w: order must be at least 2", ErrInsufficientEntropy)
	}

	// Generate random integer in [0, n-2], then shift into [1, n-1]
	max := new(big.Int).Sub(n, big.NewInt(1))
	k, err := rand.Int(s.r, max)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientEntropy, err)
	}
	return k.Add(k, big.NewInt(1)), nil
}

// FixedSource replays a fixed sequence of scalars. It exists for tests and
// reproducible demos and must never be used for real keys.
type FixedSource struct {
	mu      sync.Mutex
	scalars []*big.Int
	next    int
}

// NewFixedSource returns a Source that yields the given scalars in order.
func NewFixedSource(scalars ...*big.Int) *FixedSource {
	copied := make([]*big.Int, len(scalars))
	for i, s := range scalars {
		copied[i] = new(big.Int).Set(s)
	}
	return &FixedSource{scalars: copied}
}

// Scalar returns the next scalar of the sequence. It fails once the sequence
// is exhausted, or when the next scalar is not in [1, n-1].
func (s *FixedSource) Scalar(n *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.scalars) {
		return nil, fmt.Errorf("%w: fixed source exhausted after %d scalars", ErrInsufficientEntropy, len(s.scalars))
	}
	k := s.scalars[s.next]
	s.next++

	if !inRange(k, n) {
		return nil, fmt.Errorf("%w: fixed scalar #%d outside [1, n-1]", ErrInsufficientEntropy, s.next)
	}
	return new(big.Int).Set(k), nil
}

// Remaining returns how many scalars are left.
func (s *FixedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scalars) - s.next
}

// Draw returns a scalar from src, checked to lie in [1, n-1]. A nil src
// means DefaultSource.
func Draw(src Source, n *big.Int) (*big.Int, error) {
	if src == nil {
		src = DefaultSource
	}
	k, err := src.Scalar(n)
	if err != nil {
		return nil, err
	}
	if !inRange(k, n) {
		return nil, fmt.Errorf("%w: source returned a scalar outside [1, n-1]", ErrInsufficientEntropy)
	}
	return k, nil
}

func inRange(k, n *big.Int) bool {
	return k.Sign() > 0 && k.Cmp(n) < 0
}
