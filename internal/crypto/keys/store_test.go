package keys

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	s := NewStore()
	kp, err := FromScalar(curves.Toy23(), big.NewInt(7))
	require.NoError(t, err)

	id := s.Put(kp)
	assert.Equal(t, hex.EncodeToString(kp.Public().Bytes()), id)
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, kp, got)

	_, ok = s.Get("04ffff")
	assert.False(t, ok)
}

func TestStoreForgetDestroysKey(t *testing.T) {
	s := NewStore()
	kp, err := FromScalar(curves.Toy23(), big.NewInt(7))
	require.NoError(t, err)
	id := s.Put(kp)

	assert.True(t, s.Forget(id))
	assert.Zero(t, kp.D().Sign())
	assert.Equal(t, 0, s.Len())

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.False(t, s.Forget(id))
}

func TestStoreReplaceDestroysPrevious(t *testing.T) {
	s := NewStore()
	c := curves.Toy23()
	first, err := FromScalar(c, big.NewInt(7))
	require.NoError(t, err)
	second, err := FromScalar(c, big.NewInt(7))
	require.NoError(t, err)

	id := s.Put(first)
	assert.Equal(t, id, s.Put(second))
	assert.Zero(t, first.D().Sign())
	assert.Equal(t, big.NewInt(7), second.D())
	assert.Equal(t, 1, s.Len())
}
