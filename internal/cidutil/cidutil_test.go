package cidutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIDv1RawSHA256CID_Deterministic(t *testing.T) {
	a, err := CIDv1RawSHA256CID([]byte("page-1"))
	require.NoError(t, err)
	b, err := CIDv1RawSHA256CID([]byte("page-1"))
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.Equal(t, uint64(1), a.Version())
}

func TestVerifyRaw(t *testing.T) {
	id, err := CIDv1RawSHA256CID([]byte("hello"))
	require.NoError(t, err)

	ok, err := VerifyRaw(id.String(), []byte("hello"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyRaw(id.String(), []byte("other"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyRaw("not-a-cid", nil)
	assert.Error(t, err)
}
