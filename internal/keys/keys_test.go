package keys

import (
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arwiki/internal/ledger"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func TestEd25519_SignVerify(t *testing.T) {
	f, err := Generate(TypeEd25519, "", &deterministicReader{})
	require.NoError(t, err)

	signer, err := FromFile(f)
	require.NoError(t, err)
	assert.Equal(t, TypeEd25519, signer.KeyType())

	tx, err := ledger.Sign(ledger.Draft{Data: []byte("hello")}, signer)
	require.NoError(t, err)

	digest, err := ledger.SigningDigest(tx)
	require.NoError(t, err)
	require.NoError(t, Verify(tx.KeyType, tx.OwnerKey, digest, tx.Signature))

	digest[0] ^= 0xff
	assert.Error(t, Verify(tx.KeyType, tx.OwnerKey, digest, tx.Signature))
}

func TestDilithium3_SignVerify_SHA3(t *testing.T) {
	f, err := Generate(TypeDilithium3, ledger.DigestSHA3256, &deterministicReader{})
	require.NoError(t, err)

	signer, err := FromFile(f)
	require.NoError(t, err)
	assert.Equal(t, ledger.DigestSHA3256, signer.DigestAlg())

	tx, err := ledger.Sign(ledger.Draft{Data: []byte("hello")}, signer)
	require.NoError(t, err)
	assert.Equal(t, ledger.DigestSHA3256, tx.DigestAlg)

	digest, err := ledger.SigningDigest(tx)
	require.NoError(t, err)
	require.NoError(t, Verify(TypeDilithium3, tx.OwnerKey, digest, tx.Signature))
}

func TestSameSeedSameOwner(t *testing.T) {
	f, err := Generate(TypeEd25519, "", rand.Reader)
	require.NoError(t, err)

	a, err := FromFile(f)
	require.NoError(t, err)
	b, err := FromFile(f)
	require.NoError(t, err)

	assert.Equal(t, ledger.Address(a.PublicKey()), ledger.Address(b.PublicKey()))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.yaml")
	f, err := Generate("", "", &deterministicReader{b: 7})
	require.NoError(t, err)
	assert.Equal(t, TypeEd25519, f.Type)

	require.NoError(t, Save(path, f))
	signer, err := Load(path)
	require.NoError(t, err)

	orig, err := FromFile(f)
	require.NoError(t, err)
	assert.Equal(t, orig.PublicKey(), signer.PublicKey())
}

func TestFromFile_Errors(t *testing.T) {
	_, err := FromFile(File{Type: "rsa", Seed: "00"})
	assert.Error(t, err)

	_, err = FromFile(File{Type: TypeEd25519, Seed: "zz"})
	assert.Error(t, err)

	_, err = FromFile(File{Type: TypeEd25519, Seed: "0011"})
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}

func TestVerify_UnknownType(t *testing.T) {
	assert.Error(t, Verify("rsa", nil, nil, nil))
	assert.Error(t, Verify(TypeEd25519, []byte{1, 2}, nil, nil))
}
