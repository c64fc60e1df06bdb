package ledger

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arwiki/internal/arwiki"
)

type testSigner struct {
	priv ed25519.PrivateKey
	alg  string
}

func newTestSigner(alg string) *testSigner {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	return &testSigner{priv: ed25519.NewKeyFromSeed(seed), alg: alg}
}

func (s *testSigner) KeyType() string   { return "ed25519" }
func (s *testSigner) PublicKey() []byte { return s.priv.Public().(ed25519.PublicKey) }
func (s *testSigner) DigestAlg() string { return s.alg }
func (s *testSigner) Sign(d []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, d), nil
}

func TestTagsGet(t *testing.T) {
	tags := Tags{
		{Name: "Arwiki-Page-Slug", Value: "intro"},
		{Name: "Arwiki-Page-Slug", Value: "second"},
		{Name: "arwiki-page-title", Value: "lowercase"},
	}

	assert.Equal(t, "intro", tags.Get("Arwiki-Page-Slug"))
	assert.Equal(t, "", tags.Get("Arwiki-Page-Title"), "tag names match exactly")
	assert.True(t, tags.Has("arwiki-page-title"))
	assert.False(t, tags.Has("missing"))
}

func TestExtractPage_AllTags(t *testing.T) {
	tx := Transaction{
		ID:    "T1",
		Owner: "owner-1",
		Block: 42,
		Tags: Tags{
			{Name: arwiki.TagPageSlug, Value: "intro"},
			{Name: arwiki.TagPageTitle, Value: "Intro"},
			{Name: arwiki.TagPageCategory, Value: "general"},
			{Name: arwiki.TagPageLang, Value: "en"},
			{Name: arwiki.TagPageValue, Value: "..."},
			{Name: arwiki.TagPageImg, Value: "img-tx"},
		},
	}

	page := ExtractPage(tx)

	assert.Equal(t, arwiki.PageTransaction{
		ID: "T1", Title: "Intro", Slug: "intro", Category: "general",
		Language: "en", Value: "...", Img: "img-tx", Owner: "owner-1", Block: 42,
	}, page)
}

func TestExtractPage_MissingTagsDefaultEmpty(t *testing.T) {
	page := ExtractPage(Transaction{ID: "T9", Tags: Tags{{Name: arwiki.TagPageSlug, Value: "only-slug"}}})

	assert.Equal(t, "only-slug", page.Slug)
	assert.Empty(t, page.Title)
	assert.Empty(t, page.Category)
	assert.Empty(t, page.Language)
	assert.Empty(t, page.Value)
	assert.Empty(t, page.Img)
}

func TestBatches(t *testing.T) {
	ids := make([]string, 250)
	for i := range ids {
		ids[i] = string(rune('a' + i%26))
	}

	batches := Batches(ids, MaxIDsPerQuery)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 100)
	assert.Len(t, batches[2], 50)
	assert.Equal(t, ids[200:], batches[2])

	assert.Nil(t, Batches(nil, 10))
	assert.Len(t, Batches(ids[:3], 0), 1)
}

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"sorted keys", map[string]any{"b": int64(1), "a": "x"}, `{"a":"x","b":1}`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"nested", map[string]any{"list": []any{true, false, 3}}, `{"list":[true,false,3]}`},
		{"string map", map[string]string{"function": "stop", "slug": "intro"}, `{"function":"stop","slug":"intro"}`},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
		{"nfc", "e\u0301", "\"\u00e9\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": nil})
	assert.Error(t, err)

	_, err = MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestSign_DerivesIDAndVerifies(t *testing.T) {
	signer := newTestSigner(DigestSHA256)
	draft := Draft{Tags: Tags{{Name: "Service", Value: "ArWiki"}}, Data: []byte("page-1")}

	tx, err := Sign(draft, signer)
	require.NoError(t, err)

	assert.Equal(t, TxID(tx.Signature), tx.ID)
	assert.Equal(t, Address(signer.PublicKey()), tx.Owner)

	digest, err := SigningDigest(tx)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(signer.PublicKey(), digest, tx.Signature))

	// Tampering with a tag invalidates the signature.
	tx.Tags[0].Value = "Other"
	digest, err = SigningDigest(tx)
	require.NoError(t, err)
	assert.False(t, ed25519.Verify(signer.PublicKey(), digest, tx.Signature))
}

func TestSign_DoesNotAliasDraft(t *testing.T) {
	draft := Draft{Tags: Tags{{Name: "A", Value: "1"}}}
	tx, err := Sign(draft, newTestSigner(""))
	require.NoError(t, err)

	draft.Tags[0].Value = "changed"
	assert.Equal(t, "1", tx.Tags[0].Value)
	assert.Equal(t, DigestSHA256, tx.DigestAlg)
}

func TestDigest(t *testing.T) {
	a, err := Digest(DigestSHA256, []byte("x"))
	require.NoError(t, err)
	b, err := Digest(DigestSHA3256, []byte("x"))
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a, b)

	_, err = Digest("md5", []byte("x"))
	assert.Error(t, err)
}

func TestSign_NilSigner(t *testing.T) {
	_, err := Sign(Draft{}, nil)
	assert.Error(t, err)
}
