package devnet_test

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/contract"
	"github.com/roach88/arwiki/internal/devnet"
	"github.com/roach88/arwiki/internal/keys"
	"github.com/roach88/arwiki/internal/ledger"
	"github.com/roach88/arwiki/internal/query"
	"github.com/roach88/arwiki/internal/store"
)

func seedSigner(t *testing.T) ledger.Signer {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	s, err := keys.NewEd25519Signer(seed, "")
	require.NoError(t, err)
	return s
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "dev.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoadFixture(t *testing.T) {
	f, err := devnet.LoadFixture(filepath.Join("testdata", "intro.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "intro", f.Name)
	require.Len(t, f.Transactions, 1)
	assert.Equal(t, "intro", f.Transactions[0].Ref)
	assert.Equal(t, "intro", f.Transactions[0].Tags.Get(arwiki.TagPageSlug))
	assert.True(t, f.Transactions[0].Tags.Has(arwiki.TagPageImg))
	assert.Len(t, f.Contracts, 4)
}

func TestParseFixture_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\ncontract: {}\n", "failed to parse YAML"},
		{"missing name", "contracts: {a: {}}\n", "name is required"},
		{"empty", "name: x\n", "transactions or contracts are required"},
		{"missing ref", "name: x\ntransactions:\n  - tags: []\n", "ref is required"},
		{"reserved ref", "name: x\ntransactions:\n  - ref: owner\n", "reserved"},
		{"duplicate ref", "name: x\ntransactions:\n  - ref: a\n  - ref: a\n", "duplicate ref"},
		{"empty tag name", "name: x\ntransactions:\n  - ref: a\n    tags: [{name: '', value: v}]\n", "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := devnet.ParseFixture([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeed_ListsSeededPage(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	signer := seedSigner(t)

	f, err := devnet.LoadFixture(filepath.Join("testdata", "intro.yaml"))
	require.NoError(t, err)

	res, err := devnet.Seed(ctx, st, f, signer)
	require.NoError(t, err)
	owner := ledger.Address(signer.PublicKey())
	assert.Equal(t, owner, res.Owner)
	assert.Equal(t, []string{"arwiki-admins", "arwiki-categories", "arwiki-languages", "arwiki-token"}, res.Contracts)
	introID := res.Refs["intro"]
	require.NotEmpty(t, introID)

	local := contract.NewLocal(st)
	admins, err := contract.NewAdmins(local, "arwiki-admins").AdminList(ctx)
	require.NoError(t, err)
	assert.True(t, admins.Contains(owner))

	engine := query.New(st,
		contract.NewToken(local, "arwiki-token"),
		contract.NewCategories(local, "arwiki-categories"),
	)
	cur, err := engine.ListApprovedPages(ctx, "en", true)
	require.NoError(t, err)
	pages, err := query.Collect(cur)
	require.NoError(t, err)

	require.Len(t, pages, 1)
	p := pages[0]
	assert.Equal(t, introID, p.ID)
	assert.Equal(t, "intro", p.Slug)
	assert.Equal(t, "Introduction", p.Title)
	assert.Equal(t, "general", p.Category)
	assert.Equal(t, owner, p.Sponsor)
	assert.Equal(t, owner, p.Owner)
	assert.Equal(t, int64(1), p.Start)
	assert.Equal(t, int64(1), p.Block)
}

func TestSeed_Reseeding(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	signer := seedSigner(t)
	f, err := devnet.LoadFixture(filepath.Join("testdata", "intro.yaml"))
	require.NoError(t, err)

	first, err := devnet.Seed(ctx, st, f, signer)
	require.NoError(t, err)
	second, err := devnet.Seed(ctx, st, f, signer)
	require.NoError(t, err)
	assert.Equal(t, first.Refs, second.Refs)

	height, err := st.NetworkHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), height)
}

func TestSeed_UnknownReference(t *testing.T) {
	f, err := devnet.ParseFixture([]byte("name: x\ncontracts:\n  tok:\n    pages: {en: {a: {content: '${missing}'}}}\n"))
	require.NoError(t, err)

	_, err = devnet.Seed(context.Background(), openStore(t), f, seedSigner(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown reference ${missing}")
}

func TestSeed_EmbeddedPlaceholders(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	f, err := devnet.ParseFixture([]byte(`
name: embedded
transactions:
  - ref: a
    tags: [{name: Arwiki-Page-Slug, value: a}]
contracts:
  notes:
    text: "page ${a} by ${owner}"
    count: 3
`))
	require.NoError(t, err)
	signer := seedSigner(t)

	res, err := devnet.Seed(ctx, st, f, signer)
	require.NoError(t, err)

	raw, err := st.ContractState(ctx, "notes")
	require.NoError(t, err)
	var state map[string]any
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, "page "+res.Refs["a"]+" by "+res.Owner, state["text"])
	assert.Equal(t, float64(3), state["count"])
}

func TestSeed_MissingSigner(t *testing.T) {
	f := &devnet.Fixture{Name: "x", Contracts: map[string]any{"c": map[string]any{}}}
	_, err := devnet.Seed(context.Background(), openStore(t), f, nil)
	require.Error(t, err)
}
